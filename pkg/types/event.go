package types

import (
	"encoding/json"
	"time"
)

// EventType defines the type of event emitted to the presentation surface.
type EventType string

const (
	EventTypePrompt          EventType = "prompt"           // EventTypePrompt carries a human-readable status message.
	EventTypeBookmarks       EventType = "bookmarks"        // EventTypeBookmarks carries the flattened bookmark list.
	EventTypeBookmarkStatus  EventType = "bookmark_status"  // EventTypeBookmarkStatus reports whether the current tab is bookmarked.
	EventTypeTranscriptBatch EventType = "transcript_batch" // EventTypeTranscriptBatch flushes accumulated transcript fragments.
)

// Event is a single outbound message. Exactly one of the payload fields is
// populated, selected by Type.
type Event struct {
	// Prompt is the status text for prompt events.
	Prompt string `json:"prompt,omitempty"`

	// Bookmarks is the result of a bookmark enumeration.
	Bookmarks []BookmarkEntry `json:"bookmarks,omitempty"`

	// IsBookmarked is set for bookmark status events.
	IsBookmarked *bool `json:"isBookmarked,omitempty"`

	// Transcript holds the flushed fragments for transcript batch events.
	Transcript []TranscriptFragment `json:"transcript,omitempty"`

	// Type indicates the kind of event. It is not part of the wire shape.
	Type EventType `json:"-"`
}

// BookmarkEntry is a flattened bookmark as reported to the UI.
type BookmarkEntry struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// TranscriptFragment is one piece of text produced by the speech engine.
type TranscriptFragment struct {
	Text      string    `json:"text" yaml:"text"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// NewPromptEvent creates a status message event.
func NewPromptEvent(prompt string) *Event {
	return &Event{
		Type:   EventTypePrompt,
		Prompt: prompt,
	}
}

// NewBookmarksEvent creates a bookmark enumeration event. A nil slice is
// reported as an empty list.
func NewBookmarksEvent(bookmarks []BookmarkEntry) *Event {
	if bookmarks == nil {
		bookmarks = []BookmarkEntry{}
	}
	return &Event{
		Type:      EventTypeBookmarks,
		Bookmarks: bookmarks,
	}
}

// NewBookmarkStatusEvent creates a bookmark check event.
func NewBookmarkStatusEvent(isBookmarked bool) *Event {
	return &Event{
		Type:         EventTypeBookmarkStatus,
		IsBookmarked: &isBookmarked,
	}
}

// NewTranscriptBatchEvent creates a transcript flush event holding a copy of fragments.
func NewTranscriptBatchEvent(fragments []TranscriptFragment) *Event {
	batch := make([]TranscriptFragment, len(fragments))
	copy(batch, fragments)
	return &Event{
		Type:       EventTypeTranscriptBatch,
		Transcript: batch,
	}
}

// MarshalJSON encodes the event. Bookmark enumerations always carry the
// bookmarks array, even when it is empty.
func (e Event) MarshalJSON() ([]byte, error) {
	if e.Type == EventTypeBookmarks {
		bookmarks := e.Bookmarks
		if bookmarks == nil {
			bookmarks = []BookmarkEntry{}
		}
		return json.Marshal(struct {
			Bookmarks []BookmarkEntry `json:"bookmarks"`
		}{Bookmarks: bookmarks})
	}

	type plain Event
	return json.Marshal(plain(e))
}

// IsPrompt returns true if this is a status message event.
func (e *Event) IsPrompt() bool {
	return e.Type == EventTypePrompt
}

// Bookmarked returns the bookmark status and whether the event carries one.
func (e *Event) Bookmarked() (bool, bool) {
	if e.IsBookmarked == nil {
		return false, false
	}
	return *e.IsBookmarked, true
}
