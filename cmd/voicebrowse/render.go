package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/mohsinkhan85090/VoiceBrowse/pkg/types"
)

var (
	// Styles
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	bookmarkTitleStyle = lipgloss.NewStyle().
				Bold(true)

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")).
		Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

// renderer writes events to a terminal or as JSON lines.
type renderer struct {
	w      io.Writer
	json   bool
	styled bool
}

func newRenderer(w io.Writer, jsonOutput bool) *renderer {
	return &renderer{w: w, json: jsonOutput, styled: !jsonOutput && isTerminal(w)}
}

// isTerminal reports whether w is a terminal file.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Render writes one event.
func (r *renderer) Render(event *types.Event) error {
	if event == nil {
		return nil
	}
	if r.json {
		data, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
		_, err = fmt.Fprintln(r.w, string(data))
		return err
	}
	_, err := fmt.Fprintln(r.w, r.format(event))
	return err
}

func (r *renderer) style(s lipgloss.Style, text string) string {
	if !r.styled {
		return text
	}
	return s.Render(text)
}

// format renders event as human readable text.
func (r *renderer) format(event *types.Event) string {
	switch event.Type {
	case types.EventTypeBookmarks:
		if len(event.Bookmarks) == 0 {
			return r.style(mutedStyle, "No bookmarks.")
		}
		var b strings.Builder
		b.WriteString(r.style(headerStyle, fmt.Sprintf("Bookmarks (%d)", len(event.Bookmarks))))
		for _, bm := range event.Bookmarks {
			title := bm.Title
			if title == "" {
				title = "(untitled)"
			}
			fmt.Fprintf(&b, "\n  %s  %s", r.style(bookmarkTitleStyle, title), r.style(urlStyle, bm.URL))
		}
		return b.String()

	case types.EventTypeBookmarkStatus:
		if bookmarked, _ := event.Bookmarked(); bookmarked {
			return r.style(okStyle, "This page is bookmarked.")
		}
		return r.style(mutedStyle, "This page is not bookmarked.")

	case types.EventTypeTranscriptBatch:
		var b strings.Builder
		b.WriteString(r.style(headerStyle, fmt.Sprintf("Transcript (%d)", len(event.Transcript))))
		for _, frag := range event.Transcript {
			stamp := "--:--:--"
			if !frag.Timestamp.IsZero() {
				stamp = frag.Timestamp.Format("15:04:05")
			}
			fmt.Fprintf(&b, "\n  %s %s", r.style(mutedStyle, stamp), frag.Text)
		}
		return b.String()

	default:
		return r.style(promptStyle, "› "+event.Prompt)
	}
}
