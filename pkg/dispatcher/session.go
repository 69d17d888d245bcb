package dispatcher

import (
	"sync"

	"github.com/mohsinkhan85090/VoiceBrowse/pkg/types"
)

// Session is the mutable state shared across commands: the chat mode flag,
// the last extracted page content and the transcript fragments received
// since the last flush. The active tab is never cached here.
type Session struct {
	mu          sync.Mutex
	chatMode    bool
	pageContent string
	transcript  []types.TranscriptFragment
}

// NewSession returns an empty session with chat mode off.
func NewSession() *Session {
	return &Session{}
}

// ChatMode reports whether unmatched commands go to the chat handler.
func (s *Session) ChatMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chatMode
}

// SetChatMode sets the chat mode flag.
func (s *Session) SetChatMode(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chatMode = on
}

// PageContent returns the cached content of the active page.
func (s *Session) PageContent() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageContent
}

// SetPageContent replaces the cached page content.
func (s *Session) SetPageContent(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pageContent = content
}

// Append records a transcript fragment.
func (s *Session) Append(fragment types.TranscriptFragment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = append(s.transcript, fragment)
}

// Transcript returns a copy of the fragments recorded since the last flush.
func (s *Session) Transcript() []types.TranscriptFragment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.TranscriptFragment(nil), s.transcript...)
}

// deactivate turns chat mode off and drains the recorded fragments in one step.
func (s *Session) deactivate() []types.TranscriptFragment {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chatMode = false
	out := s.transcript
	s.transcript = nil
	return out
}
