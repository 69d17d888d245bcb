package config

import (
	"fmt"
	"net/url"
	"sync"

	"github.com/gobwas/glob"
)

const (
	// SectionIDBrowser is the identifier for the browser settings section
	SectionIDBrowser = "browser"

	// DefaultNewTabURL is opened by the "go to new tab" command.
	DefaultNewTabURL = "https://www.google.com"

	// DefaultMinAnalyzeLength is the page length, in characters, that must be
	// exceeded before a page is summarized.
	DefaultMinAnalyzeLength = 100
)

// DefaultContentExclude lists URL patterns whose pages are never extracted.
var DefaultContentExclude = []string{"about:*", "chrome://*", "chrome-extension://*"}

// BrowserSection holds platform and dispatcher settings.
type BrowserSection struct {
	NewTabURL        string
	Headless         bool
	MinAnalyzeLength int
	ContentExclude   []string
	BookmarksDB      string // empty keeps bookmarks in memory
	mu               sync.RWMutex
}

// NewBrowserSection creates a browser section with default settings.
func NewBrowserSection() *BrowserSection {
	s := &BrowserSection{}
	s.Reset()
	return s
}

// ID returns the section identifier.
func (s *BrowserSection) ID() string {
	return SectionIDBrowser
}

// Title returns the section title.
func (s *BrowserSection) Title() string {
	return "Browser Settings"
}

// Description returns the section description.
func (s *BrowserSection) Description() string {
	return "New tab page, headless mode, analyze threshold, URL patterns skipped by page extraction, bookmark database path."
}

// Data returns the current configuration data.
func (s *BrowserSection) Data() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	exclude := make([]any, len(s.ContentExclude))
	for i, p := range s.ContentExclude {
		exclude[i] = p
	}
	return map[string]any{
		"new_tab_url":        s.NewTabURL,
		"headless":           s.Headless,
		"min_analyze_length": s.MinAnalyzeLength,
		"content_exclude":    exclude,
		"bookmarks_db":       s.BookmarksDB,
	}
}

// SetData updates the configuration from the provided data. Numbers may
// arrive as float64 after a JSON round trip.
func (s *BrowserSection) SetData(data map[string]any) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := data["new_tab_url"].(string); ok {
		s.NewTabURL = v
	}
	if v, ok := data["headless"].(bool); ok {
		s.Headless = v
	}
	switch v := data["min_analyze_length"].(type) {
	case int:
		s.MinAnalyzeLength = v
	case float64:
		s.MinAnalyzeLength = int(v)
	case nil:
	default:
		return fmt.Errorf("min_analyze_length must be a number, got %T", v)
	}
	switch v := data["content_exclude"].(type) {
	case []string:
		s.ContentExclude = append([]string(nil), v...)
	case []any:
		patterns := make([]string, 0, len(v))
		for _, item := range v {
			p, ok := item.(string)
			if !ok {
				return fmt.Errorf("content_exclude entries must be strings, got %T", item)
			}
			patterns = append(patterns, p)
		}
		s.ContentExclude = patterns
	case nil:
	default:
		return fmt.Errorf("content_exclude must be a list, got %T", v)
	}
	if v, ok := data["bookmarks_db"].(string); ok {
		s.BookmarksDB = v
	}
	return nil
}

// Validate checks the new tab URL, the threshold and every exclude pattern.
func (s *BrowserSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.NewTabURL != "" {
		u, err := url.Parse(s.NewTabURL)
		if err != nil || u.Scheme == "" {
			return fmt.Errorf("invalid new_tab_url %q", s.NewTabURL)
		}
	}
	if s.MinAnalyzeLength < 0 {
		return fmt.Errorf("min_analyze_length must not be negative")
	}
	for _, p := range s.ContentExclude {
		if _, err := glob.Compile(p); err != nil {
			return fmt.Errorf("invalid content_exclude pattern %q: %w", p, err)
		}
	}
	return nil
}

// Reset restores defaults.
func (s *BrowserSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.NewTabURL = DefaultNewTabURL
	s.Headless = false
	s.MinAnalyzeLength = DefaultMinAnalyzeLength
	s.ContentExclude = append([]string(nil), DefaultContentExclude...)
	s.BookmarksDB = ""
}

// GetNewTabURL returns the new tab URL, falling back to the default.
func (s *BrowserSection) GetNewTabURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.NewTabURL == "" {
		return DefaultNewTabURL
	}
	return s.NewTabURL
}

// IsHeadless reports whether the browser should launch without a window.
func (s *BrowserSection) IsHeadless() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Headless
}

// GetMinAnalyzeLength returns the analyze threshold.
func (s *BrowserSection) GetMinAnalyzeLength() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.MinAnalyzeLength
}

// GetContentExclude returns a copy of the exclude patterns.
func (s *BrowserSection) GetContentExclude() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.ContentExclude...)
}

// GetBookmarksDB returns the bookmark database path.
func (s *BrowserSection) GetBookmarksDB() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.BookmarksDB
}
