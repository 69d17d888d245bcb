package platform

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-process Platform holding a single window of tabs, a flat
// bookmark folder and a closed-tab stack. It records every call, and any
// operation can be made to fail, which makes it the default test double.
type Memory struct {
	mu       sync.Mutex
	tabs     []*Tab
	activeID int
	nextID   int
	contents map[int]string

	bookmarks []*BookmarkNode
	closed    []ClosedSession

	calls    []string
	failures map[string]error
}

// MemoryTab seeds a tab in a Memory platform.
type MemoryTab struct {
	Title   string
	URL     string
	Content string
}

// NewMemory creates a Memory platform with the given tabs. The first tab is
// active.
func NewMemory(tabs ...MemoryTab) *Memory {
	m := &Memory{
		nextID:   1,
		contents: make(map[int]string),
		failures: make(map[string]error),
	}
	for _, seed := range tabs {
		tab := m.addTab(seed.Title, seed.URL)
		m.contents[tab.ID] = seed.Content
	}
	if len(m.tabs) > 0 {
		m.activeID = m.tabs[0].ID
	}
	return m
}

// FailOn makes the named operation return err until cleared with a nil err.
func (m *Memory) FailOn(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, op)
		return
	}
	m.failures[op] = err
}

// Calls returns the names of the operations invoked so far.
func (m *Memory) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// Activate sets the active tab by index without recording a call.
func (m *Memory) Activate(index int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if index >= 0 && index < len(m.tabs) {
		m.activeID = m.tabs[index].ID
	}
}

// Tab returns a snapshot of the tab with the given ID.
func (m *Memory) Tab(id int) (Tab, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.indexOf(id)
	if idx < 0 {
		return Tab{}, false
	}
	return m.snapshot(idx), true
}

// PushClosed adds an entry to the recently closed list.
func (m *Memory) PushClosed(entry ClosedSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = append([]ClosedSession{entry}, m.closed...)
}

func (m *Memory) record(op string) error {
	m.calls = append(m.calls, op)
	return m.failures[op]
}

func (m *Memory) addTab(title, url string) *Tab {
	tab := &Tab{ID: m.nextID, Title: title, URL: url}
	m.nextID++
	m.tabs = append(m.tabs, tab)
	return tab
}

func (m *Memory) indexOf(id int) int {
	for i, tab := range m.tabs {
		if tab.ID == id {
			return i
		}
	}
	return -1
}

func (m *Memory) snapshot(idx int) Tab {
	tab := *m.tabs[idx]
	tab.Index = idx
	tab.Active = tab.ID == m.activeID
	return tab
}

// ActiveTab implements Tabs.
func (m *Memory) ActiveTab(ctx context.Context) (*Tab, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("ActiveTab"); err != nil {
		return nil, err
	}
	idx := m.indexOf(m.activeID)
	if idx < 0 {
		return nil, ErrNoActiveTab
	}
	tab := m.snapshot(idx)
	return &tab, nil
}

// QueryTabs implements Tabs.
func (m *Memory) QueryTabs(ctx context.Context) ([]Tab, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("QueryTabs"); err != nil {
		return nil, err
	}
	out := make([]Tab, len(m.tabs))
	for i := range m.tabs {
		out[i] = m.snapshot(i)
	}
	return out, nil
}

// ActivateTab implements Tabs.
func (m *Memory) ActivateTab(ctx context.Context, tabID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("ActivateTab"); err != nil {
		return err
	}
	if m.indexOf(tabID) < 0 {
		return fmt.Errorf("activate tab %d: %w", tabID, ErrTabNotFound)
	}
	m.activeID = tabID
	return nil
}

// ReloadTab implements Tabs.
func (m *Memory) ReloadTab(ctx context.Context, tabID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("ReloadTab"); err != nil {
		return err
	}
	if m.indexOf(tabID) < 0 {
		return fmt.Errorf("reload tab %d: %w", tabID, ErrTabNotFound)
	}
	return nil
}

// CloseTab implements Tabs. The tab is pushed onto the recently closed list
// and the tab to its right, or else its left, becomes active.
func (m *Memory) CloseTab(ctx context.Context, tabID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("CloseTab"); err != nil {
		return err
	}
	idx := m.indexOf(tabID)
	if idx < 0 {
		return fmt.Errorf("close tab %d: %w", tabID, ErrTabNotFound)
	}

	closed := *m.tabs[idx]
	m.closed = append([]ClosedSession{{SessionID: uuid.NewString(), Tab: &closed}}, m.closed...)
	m.tabs = append(m.tabs[:idx], m.tabs[idx+1:]...)
	delete(m.contents, tabID)

	if m.activeID == tabID {
		m.activeID = 0
		switch {
		case idx < len(m.tabs):
			m.activeID = m.tabs[idx].ID
		case len(m.tabs) > 0:
			m.activeID = m.tabs[len(m.tabs)-1].ID
		}
	}
	return nil
}

// CreateTab implements Tabs. The new tab is appended and activated.
func (m *Memory) CreateTab(ctx context.Context, url string) (*Tab, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("CreateTab"); err != nil {
		return nil, err
	}
	tab := m.addTab(url, url)
	m.activeID = tab.ID
	snap := m.snapshot(len(m.tabs) - 1)
	return &snap, nil
}

// SetMuted implements Tabs.
func (m *Memory) SetMuted(ctx context.Context, tabID int, muted bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("SetMuted"); err != nil {
		return err
	}
	idx := m.indexOf(tabID)
	if idx < 0 {
		return fmt.Errorf("mute tab %d: %w", tabID, ErrTabNotFound)
	}
	m.tabs[idx].Muted = muted
	return nil
}

// BookmarkTree implements Bookmarks. All bookmarks live in one root folder.
func (m *Memory) BookmarkTree(ctx context.Context) ([]*BookmarkNode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("BookmarkTree"); err != nil {
		return nil, err
	}
	root := &BookmarkNode{ID: "0", Title: "Bookmarks"}
	for _, b := range m.bookmarks {
		node := *b
		root.Children = append(root.Children, &node)
	}
	return []*BookmarkNode{root}, nil
}

// SearchBookmarks implements Bookmarks.
func (m *Memory) SearchBookmarks(ctx context.Context, url string) ([]*BookmarkNode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("SearchBookmarks"); err != nil {
		return nil, err
	}
	var out []*BookmarkNode
	for _, b := range m.bookmarks {
		if b.URL == url {
			node := *b
			out = append(out, &node)
		}
	}
	return out, nil
}

// CreateBookmark implements Bookmarks.
func (m *Memory) CreateBookmark(ctx context.Context, title, url string) (*BookmarkNode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("CreateBookmark"); err != nil {
		return nil, err
	}
	node := &BookmarkNode{ID: uuid.NewString(), ParentID: "0", Title: title, URL: url}
	m.bookmarks = append(m.bookmarks, node)
	out := *node
	return &out, nil
}

// RemoveBookmark implements Bookmarks.
func (m *Memory) RemoveBookmark(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("RemoveBookmark"); err != nil {
		return err
	}
	for i, b := range m.bookmarks {
		if b.ID == id {
			m.bookmarks = append(m.bookmarks[:i], m.bookmarks[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("remove bookmark %s: %w", id, ErrBookmarkNotFound)
}

// RecentlyClosed implements Sessions.
func (m *Memory) RecentlyClosed(ctx context.Context, max int) ([]ClosedSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("RecentlyClosed"); err != nil {
		return nil, err
	}
	n := len(m.closed)
	if max > 0 && max < n {
		n = max
	}
	return append([]ClosedSession(nil), m.closed[:n]...), nil
}

// RestoreSession implements Sessions. A restored tab is appended and activated.
func (m *Memory) RestoreSession(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("RestoreSession"); err != nil {
		return err
	}
	for i, entry := range m.closed {
		if entry.SessionID != sessionID {
			continue
		}
		m.closed = append(m.closed[:i], m.closed[i+1:]...)
		if entry.Tab != nil {
			tab := m.addTab(entry.Tab.Title, entry.Tab.URL)
			m.activeID = tab.ID
		}
		return nil
	}
	return fmt.Errorf("restore %s: %w", sessionID, ErrSessionNotFound)
}

// ExtractContent implements Scripting.
func (m *Memory) ExtractContent(ctx context.Context, tabID int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("ExtractContent"); err != nil {
		return "", err
	}
	if m.indexOf(tabID) < 0 {
		return "", fmt.Errorf("extract tab %d: %w", tabID, ErrTabNotFound)
	}
	return m.contents[tabID], nil
}
