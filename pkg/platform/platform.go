// Package platform defines the browser capabilities the dispatcher calls into.
//
// The capabilities are split by concern so that adapters can be composed:
// the Playwright browser provides Tabs, Sessions and Scripting while the
// SQLite store provides Bookmarks. Every operation takes a context and
// reports success or failure; none of them retry.
package platform

import (
	"context"
	"errors"
)

var (
	// ErrNoActiveTab is returned when no tab is active in the current window.
	ErrNoActiveTab = errors.New("no active tab")

	// ErrTabNotFound is returned when a tab ID does not exist.
	ErrTabNotFound = errors.New("tab not found")

	// ErrBookmarkNotFound is returned when a bookmark ID does not exist.
	ErrBookmarkNotFound = errors.New("bookmark not found")

	// ErrSessionNotFound is returned when a closed session cannot be restored.
	ErrSessionNotFound = errors.New("closed session not found")
)

// Tab is a snapshot of one browser tab.
type Tab struct {
	ID     int
	Index  int
	Title  string
	URL    string
	Active bool
	Muted  bool
}

// BookmarkNode is a node of the bookmark tree. Folders have no URL.
type BookmarkNode struct {
	ID       string
	ParentID string
	Title    string
	URL      string
	Children []*BookmarkNode
}

// IsFolder returns true if the node has no URL.
func (n *BookmarkNode) IsFolder() bool {
	return n.URL == ""
}

// ClosedSession is an entry in the recently closed list. Tab is nil when the
// entry is a whole window rather than a single tab.
type ClosedSession struct {
	SessionID string
	Tab       *Tab
}

// Tabs queries and mutates tabs of the current window.
type Tabs interface {
	// ActiveTab returns the active tab of the current window.
	ActiveTab(ctx context.Context) (*Tab, error)

	// QueryTabs returns all tabs of the current window in index order.
	QueryTabs(ctx context.Context) ([]Tab, error)

	ActivateTab(ctx context.Context, tabID int) error
	ReloadTab(ctx context.Context, tabID int) error
	CloseTab(ctx context.Context, tabID int) error
	CreateTab(ctx context.Context, url string) (*Tab, error)
	SetMuted(ctx context.Context, tabID int, muted bool) error
}

// Bookmarks manages the bookmark tree.
type Bookmarks interface {
	// BookmarkTree returns the root nodes of the tree.
	BookmarkTree(ctx context.Context) ([]*BookmarkNode, error)

	// SearchBookmarks returns the bookmarks whose URL equals url.
	SearchBookmarks(ctx context.Context, url string) ([]*BookmarkNode, error)

	CreateBookmark(ctx context.Context, title, url string) (*BookmarkNode, error)
	RemoveBookmark(ctx context.Context, id string) error
}

// Sessions exposes recently closed tabs.
type Sessions interface {
	// RecentlyClosed returns up to max entries, most recent first.
	RecentlyClosed(ctx context.Context, max int) ([]ClosedSession, error)

	RestoreSession(ctx context.Context, sessionID string) error
}

// Scripting runs the content extraction routine against a tab.
type Scripting interface {
	ExtractContent(ctx context.Context, tabID int) (string, error)
}

// Platform is the full capability set.
type Platform interface {
	Tabs
	Bookmarks
	Sessions
	Scripting
}

// Compose assembles a Platform from separately implemented capabilities.
func Compose(tabs Tabs, bookmarks Bookmarks, sessions Sessions, scripting Scripting) Platform {
	return &composite{Tabs: tabs, Bookmarks: bookmarks, Sessions: sessions, Scripting: scripting}
}

type composite struct {
	Tabs
	Bookmarks
	Sessions
	Scripting
}

// FlattenBookmarks walks the tree depth first and returns every node with a URL.
func FlattenBookmarks(nodes []*BookmarkNode) []*BookmarkNode {
	var out []*BookmarkNode
	var walk func([]*BookmarkNode)
	walk = func(nodes []*BookmarkNode) {
		for _, node := range nodes {
			if node.URL != "" {
				out = append(out, node)
			}
			if len(node.Children) > 0 {
				walk(node.Children)
			}
		}
	}
	walk(nodes)
	return out
}
