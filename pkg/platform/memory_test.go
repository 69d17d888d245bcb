package platform

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededMemory() *Memory {
	return NewMemory(
		MemoryTab{Title: "Go", URL: "https://go.dev"},
		MemoryTab{Title: "YouTube", URL: "https://youtube.com"},
		MemoryTab{Title: "Mail", URL: "https://mail.example.com"},
	)
}

func TestMemory_ActiveTab(t *testing.T) {
	ctx := context.Background()
	m := seededMemory()

	tab, err := m.ActiveTab(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, tab.Index)
	assert.Equal(t, "Go", tab.Title)
	assert.True(t, tab.Active)

	m.Activate(2)
	tab, err = m.ActiveTab(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, tab.Index)
}

func TestMemory_NoTabs(t *testing.T) {
	_, err := NewMemory().ActiveTab(context.Background())
	assert.ErrorIs(t, err, ErrNoActiveTab)
}

func TestMemory_CloseAndRestore(t *testing.T) {
	ctx := context.Background()
	m := seededMemory()

	require.NoError(t, m.CloseTab(ctx, 1))

	tabs, err := m.QueryTabs(ctx)
	require.NoError(t, err)
	require.Len(t, tabs, 2)
	assert.Equal(t, "YouTube", tabs[0].Title)
	assert.True(t, tabs[0].Active, "tab to the right becomes active")

	closed, err := m.RecentlyClosed(ctx, 1)
	require.NoError(t, err)
	require.Len(t, closed, 1)
	require.NotNil(t, closed[0].Tab)
	assert.Equal(t, "https://go.dev", closed[0].Tab.URL)

	require.NoError(t, m.RestoreSession(ctx, closed[0].SessionID))
	active, err := m.ActiveTab(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://go.dev", active.URL)

	closed, err = m.RecentlyClosed(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, closed)

	assert.ErrorIs(t, m.RestoreSession(ctx, "missing"), ErrSessionNotFound)
}

func TestMemory_CloseLastTabActivatesLeft(t *testing.T) {
	ctx := context.Background()
	m := seededMemory()
	m.Activate(2)

	require.NoError(t, m.CloseTab(ctx, 3))
	tab, err := m.ActiveTab(ctx)
	require.NoError(t, err)
	assert.Equal(t, "YouTube", tab.Title)
}

func TestMemory_Bookmarks(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	created, err := m.CreateBookmark(ctx, "Go", "https://go.dev")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	found, err := m.SearchBookmarks(ctx, "https://go.dev")
	require.NoError(t, err)
	require.Len(t, found, 1)

	tree, err := m.BookmarkTree(ctx)
	require.NoError(t, err)
	flat := FlattenBookmarks(tree)
	require.Len(t, flat, 1)
	assert.Equal(t, "Go", flat[0].Title)

	require.NoError(t, m.RemoveBookmark(ctx, created.ID))
	assert.ErrorIs(t, m.RemoveBookmark(ctx, created.ID), ErrBookmarkNotFound)
}

func TestMemory_FailOn(t *testing.T) {
	ctx := context.Background()
	m := seededMemory()
	boom := errors.New("boom")

	m.FailOn("SetMuted", boom)
	assert.ErrorIs(t, m.SetMuted(ctx, 1, true), boom)

	m.FailOn("SetMuted", nil)
	require.NoError(t, m.SetMuted(ctx, 1, true))
	tab, ok := m.Tab(1)
	require.True(t, ok)
	assert.True(t, tab.Muted)

	assert.Equal(t, []string{"SetMuted", "SetMuted"}, m.Calls())
}

func TestFlattenBookmarks_Nested(t *testing.T) {
	tree := []*BookmarkNode{
		{ID: "root", Title: "root", Children: []*BookmarkNode{
			{ID: "a", Title: "A", URL: "https://a.example"},
			{ID: "folder", Title: "Folder", Children: []*BookmarkNode{
				{ID: "b", Title: "B", URL: "https://b.example"},
			}},
			{ID: "c", Title: "C", URL: "https://c.example"},
		}},
	}

	flat := FlattenBookmarks(tree)
	var ids []string
	for _, n := range flat {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
	assert.True(t, tree[0].IsFolder())
}

func TestCompose(t *testing.T) {
	m := seededMemory()
	p := Compose(m, m, m, m)

	tab, err := p.ActiveTab(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Go", tab.Title)
}
