package bookmarks

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mohsinkhan85090/VoiceBrowse/pkg/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "bookmarks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpen_SeedsRootFolders(t *testing.T) {
	store := openTestStore(t)

	tree, err := store.BookmarkTree(context.Background())
	require.NoError(t, err)
	require.Len(t, tree, 2)
	assert.Equal(t, "Bookmarks Bar", tree[0].Title)
	assert.Equal(t, "Other Bookmarks", tree[1].Title)
	assert.True(t, tree[0].IsFolder())
	assert.Empty(t, platform.FlattenBookmarks(tree))
}

func TestOpen_InMemory(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	_, err = store.CreateBookmark(context.Background(), "Go", "https://go.dev")
	require.NoError(t, err)

	found, err := store.SearchBookmarks(context.Background(), "https://go.dev")
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestStore_CreateAndFlatten(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	first, err := store.CreateBookmark(ctx, "Go", "https://go.dev")
	require.NoError(t, err)
	_, err = store.CreateBookmark(ctx, "Docs", "https://pkg.go.dev")
	require.NoError(t, err)

	assert.Equal(t, RootOtherID, first.ParentID)
	assert.NotEmpty(t, first.ID)

	tree, err := store.BookmarkTree(ctx)
	require.NoError(t, err)

	flat := platform.FlattenBookmarks(tree)
	require.Len(t, flat, 2)
	assert.Equal(t, "Go", flat[0].Title)
	assert.Equal(t, "https://pkg.go.dev", flat[1].URL)
}

func TestStore_CreateRequiresURL(t *testing.T) {
	store := openTestStore(t)
	_, err := store.CreateBookmark(context.Background(), "empty", "")
	assert.Error(t, err)
}

func TestStore_SearchAndRemove(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	for i := 0; i < 2; i++ {
		_, err := store.CreateBookmark(ctx, "Go", "https://go.dev")
		require.NoError(t, err)
	}
	_, err := store.CreateBookmark(ctx, "Other", "https://example.com")
	require.NoError(t, err)

	found, err := store.SearchBookmarks(ctx, "https://go.dev")
	require.NoError(t, err)
	require.Len(t, found, 2)

	for _, b := range found {
		require.NoError(t, store.RemoveBookmark(ctx, b.ID))
	}

	found, err = store.SearchBookmarks(ctx, "https://go.dev")
	require.NoError(t, err)
	assert.Empty(t, found)

	err = store.RemoveBookmark(ctx, "missing")
	assert.ErrorIs(t, err, platform.ErrBookmarkNotFound)
}

func TestStore_RootFoldersProtected(t *testing.T) {
	store := openTestStore(t)
	assert.Error(t, store.RemoveBookmark(context.Background(), RootBarID))
	assert.Error(t, store.RemoveBookmark(context.Background(), RootOtherID))
}

func TestStore_Persists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "bookmarks.db")

	store, err := Open(path)
	require.NoError(t, err)
	_, err = store.CreateBookmark(ctx, "Go", "https://go.dev")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	tree, err := reopened.BookmarkTree(ctx)
	require.NoError(t, err)
	require.Len(t, tree, 2, "root folders are not duplicated")
	assert.Len(t, platform.FlattenBookmarks(tree), 1)
}

func TestBuildTree_OrphansBecomeRoots(t *testing.T) {
	nodes := []*platform.BookmarkNode{
		{ID: "a", Title: "A"},
		{ID: "b", ParentID: "a", Title: "B", URL: "https://b.example"},
		{ID: "c", ParentID: "missing", Title: "C", URL: "https://c.example"},
	}

	roots := buildTree(nodes)
	require.Len(t, roots, 2)
	assert.Equal(t, "a", roots[0].ID)
	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, "c", roots[1].ID)
}
