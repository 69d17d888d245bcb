// Package bookmarks stores the bookmark tree in SQLite.
//
// Nodes live in one table keyed by UUID. Folders have a NULL url. New
// bookmarks are created in the "Other Bookmarks" root folder, which is
// seeded along with "Bookmarks Bar" the first time a database is opened.
package bookmarks

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/mohsinkhan85090/VoiceBrowse/pkg/platform"
	_ "modernc.org/sqlite"
)

const (
	// RootBarID is the ID of the "Bookmarks Bar" root folder.
	RootBarID = "root-bar"

	// RootOtherID is the ID of the "Other Bookmarks" root folder.
	RootOtherID = "root-other"
)

const schema = `
CREATE TABLE IF NOT EXISTS bookmarks (
	id         TEXT PRIMARY KEY,
	parent_id  TEXT,
	title      TEXT NOT NULL,
	url        TEXT,
	position   INTEGER NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_bookmarks_url ON bookmarks(url);
CREATE INDEX IF NOT EXISTS idx_bookmarks_parent ON bookmarks(parent_id);
INSERT OR IGNORE INTO bookmarks (id, parent_id, title, url, position) VALUES
	('root-bar', NULL, 'Bookmarks Bar', NULL, 0),
	('root-other', NULL, 'Other Bookmarks', NULL, 1);
`

// Store implements platform.Bookmarks on a SQLite database.
type Store struct {
	db *sql.DB
}

var _ platform.Bookmarks = (*Store)(nil)

// Open opens or creates the database at path. ":memory:" opens a private
// in-memory database.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return nil, fmt.Errorf("failed to create bookmark directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// BookmarkTree returns the root folders with their descendants, children in
// position order.
func (s *Store) BookmarkTree(ctx context.Context) ([]*platform.BookmarkNode, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, parent_id, title, url FROM bookmarks ORDER BY position, created_at")
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var nodes []*platform.BookmarkNode
	for rows.Next() {
		node, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return buildTree(nodes), nil
}

// SearchBookmarks returns the bookmarks with the exact URL.
func (s *Store) SearchBookmarks(ctx context.Context, url string) ([]*platform.BookmarkNode, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, parent_id, title, url FROM bookmarks WHERE url = ? ORDER BY position", url)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var out []*platform.BookmarkNode
	for rows.Next() {
		node, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, node)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return out, nil
}

// CreateBookmark appends a bookmark to the "Other Bookmarks" folder.
func (s *Store) CreateBookmark(ctx context.Context, title, url string) (*platform.BookmarkNode, error) {
	if url == "" {
		return nil, fmt.Errorf("bookmark url is required")
	}

	node := &platform.BookmarkNode{
		ID:       uuid.NewString(),
		ParentID: RootOtherID,
		Title:    title,
		URL:      url,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bookmarks (id, parent_id, title, url, position)
		VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM bookmarks WHERE parent_id = ?))`,
		node.ID, node.ParentID, node.Title, node.URL, node.ParentID)
	if err != nil {
		return nil, fmt.Errorf("insert failed: %w", err)
	}
	return node, nil
}

// RemoveBookmark deletes a bookmark or an empty folder. Root folders cannot
// be removed.
func (s *Store) RemoveBookmark(ctx context.Context, id string) error {
	if id == RootBarID || id == RootOtherID {
		return fmt.Errorf("cannot remove root folder %s", id)
	}

	res, err := s.db.ExecContext(ctx, "DELETE FROM bookmarks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("remove bookmark %s: %w", id, platform.ErrBookmarkNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNode(row scanner) (*platform.BookmarkNode, error) {
	var (
		node     platform.BookmarkNode
		parentID sql.NullString
		url      sql.NullString
	)
	if err := row.Scan(&node.ID, &parentID, &node.Title, &url); err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	node.ParentID = parentID.String
	node.URL = url.String
	return &node, nil
}

// buildTree links nodes to their parents. Nodes whose parent is missing are
// treated as roots. Input order is preserved among siblings.
func buildTree(nodes []*platform.BookmarkNode) []*platform.BookmarkNode {
	byID := make(map[string]*platform.BookmarkNode, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	var roots []*platform.BookmarkNode
	for _, n := range nodes {
		parent, ok := byID[n.ParentID]
		if n.ParentID == "" || !ok {
			roots = append(roots, n)
			continue
		}
		parent.Children = append(parent.Children, n)
	}
	return roots
}
