package browser

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mohsinkhan85090/VoiceBrowse/pkg/platform"
)

// ActiveTab implements platform.Tabs.
func (b *Browser) ActiveTab(ctx context.Context) (*platform.Tab, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.prune()
	idx := b.indexOf(b.activeID)
	if idx < 0 {
		return nil, platform.ErrNoActiveTab
	}
	tab := b.snapshot(idx)
	return &tab, nil
}

// QueryTabs implements platform.Tabs.
func (b *Browser) QueryTabs(ctx context.Context) ([]platform.Tab, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.prune()
	out := make([]platform.Tab, len(b.tabs))
	for i := range b.tabs {
		out[i] = b.snapshot(i)
	}
	return out, nil
}

// ActivateTab implements platform.Tabs by bringing the page to the front.
func (b *Browser) ActivateTab(ctx context.Context, tabID int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	t, err := b.lookup(tabID)
	if err != nil {
		return err
	}
	if err := t.page.BringToFront(); err != nil {
		return fmt.Errorf("failed to focus tab %d: %w", tabID, err)
	}
	b.activeID = tabID
	return nil
}

// ReloadTab implements platform.Tabs.
func (b *Browser) ReloadTab(ctx context.Context, tabID int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	t, err := b.lookup(tabID)
	if err != nil {
		return err
	}
	if _, err := t.page.Reload(); err != nil {
		return fmt.Errorf("reload failed: %w", err)
	}
	return nil
}

// CloseTab implements platform.Tabs. The tab is remembered for restore and
// the tab to its right, or else its left, becomes active.
func (b *Browser) CloseTab(ctx context.Context, tabID int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	t, err := b.lookup(tabID)
	if err != nil {
		return err
	}
	idx := b.indexOf(tabID)

	title, _ := t.page.Title()
	entry := closedEntry{sessionID: uuid.NewString(), title: title, url: t.page.URL()}

	if err := t.page.Close(); err != nil {
		return fmt.Errorf("failed to close tab %d: %w", tabID, err)
	}

	b.closed = append([]closedEntry{entry}, b.closed...)
	if len(b.closed) > DefaultMaxClosed {
		b.closed = b.closed[:DefaultMaxClosed]
	}
	b.tabs = append(b.tabs[:idx], b.tabs[idx+1:]...)

	if b.activeID != tabID {
		return nil
	}
	b.activeID = 0
	switch {
	case idx < len(b.tabs):
		b.activeID = b.tabs[idx].id
	case len(b.tabs) > 0:
		b.activeID = b.tabs[len(b.tabs)-1].id
	default:
		return nil
	}
	if err := b.tabs[b.indexOf(b.activeID)].page.BringToFront(); err != nil {
		return fmt.Errorf("failed to focus tab %d: %w", b.activeID, err)
	}
	return nil
}

// CreateTab implements platform.Tabs. The new tab is appended and activated.
func (b *Browser) CreateTab(ctx context.Context, url string) (*platform.Tab, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.prune()
	return b.openTab(url)
}

// SetMuted implements platform.Tabs by toggling every media element on the
// page. Pages have no tab level audio switch under Playwright.
func (b *Browser) SetMuted(ctx context.Context, tabID int, muted bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	t, err := b.lookup(tabID)
	if err != nil {
		return err
	}
	if _, err := t.page.Evaluate(muteScript, muted); err != nil {
		return fmt.Errorf("failed to set muted on tab %d: %w", tabID, err)
	}
	t.muted = muted
	return nil
}

// RecentlyClosed implements platform.Sessions.
func (b *Browser) RecentlyClosed(ctx context.Context, max int) ([]platform.ClosedSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	n := len(b.closed)
	if max > 0 && max < n {
		n = max
	}
	out := make([]platform.ClosedSession, 0, n)
	for _, entry := range b.closed[:n] {
		out = append(out, platform.ClosedSession{
			SessionID: entry.sessionID,
			Tab:       &platform.Tab{Index: -1, Title: entry.title, URL: entry.url},
		})
	}
	return out, nil
}

// RestoreSession implements platform.Sessions by reopening the closed URL in
// a new active tab.
func (b *Browser) RestoreSession(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, entry := range b.closed {
		if entry.sessionID != sessionID {
			continue
		}
		b.prune()
		if _, err := b.openTab(entry.url); err != nil {
			return fmt.Errorf("restore %s: %w", sessionID, err)
		}
		b.closed = append(b.closed[:i], b.closed[i+1:]...)
		return nil
	}
	return fmt.Errorf("restore %s: %w", sessionID, platform.ErrSessionNotFound)
}

// ExtractContent implements platform.Scripting. It returns the visible text
// of the page.
func (b *Browser) ExtractContent(ctx context.Context, tabID int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b.mu.Lock()
	t, err := b.lookup(tabID)
	b.mu.Unlock()
	if err != nil {
		return "", err
	}

	html, err := t.page.Content()
	if err != nil {
		return "", fmt.Errorf("failed to get page content: %w", err)
	}
	return PageText(html, b.maxContent)
}
