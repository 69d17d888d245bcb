// Package browser drives a Chromium instance through Playwright and exposes
// its pages as the tabs of a single window.
//
// Every page is opened in one browser context. Tab IDs are assigned by the
// platform in creation order and the tab order is the creation order. Closed
// tabs are remembered (URL and title) so they can be restored. Pages closed
// outside the platform are pruned on the next call.
package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/mohsinkhan85090/VoiceBrowse/pkg/platform"
	"github.com/playwright-community/playwright-go"
)

// muteScript sets the muted flag of every media element on the page.
const muteScript = `(muted) => {
	document.querySelectorAll('audio, video').forEach((el) => { el.muted = muted; });
	return true;
}`

// Browser implements platform.Tabs, platform.Sessions and platform.Scripting.
type Browser struct {
	mu         sync.Mutex
	open       pageOpener
	tabs       []*tabEntry
	activeID   int
	nextID     int
	closed     []closedEntry
	maxContent int

	shutdown func() error
}

var (
	_ platform.Tabs      = (*Browser)(nil)
	_ platform.Sessions  = (*Browser)(nil)
	_ platform.Scripting = (*Browser)(nil)
)

// Launch installs the Playwright driver if needed, starts Chromium and opens
// the first tab.
func Launch(opts Options) (*Browser, error) {
	opts = opts.withDefaults()

	// Discard driver output so it does not interleave with rendered events
	runOpts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}
	if err := playwright.Install(runOpts); err != nil {
		return nil, fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  opts.Viewport.Width,
			Height: opts.Viewport.Height,
		},
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	opener := func() (page, error) {
		p, err := bctx.NewPage()
		if err != nil {
			return nil, err
		}
		p.SetDefaultTimeout(opts.Timeout)
		return p, nil
	}

	b := newBrowser(opener, opts.MaxContentLength)
	b.shutdown = func() error {
		var errs []error
		if err := bctx.Close(); err != nil {
			errs = append(errs, err)
		}
		if err := browser.Close(); err != nil {
			errs = append(errs, err)
		}
		if err := pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
		}
		return errors.Join(errs...)
	}

	if _, err := b.CreateTab(context.Background(), opts.StartURL); err != nil {
		b.Close()
		return nil, fmt.Errorf("failed to open first tab: %w", err)
	}
	return b, nil
}

func newBrowser(open pageOpener, maxContent int) *Browser {
	return &Browser{
		open:       open,
		nextID:     1,
		maxContent: maxContent,
	}
}

// Close closes every page and stops the browser.
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, t := range b.tabs {
		_ = t.page.Close() // Ignore errors, continue cleanup
	}
	b.tabs = nil
	b.activeID = 0

	if b.shutdown == nil {
		return nil
	}
	err := b.shutdown()
	b.shutdown = nil
	return err
}

// prune drops pages that were closed outside the platform. Caller holds mu.
func (b *Browser) prune() {
	kept := b.tabs[:0]
	for _, t := range b.tabs {
		if !t.page.IsClosed() {
			kept = append(kept, t)
		}
	}
	for i := len(kept); i < len(b.tabs); i++ {
		b.tabs[i] = nil
	}
	b.tabs = kept

	if b.indexOf(b.activeID) < 0 {
		b.activeID = 0
		if len(b.tabs) > 0 {
			b.activeID = b.tabs[len(b.tabs)-1].id
		}
	}
}

// indexOf returns the position of id, or -1. Caller holds mu.
func (b *Browser) indexOf(id int) int {
	for i, t := range b.tabs {
		if t.id == id {
			return i
		}
	}
	return -1
}

// lookup prunes and returns the entry for id. Caller holds mu.
func (b *Browser) lookup(id int) (*tabEntry, error) {
	b.prune()
	idx := b.indexOf(id)
	if idx < 0 {
		return nil, fmt.Errorf("tab %d: %w", id, platform.ErrTabNotFound)
	}
	return b.tabs[idx], nil
}

// snapshot describes the tab at idx. Caller holds mu.
func (b *Browser) snapshot(idx int) platform.Tab {
	t := b.tabs[idx]
	title, _ := t.page.Title()
	return platform.Tab{
		ID:     t.id,
		Index:  idx,
		Title:  title,
		URL:    t.page.URL(),
		Active: t.id == b.activeID,
		Muted:  t.muted,
	}
}

// openTab opens a page, loads url and makes it the active tab. Caller holds mu.
func (b *Browser) openTab(url string) (*platform.Tab, error) {
	p, err := b.open()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	if url != "" {
		if _, err := p.Goto(url); err != nil {
			_ = p.Close()
			return nil, fmt.Errorf("navigation failed: %w", err)
		}
	}

	entry := &tabEntry{id: b.nextID, page: p}
	b.nextID++
	b.tabs = append(b.tabs, entry)
	b.activeID = entry.id

	if err := p.BringToFront(); err != nil {
		return nil, fmt.Errorf("failed to focus page: %w", err)
	}
	tab := b.snapshot(len(b.tabs) - 1)
	return &tab, nil
}
