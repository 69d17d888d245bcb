package browser

import (
	"context"
	"errors"
	"testing"

	"github.com/mohsinkhan85090/VoiceBrowse/pkg/platform"
	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePage is an in-memory page. Goto sets the URL and takes the title from
// the titles map.
type fakePage struct {
	url     string
	title   string
	html    string
	closed  bool
	fronted int
	reloads int
	evals   []interface{}

	titles  map[string]string
	gotoErr error
	evalErr error
}

func (p *fakePage) URL() string            { return p.url }
func (p *fakePage) Title() (string, error) { return p.title, nil }
func (p *fakePage) IsClosed() bool         { return p.closed }
func (p *fakePage) Content() (string, error) {
	if p.closed {
		return "", errors.New("page closed")
	}
	return p.html, nil
}

func (p *fakePage) Goto(url string, _ ...playwright.PageGotoOptions) (playwright.Response, error) {
	if p.gotoErr != nil {
		return nil, p.gotoErr
	}
	p.url = url
	p.title = p.titles[url]
	return nil, nil
}

func (p *fakePage) Reload(_ ...playwright.PageReloadOptions) (playwright.Response, error) {
	p.reloads++
	return nil, nil
}

func (p *fakePage) BringToFront() error {
	p.fronted++
	return nil
}

func (p *fakePage) Close(_ ...playwright.PageCloseOptions) error {
	p.closed = true
	return nil
}

func (p *fakePage) Evaluate(_ string, arg ...interface{}) (interface{}, error) {
	if p.evalErr != nil {
		return nil, p.evalErr
	}
	p.evals = append(p.evals, arg...)
	return true, nil
}

// fakeContext records every page it opens.
type fakeContext struct {
	pages   []*fakePage
	titles  map[string]string
	openErr error
	gotoErr error
}

func (c *fakeContext) open() (page, error) {
	if c.openErr != nil {
		return nil, c.openErr
	}
	p := &fakePage{titles: c.titles, gotoErr: c.gotoErr}
	c.pages = append(c.pages, p)
	return p, nil
}

func newTestBrowser(t *testing.T, urls ...string) (*Browser, *fakeContext) {
	t.Helper()
	fc := &fakeContext{titles: map[string]string{
		"https://github.com":           "GitHub",
		"https://go.dev/doc":           "Go Docs",
		"https://news.ycombinator.com": "Hacker News",
	}}
	b := newBrowser(fc.open, DefaultMaxContentLength)
	ctx := context.Background()
	for _, u := range urls {
		_, err := b.CreateTab(ctx, u)
		require.NoError(t, err)
	}
	return b, fc
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}.withDefaults()
	assert.Equal(t, DefaultTimeout, opts.Timeout)
	assert.Equal(t, DefaultMaxContentLength, opts.MaxContentLength)
	require.NotNil(t, opts.Viewport)
	assert.Equal(t, DefaultViewportWidth, opts.Viewport.Width)
	assert.Equal(t, DefaultViewportHeight, opts.Viewport.Height)

	custom := Options{Timeout: 5, MaxContentLength: 10, Viewport: &Viewport{Width: 800, Height: 600}}.withDefaults()
	assert.Equal(t, 5.0, custom.Timeout)
	assert.Equal(t, 10, custom.MaxContentLength)
	assert.Equal(t, 800, custom.Viewport.Width)
}

func TestCreateTabActivatesNewTab(t *testing.T) {
	b, fc := newTestBrowser(t, "https://github.com", "https://go.dev/doc")

	tabs, err := b.QueryTabs(context.Background())
	require.NoError(t, err)
	require.Len(t, tabs, 2)

	assert.Equal(t, 1, tabs[0].ID)
	assert.Equal(t, 0, tabs[0].Index)
	assert.Equal(t, "GitHub", tabs[0].Title)
	assert.False(t, tabs[0].Active)

	assert.Equal(t, 2, tabs[1].ID)
	assert.Equal(t, 1, tabs[1].Index)
	assert.Equal(t, "https://go.dev/doc", tabs[1].URL)
	assert.True(t, tabs[1].Active)

	assert.Equal(t, 1, fc.pages[1].fronted)
}

func TestCreateTabBlankURL(t *testing.T) {
	b, _ := newTestBrowser(t)

	tab, err := b.CreateTab(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "", tab.URL)
	assert.True(t, tab.Active)
}

func TestCreateTabNavigationFailureClosesPage(t *testing.T) {
	b, fc := newTestBrowser(t)
	fc.gotoErr = errors.New("net::ERR_NAME_NOT_RESOLVED")

	_, err := b.CreateTab(context.Background(), "https://nowhere.invalid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "navigation failed")
	require.Len(t, fc.pages, 1)
	assert.True(t, fc.pages[0].closed)

	tabs, err := b.QueryTabs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tabs)
}

func TestCreateTabOpenFailure(t *testing.T) {
	b, fc := newTestBrowser(t)
	fc.openErr = errors.New("context closed")

	_, err := b.CreateTab(context.Background(), "https://github.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create page")
}

func TestActiveTab(t *testing.T) {
	b, _ := newTestBrowser(t)

	_, err := b.ActiveTab(context.Background())
	assert.ErrorIs(t, err, platform.ErrNoActiveTab)

	_, err = b.CreateTab(context.Background(), "https://github.com")
	require.NoError(t, err)

	tab, err := b.ActiveTab(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "GitHub", tab.Title)
	assert.True(t, tab.Active)
}

func TestActivateTab(t *testing.T) {
	b, fc := newTestBrowser(t, "https://github.com", "https://go.dev/doc")
	ctx := context.Background()

	require.NoError(t, b.ActivateTab(ctx, 1))
	tab, err := b.ActiveTab(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, tab.ID)
	assert.Equal(t, 2, fc.pages[0].fronted)

	err = b.ActivateTab(ctx, 42)
	assert.ErrorIs(t, err, platform.ErrTabNotFound)
}

func TestReloadTab(t *testing.T) {
	b, fc := newTestBrowser(t, "https://github.com")

	require.NoError(t, b.ReloadTab(context.Background(), 1))
	assert.Equal(t, 1, fc.pages[0].reloads)

	assert.ErrorIs(t, b.ReloadTab(context.Background(), 9), platform.ErrTabNotFound)
}

func TestCloseTabActivatesNeighbour(t *testing.T) {
	tests := []struct {
		name       string
		active     int
		close      int
		wantActive int
	}{
		{name: "middle activates right", active: 2, close: 2, wantActive: 3},
		{name: "last activates left", active: 3, close: 3, wantActive: 2},
		{name: "inactive keeps active", active: 1, close: 2, wantActive: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := newTestBrowser(t, "https://github.com", "https://go.dev/doc", "https://news.ycombinator.com")
			ctx := context.Background()
			require.NoError(t, b.ActivateTab(ctx, tt.active))

			require.NoError(t, b.CloseTab(ctx, tt.close))

			tab, err := b.ActiveTab(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.wantActive, tab.ID)

			tabs, err := b.QueryTabs(ctx)
			require.NoError(t, err)
			assert.Len(t, tabs, 2)
			for i, tab := range tabs {
				assert.Equal(t, i, tab.Index)
			}
		})
	}
}

func TestCloseLastTab(t *testing.T) {
	b, _ := newTestBrowser(t, "https://github.com")
	ctx := context.Background()

	require.NoError(t, b.CloseTab(ctx, 1))

	_, err := b.ActiveTab(ctx)
	assert.ErrorIs(t, err, platform.ErrNoActiveTab)
	assert.ErrorIs(t, b.CloseTab(ctx, 1), platform.ErrTabNotFound)
}

func TestCloseAndRestore(t *testing.T) {
	b, fc := newTestBrowser(t, "https://github.com", "https://go.dev/doc")
	ctx := context.Background()

	require.NoError(t, b.CloseTab(ctx, 2))

	sessions, err := b.RecentlyClosed(ctx, 1)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.NotNil(t, sessions[0].Tab)
	assert.Equal(t, "Go Docs", sessions[0].Tab.Title)
	assert.Equal(t, "https://go.dev/doc", sessions[0].Tab.URL)
	assert.NotEmpty(t, sessions[0].SessionID)

	require.NoError(t, b.RestoreSession(ctx, sessions[0].SessionID))

	tab, err := b.ActiveTab(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, tab.ID)
	assert.Equal(t, "https://go.dev/doc", tab.URL)
	assert.Len(t, fc.pages, 3)

	sessions, err = b.RecentlyClosed(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	err = b.RestoreSession(ctx, "missing")
	assert.ErrorIs(t, err, platform.ErrSessionNotFound)
}

func TestRecentlyClosedOrderAndLimit(t *testing.T) {
	b, _ := newTestBrowser(t, "https://github.com", "https://go.dev/doc", "https://news.ycombinator.com")
	ctx := context.Background()

	require.NoError(t, b.CloseTab(ctx, 1))
	require.NoError(t, b.CloseTab(ctx, 2))

	all, err := b.RecentlyClosed(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Go Docs", all[0].Tab.Title)
	assert.Equal(t, "GitHub", all[1].Tab.Title)

	one, err := b.RecentlyClosed(ctx, 1)
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, all[0].SessionID, one[0].SessionID)
}

func TestRecentlyClosedIsBounded(t *testing.T) {
	b, _ := newTestBrowser(t)
	ctx := context.Background()

	for i := 0; i < DefaultMaxClosed+5; i++ {
		tab, err := b.CreateTab(ctx, "https://github.com")
		require.NoError(t, err)
		require.NoError(t, b.CloseTab(ctx, tab.ID))
	}

	sessions, err := b.RecentlyClosed(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, sessions, DefaultMaxClosed)
}

func TestSetMuted(t *testing.T) {
	b, fc := newTestBrowser(t, "https://github.com")
	ctx := context.Background()

	require.NoError(t, b.SetMuted(ctx, 1, true))
	tab, err := b.ActiveTab(ctx)
	require.NoError(t, err)
	assert.True(t, tab.Muted)

	require.NoError(t, b.SetMuted(ctx, 1, false))
	tab, err = b.ActiveTab(ctx)
	require.NoError(t, err)
	assert.False(t, tab.Muted)

	assert.Equal(t, []interface{}{true, false}, fc.pages[0].evals)
}

func TestSetMutedScriptFailure(t *testing.T) {
	b, fc := newTestBrowser(t, "https://github.com")
	fc.pages[0].evalErr = errors.New("execution context destroyed")

	err := b.SetMuted(context.Background(), 1, true)
	require.Error(t, err)

	tab, err := b.ActiveTab(context.Background())
	require.NoError(t, err)
	assert.False(t, tab.Muted)
}

func TestPagesClosedExternallyArePruned(t *testing.T) {
	b, fc := newTestBrowser(t, "https://github.com", "https://go.dev/doc")
	ctx := context.Background()

	fc.pages[1].closed = true

	tabs, err := b.QueryTabs(ctx)
	require.NoError(t, err)
	require.Len(t, tabs, 1)
	assert.Equal(t, 1, tabs[0].ID)
	assert.True(t, tabs[0].Active)

	assert.ErrorIs(t, b.ActivateTab(ctx, 2), platform.ErrTabNotFound)
}

func TestExtractContent(t *testing.T) {
	b, fc := newTestBrowser(t, "https://go.dev/doc")
	fc.pages[0].html = `<html><head><title>Go Docs</title><script>var x;</script></head>
<body><h1>Documentation</h1><p>The Go programming language.</p></body></html>`

	text, err := b.ExtractContent(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Documentation\nThe Go programming language.", text)

	_, err = b.ExtractContent(context.Background(), 7)
	assert.ErrorIs(t, err, platform.ErrTabNotFound)
}

func TestCanceledContext(t *testing.T) {
	b, _ := newTestBrowser(t, "https://github.com")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.ActiveTab(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, b.ReloadTab(ctx, 1), context.Canceled)
	_, err = b.ExtractContent(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCloseBrowser(t *testing.T) {
	b, fc := newTestBrowser(t, "https://github.com", "https://go.dev/doc")
	stopped := 0
	b.shutdown = func() error {
		stopped++
		return nil
	}

	require.NoError(t, b.Close())
	require.NoError(t, b.Close())

	assert.Equal(t, 1, stopped)
	for _, p := range fc.pages {
		assert.True(t, p.closed)
	}
}

func TestComposesIntoPlatform(t *testing.T) {
	b, _ := newTestBrowser(t, "https://github.com")
	p := platform.Compose(b, platform.NewMemory(), b, b)

	tab, err := p.ActiveTab(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "GitHub", tab.Title)
}
