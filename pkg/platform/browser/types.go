package browser

import (
	"github.com/playwright-community/playwright-go"
)

// Default values for the launched browser.
const (
	DefaultTimeout          = 30000.0 // 30 seconds in milliseconds
	DefaultMaxContentLength = 20000   // characters of page text kept per extraction
	DefaultViewportWidth    = 1280
	DefaultViewportHeight   = 720
	DefaultMaxClosed        = 25 // recently closed tabs remembered for restore
)

// Options configures Launch.
type Options struct {
	// Headless controls whether the browser runs without a visible window
	Headless bool

	// Viewport sets the page size of every tab
	Viewport *Viewport

	// Timeout sets the default timeout for page operations (in milliseconds)
	Timeout float64

	// MaxContentLength limits the text returned by ExtractContent
	MaxContentLength int

	// StartURL is loaded into the first tab. Empty leaves it blank.
	StartURL string
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

func (o Options) withDefaults() Options {
	if o.Viewport == nil {
		o.Viewport = &Viewport{Width: DefaultViewportWidth, Height: DefaultViewportHeight}
	}
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}
	if o.MaxContentLength == 0 {
		o.MaxContentLength = DefaultMaxContentLength
	}
	return o
}

// page is the subset of playwright.Page the platform uses.
type page interface {
	URL() string
	Title() (string, error)
	Goto(url string, options ...playwright.PageGotoOptions) (playwright.Response, error)
	Reload(options ...playwright.PageReloadOptions) (playwright.Response, error)
	BringToFront() error
	Close(options ...playwright.PageCloseOptions) error
	IsClosed() bool
	Content() (string, error)
	Evaluate(expression string, arg ...interface{}) (interface{}, error)
}

// pageOpener creates a new page in the shared browser context.
type pageOpener func() (page, error)

// tabEntry is a tracked page.
type tabEntry struct {
	id    int
	page  page
	muted bool
}

// closedEntry remembers a closed tab for restore.
type closedEntry struct {
	sessionID string
	title     string
	url       string
}
