// Package dispatcher turns transcripts into browser actions.
//
// A Dispatcher classifies each command synchronously, so that chat mode
// changes are visible to the next command immediately, then runs the
// platform work for the command in its own goroutine. Every command produces
// exactly one outbound event, success or not. Use Wait to block until all
// in-flight commands have emitted.
package dispatcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gobwas/glob"
	"github.com/mohsinkhan85090/VoiceBrowse/pkg/config"
	"github.com/mohsinkhan85090/VoiceBrowse/pkg/intent"
	"github.com/mohsinkhan85090/VoiceBrowse/pkg/llm"
	"github.com/mohsinkhan85090/VoiceBrowse/pkg/logging"
	"github.com/mohsinkhan85090/VoiceBrowse/pkg/platform"
	"github.com/mohsinkhan85090/VoiceBrowse/pkg/types"
)

// Assistant answers analyze and chat requests.
type Assistant interface {
	Summarize(ctx context.Context, content string) (string, error)
	Chat(ctx context.Context, prompt string) (string, error)
}

// Logger is the logging surface the dispatcher writes to.
type Logger interface {
	Debugf(format string, v ...interface{})
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
	Errorf(format string, v ...interface{})
}

// Dispatcher routes commands to the platform and reports results.
type Dispatcher struct {
	platform  platform.Platform
	emitter   Emitter
	assistant Assistant
	log       Logger
	session   *Session

	newTabURL        string
	minAnalyzeLength int
	excludePatterns  []string
	exclude          []glob.Glob

	now func() time.Time
	wg  sync.WaitGroup
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithAssistant sets the summarization and chat backend.
func WithAssistant(assistant Assistant) Option {
	return func(d *Dispatcher) {
		d.assistant = assistant
	}
}

// WithLogger sets the logger.
func WithLogger(log Logger) Option {
	return func(d *Dispatcher) {
		d.log = log
	}
}

// WithNewTabURL sets the page opened by the new tab command.
func WithNewTabURL(url string) Option {
	return func(d *Dispatcher) {
		if url != "" {
			d.newTabURL = url
		}
	}
}

// WithMinAnalyzeLength sets the number of characters page content must
// exceed before it is summarized.
func WithMinAnalyzeLength(n int) Option {
	return func(d *Dispatcher) {
		d.minAnalyzeLength = n
	}
}

// WithContentExclude replaces the URL globs whose pages are never extracted.
func WithContentExclude(patterns ...string) Option {
	return func(d *Dispatcher) {
		d.excludePatterns = append([]string(nil), patterns...)
	}
}

// WithBrowserConfig applies the browser section of the configuration.
func WithBrowserConfig(section *config.BrowserSection) Option {
	return func(d *Dispatcher) {
		if section == nil {
			return
		}
		WithNewTabURL(section.GetNewTabURL())(d)
		WithMinAnalyzeLength(section.GetMinAnalyzeLength())(d)
		WithContentExclude(section.GetContentExclude()...)(d)
	}
}

// WithClock overrides the time source used to stamp voice command fragments.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		d.now = now
	}
}

// New creates a Dispatcher. It fails if an exclude pattern does not compile.
func New(p platform.Platform, emitter Emitter, opts ...Option) (*Dispatcher, error) {
	d := &Dispatcher{
		platform:         p,
		emitter:          emitter,
		assistant:        llm.NewAssistant(nil),
		log:              logging.Nop(),
		session:          NewSession(),
		newTabURL:        config.DefaultNewTabURL,
		minAnalyzeLength: config.DefaultMinAnalyzeLength,
		excludePatterns:  append([]string(nil), config.DefaultContentExclude...),
		now:              time.Now,
	}

	for _, opt := range opts {
		opt(d)
	}

	for _, pattern := range d.excludePatterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid content exclude pattern %q: %w", pattern, err)
		}
		d.exclude = append(d.exclude, g)
	}

	return d, nil
}

// Session returns the dispatcher's session state.
func (d *Dispatcher) Session() *Session {
	return d.session
}

// HandleMessage routes an inbound message. Page content pushes take
// precedence over the message type.
func (d *Dispatcher) HandleMessage(ctx context.Context, msg *types.Message) error {
	switch {
	case msg == nil:
		return fmt.Errorf("nil message")
	case msg.IsPageContent():
		d.SetPageContent(msg.WebpageContent)
	case msg.IsVoiceCommand():
		d.HandleFragment(ctx, types.TranscriptFragment{Text: msg.PayloadData, Timestamp: d.now()})
	case msg.IsTabActivated():
		d.OnTabActivated(ctx)
	default:
		return fmt.Errorf("unrecognized message type %q", msg.Type)
	}
	return nil
}

// HandleFragment records a transcript fragment and dispatches it as the
// current command.
func (d *Dispatcher) HandleFragment(ctx context.Context, fragment types.TranscriptFragment) intent.Result {
	d.session.Append(fragment)
	return d.Dispatch(ctx, fragment.Text)
}

// Dispatch classifies raw and starts the matching action. It returns once
// the command is classified; the result event is emitted asynchronously
// unless the command only toggles chat mode.
func (d *Dispatcher) Dispatch(ctx context.Context, raw string) intent.Result {
	cmd := intent.Normalize(raw)
	res := intent.Classify(cmd)
	d.log.Debugf("command %q classified as %q (trigger %q)", cmd.Compact, res.Intent(), res.Trigger)

	switch res.Intent() {
	case intent.DeactivateChatMode:
		fragments := d.session.deactivate()
		d.log.Infof("chat mode deactivated, flushing %d fragments", len(fragments))
		if len(fragments) == 0 {
			d.emitter.Emit(types.NewPromptEvent(msgChatDeactivated))
		} else {
			d.emitter.Emit(types.NewTranscriptBatchEvent(fragments))
		}

	case intent.ActivateChatMode:
		d.session.SetChatMode(true)
		d.log.Infof("chat mode activated")
		d.emitter.Emit(types.NewPromptEvent(msgChatActivated))

	case intent.None:
		if d.session.ChatMode() && cmd.Text != "" {
			d.run(ctx, func(ctx context.Context) *types.Event {
				return d.chat(ctx, cmd.Text)
			})
		} else {
			d.emitter.Emit(types.NewPromptEvent(msgNotRecognized))
		}

	default:
		d.run(ctx, func(ctx context.Context) *types.Event {
			return d.execute(ctx, res)
		})
	}

	return res
}

// SetPageContent replaces the cached page content used by analyze.
func (d *Dispatcher) SetPageContent(content string) {
	d.session.SetPageContent(content)
}

// OnTabActivated extracts the content of the newly active tab in the
// background. It emits nothing.
func (d *Dispatcher) OnTabActivated(ctx context.Context) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.captureActive(ctx)
	}()
}

// Wait blocks until every started action has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// run executes fn in its own goroutine and emits the event it returns.
func (d *Dispatcher) run(ctx context.Context, fn func(context.Context) *types.Event) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.emitter.Emit(fn(ctx))
	}()
}

// excluded reports whether page content for url must not be extracted.
func (d *Dispatcher) excluded(url string) bool {
	for _, g := range d.exclude {
		if g.Match(url) {
			return true
		}
	}
	return false
}

// capture extracts the content of tab into the session. Failures are logged.
func (d *Dispatcher) capture(ctx context.Context, tab *platform.Tab) {
	if tab == nil {
		return
	}
	if d.excluded(tab.URL) {
		d.log.Debugf("skipping content extraction for %s", tab.URL)
		return
	}

	content, err := d.platform.ExtractContent(ctx, tab.ID)
	if err != nil {
		d.log.Warnf("content extraction failed for tab %d: %v", tab.ID, err)
		return
	}
	d.session.SetPageContent(content)
	d.log.Debugf("captured %d bytes from tab %d", len(content), tab.ID)
}

// captureActive re-queries the active tab and captures it.
func (d *Dispatcher) captureActive(ctx context.Context) {
	tab, err := d.platform.ActiveTab(ctx)
	if err != nil {
		d.log.Debugf("no active tab to capture: %v", err)
		return
	}
	d.capture(ctx, tab)
}
