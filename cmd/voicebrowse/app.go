package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/mohsinkhan85090/VoiceBrowse/pkg/config"
	"github.com/mohsinkhan85090/VoiceBrowse/pkg/dispatcher"
	"github.com/mohsinkhan85090/VoiceBrowse/pkg/llm"
	"github.com/mohsinkhan85090/VoiceBrowse/pkg/logging"
	"github.com/mohsinkhan85090/VoiceBrowse/pkg/platform"
	"github.com/mohsinkhan85090/VoiceBrowse/pkg/platform/bookmarks"
	"github.com/mohsinkhan85090/VoiceBrowse/pkg/platform/browser"
)

const eventBufferSize = 64

// app is a wired dispatcher with its renderer and the resources to release
// on shutdown.
type app struct {
	dispatcher *dispatcher.Dispatcher
	emitter    *dispatcher.ChannelEmitter
	log        *logging.Logger

	rendered chan struct{}
	closers  []func() error
}

// newApp loads configuration, builds the platform and assistant and starts
// rendering events to out.
func newApp(opts *rootOptions, out io.Writer) (*app, error) {
	a := &app{rendered: make(chan struct{})}

	if opts.logWriter != nil {
		a.log = logging.NewWriterLogger("voicebrowse", opts.logWriter)
	} else {
		// NewLogger falls back to stderr and reports why; the fallback is usable
		a.log, _ = logging.NewLogger("voicebrowse")
		a.closers = append(a.closers, a.log.Close)
	}
	a.log.SetLevel(logging.ParseLevel(opts.logLevel))

	if err := config.Initialize(opts.configPath); err != nil {
		a.shutdown()
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	llmSection := config.GetLLM()
	browserSection := config.GetBrowser()

	p, err := a.buildPlatform(opts, browserSection)
	if err != nil {
		a.shutdown()
		return nil, err
	}

	a.emitter = dispatcher.NewChannelEmitter(eventBufferSize)
	d, err := dispatcher.New(p, a.emitter,
		dispatcher.WithAssistant(a.buildAssistant(opts, llmSection)),
		dispatcher.WithLogger(a.log.With("dispatcher")),
		dispatcher.WithBrowserConfig(browserSection),
	)
	if err != nil {
		a.shutdown()
		return nil, err
	}
	a.dispatcher = d

	r := newRenderer(out, opts.jsonOutput)
	go func() {
		defer close(a.rendered)
		for event := range a.emitter.Events() {
			if err := r.Render(event); err != nil {
				a.log.Errorf("failed to render event: %v", err)
			}
		}
	}()

	a.log.Infof("voicebrowse started (platform %s, session %s)", opts.platform, a.log.SessionID())
	return a, nil
}

// buildAssistant creates the LLM assistant. Without an API key analyze and
// chat report failures but every other command works.
func (a *app) buildAssistant(opts *rootOptions, section *config.LLMSection) *llm.Assistant {
	cli := config.ProviderSettings{Model: opts.model, BaseURL: opts.baseURL, APIKey: opts.apiKey}
	provider, err := config.BuildProvider(cli, section)
	if err != nil {
		a.log.Warnf("LLM unavailable: %v", err)
		return llm.NewAssistant(nil)
	}

	var assistantOpts []llm.AssistantOption
	if section != nil && section.GetSummarizationModel() != "" {
		assistantOpts = append(assistantOpts, llm.WithSummarizationModel(section.GetSummarizationModel()))
	}
	a.log.Infof("LLM provider ready (model %s, base URL %s)", provider.GetModel(), provider.GetBaseURL())
	return llm.NewAssistant(provider, assistantOpts...)
}

// buildPlatform composes tabs, sessions and scripting from the selected
// platform with the configured bookmark store.
func (a *app) buildPlatform(opts *rootOptions, section *config.BrowserSection) (platform.Platform, error) {
	var bm platform.Bookmarks

	dbPath := opts.bookmarksDB
	if dbPath == "" && section != nil {
		dbPath = section.GetBookmarksDB()
	}
	if dbPath != "" {
		store, err := bookmarks.Open(dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open bookmarks: %w", err)
		}
		a.closers = append(a.closers, store.Close)
		bm = store
		a.log.Infof("bookmarks stored in %s", dbPath)
	}

	switch opts.platform {
	case platformBrowser:
		headless := opts.headless
		if !opts.headlessSet && section != nil {
			headless = section.IsHeadless()
		}
		startURL := config.DefaultNewTabURL
		if section != nil {
			startURL = section.GetNewTabURL()
		}

		b, err := browser.Launch(browser.Options{Headless: headless, StartURL: startURL})
		if err != nil {
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		a.closers = append(a.closers, b.Close)
		if bm == nil {
			bm = platform.NewMemory()
		}
		return platform.Compose(b, bm, b, b), nil

	default:
		m := platform.NewMemory(demoTabs()...)
		if bm == nil {
			bm = m
		}
		return platform.Compose(m, bm, m, m), nil
	}
}

// feed runs fn against the dispatcher and waits for the actions it started.
func (a *app) feed(ctx context.Context, fn func(context.Context, *dispatcher.Dispatcher) error) error {
	err := fn(ctx, a.dispatcher)
	a.dispatcher.Wait()
	return err
}

// Close waits for in-flight actions, drains the renderer and releases every
// resource.
func (a *app) Close() error {
	a.dispatcher.Wait()
	a.emitter.Close()
	<-a.rendered
	return a.shutdown()
}

// shutdown releases resources in reverse acquisition order.
func (a *app) shutdown() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// demoTabs seeds the memory platform.
func demoTabs() []platform.MemoryTab {
	return []platform.MemoryTab{
		{
			Title:   "GitHub: Let's build from here",
			URL:     "https://github.com",
			Content: "GitHub is where over 100 million developers shape the future of software. Contribute to the open source community, manage Git repositories, review code like a pro, track bugs and features, and power your CI/CD and DevOps workflows.",
		},
		{
			Title:   "Documentation - The Go Programming Language",
			URL:     "https://go.dev/doc",
			Content: "The Go programming language is an open source project to make programmers more productive. Go is expressive, concise, clean, and efficient. Its concurrency mechanisms make it easy to write programs that get the most out of multicore and networked machines.",
		},
		{
			Title:   "Wikipedia, the free encyclopedia",
			URL:     "https://en.wikipedia.org/wiki/Main_Page",
			Content: "Wikipedia is a free online encyclopedia, created and edited by volunteers around the world and hosted by the Wikimedia Foundation.",
		},
	}
}
