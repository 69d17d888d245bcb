package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mohsinkhan85090/VoiceBrowse/pkg/intent"
	"github.com/mohsinkhan85090/VoiceBrowse/pkg/platform"
	"github.com/mohsinkhan85090/VoiceBrowse/pkg/types"
)

const (
	msgChatActivated   = "Chat mode activated."
	msgChatDeactivated = "Chat mode deactivated."
	msgNotRecognized   = "Sorry, command not recognized."
	msgNoActiveTab     = "No active tab found."

	msgOpened        = "Opened tab with query: %s"
	msgNoMatch       = "No matching tab found for: %s"
	msgNoQuery       = "No search query provided."
	msgRefreshed     = "Page refreshed!"
	msgTabClosed     = "Tab closed!"
	msgNewTab        = "New tab opened!"
	msgPrevious      = "Switched to previous tab!"
	msgNext          = "Switched to next tab!"
	msgNoTabs        = "No tabs available."
	msgMuted         = "Tab muted!"
	msgUnmuted       = "Tab unmuted!"
	msgRestored      = "Tab restored!"
	msgNothingClosed = "No recently closed tab to restore."
	msgBookmarkAdded = "Bookmark added!"
	msgBookmarkGone  = "Bookmark removed!"
	msgTooShort      = "Content too short or not available!"
	msgNoSummary     = "Could not get summary."
	msgNoReply       = "Could not get a response."
	msgChatFailed    = "Failed to get a chat response."
)

// failures is the generic status reported when a platform or assistant call
// fails for an intent.
var failures = map[intent.Intent]string{
	intent.OpenTab:        "Failed to search tabs.",
	intent.Refresh:        "Failed to refresh page.",
	intent.CloseTab:       "Failed to close tab.",
	intent.NewTab:         "Failed to open new tab.",
	intent.PreviousTab:    "Failed to switch tab.",
	intent.NextTab:        "Failed to switch tab.",
	intent.Mute:           "Failed to mute tab.",
	intent.Unmute:         "Failed to unmute tab.",
	intent.Restore:        "Failed to restore tab.",
	intent.ShowBookmarks:  "Failed to load bookmarks.",
	intent.AddBookmark:    "Failed to add bookmark.",
	intent.RemoveBookmark: "Failed to remove bookmark.",
	intent.CheckBookmark:  "Failed to check bookmark.",
	intent.Analyze:        "Failed to summarize content.",
}

// fail logs err and returns the failure status for in.
func (d *Dispatcher) fail(in intent.Intent, err error) *types.Event {
	d.log.Errorf("%s failed: %v", in, err)
	msg, ok := failures[in]
	if !ok {
		msg = msgNotRecognized
	}
	return types.NewPromptEvent(msg)
}

// execute performs the platform work for a classified command.
func (d *Dispatcher) execute(ctx context.Context, res intent.Result) *types.Event {
	var tab *platform.Tab
	if res.Rule.NeedsTab {
		var err error
		tab, err = d.platform.ActiveTab(ctx)
		if errors.Is(err, platform.ErrNoActiveTab) || (err == nil && tab == nil) {
			return types.NewPromptEvent(msgNoActiveTab)
		}
		if err != nil {
			return d.fail(res.Intent(), fmt.Errorf("active tab: %w", err))
		}
	}

	switch res.Intent() {
	case intent.OpenTab:
		return d.openTab(ctx, res.Query)
	case intent.Refresh:
		return d.simple(res.Intent(), msgRefreshed, d.platform.ReloadTab(ctx, tab.ID))
	case intent.CloseTab:
		return d.closeTab(ctx, tab)
	case intent.NewTab:
		return d.newTab(ctx)
	case intent.PreviousTab:
		return d.switchTab(ctx, tab, -1)
	case intent.NextTab:
		return d.switchTab(ctx, tab, 1)
	case intent.Unmute:
		return d.simple(res.Intent(), msgUnmuted, d.platform.SetMuted(ctx, tab.ID, false))
	case intent.Mute:
		return d.simple(res.Intent(), msgMuted, d.platform.SetMuted(ctx, tab.ID, true))
	case intent.Restore:
		return d.restore(ctx)
	case intent.ShowBookmarks:
		return d.showBookmarks(ctx)
	case intent.AddBookmark:
		return d.addBookmark(ctx, tab)
	case intent.RemoveBookmark:
		return d.removeBookmark(ctx, tab)
	case intent.CheckBookmark:
		return d.checkBookmark(ctx, tab)
	case intent.Analyze:
		return d.analyze(ctx)
	default:
		d.log.Warnf("no action bound to intent %q", res.Intent())
		return types.NewPromptEvent(msgNotRecognized)
	}
}

// simple maps a single platform call to its success or failure status.
func (d *Dispatcher) simple(in intent.Intent, success string, err error) *types.Event {
	if err != nil {
		return d.fail(in, err)
	}
	return types.NewPromptEvent(success)
}

// openTab activates the first tab whose title or URL contains query.
func (d *Dispatcher) openTab(ctx context.Context, query string) *types.Event {
	if query == "" {
		return types.NewPromptEvent(msgNoQuery)
	}

	tabs, err := d.platform.QueryTabs(ctx)
	if err != nil {
		return d.fail(intent.OpenTab, err)
	}

	for i := range tabs {
		tab := &tabs[i]
		if !strings.Contains(strings.ToLower(tab.Title), query) && !strings.Contains(strings.ToLower(tab.URL), query) {
			continue
		}
		if err := d.platform.ActivateTab(ctx, tab.ID); err != nil {
			return d.fail(intent.OpenTab, err)
		}
		d.capture(ctx, tab)
		return types.NewPromptEvent(fmt.Sprintf(msgOpened, query))
	}

	return types.NewPromptEvent(fmt.Sprintf(msgNoMatch, query))
}

func (d *Dispatcher) closeTab(ctx context.Context, tab *platform.Tab) *types.Event {
	if err := d.platform.CloseTab(ctx, tab.ID); err != nil {
		return d.fail(intent.CloseTab, err)
	}
	d.captureActive(ctx)
	return types.NewPromptEvent(msgTabClosed)
}

func (d *Dispatcher) newTab(ctx context.Context) *types.Event {
	tab, err := d.platform.CreateTab(ctx, d.newTabURL)
	if err != nil {
		return d.fail(intent.NewTab, err)
	}
	d.capture(ctx, tab)
	return types.NewPromptEvent(msgNewTab)
}

// switchTab activates the neighbour of current in direction step (-1 or 1),
// wrapping at both ends.
func (d *Dispatcher) switchTab(ctx context.Context, current *platform.Tab, step int) *types.Event {
	in, success := intent.NextTab, msgNext
	if step < 0 {
		in, success = intent.PreviousTab, msgPrevious
	}

	tabs, err := d.platform.QueryTabs(ctx)
	if err != nil {
		return d.fail(in, err)
	}
	if len(tabs) == 0 {
		return types.NewPromptEvent(msgNoTabs)
	}

	target := tabs[neighbour(position(tabs, current), len(tabs), step)]
	if err := d.platform.ActivateTab(ctx, target.ID); err != nil {
		return d.fail(in, err)
	}
	d.capture(ctx, &target)
	return types.NewPromptEvent(success)
}

// position returns the slice index of current, falling back to its reported
// tab index when the ID is not listed.
func position(tabs []platform.Tab, current *platform.Tab) int {
	for i, t := range tabs {
		if t.ID == current.ID {
			return i
		}
	}
	if current.Index >= 0 && current.Index < len(tabs) {
		return current.Index
	}
	return 0
}

// neighbour returns idx+step modulo n. The previous tab of the first tab is
// the last, the next tab of the last is the first.
func neighbour(idx, n, step int) int {
	return ((idx+step)%n + n) % n
}

func (d *Dispatcher) restore(ctx context.Context) *types.Event {
	sessions, err := d.platform.RecentlyClosed(ctx, 1)
	if err != nil {
		return d.fail(intent.Restore, err)
	}
	if len(sessions) == 0 || sessions[0].Tab == nil {
		return types.NewPromptEvent(msgNothingClosed)
	}

	if err := d.platform.RestoreSession(ctx, sessions[0].SessionID); err != nil {
		return d.fail(intent.Restore, err)
	}
	d.captureActive(ctx)
	return types.NewPromptEvent(msgRestored)
}

func (d *Dispatcher) showBookmarks(ctx context.Context) *types.Event {
	tree, err := d.platform.BookmarkTree(ctx)
	if err != nil {
		return d.fail(intent.ShowBookmarks, err)
	}

	nodes := platform.FlattenBookmarks(tree)
	entries := make([]types.BookmarkEntry, 0, len(nodes))
	for _, n := range nodes {
		entries = append(entries, types.BookmarkEntry{Title: n.Title, URL: n.URL})
	}
	return types.NewBookmarksEvent(entries)
}

func (d *Dispatcher) addBookmark(ctx context.Context, tab *platform.Tab) *types.Event {
	if _, err := d.platform.CreateBookmark(ctx, tab.Title, tab.URL); err != nil {
		return d.fail(intent.AddBookmark, err)
	}
	return types.NewPromptEvent(msgBookmarkAdded)
}

// removeBookmark removes every bookmark of the tab's URL. The success status
// is reported even when nothing matched.
func (d *Dispatcher) removeBookmark(ctx context.Context, tab *platform.Tab) *types.Event {
	found, err := d.platform.SearchBookmarks(ctx, tab.URL)
	if err != nil {
		return d.fail(intent.RemoveBookmark, err)
	}

	for _, b := range found {
		if err := d.platform.RemoveBookmark(ctx, b.ID); err != nil {
			d.log.Warnf("failed to remove bookmark %s: %v", b.ID, err)
		}
	}
	d.log.Debugf("removed %d bookmarks for %s", len(found), tab.URL)
	return types.NewPromptEvent(msgBookmarkGone)
}

func (d *Dispatcher) checkBookmark(ctx context.Context, tab *platform.Tab) *types.Event {
	found, err := d.platform.SearchBookmarks(ctx, tab.URL)
	if err != nil {
		return d.fail(intent.CheckBookmark, err)
	}
	return types.NewBookmarkStatusEvent(len(found) > 0)
}

// analyze summarizes the cached page content once it is long enough.
func (d *Dispatcher) analyze(ctx context.Context) *types.Event {
	content := d.session.PageContent()
	if utf8.RuneCountInString(content) <= d.minAnalyzeLength {
		return types.NewPromptEvent(msgTooShort)
	}

	summary, err := d.assistant.Summarize(ctx, content)
	if err != nil {
		return d.fail(intent.Analyze, err)
	}
	if summary == "" {
		return types.NewPromptEvent(msgNoSummary)
	}
	return types.NewPromptEvent(summary)
}

// chat sends an unmatched command to the assistant while chat mode is on.
func (d *Dispatcher) chat(ctx context.Context, prompt string) *types.Event {
	reply, err := d.assistant.Chat(ctx, prompt)
	if err != nil {
		d.log.Errorf("chat failed: %v", err)
		return types.NewPromptEvent(msgChatFailed)
	}
	if strings.TrimSpace(reply) == "" {
		return types.NewPromptEvent(msgNoReply)
	}
	return types.NewPromptEvent(reply)
}
