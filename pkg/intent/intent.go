// Package intent maps normalized voice commands to browser-control intents.
//
// Classification is a first-match-wins scan over an ordered rule table. Each
// rule owns one or more trigger substrings, matched against the compact form
// of the command (lowercase, whitespace and punctuation removed). Because
// matching is by substring, a trigger that is contained in a later trigger of
// another intent would shadow it; the table is ordered so that never happens,
// and tests assert it.
package intent

// Intent identifies a recognised command category.
type Intent string

const (
	None               Intent = ""                     // None means no trigger matched.
	DeactivateChatMode Intent = "deactivate_chat_mode" // DeactivateChatMode turns chat mode off and flushes the transcript.
	ActivateChatMode   Intent = "activate_chat_mode"   // ActivateChatMode turns chat mode on.
	OpenTab            Intent = "open_tab"             // OpenTab activates the first tab matching a query.
	Refresh            Intent = "refresh"              // Refresh reloads the current tab.
	CloseTab           Intent = "close_tab"            // CloseTab closes the current tab.
	NewTab             Intent = "new_tab"              // NewTab opens a tab at the default URL.
	PreviousTab        Intent = "previous_tab"         // PreviousTab activates the tab to the left, wrapping to the last.
	NextTab            Intent = "next_tab"             // NextTab activates the tab to the right, wrapping to the first.
	Unmute             Intent = "unmute"               // Unmute unmutes the current tab.
	Mute               Intent = "mute"                 // Mute mutes the current tab.
	Restore            Intent = "restore"              // Restore reopens the most recently closed tab.
	ShowBookmarks      Intent = "show_bookmarks"       // ShowBookmarks lists every bookmark.
	AddBookmark        Intent = "add_bookmark"         // AddBookmark bookmarks the current tab.
	RemoveBookmark     Intent = "remove_bookmark"      // RemoveBookmark removes bookmarks for the current URL.
	CheckBookmark      Intent = "check_bookmark"       // CheckBookmark reports whether the current URL is bookmarked.
	Analyze            Intent = "analyze"              // Analyze summarizes the cached page content.
)

// Rule binds an intent to its trigger substrings.
type Rule struct {
	Intent   Intent
	Triggers []string

	// ChatControl marks rules that only toggle chat mode and never reach the
	// platform.
	ChatControl bool

	// NeedsTab marks rules whose action operates on the current tab.
	NeedsTab bool
}

// rules is the dispatch table in priority order.
//
// deactivatechatmode must precede activatechatmode, and unmute must precede
// mute: in both pairs the shorter trigger is a substring of the longer one.
var rules = []Rule{
	{Intent: DeactivateChatMode, Triggers: []string{"deactivatechatmode"}, ChatControl: true},
	{Intent: ActivateChatMode, Triggers: []string{"activatechatmode"}, ChatControl: true},
	{Intent: OpenTab, Triggers: []string{"open"}},
	{Intent: Refresh, Triggers: []string{"refresh"}, NeedsTab: true},
	{Intent: CloseTab, Triggers: []string{"closetab"}, NeedsTab: true},
	{Intent: NewTab, Triggers: []string{"gotonewtab"}},
	{Intent: PreviousTab, Triggers: []string{"previous", "gotoprevioustab"}, NeedsTab: true},
	{Intent: NextTab, Triggers: []string{"gotonexttab"}, NeedsTab: true},
	{Intent: Unmute, Triggers: []string{"unmute"}, NeedsTab: true},
	{Intent: Mute, Triggers: []string{"mute"}, NeedsTab: true},
	{Intent: Restore, Triggers: []string{"restore"}},
	{Intent: ShowBookmarks, Triggers: []string{"showbookmarks"}},
	{Intent: AddBookmark, Triggers: []string{"addbookmark"}, NeedsTab: true},
	{Intent: RemoveBookmark, Triggers: []string{"removebookmark"}, NeedsTab: true},
	{Intent: CheckBookmark, Triggers: []string{"checkbookmark"}, NeedsTab: true},
	{Intent: Analyze, Triggers: []string{"analyze"}},
}

// Rules returns a copy of the dispatch table in priority order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	for i, r := range rules {
		r.Triggers = append([]string(nil), r.Triggers...)
		out[i] = r
	}
	return out
}

// Lookup returns the rule for an intent.
func Lookup(in Intent) (Rule, bool) {
	for _, r := range rules {
		if r.Intent == in {
			return r, true
		}
	}
	return Rule{}, false
}
