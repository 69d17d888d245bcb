package intent

import (
	"strings"
)

// stripped are the characters removed when compacting a transcript.
const stripped = "-)(.,;"

// Command is a normalized transcript.
type Command struct {
	// Text is the transcript lowercased and trimmed.
	Text string

	// Compact is Text with whitespace and punctuation removed. Triggers are
	// matched against this form.
	Compact string
}

// Normalize derives a Command from raw transcript text.
func Normalize(raw string) Command {
	text := strings.ToLower(strings.TrimSpace(raw))

	compact := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || strings.ContainsRune(stripped, r) {
			return -1
		}
		return r
	}, text)

	return Command{Text: text, Compact: compact}
}

// Result is the outcome of classifying a command.
type Result struct {
	Rule Rule

	// Trigger is the substring that selected the rule.
	Trigger string

	// Query is the search text for OpenTab.
	Query string
}

// Matched returns true if a rule was selected.
func (r Result) Matched() bool {
	return r.Rule.Intent != None
}

// Intent returns the selected intent, or None.
func (r Result) Intent() Intent {
	return r.Rule.Intent
}

// Classify returns the first rule, in priority order, with a trigger
// contained in the command.
func Classify(cmd Command) Result {
	for _, rule := range rules {
		for _, trigger := range rule.Triggers {
			if !strings.Contains(cmd.Compact, trigger) {
				continue
			}
			res := Result{Rule: rule, Trigger: trigger}
			if rule.Intent == OpenTab {
				res.Query = extractQuery(cmd, trigger)
			}
			return res
		}
	}
	return Result{}
}

// extractQuery returns the text after the first occurrence of trigger. The
// spaced form is preferred so that multi-word queries keep their spaces; an
// already compacted transcript falls back to the compact form.
func extractQuery(cmd Command, trigger string) string {
	if idx := strings.Index(cmd.Text, trigger); idx >= 0 {
		return strings.TrimSpace(strings.Trim(cmd.Text[idx+len(trigger):], stripped+" "))
	}
	if idx := strings.Index(cmd.Compact, trigger); idx >= 0 {
		return cmd.Compact[idx+len(trigger):]
	}
	return ""
}
