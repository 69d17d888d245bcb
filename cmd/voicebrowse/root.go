package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

const (
	platformMemory  = "memory"
	platformBrowser = "browser"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath  string
	platform    string
	headless    bool
	model       string
	apiKey      string
	baseURL     string
	bookmarksDB string
	jsonOutput  bool
	logLevel    string

	// headlessSet records whether --headless was passed explicitly.
	headlessSet bool

	// logWriter replaces the session log file when set.
	logWriter io.Writer
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	return newRootCmdWithOptions(opts)
}

func newRootCmdWithOptions(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "voicebrowse",
		Short: "Control a browser with spoken commands",
		Long: `voicebrowse maps speech transcripts to browser actions.

Each transcript is classified against an ordered trigger table (see
"voicebrowse intents") and the matching action runs against the current
window: switching, closing and restoring tabs, muting, bookmarking and
summarizing the page. Say "activate chat mode" to send unmatched phrases to
the language model instead.

Quick Start:
  voicebrowse listen                          # type transcripts on stdin
  voicebrowse replay session.yaml             # feed a recorded session
  voicebrowse --platform browser listen       # drive a real Chromium window
  voicebrowse intents                         # show the trigger table`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.headlessSet = cmd.Flags().Changed("headless")
			switch opts.platform {
			case platformMemory, platformBrowser:
				return nil
			default:
				return fmt.Errorf("unknown platform %q (want %s or %s)", opts.platform, platformMemory, platformBrowser)
			}
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to the configuration file (default ~/.voicebrowse/config.json)")
	flags.StringVar(&opts.platform, "platform", platformMemory, "Browser platform: memory or browser")
	flags.BoolVar(&opts.headless, "headless", false, "Run Chromium without a window (browser platform only)")
	flags.StringVar(&opts.model, "model", "", "LLM model for chat and summaries")
	flags.StringVar(&opts.apiKey, "api-key", "", "OpenAI API key (or set OPENAI_API_KEY env var)")
	flags.StringVar(&opts.baseURL, "base-url", "", "OpenAI API base URL (or set OPENAI_BASE_URL env var)")
	flags.StringVar(&opts.bookmarksDB, "bookmarks-db", "", "SQLite file for bookmarks (default: in memory)")
	flags.BoolVar(&opts.jsonOutput, "json", false, "Print events as raw JSON, one per line")
	flags.StringVar(&opts.logLevel, "log-level", "info", "Minimum log level: debug, info, warn or error")

	cmd.AddCommand(newListenCmd(opts))
	cmd.AddCommand(newReplayCmd(opts))
	cmd.AddCommand(newIntentsCmd())

	cmd.SetVersionTemplate(`{{printf "voicebrowse v%s\n" .Version}}`)
	return cmd
}
