package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mohsinkhan85090/VoiceBrowse/pkg/dispatcher"
	"github.com/mohsinkhan85090/VoiceBrowse/pkg/types"
	"github.com/spf13/cobra"
)

// maxLineSize bounds one stdin line; page content pushes can be large.
const maxLineSize = 4 * 1024 * 1024

func newListenCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "listen",
		Short: "Read transcripts from stdin",
		Long: `Read transcripts from stdin, one per line, and dispatch each as a command.

A line holding a JSON message is routed as an inbound message:
  {"type":"voiceCommand","payloadData":"go to next tab"}
  {"type":"tabActivated"}
  {"webpageContent":"...page text..."}
Any other non-empty line is treated as a spoken transcript.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(opts, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			runErr := listen(ctx, a, cmd.InOrStdin())
			if err := a.Close(); err != nil && runErr == nil {
				runErr = err
			}
			return runErr
		},
	}
}

// listen dispatches every line of r until EOF or cancellation.
func listen(ctx context.Context, a *app, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := a.feed(ctx, func(ctx context.Context, d *dispatcher.Dispatcher) error {
			return dispatchLine(ctx, d, line)
		}); err != nil {
			a.log.Warnf("failed to handle line: %v", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

// dispatchLine routes a JSON message or treats line as a transcript.
func dispatchLine(ctx context.Context, d *dispatcher.Dispatcher, line string) error {
	if strings.HasPrefix(line, "{") {
		if msg, err := types.ParseMessage([]byte(line)); err == nil {
			return d.HandleMessage(ctx, msg)
		}
	}
	d.HandleFragment(ctx, types.TranscriptFragment{Text: line, Timestamp: time.Now()})
	return nil
}
