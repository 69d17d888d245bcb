package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mohsinkhan85090/VoiceBrowse/pkg/dispatcher"
	"github.com/mohsinkhan85090/VoiceBrowse/pkg/types"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// replayStep is one entry of a replay script. A step may push page content,
// dispatch a transcript, or both; content is pushed first.
type replayStep struct {
	Text        string    `yaml:"text"`
	Timestamp   time.Time `yaml:"timestamp"`
	PageContent string    `yaml:"page_content"`
}

func newReplayCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "replay <script.yaml>",
		Short: "Feed a recorded session",
		Long: `Feed the steps of a YAML script to the dispatcher in order.

Example script:
  - page_content: "Long article text..."
  - text: "analyze"
    timestamp: 2024-05-01T10:00:00Z
  - text: "go to next tab"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, err := loadScript(args[0])
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(opts, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			runErr := replay(ctx, a, steps)
			if err := a.Close(); err != nil && runErr == nil {
				runErr = err
			}
			return runErr
		},
	}
}

// loadScript reads and validates a replay script.
func loadScript(path string) ([]replayStep, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}

	var steps []replayStep
	if err := yaml.Unmarshal(data, &steps); err != nil {
		return nil, fmt.Errorf("failed to parse script %s: %w", path, err)
	}
	if len(steps) == 0 {
		return nil, errors.New("script has no steps")
	}
	for i, step := range steps {
		if step.Text == "" && step.PageContent == "" {
			return nil, fmt.Errorf("step %d: needs text or page_content", i+1)
		}
	}
	return steps, nil
}

// replay feeds steps in order, waiting for each step's action to finish.
func replay(ctx context.Context, a *app, steps []replayStep) error {
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			a.log.Warnf("replay interrupted at step %d", i+1)
			return nil
		}
		_ = a.feed(ctx, func(ctx context.Context, d *dispatcher.Dispatcher) error {
			if step.PageContent != "" {
				d.SetPageContent(step.PageContent)
			}
			if step.Text != "" {
				stamp := step.Timestamp
				if stamp.IsZero() {
					stamp = time.Now()
				}
				d.HandleFragment(ctx, types.TranscriptFragment{Text: step.Text, Timestamp: stamp})
			}
			return nil
		})
	}
	return nil
}
