package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/commentify/commentify/internal/cli/tui"
	"github.com/commentify/commentify/internal/monitor"
)

// newQueueCmd creates the 'queue' command group
func (a *App) newQueueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Monitor and control the comment job queue",
	}

	cmd.AddCommand(
		a.newQueueStatusCmd(),
		a.newQueueWatchCmd(),
		a.newQueueControlCmd("pause", "Pause the queue",
			func(m *monitor.Monitor, ctx context.Context) error { return m.Pause(ctx) }),
		a.newQueueControlCmd("resume", "Resume a paused queue",
			func(m *monitor.Monitor, ctx context.Context) error { return m.Resume(ctx) }),
		a.newQueueControlCmd("clean", "Remove completed and failed jobs",
			func(m *monitor.Monitor, ctx context.Context) error { return m.Clean(ctx) }),
	)

	return cmd
}

// newQueueStatusCmd creates 'queue status': a one-shot stats fetch
func (a *App) newQueueStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the current queue counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.wire()
			if err != nil {
				return err
			}
			defer d.Close()

			stats, err := d.client.QueueStats(cmd.Context())
			if err != nil {
				return err
			}

			processed := stats.Completed + stats.Failed
			fmt.Printf("Waiting:    %d\n", stats.Waiting)
			fmt.Printf("Active:     %d\n", stats.Active)
			fmt.Printf("Completed:  %d\n", stats.Completed)
			fmt.Printf("Failed:     %d\n", stats.Failed)
			fmt.Printf("Progress:   %.0f%% (%d of %d jobs processed)\n",
				monitor.Progress(stats), processed, stats.Total())
			return nil
		},
	}
}

// newQueueWatchCmd creates 'queue watch': the live dashboard
func (a *App) newQueueWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Open the live queue dashboard",
		Long: `Watch the queue counters refresh on an interval. Key bindings:
r refresh, p pause, s resume, c clean, q quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.wire()
			if err != nil {
				return err
			}
			defer d.Close()

			interval, err := d.cfg.StatsInterval()
			if err != nil {
				return err
			}

			// Notifications render inside the dashboard while it runs.
			sink := &tui.Sink{}
			mon := monitor.New(d.client, sink, interval)
			mon.SetVerbose(a.verbose)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			model := tui.NewModel(ctx, mon)
			program := tea.NewProgram(model)
			sink.Send = program.Send

			mon.Start(ctx)
			defer mon.Stop()

			_, err = program.Run()
			return err
		},
	}
}

// newQueueControlCmd creates a one-shot queue control command. Each
// control issues its command, refreshes the counters on success, and
// reports exactly one notification.
func (a *App) newQueueControlCmd(use, short string, run func(*monitor.Monitor, context.Context) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.wire()
			if err != nil {
				return err
			}
			defer d.Close()

			mon := monitor.New(d.client, d.sink, 0)
			mon.SetVerbose(a.verbose)
			if err := run(mon, cmd.Context()); err != nil {
				return err
			}

			// Plain output, not a notification: the control command
			// itself already produced its single notification.
			if snap := mon.Snapshot(); snap != nil {
				fmt.Printf("Queue: %d waiting, %d active, %d completed, %d failed\n",
					snap.Stats.Waiting, snap.Stats.Active, snap.Stats.Completed, snap.Stats.Failed)
			}
			return nil
		},
	}
}
