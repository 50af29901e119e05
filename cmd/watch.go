package cmd

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	eventsadapter "github.com/mkarren/techsync/internal/adapters/events"
	"github.com/mkarren/techsync/internal/application"
	"github.com/mkarren/techsync/internal/domain"
)

func newWatchCmd(app *app) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the session fresh and print sync events as they happen",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			app.bus.Subscribe(eventsadapter.SinkFuncs{
				OnConnected: func(ident domain.Identity) {
					_, _ = fmt.Fprintf(out, "connected: %s (%s)\n", ident.User.Name, ident.Guild.Name)
				},
				OnDisconnected: func() {
					_, _ = fmt.Fprintln(out, "disconnected")
				},
				OnConnectFailed: func(reason string) {
					_, _ = fmt.Fprintf(out, "connect failed: %s\n", reason)
				},
				OnSynced: func(levels map[domain.TechID]domain.TechRecord) {
					_, _ = fmt.Fprintf(out, "synced: %d tech levels\n", len(levels))
				},
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := app.session.Initialize(ctx); err != nil {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: startup sync failed: %v\n", err)
			}
			if !app.session.Connected() {
				return domain.ErrNotConnected
			}

			config := application.DefaultRefreshLoopConfig()
			if interval > 0 {
				config.Interval = interval
			}

			loop := application.NewRefreshLoop(app.session, config)
			loop.Start(ctx)
			defer loop.Stop()

			<-ctx.Done()
			_, _ = fmt.Fprintln(out, "stopping")
			return nil
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "Refresh interval (default 5m)")

	return cmd
}
