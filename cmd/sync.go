package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkarren/techsync/internal/domain"
	"github.com/mkarren/techsync/internal/ports"
)

func newSyncCmd(app *app) *cobra.Command {
	var pull bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Exchange the selected alt's levels with the server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.session.Initialize(cmd.Context()); err != nil {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: startup sync failed: %v\n", err)
			}
			if !app.session.Connected() {
				return domain.ErrNotConnected
			}

			mode := ports.SyncModeSync
			if pull {
				mode = ports.SyncModeGet
			}

			profile := app.session.SelectedProfile()
			if err := app.session.SyncProfile(cmd.Context(), profile, mode); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Synced %s\n", profile)
			return nil
		},
	}

	cmd.Flags().BoolVar(&pull, "get", false, "Discard local levels and pull the server's state")

	return cmd
}
