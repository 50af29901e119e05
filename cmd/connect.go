package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConnectCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "connect <code>",
		Short: "Link this device using a connect code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ident, err := app.session.CheckConnectCode(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Connecting as %s...\n", ident.User.Name)

			confirmed, err := app.session.Connect(cmd.Context(), ident)
			if err != nil {
				if !app.session.Connected() {
					return err
				}
				// Connected, but the initial pull failed. The next sync will
				// catch up.
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: initial sync failed: %v\n", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Connected as %s (%s)\n", confirmed.User.Name, confirmed.Guild.Name)
			return nil
		},
	}
}
