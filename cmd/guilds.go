package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkarren/techsync/internal/domain"
)

func newGuildsCmd(app *app) *cobra.Command {
	var showData bool

	cmd := &cobra.Command{
		Use:   "guilds",
		Short: "List the guilds your pilot belongs to",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.session.Initialize(cmd.Context()); err != nil {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: sync failed, using cached state: %v\n", err)
			}

			ident, ok := app.session.Identity()
			if !ok {
				return domain.ErrNotConnected
			}

			if showData {
				raw, err := app.client.GuildData(cmd.Context(), ident.Token)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(raw))
				return err
			}

			guilds, err := app.client.UserGuilds(cmd.Context(), ident.Token)
			if err != nil {
				return err
			}

			if len(guilds) == 0 {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "No guilds.")
				return err
			}

			for _, guild := range guilds {
				marker := " "
				if guild.ID == ident.Guild.ID {
					marker = "*"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", marker, guild.Name, guild.ID)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showData, "data", false, "Print the raw guild data payload")

	return cmd
}
