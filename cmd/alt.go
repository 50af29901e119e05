package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	eventsadapter "github.com/mkarren/techsync/internal/adapters/events"
	"github.com/mkarren/techsync/internal/domain"
)

const altSwitchTimeout = time.Minute

func newAltCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "alt <name>",
		Short: "Switch to another alt and pull its levels from the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := domain.ProfileName(args[0])

			if err := app.session.Initialize(cmd.Context()); err != nil {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: sync failed, using cached state: %v\n", err)
			}
			if !app.session.Connected() {
				return domain.ErrNotConnected
			}

			// The refresh after a switch runs in the background; wait on the
			// event bus so the command exits with a definite outcome.
			done := make(chan error, 1)
			app.bus.Subscribe(eventsadapter.SinkFuncs{
				OnSynced: func(map[domain.TechID]domain.TechRecord) {
					select {
					case done <- nil:
					default:
					}
				},
				OnConnectFailed: func(reason string) {
					select {
					case done <- errors.New(reason):
					default:
					}
				},
			})

			app.session.SwitchAlt(cmd.Context(), name)

			select {
			case err := <-done:
				if err != nil {
					return fmt.Errorf("pull alt %q: %w", name, err)
				}
			case <-time.After(altSwitchTimeout):
				return fmt.Errorf("pull alt %q: timed out", name)
			case <-cmd.Context().Done():
				return cmd.Context().Err()
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Switched to %s\n", name)
			return nil
		},
	}
}
