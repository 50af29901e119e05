package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mkarren/techsync/internal/application"
	"github.com/mkarren/techsync/internal/domain"
)

func newSetCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <tech> <level>",
		Short: "Record a tech level on the selected alt and push it",
		Long:  "Record a tech level on the selected alt and push it to the server. The tech can be given by numeric id or by name, e.g. `techsync set \"Mass Battery\" 7`.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			techID, err := resolveTechID(args[0])
			if err != nil {
				return err
			}

			level, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid level %q: must be a number", args[1])
			}

			if err := app.session.Initialize(cmd.Context()); err != nil {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: sync failed, using cached state: %v\n", err)
			}

			err = runSyncSpinner(cmd.Context(), cmd.ErrOrStderr(), "Syncing tech level...", func(ctx context.Context) error {
				return app.session.SetTechLevel(ctx, techID, level)
			})
			if err != nil {
				var syncErr *application.SyncError
				if !errors.As(err, &syncErr) {
					return err
				}
				// The level is recorded locally; the next sync pushes it.
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: push failed: %v\n", err)
			}

			name := domain.TechName(techID)
			if name == "" {
				name = fmt.Sprintf("tech #%d", techID)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s set to level %d on %s\n", name, level, app.session.SelectedProfile())
			return nil
		},
	}
}

func resolveTechID(arg string) (domain.TechID, error) {
	if id, err := strconv.Atoi(arg); err == nil {
		return domain.TechID(id), nil
	}

	id, ok := domain.TechIDByName(arg)
	if !ok {
		return 0, fmt.Errorf("%q: %w", arg, domain.ErrUnknownTech)
	}

	return id, nil
}
