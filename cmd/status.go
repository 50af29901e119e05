package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	statusadapter "github.com/mkarren/techsync/internal/adapters/render/status"
	"github.com/mkarren/techsync/internal/domain"
)

func newStatusCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show connection state and tech levels for the selected alt",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.session.Initialize(cmd.Context()); err != nil {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: sync failed, showing cached state: %v\n", err)
			}

			report := buildStatusReport(app)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(statusJSON(report))
			}

			rendered, err := app.statusRenderer(report, statusadapter.RenderOptions{
				Now:        app.now(),
				StaleAfter: app.staleAfter,
			})
			if err != nil {
				return fmt.Errorf("render status: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output status as JSON")

	return cmd
}

func buildStatusReport(app *app) statusadapter.Report {
	report := statusadapter.Report{
		Connected: app.session.Connected(),
		Profile:   app.session.SelectedProfile(),
	}
	if !report.Connected {
		return report
	}

	if user, ok := app.session.User(); ok {
		report.User = user.Name
	}
	if guild, ok := app.session.Guild(); ok {
		report.Guild = guild.Name
	}
	report.LastSyncAt = app.session.LastSyncAt()

	if levels, ok := app.session.TechLevels(); ok {
		report.Levels = statusadapter.ReportLevels(levels)
	}

	return report
}

type statusDocument struct {
	Connected  bool               `json:"connected"`
	User       string             `json:"user,omitempty"`
	Guild      string             `json:"guild,omitempty"`
	Profile    domain.ProfileName `json:"profile"`
	LastSyncAt *time.Time         `json:"lastSyncAt,omitempty"`
	TechLevels []techLevelEntry   `json:"techLevels"`
}

type techLevelEntry struct {
	ID    domain.TechID `json:"id"`
	Name  string        `json:"name"`
	Level int           `json:"level"`
	SetAt time.Time     `json:"setAt"`
}

func statusJSON(report statusadapter.Report) statusDocument {
	doc := statusDocument{
		Connected:  report.Connected,
		User:       report.User,
		Guild:      report.Guild,
		Profile:    report.Profile,
		TechLevels: make([]techLevelEntry, 0, len(report.Levels)),
	}
	if !report.LastSyncAt.IsZero() {
		at := report.LastSyncAt
		doc.LastSyncAt = &at
	}

	for _, row := range report.Levels {
		doc.TechLevels = append(doc.TechLevels, techLevelEntry{
			ID:    row.ID,
			Name:  row.Name,
			Level: row.Level,
			SetAt: row.SetAt,
		})
	}

	return doc
}
