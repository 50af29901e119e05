package status

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mkarren/techsync/internal/domain"
)

// Report is a display-ready view of the current session.
type Report struct {
	Connected  bool
	User       string
	Guild      string
	Profile    domain.ProfileName
	LastSyncAt time.Time
	Levels     []TechLevel
}

// TechLevel is one row of the tech table.
type TechLevel struct {
	ID    domain.TechID
	Name  string
	Level int
	SetAt time.Time
}

type RenderOptions struct {
	Now        time.Time
	StaleAfter time.Duration
}

// ReportLevels flattens a tech level map into sorted display rows.
func ReportLevels(levels map[domain.TechID]domain.TechRecord) []TechLevel {
	rows := make([]TechLevel, 0, len(levels))
	for id, record := range levels {
		name := domain.TechName(id)
		if name == "" {
			name = fmt.Sprintf("tech #%d", id)
		}
		rows = append(rows, TechLevel{ID: id, Name: name, Level: record.Level, SetAt: record.SetAt})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows
}

func renderView(report Report, opts RenderOptions, s styles) string {
	lines := []string{s.title.Render("Tech Sync Status")}

	if !report.Connected {
		lines = append(lines, s.empty.Render("Not connected. Run `techsync connect <code>` to link this device."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	lines = append(lines,
		s.identity.Render(identityTitle(report.User, report.Guild)),
		s.header.Render(fmt.Sprintf("alt: %s", report.Profile)),
		s.header.Render(syncLine(report.LastSyncAt, opts, s)),
	)

	lines = append(lines, s.section.Render(renderLevels(report.Levels, opts, s)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func identityTitle(user, guild string) string {
	user = strings.TrimSpace(user)
	guild = strings.TrimSpace(guild)
	if guild == "" {
		return user
	}

	return fmt.Sprintf("%s (%s)", user, guild)
}

func syncLine(lastSyncAt time.Time, opts RenderOptions, s styles) string {
	if lastSyncAt.IsZero() {
		return "last sync: never"
	}

	line := "last sync: " + formatAge(lastSyncAt, opts.Now)
	if !opts.Now.IsZero() && opts.StaleAfter > 0 && opts.Now.Sub(lastSyncAt) > opts.StaleAfter {
		line += " " + s.warning.Render("[stale]")
	}

	return line
}

func renderLevels(levels []TechLevel, opts RenderOptions, s styles) string {
	if len(levels) == 0 {
		return s.empty.Render("No tech levels recorded yet.")
	}

	nameWidth := 0
	for _, row := range levels {
		if len(row.Name) > nameWidth {
			nameWidth = len(row.Name)
		}
	}

	lines := make([]string, 0, len(levels))
	for _, row := range levels {
		line := lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.techName.Render(fmt.Sprintf("%-*s", nameWidth, row.Name)),
			"  ",
			s.level.Render(fmt.Sprintf("L%d", row.Level)),
			"  ",
			s.techMeta.Render(fmt.Sprintf("(set %s)", formatAge(row.SetAt, opts.Now))),
		)
		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func formatAge(at, now time.Time) string {
	if at.IsZero() {
		return "unknown"
	}
	if now.IsZero() || now.Before(at) {
		return at.Format("15:04 on 02 Jan")
	}

	elapsed := now.Sub(at)
	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		minutes := int(elapsed.Minutes())
		return fmt.Sprintf("%d %s ago", minutes, plural(minutes, "minute"))
	case elapsed < 24*time.Hour:
		hours := int(math.Round(elapsed.Hours()))
		return fmt.Sprintf("%d %s ago", hours, plural(hours, "hour"))
	default:
		days := int(elapsed.Hours() / 24)
		return fmt.Sprintf("%d %s ago", days, plural(days, "day"))
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}

	return unit + "s"
}
