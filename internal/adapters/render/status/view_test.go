package status

import (
	"testing"
	"time"

	"github.com/mkarren/techsync/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderDisconnectedSession(t *testing.T) {
	output, err := Render(Report{}, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "Tech Sync Status")
	assert.Contains(t, output, "Not connected")
	assert.Contains(t, output, "techsync connect")
}

func TestRenderConnectedSessionWithLevels(t *testing.T) {
	now := time.Date(2026, 8, 30, 11, 0, 0, 0, time.UTC)

	output, err := Render(Report{
		Connected:  true,
		User:       "Pilot",
		Guild:      "Void Corsairs",
		Profile:    "default",
		LastSyncAt: now.Add(-2 * time.Minute),
		Levels: []TechLevel{
			{ID: 42, Name: "Mass Battery", Level: 7, SetAt: now.Add(-3 * time.Hour)},
			{ID: 81, Name: "Teleport", Level: 2, SetAt: now.Add(-4 * 24 * time.Hour)},
		},
	}, RenderOptions{Now: now, StaleAfter: time.Hour})

	require.NoError(t, err)
	assert.Contains(t, output, "Pilot (Void Corsairs)")
	assert.Contains(t, output, "alt: default")
	assert.Contains(t, output, "last sync: 2 minutes ago")
	assert.Contains(t, output, "Mass Battery")
	assert.Contains(t, output, "L7")
	assert.Contains(t, output, "set 3 hours ago")
	assert.Contains(t, output, "Teleport")
	assert.Contains(t, output, "set 4 days ago")
	assert.NotContains(t, output, "stale")
}

func TestRenderMarksStaleSync(t *testing.T) {
	now := time.Date(2026, 8, 30, 11, 0, 0, 0, time.UTC)

	output, err := Render(Report{
		Connected:  true,
		User:       "Pilot",
		Profile:    "default",
		LastSyncAt: now.Add(-26 * time.Hour),
	}, RenderOptions{Now: now, StaleAfter: time.Hour})

	require.NoError(t, err)
	assert.Contains(t, output, "last sync: 1 day ago")
	assert.Contains(t, output, "[stale]")
}

func TestRenderConnectedSessionWithoutLevels(t *testing.T) {
	now := time.Date(2026, 8, 30, 11, 0, 0, 0, time.UTC)

	output, err := Render(Report{
		Connected: true,
		User:      "Pilot",
		Profile:   "miner-two",
	}, RenderOptions{Now: now})

	require.NoError(t, err)
	assert.Contains(t, output, "alt: miner-two")
	assert.Contains(t, output, "last sync: never")
	assert.Contains(t, output, "No tech levels recorded yet.")
}

func TestReportLevelsSortsByNameAndLabelsUnknowns(t *testing.T) {
	now := time.Date(2026, 8, 30, 11, 0, 0, 0, time.UTC)

	rows := ReportLevels(map[domain.TechID]domain.TechRecord{
		81:   {Level: 2, SetAt: now},
		42:   {Level: 7, SetAt: now},
		9999: {Level: 1, SetAt: now},
	})

	require.Len(t, rows, 3)
	assert.Equal(t, "Mass Battery", rows[0].Name)
	assert.Equal(t, "Teleport", rows[1].Name)
	assert.Equal(t, "tech #9999", rows[2].Name)
}

func TestFormatAge(t *testing.T) {
	now := time.Date(2026, 8, 30, 11, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{name: "zero", at: time.Time{}, want: "unknown"},
		{name: "seconds", at: now.Add(-30 * time.Second), want: "just now"},
		{name: "one minute", at: now.Add(-90 * time.Second), want: "1 minute ago"},
		{name: "hours", at: now.Add(-5 * time.Hour), want: "5 hours ago"},
		{name: "days", at: now.Add(-49 * time.Hour), want: "2 days ago"},
		{name: "future", at: now.Add(time.Hour), want: "12:00 on 30 Aug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatAge(tt.at, now))
		})
	}
}
