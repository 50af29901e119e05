package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTechNameLookup(t *testing.T) {
	tests := []struct {
		name string
		id   TechID
		want string
	}{
		{name: "known combat tech", id: 42, want: "Mass Battery"},
		{name: "known trade tech", id: 1, want: "Cargo Bay Extension"},
		{name: "unknown id returns empty string", id: 9999, want: ""},
		{name: "zero id returns empty string", id: 0, want: ""},
		{name: "negative id returns empty string", id: -1, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TechName(tt.id))
		})
	}
}

func TestTechIDByName(t *testing.T) {
	id, ok := TechIDByName("mass battery")
	require.True(t, ok)
	assert.Equal(t, TechID(42), id)

	id, ok = TechIDByName("  Teleport ")
	require.True(t, ok)
	assert.Equal(t, TechID(81), id)

	_, ok = TechIDByName("no such tech")
	assert.False(t, ok)
}

func TestNewProfileStateDefaults(t *testing.T) {
	state := NewProfileState()

	assert.Equal(t, 1, state.Version)
	assert.Equal(t, 1, state.SyncFlag)
	require.NotNil(t, state.TechLevels)
	assert.Empty(t, state.TechLevels)
}

func TestRegistryGetOrCreateIsLazyAndCaseSensitive(t *testing.T) {
	registry := Registry{}

	first := registry.GetOrCreate("Miner")
	require.NotNil(t, first)
	assert.Same(t, first, registry.GetOrCreate("Miner"))

	other := registry.GetOrCreate("miner")
	assert.NotSame(t, first, other)
	assert.Len(t, registry, 2)
}

func TestRegistryGetOrCreateNormalizesNilTechMap(t *testing.T) {
	registry := Registry{"stale": {Version: 3, SyncFlag: 2}}

	state := registry.GetOrCreate("stale")
	require.NotNil(t, state.TechLevels)
	assert.Equal(t, 3, state.Version)
}

func TestIdentityValid(t *testing.T) {
	assert.False(t, Identity{}.Valid())
	assert.False(t, Identity{Token: "tok"}.Valid())
	assert.False(t, Identity{User: UserRef{ID: "u1"}}.Valid())
	assert.True(t, Identity{Token: "tok", User: UserRef{ID: "u1"}}.Valid())
}

func TestProfileStateCloneTechLevels(t *testing.T) {
	state := NewProfileState()
	state.TechLevels[42] = TechRecord{Level: 3}

	clone := state.CloneTechLevels()
	clone[42] = TechRecord{Level: 9}

	assert.Equal(t, 3, state.TechLevels[42].Level)
}
