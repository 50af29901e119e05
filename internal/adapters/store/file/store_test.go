package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mkarren/techsync/internal/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	config := viper.New()
	config.Set("store.path", t.TempDir())

	store, err := NewStore(config)
	require.NoError(t, err)
	return store
}

func TestStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	require.NoError(t, store.Set(context.Background(), "techsync/session", []byte(`{"ok":true}`)))

	got, err := store.Get(context.Background(), "techsync/session")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"ok":true}`), got)
}

func TestStoreGetMissingKeyReturnsNotFound(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	_, err := store.Get(context.Background(), "techsync/session")
	require.ErrorIs(t, err, domain.ErrSnapshotNotFound)
}

func TestStoreSetOverwritesAtomically(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	require.NoError(t, store.Set(context.Background(), "techsync/session", []byte("first")))
	require.NoError(t, store.Set(context.Background(), "techsync/session", []byte("second")))

	got, err := store.Get(context.Background(), "techsync/session")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Join(store.root, "techsync"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestStoreRemoveIsIdempotent(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	require.NoError(t, store.Set(context.Background(), "techsync/session", []byte("blob")))
	require.NoError(t, store.Remove(context.Background(), "techsync/session"))
	require.NoError(t, store.Remove(context.Background(), "techsync/session"))

	_, err := store.Get(context.Background(), "techsync/session")
	require.ErrorIs(t, err, domain.ErrSnapshotNotFound)
}

func TestStoreRejectsInvalidKeys(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	tests := []struct {
		name string
		key  string
	}{
		{name: "empty", key: ""},
		{name: "whitespace", key: "   "},
		{name: "absolute", key: "/etc/passwd"},
		{name: "parent escape", key: "../outside"},
		{name: "dot", key: "."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, store.Set(context.Background(), tt.key, []byte("blob")))
			_, err := store.Get(context.Background(), tt.key)
			require.Error(t, err)
		})
	}
}

func TestStoreWrittenFileHasRestrictiveMode(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	require.NoError(t, store.Set(context.Background(), "session", []byte("blob")))

	info, err := os.Stat(filepath.Join(store.root, "session.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
