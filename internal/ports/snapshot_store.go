package ports

import "context"

// SnapshotStore is durable key-to-blob storage. The session keeps its entire
// serialized state under a single well-known key; the store never sees
// partial fields. Get returns an error wrapping domain.ErrSnapshotNotFound
// when the key is absent.
type SnapshotStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, blob []byte) error
	Remove(ctx context.Context, key string) error
}
