package ports

import (
	"context"
	"encoding/json"

	"github.com/mkarren/techsync/internal/domain"
)

type SyncMode string

const (
	// SyncModeGet asks the server for its authoritative state, disregarding
	// any local payload.
	SyncModeGet SyncMode = "get"
	// SyncModeSync submits local state and receives back the server's
	// reconciled authoritative state.
	SyncModeSync SyncMode = "sync"
)

// SyncClient is the remote authoritative service. Timeout semantics live
// entirely behind this interface.
type SyncClient interface {
	// CheckIdentity resolves a human-entered connect code into a prospective
	// identity without mutating anything.
	CheckIdentity(ctx context.Context, code string) (domain.Identity, error)

	// Connect exchanges a prospective identity for a confirmed one.
	Connect(ctx context.Context, ident domain.Identity) (domain.Identity, error)

	// RefreshConnection trades a possibly stale token for a fresh identity.
	RefreshConnection(ctx context.Context, token string) (domain.Identity, error)

	// Sync exchanges one profile's tech levels with the server and returns
	// the authoritative state for that profile.
	Sync(ctx context.Context, profile domain.ProfileName, token string, mode SyncMode, levels map[domain.TechID]domain.TechRecord) (domain.ProfileState, error)

	// GuildData fetches the raw guild payload for the authenticated user.
	GuildData(ctx context.Context, token string) (json.RawMessage, error)

	// UserGuilds lists the guilds the authenticated user belongs to.
	UserGuilds(ctx context.Context, token string) ([]domain.GuildRef, error)
}
