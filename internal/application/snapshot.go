package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mkarren/techsync/internal/domain"
)

type snapshotSchema struct {
	Ident        *identitySchema               `json:"ident,omitempty"`
	UserData     map[string]profileStateSchema `json:"userData"`
	Refresh      int64                         `json:"refresh"`
	TokenRefresh int64                         `json:"tokenRefresh"`
}

type identitySchema struct {
	Token string      `json:"token"`
	User  actorSchema `json:"user"`
	Guild actorSchema `json:"guild"`
}

type actorSchema struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type profileStateSchema struct {
	Version    int                                `json:"version"`
	SyncFlag   int                                `json:"syncFlag"`
	TechLevels map[domain.TechID]techRecordSchema `json:"techLevels"`
}

type techRecordSchema struct {
	Level     int   `json:"level"`
	Timestamp int64 `json:"timestamp"`
}

// writeSnapshotLocked serializes the full session as one opaque blob. It is
// a no-op while disconnected: a disconnected session is never persisted.
func (s *Session) writeSnapshotLocked(ctx context.Context) error {
	if !s.ident.Valid() {
		return nil
	}

	ident := identToSchema(s.ident)
	snap := snapshotSchema{
		Ident:        &ident,
		UserData:     registryToSchema(s.registry),
		Refresh:      epochMillis(s.lastSyncAt),
		TokenRefresh: epochMillis(s.lastTokenRefreshAt),
	}

	blob, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode session snapshot: %w", err)
	}

	if err := s.store.Set(ctx, SnapshotKey, blob); err != nil {
		return fmt.Errorf("persist session snapshot: %w", err)
	}

	return nil
}

// readSnapshotLocked restores the persisted snapshot and reports whether an
// identity was recovered. Any malformed persisted state is treated as
// equivalent to never having connected: state is cleared, connectfailed is
// emitted exactly once, and no error escapes.
func (s *Session) readSnapshotLocked(ctx context.Context) bool {
	blob, err := s.store.Get(ctx, SnapshotKey)
	if err != nil {
		if errors.Is(err, domain.ErrSnapshotNotFound) {
			s.resetLocked()
			return false
		}

		s.resetLocked()
		s.events.ConnectFailed(fmt.Sprintf("restore saved session: %v", err))
		return false
	}

	var snap snapshotSchema
	if err := json.Unmarshal(blob, &snap); err != nil {
		_ = s.clearLocalStateLocked(ctx)
		s.events.ConnectFailed(fmt.Sprintf("restore saved session: %v", err))
		return false
	}

	if snap.Ident == nil {
		_ = s.clearLocalStateLocked(ctx)
		s.events.ConnectFailed("restore saved session: missing identity")
		return false
	}

	ident := identFromSchema(*snap.Ident)
	if !ident.Valid() {
		_ = s.clearLocalStateLocked(ctx)
		s.events.ConnectFailed("restore saved session: malformed identity")
		return false
	}

	s.ident = ident
	s.registry = registryFromSchema(snap.UserData)
	if len(s.registry) == 0 {
		s.registry = domain.Registry{domain.DefaultProfile: domain.NewProfileState()}
	}
	s.selected = domain.DefaultProfile
	s.lastSyncAt = timeFromMillis(snap.Refresh)
	s.lastTokenRefreshAt = timeFromMillis(snap.TokenRefresh)

	return true
}

// clearLocalStateLocked removes the persisted blob and resets the identity,
// both timestamps, and the registry. Used by logout, corruption recovery,
// and unrecoverable token-refresh failure.
func (s *Session) clearLocalStateLocked(ctx context.Context) error {
	s.resetLocked()

	if err := s.store.Remove(ctx, SnapshotKey); err != nil {
		return fmt.Errorf("remove session snapshot: %w", err)
	}

	return nil
}

func (s *Session) resetLocked() {
	s.ident = domain.Identity{}
	s.registry = domain.Registry{}
	s.selected = domain.DefaultProfile
	s.lastSyncAt = time.Time{}
	s.lastTokenRefreshAt = time.Time{}
}

func identToSchema(ident domain.Identity) identitySchema {
	return identitySchema{
		Token: ident.Token,
		User:  actorSchema{ID: ident.User.ID, Name: ident.User.Name},
		Guild: actorSchema{ID: ident.Guild.ID, Name: ident.Guild.Name},
	}
}

func identFromSchema(ident identitySchema) domain.Identity {
	return domain.Identity{
		Token: ident.Token,
		User:  domain.UserRef{ID: ident.User.ID, Name: ident.User.Name},
		Guild: domain.GuildRef{ID: ident.Guild.ID, Name: ident.Guild.Name},
	}
}

func registryToSchema(registry domain.Registry) map[string]profileStateSchema {
	encoded := make(map[string]profileStateSchema, len(registry))
	for name, state := range registry {
		levels := make(map[domain.TechID]techRecordSchema, len(state.TechLevels))
		for id, record := range state.TechLevels {
			levels[id] = techRecordSchema{
				Level:     record.Level,
				Timestamp: epochMillis(record.SetAt),
			}
		}

		encoded[string(name)] = profileStateSchema{
			Version:    state.Version,
			SyncFlag:   state.SyncFlag,
			TechLevels: levels,
		}
	}

	return encoded
}

func registryFromSchema(encoded map[string]profileStateSchema) domain.Registry {
	registry := make(domain.Registry, len(encoded))
	for name, state := range encoded {
		levels := make(map[domain.TechID]domain.TechRecord, len(state.TechLevels))
		for id, record := range state.TechLevels {
			levels[id] = domain.TechRecord{
				Level: record.Level,
				SetAt: timeFromMillis(record.Timestamp),
			}
		}

		registry[domain.ProfileName(name)] = &domain.ProfileState{
			Version:    state.Version,
			SyncFlag:   state.SyncFlag,
			TechLevels: levels,
		}
	}

	return registry
}

func epochMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}

	return t.UnixMilli()
}

func timeFromMillis(v int64) time.Time {
	if v <= 0 {
		return time.Time{}
	}

	return time.UnixMilli(v)
}
