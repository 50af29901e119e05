package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mkarren/techsync/internal/domain"
	"github.com/mkarren/techsync/internal/ports"
)

// SnapshotKey is the single well-known storage key holding the serialized
// session.
const SnapshotKey = "techsync/session"

// SyncError wraps any failure surfaced during a sync exchange with the
// server.
type SyncError struct {
	Profile domain.ProfileName
	Err     error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync profile %q: %v", e.Profile, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// Session owns the identity, the profile registry, and both maintenance
// timestamps. All mutation goes through its exported operations; a single
// mutex serializes them, so two syncs can never interleave their
// replace-on-response writes.
type Session struct {
	store  ports.SnapshotStore
	client ports.SyncClient
	clock  ports.Clock
	events ports.EventSink

	mu                 sync.Mutex
	ident              domain.Identity
	registry           domain.Registry
	selected           domain.ProfileName
	lastSyncAt         time.Time
	lastTokenRefreshAt time.Time
}

func NewSession(store ports.SnapshotStore, client ports.SyncClient, clock ports.Clock, events ports.EventSink) *Session {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if events == nil {
		events = ports.NopSink{}
	}

	return &Session{
		store:    store,
		client:   client,
		clock:    clock,
		events:   events,
		registry: domain.Registry{},
		selected: domain.DefaultProfile,
	}
}

// Initialize restores the persisted snapshot and reconciles with the server.
// Without a recovered identity the session stays disconnected and Initialize
// returns nil. A recovered identity whose selected profile has no local
// progress is treated as possibly stale: the server is trusted fully via a
// "get" sync and the token is refreshed.
func (s *Session) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.readSnapshotLocked(ctx) {
		return nil
	}

	profile := s.registry.GetOrCreate(s.selected)
	if len(profile.TechLevels) == 0 {
		if err := s.syncProfileLocked(ctx, s.selected, ports.SyncModeGet); err != nil {
			return err
		}
		if err := s.refreshTokenLocked(ctx); err != nil {
			return err
		}
	} else {
		if err := s.syncProfileLocked(ctx, s.selected, ports.SyncModeSync); err != nil {
			return err
		}
	}

	s.events.Connected(s.ident)
	return nil
}

// CheckConnectCode resolves a human-entered code into a prospective identity
// without mutating local state.
func (s *Session) CheckConnectCode(ctx context.Context, code string) (domain.Identity, error) {
	ident, err := s.client.CheckIdentity(ctx, code)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("check connect code: %w", err)
	}

	return ident, nil
}

// Connect clears all local state, exchanges the given identity for a
// confirmed one, persists, and pulls the selected profile from the server.
func (s *Session) Connect(ctx context.Context, ident domain.Identity) (domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.clearLocalStateLocked(ctx); err != nil {
		return domain.Identity{}, err
	}

	confirmed, err := s.client.Connect(ctx, ident)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("confirm identity: %w", err)
	}

	s.ident = confirmed
	s.lastTokenRefreshAt = s.clock.Now()
	if err := s.writeSnapshotLocked(ctx); err != nil {
		return domain.Identity{}, err
	}

	s.events.Connected(confirmed)

	if err := s.syncProfileLocked(ctx, s.selected, ports.SyncModeGet); err != nil {
		return confirmed, err
	}

	return confirmed, nil
}

// Logout emits disconnected, then clears all local state and removes the
// persisted snapshot.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events.Disconnected()
	return s.clearLocalStateLocked(ctx)
}

// SwitchAlt selects the named alt and refreshes it from the server in the
// background. Failures from the triggered sync surface through the
// connectfailed event, not the caller.
func (s *Session) SwitchAlt(ctx context.Context, name domain.ProfileName) {
	s.mu.Lock()
	s.selected = name
	s.mu.Unlock()

	go func() {
		if err := s.SyncProfile(ctx, name, ports.SyncModeGet); err != nil {
			s.events.ConnectFailed(err.Error())
		}
	}()
}

// SetTechLevel records a tech level on the selected profile and pushes the
// change with a "sync" exchange. The in-memory mutation is not rolled back
// when the push fails.
func (s *Session) SetTechLevel(ctx context.Context, id domain.TechID, level int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ident.Valid() {
		return domain.ErrNotConnected
	}
	if domain.TechName(id) == "" {
		return fmt.Errorf("%w: %d", domain.ErrUnknownTech, id)
	}
	if level < 0 {
		return fmt.Errorf("%w: %d", domain.ErrInvalidLevel, level)
	}

	profile := s.registry.GetOrCreate(s.selected)
	profile.TechLevels[id] = domain.TechRecord{Level: level, SetAt: s.clock.Now()}

	return s.syncProfileLocked(ctx, s.selected, ports.SyncModeSync)
}

// SyncProfile runs one sync exchange for the named profile.
func (s *Session) SyncProfile(ctx context.Context, name domain.ProfileName, mode ports.SyncMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.syncProfileLocked(ctx, name, mode)
}

// syncProfileLocked is the sync orchestrator. The profile is created lazily
// here and nowhere else during a sync; the merge policy is
// replace-on-response, so the returned state overwrites the local record
// only after a successful exchange.
func (s *Session) syncProfileLocked(ctx context.Context, name domain.ProfileName, mode ports.SyncMode) error {
	if !s.ident.Valid() {
		return domain.ErrNotConnected
	}

	profile := s.registry.GetOrCreate(name)

	state, err := s.client.Sync(ctx, name, s.ident.Token, mode, profile.TechLevels)
	if err != nil {
		return &SyncError{Profile: name, Err: err}
	}

	state.Normalize()
	*profile = state
	s.lastSyncAt = s.clock.Now()

	if err := s.writeSnapshotLocked(ctx); err != nil {
		return err
	}

	s.events.Synced(profile.CloneTechLevels())
	return nil
}

// Tick runs one background-maintenance pass: refresh a stale token, then
// sync the selected profile when the last sync is older than syncMaxAge.
// The two checks are independent and may both fire in the same tick. A
// failed token refresh is session-fatal: all local state is cleared and
// connectfailed is emitted.
func (s *Session) Tick(ctx context.Context, tokenMaxAge, syncMaxAge time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ident.Valid() {
		return nil
	}

	now := s.clock.Now()

	if now.Sub(s.lastTokenRefreshAt) > tokenMaxAge {
		if err := s.refreshTokenLocked(ctx); err != nil {
			clearErr := s.clearLocalStateLocked(ctx)
			s.events.ConnectFailed(err.Error())
			return errors.Join(err, clearErr)
		}
	}

	if now.Sub(s.lastSyncAt) > syncMaxAge {
		if err := s.syncProfileLocked(ctx, s.selected, ports.SyncModeSync); err != nil {
			s.events.ConnectFailed(err.Error())
			return err
		}
	}

	return nil
}

func (s *Session) refreshTokenLocked(ctx context.Context) error {
	ident, err := s.client.RefreshConnection(ctx, s.ident.Token)
	if err != nil {
		return fmt.Errorf("refresh connection: %w", err)
	}

	s.ident = ident
	s.lastTokenRefreshAt = s.clock.Now()

	return s.writeSnapshotLocked(ctx)
}

// Connected reports whether an identity is active.
func (s *Session) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ident.Valid()
}

// Identity returns the active identity, if any.
func (s *Session) Identity() (domain.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ident.Valid() {
		return domain.Identity{}, false
	}

	return s.ident, true
}

// User returns the connected user, if any.
func (s *Session) User() (domain.UserRef, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ident.Valid() {
		return domain.UserRef{}, false
	}

	return s.ident.User, true
}

// Guild returns the connected user's guild, if any.
func (s *Session) Guild() (domain.GuildRef, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ident.Valid() {
		return domain.GuildRef{}, false
	}

	return s.ident.Guild, true
}

// TechLevels returns a copy of the selected profile's tech map. The second
// return is false while disconnected; a connected profile that has never
// synced yields an empty map, not absence.
func (s *Session) TechLevels() (map[domain.TechID]domain.TechRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ident.Valid() {
		return nil, false
	}

	profile, ok := s.registry[s.selected]
	if !ok {
		return map[domain.TechID]domain.TechRecord{}, true
	}

	return profile.CloneTechLevels(), true
}

// SelectedProfile returns the currently selected alt.
func (s *Session) SelectedProfile() domain.ProfileName {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.selected
}

// LastSyncAt returns the completion time of the most recent successful sync.
func (s *Session) LastSyncAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastSyncAt
}
