package application

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/mkarren/techsync/internal/domain"
	"github.com/mkarren/techsync/internal/ports"
)

type memStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{blobs: map[string][]byte{}}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	blob, ok := m.blobs[key]
	if !ok {
		return nil, fmt.Errorf("%q: %w", key, domain.ErrSnapshotNotFound)
	}

	return blob, nil
}

func (m *memStore) Set(_ context.Context, key string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blobs[key] = blob
	return nil
}

func (m *memStore) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.blobs, key)
	return nil
}

func (m *memStore) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.blobs[key]
	return ok
}

type syncCall struct {
	profile domain.ProfileName
	mode    ports.SyncMode
	levels  map[domain.TechID]domain.TechRecord
}

type fakeSyncClient struct {
	mu           sync.Mutex
	checkFunc    func(code string) (domain.Identity, error)
	connectFunc  func(ident domain.Identity) (domain.Identity, error)
	refreshFunc  func(token string) (domain.Identity, error)
	syncFunc     func(call syncCall) (domain.ProfileState, error)
	syncCalls    []syncCall
	refreshCalls int
}

func (f *fakeSyncClient) CheckIdentity(_ context.Context, code string) (domain.Identity, error) {
	f.mu.Lock()
	fn := f.checkFunc
	f.mu.Unlock()

	if fn != nil {
		return fn(code)
	}

	return domain.Identity{Token: "tok-" + code, User: domain.UserRef{ID: "u-" + code}}, nil
}

func (f *fakeSyncClient) Connect(_ context.Context, ident domain.Identity) (domain.Identity, error) {
	f.mu.Lock()
	fn := f.connectFunc
	f.mu.Unlock()

	if fn != nil {
		return fn(ident)
	}

	return ident, nil
}

func (f *fakeSyncClient) RefreshConnection(_ context.Context, token string) (domain.Identity, error) {
	f.mu.Lock()
	f.refreshCalls++
	fn := f.refreshFunc
	f.mu.Unlock()

	if fn != nil {
		return fn(token)
	}

	return domain.Identity{Token: token, User: domain.UserRef{ID: "u1"}}, nil
}

func (f *fakeSyncClient) Sync(_ context.Context, profile domain.ProfileName, _ string, mode ports.SyncMode, levels map[domain.TechID]domain.TechRecord) (domain.ProfileState, error) {
	call := syncCall{profile: profile, mode: mode, levels: cloneLevels(levels)}

	f.mu.Lock()
	f.syncCalls = append(f.syncCalls, call)
	fn := f.syncFunc
	f.mu.Unlock()

	if fn != nil {
		return fn(call)
	}

	return domain.ProfileState{Version: 2, SyncFlag: 1, TechLevels: cloneLevels(levels)}, nil
}

func (f *fakeSyncClient) GuildData(context.Context, string) (json.RawMessage, error) {
	return json.RawMessage(`{}`), nil
}

func (f *fakeSyncClient) UserGuilds(context.Context, string) ([]domain.GuildRef, error) {
	return nil, nil
}

func (f *fakeSyncClient) recordedSyncCalls() []syncCall {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]syncCall(nil), f.syncCalls...)
}

func (f *fakeSyncClient) recordedRefreshCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.refreshCalls
}

func cloneLevels(levels map[domain.TechID]domain.TechRecord) map[domain.TechID]domain.TechRecord {
	cloned := make(map[domain.TechID]domain.TechRecord, len(levels))
	for id, record := range levels {
		cloned[id] = record
	}

	return cloned
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

type recorderSink struct {
	mu            sync.Mutex
	connected     []domain.Identity
	disconnected  int
	connectFailed []string
	synced        []map[domain.TechID]domain.TechRecord
}

func (r *recorderSink) Connected(ident domain.Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.connected = append(r.connected, ident)
}

func (r *recorderSink) Disconnected() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.disconnected++
}

func (r *recorderSink) ConnectFailed(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.connectFailed = append(r.connectFailed, reason)
}

func (r *recorderSink) Synced(levels map[domain.TechID]domain.TechRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.synced = append(r.synced, levels)
}

func (r *recorderSink) failures() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.connectFailed...)
}

func (r *recorderSink) syncedPayloads() []map[domain.TechID]domain.TechRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]map[domain.TechID]domain.TechRecord(nil), r.synced...)
}

func (r *recorderSink) connectedIdents() []domain.Identity {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]domain.Identity(nil), r.connected...)
}

func (r *recorderSink) disconnects() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.disconnected
}
