package events

import (
	"testing"

	"github.com/mkarren/techsync/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusDeliversToAllSubscribers(t *testing.T) {
	t.Parallel()

	bus := NewBus()

	var first, second []string
	bus.Subscribe(SinkFuncs{
		OnConnected:     func(domain.Identity) { first = append(first, "connected") },
		OnConnectFailed: func(string) { first = append(first, "connectfailed") },
	})
	bus.Subscribe(SinkFuncs{
		OnConnected: func(ident domain.Identity) { second = append(second, ident.User.Name) },
	})

	bus.Connected(domain.Identity{Token: "tok-1", User: domain.UserRef{ID: "u1", Name: "Pilot"}})
	bus.ConnectFailed("token expired")

	assert.Equal(t, []string{"connected", "connectfailed"}, first)
	assert.Equal(t, []string{"Pilot"}, second)
}

func TestBusSyncedCarriesLevels(t *testing.T) {
	t.Parallel()

	var got map[domain.TechID]domain.TechRecord
	bus := NewBus(SinkFuncs{
		OnSynced: func(levels map[domain.TechID]domain.TechRecord) { got = levels },
	})

	bus.Synced(map[domain.TechID]domain.TechRecord{42: {Level: 3}})

	require.Contains(t, got, domain.TechID(42))
	assert.Equal(t, 3, got[42].Level)
}

func TestBusIgnoresNilSubscriber(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	bus.Subscribe(nil)

	assert.NotPanics(t, func() {
		bus.Disconnected()
		bus.ConnectFailed("reason")
	})
}

func TestSinkFuncsNilFieldsAreNoOps(t *testing.T) {
	t.Parallel()

	var sink SinkFuncs

	assert.NotPanics(t, func() {
		sink.Connected(domain.Identity{})
		sink.Disconnected()
		sink.ConnectFailed("reason")
		sink.Synced(nil)
	})
}
