// Package events fans session lifecycle events out to multiple sinks.
package events

import (
	"sync"

	"github.com/mkarren/techsync/internal/domain"
	"github.com/mkarren/techsync/internal/ports"
)

// Bus delivers each event to every subscribed sink in subscription order.
// Delivery happens on the caller's goroutine, so sinks must return quickly.
type Bus struct {
	mu    sync.RWMutex
	sinks []ports.EventSink
}

var _ ports.EventSink = (*Bus)(nil)

func NewBus(sinks ...ports.EventSink) *Bus {
	return &Bus{sinks: sinks}
}

// Subscribe registers a sink for all future events.
func (b *Bus) Subscribe(sink ports.EventSink) {
	if sink == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.sinks = append(b.sinks, sink)
}

func (b *Bus) Connected(ident domain.Identity) {
	for _, sink := range b.snapshot() {
		sink.Connected(ident)
	}
}

func (b *Bus) Disconnected() {
	for _, sink := range b.snapshot() {
		sink.Disconnected()
	}
}

func (b *Bus) ConnectFailed(reason string) {
	for _, sink := range b.snapshot() {
		sink.ConnectFailed(reason)
	}
}

func (b *Bus) Synced(levels map[domain.TechID]domain.TechRecord) {
	for _, sink := range b.snapshot() {
		sink.Synced(levels)
	}
}

func (b *Bus) snapshot() []ports.EventSink {
	b.mu.RLock()
	defer b.mu.RUnlock()

	sinks := make([]ports.EventSink, len(b.sinks))
	copy(sinks, b.sinks)
	return sinks
}

// SinkFuncs adapts free functions into a sink. Nil fields ignore their event.
type SinkFuncs struct {
	OnConnected     func(ident domain.Identity)
	OnDisconnected  func()
	OnConnectFailed func(reason string)
	OnSynced        func(levels map[domain.TechID]domain.TechRecord)
}

var _ ports.EventSink = SinkFuncs{}

func (s SinkFuncs) Connected(ident domain.Identity) {
	if s.OnConnected != nil {
		s.OnConnected(ident)
	}
}

func (s SinkFuncs) Disconnected() {
	if s.OnDisconnected != nil {
		s.OnDisconnected()
	}
}

func (s SinkFuncs) ConnectFailed(reason string) {
	if s.OnConnectFailed != nil {
		s.OnConnectFailed(reason)
	}
}

func (s SinkFuncs) Synced(levels map[domain.TechID]domain.TechRecord) {
	if s.OnSynced != nil {
		s.OnSynced(levels)
	}
}
