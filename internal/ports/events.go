package ports

import "github.com/mkarren/techsync/internal/domain"

// EventSink receives session lifecycle events. Implementations must not
// block; the session invokes them inline.
type EventSink interface {
	Connected(ident domain.Identity)
	Disconnected()
	ConnectFailed(reason string)
	Synced(levels map[domain.TechID]domain.TechRecord)
}

// NopSink discards every event.
type NopSink struct{}

func (NopSink) Connected(domain.Identity)                  {}
func (NopSink) Disconnected()                              {}
func (NopSink) ConnectFailed(string)                       {}
func (NopSink) Synced(map[domain.TechID]domain.TechRecord) {}
