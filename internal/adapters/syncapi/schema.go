package syncapi

import (
	"time"

	"github.com/mkarren/techsync/internal/domain"
)

type checkRequest struct {
	Code string `json:"code"`
}

type identityPayload struct {
	Token string       `json:"token"`
	User  actorPayload `json:"user"`
	Guild actorPayload `json:"guild"`
}

type actorPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type profilePayload struct {
	Version    int                                 `json:"version"`
	SyncFlag   int                                 `json:"syncFlag"`
	TechLevels map[domain.TechID]techRecordPayload `json:"techLevels"`
}

type techRecordPayload struct {
	Level     int   `json:"level"`
	Timestamp int64 `json:"timestamp"`
}

type techLevelsRequest struct {
	TechLevels map[domain.TechID]techRecordPayload `json:"techLevels"`
}

type guildListPayload struct {
	Corporations []actorPayload `json:"corporations"`
}

func (p identityPayload) toDomain() domain.Identity {
	return domain.Identity{
		Token: p.Token,
		User:  domain.UserRef{ID: p.User.ID, Name: p.User.Name},
		Guild: domain.GuildRef{ID: p.Guild.ID, Name: p.Guild.Name},
	}
}

func identityFromDomain(ident domain.Identity) identityPayload {
	return identityPayload{
		Token: ident.Token,
		User:  actorPayload{ID: ident.User.ID, Name: ident.User.Name},
		Guild: actorPayload{ID: ident.Guild.ID, Name: ident.Guild.Name},
	}
}

func (p profilePayload) toDomain() domain.ProfileState {
	levels := make(map[domain.TechID]domain.TechRecord, len(p.TechLevels))
	for id, record := range p.TechLevels {
		levels[id] = domain.TechRecord{
			Level: record.Level,
			SetAt: timeFromMillis(record.Timestamp),
		}
	}

	return domain.ProfileState{
		Version:    p.Version,
		SyncFlag:   p.SyncFlag,
		TechLevels: levels,
	}
}

func techLevelsFromDomain(levels map[domain.TechID]domain.TechRecord) techLevelsRequest {
	encoded := make(map[domain.TechID]techRecordPayload, len(levels))
	for id, record := range levels {
		encoded[id] = techRecordPayload{
			Level:     record.Level,
			Timestamp: epochMillis(record.SetAt),
		}
	}

	return techLevelsRequest{TechLevels: encoded}
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
