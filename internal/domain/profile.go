package domain

// ProfileName selects one independently tracked alt. Names are case-sensitive
// and never deleted automatically.
type ProfileName string

// DefaultProfile is the implicit unnamed alt.
const DefaultProfile ProfileName = "default"

// ProfileState is one alt's synchronized snapshot. Version and SyncFlag are
// server-assigned bookkeeping fields: the client round-trips them unchanged
// unless a sync response overwrites the whole record.
type ProfileState struct {
	Version    int
	SyncFlag   int
	TechLevels map[TechID]TechRecord
}

func NewProfileState() *ProfileState {
	return &ProfileState{
		Version:    1,
		SyncFlag:   1,
		TechLevels: map[TechID]TechRecord{},
	}
}

// Normalize ensures the tech map is non-nil after decoding.
func (p *ProfileState) Normalize() {
	if p.TechLevels == nil {
		p.TechLevels = map[TechID]TechRecord{}
	}
}

func (p *ProfileState) CloneTechLevels() map[TechID]TechRecord {
	levels := make(map[TechID]TechRecord, len(p.TechLevels))
	for id, record := range p.TechLevels {
		levels[id] = record
	}

	return levels
}

// Registry maps profile names to their synchronized state.
type Registry map[ProfileName]*ProfileState

// GetOrCreate returns the named profile, lazily creating a fresh empty state
// on first access. This is the single lazy-creation site for profiles.
func (r Registry) GetOrCreate(name ProfileName) *ProfileState {
	if state, ok := r[name]; ok {
		state.Normalize()
		return state
	}

	state := NewProfileState()
	r[name] = state
	return state
}
