package domain

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

//go:embed techs.toml
var techTableTOML []byte

type TechID int

// TechRecord is one tech's level and the instant it was last set.
type TechRecord struct {
	Level int
	SetAt time.Time
}

type techTable struct {
	Techs []techEntry `toml:"techs"`
}

type techEntry struct {
	ID   int    `toml:"id"`
	Name string `toml:"name"`
}

var loadTechTable = sync.OnceValue(func() map[TechID]string {
	var table techTable
	if err := toml.Unmarshal(techTableTOML, &table); err != nil {
		panic(fmt.Sprintf("decode embedded tech table: %v", err))
	}

	names := make(map[TechID]string, len(table.Techs))
	for _, entry := range table.Techs {
		names[TechID(entry.ID)] = entry.Name
	}

	return names
})

// TechName resolves a tech id to its display name. The empty string signals
// an unknown id.
func TechName(id TechID) string {
	return loadTechTable()[id]
}

// TechIDByName resolves a display name back to its id, case-insensitively.
func TechIDByName(name string) (TechID, bool) {
	trimmed := strings.TrimSpace(name)
	for id, techName := range loadTechTable() {
		if strings.EqualFold(techName, trimmed) {
			return id, true
		}
	}

	return 0, false
}

// TechIDs returns every known tech id in unspecified order.
func TechIDs() []TechID {
	table := loadTechTable()
	ids := make([]TechID, 0, len(table))
	for id := range table {
		ids = append(ids, id)
	}

	return ids
}
