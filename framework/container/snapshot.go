package container

import (
	"fmt"
	"sort"
)

// Snapshot is a point-in-time dump of every entry, meant for debugging and
// export. It is not a resolution API: producers are reported, never run.
type Snapshot struct {
	Count   int             `json:"count"`
	Entries []EntrySnapshot `json:"entries"`
}

// EntrySnapshot describes one key.
type EntrySnapshot struct {
	Key      string `json:"key"`
	Kind     string `json:"kind"`
	Resolved bool   `json:"resolved"`
	// Type is the dynamic type of the cached value, empty when unresolved.
	Type string `json:"type,omitempty"`
	// Value is the cached value itself. It is left out of JSON because
	// arbitrary services rarely encode cleanly.
	Value any `json:"-"`
}

// Snapshot copies the container's state, sorted by key.
func (c *Container) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := Snapshot{
		Count:   len(c.entries),
		Entries: make([]EntrySnapshot, 0, len(c.entries)),
	}
	for key, e := range c.entries {
		es := EntrySnapshot{Key: key, Kind: e.kind.String()}
		if v, ok := e.cached(); ok {
			es.Resolved = true
			es.Value = v
			es.Type = fmt.Sprintf("%T", v)
		}
		out.Entries = append(out.Entries, es)
	}
	sort.Slice(out.Entries, func(i, j int) bool {
		return out.Entries[i].Key < out.Entries[j].Key
	})
	return out
}
