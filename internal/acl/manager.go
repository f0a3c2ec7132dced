package acl

import (
	"sync"
	"sync/atomic"

	"github.com/gatehouse-sec/gatehouse/internal/core"
)

// Manager owns the live RuleSet. Mutation builds a new rule set and
// atomically publishes it, so concurrent evaluators always read a
// consistent snapshot and never observe a half-applied change.
type Manager struct {
	current atomic.Pointer[RuleSet]
	mu      sync.Mutex

	// source entries in insertion order, guarded by mu
	entries []Entry
}

// NewManager validates the initial entries and publishes the first
// snapshot.
func NewManager(initial []Entry) (*Manager, error) {
	validated, err := ValidateEntries(initial)
	if err != nil {
		return nil, err
	}
	m := &Manager{entries: validated}
	m.current.Store(New(validated))
	return m, nil
}

// Current returns the active snapshot.
func (m *Manager) Current() *RuleSet {
	return m.current.Load()
}

// Update replaces all entries. The old snapshot stays live if validation
// fails.
func (m *Manager) Update(entries []Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	validated, err := ValidateEntries(entries)
	if err != nil {
		return err
	}
	m.entries = validated
	m.current.Store(New(validated))
	return nil
}

// Add appends an entry and publishes a new snapshot.
func (m *Manager) Add(entry Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	candidate := append(append([]Entry{}, m.entries...), entry)
	validated, err := ValidateEntries(candidate)
	if err != nil {
		return err
	}
	m.entries = validated
	m.current.Store(New(validated))
	return nil
}

// Remove deletes the entry with the given name and publishes a new
// snapshot. Removing an unknown name is a configuration error.
func (m *Manager) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var kept []Entry
	found := false
	for _, entry := range m.entries {
		if entry.Name == name {
			found = true
			continue
		}
		kept = append(kept, entry)
	}
	if !found {
		return core.ConfigErrorf("no entry named '%s'", name)
	}
	m.entries = kept
	m.current.Store(New(kept))
	return nil
}
