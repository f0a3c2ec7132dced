package acl

import (
	"math"

	"github.com/gatehouse-sec/gatehouse/internal/core"
	"github.com/gatehouse-sec/gatehouse/internal/predicate"
)

// Priority bounds for ACL entries. Entries outside this range are rejected
// at construction time.
const (
	MinPriority = math.MinInt16
	MaxPriority = math.MaxInt16
)

// Entry binds a predicate to an effect at a given priority.
type Entry struct {
	// Name is a human-readable identifier for logs/debugging.
	Name string `yaml:"name" json:"name"`

	// Description explains the intent of the entry.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Effect is the decision returned when When matches.
	Effect core.Effect `yaml:"effect" json:"effect"`

	// Priority orders entries; higher priorities are consulted first.
	// Entries with equal priority keep their insertion order.
	Priority int `yaml:"priority" json:"priority"`

	// When is the condition required for this entry to apply.
	When *predicate.Predicate `yaml:"when" json:"when"`
}

// ValidateEntries checks a slice of entries for setup-time errors: missing
// or duplicate names, out-of-range priorities and missing or malformed
// predicates. It returns the validated entries (with predicate expressions
// compiled) or a *core.ConfigurationError.
func ValidateEntries(entries []Entry) ([]Entry, error) {
	seenNames := make(map[string]struct{})
	var validEntries []Entry

	for i, entry := range entries {
		if entry.Name == "" {
			return nil, core.ConfigErrorf("entry #%d missing name", i)
		}
		if _, exists := seenNames[entry.Name]; exists {
			return nil, core.ConfigErrorf("entry name '%s' is not unique", entry.Name)
		}
		seenNames[entry.Name] = struct{}{}

		if entry.Priority < MinPriority || entry.Priority > MaxPriority {
			return nil, core.ConfigErrorf("entry '%s' has priority %d outside [%d, %d]",
				entry.Name, entry.Priority, MinPriority, MaxPriority)
		}

		if entry.When == nil {
			return nil, core.ConfigErrorf("entry '%s' missing 'when' predicate", entry.Name)
		}
		if err := entry.When.Validate(); err != nil {
			return nil, core.ConfigErrorf("entry '%s': %v", entry.Name, err)
		}

		validEntries = append(validEntries, entry)
	}

	return validEntries, nil
}
