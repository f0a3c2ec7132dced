package acl

import (
	"sort"

	"github.com/gatehouse-sec/gatehouse/internal/core"
)

// RuleSet holds an ordered sequence of ACL entries and evaluates contexts
// against them. It is immutable after construction; mutation happens by
// building a new RuleSet and swapping it in via the Manager.
type RuleSet struct {
	// entries sorted by descending priority, insertion order kept on ties.
	entries []Entry
}

// New creates a RuleSet from the given entries. Entries are copied and
// stable-sorted by descending priority so that two entries with equal
// priority keep their insertion order.
func New(entries []Entry) *RuleSet {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority > sorted[j].Priority
	})
	return &RuleSet{entries: sorted}
}

// Evaluate returns the effect of the first entry whose predicate matches the
// context. When no entry matches, the decision is Deny.
func (rs *RuleSet) Evaluate(ctx *core.Context) core.Effect {
	effect, _ := rs.Decide(ctx)
	return effect
}

// Decide is Evaluate plus the entry that decided the outcome. The entry is
// nil for the default-deny case.
func (rs *RuleSet) Decide(ctx *core.Context) (core.Effect, *Entry) {
	if rs == nil || ctx == nil {
		return core.Deny, nil
	}
	for i := range rs.entries {
		if rs.entries[i].When.Evaluate(ctx) {
			return rs.entries[i].Effect, &rs.entries[i]
		}
	}
	return core.Deny, nil
}

// Entries returns a copy of the entries in evaluation order.
func (rs *RuleSet) Entries() []Entry {
	out := make([]Entry, len(rs.entries))
	copy(out, rs.entries)
	return out
}

// Len returns the number of entries.
func (rs *RuleSet) Len() int {
	return len(rs.entries)
}
