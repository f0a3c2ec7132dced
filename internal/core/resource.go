package core

import "strings"

// Resource is a hierarchical, dot-separated reference naming what is being
// protected, e.g. "admin.users.delete".
type Resource string

// Match reports whether the resource is covered by the given pattern.
//
// A pattern matches on exact equality or on ancestor prefix: a rule on
// "admin" covers "admin.users.delete". A trailing ".*" is accepted as an
// explicit spelling of the same prefix semantics, so "admin.*" and "admin"
// cover the same resources.
//
// An empty pattern matches nothing.
func (r Resource) Match(pattern string) bool {
	if pattern == "" {
		return false
	}
	if trimmed, ok := strings.CutSuffix(pattern, ".*"); ok {
		pattern = trimmed
	}
	if string(r) == pattern {
		return true
	}
	return strings.HasPrefix(string(r), pattern+".")
}

func (r Resource) String() string {
	return string(r)
}
