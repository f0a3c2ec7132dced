package predicate

// Constructors for building predicate trees in code. Rule files decode
// directly into Predicate values; these helpers exist for embedding callers
// and tests.

// AllOf matches when every child matches. AllOf() with no children always
// matches (the identity element of conjunction).
func AllOf(children ...Predicate) Predicate {
	return Predicate{All: append([]Predicate{}, children...)}
}

// AnyOf matches when at least one child matches. AnyOf() with no children
// never matches (the identity element of disjunction).
func AnyOf(children ...Predicate) Predicate {
	return Predicate{Any: append([]Predicate{}, children...)}
}

// Negate inverts the given predicate.
func Negate(child Predicate) Predicate {
	return Predicate{Not: &child}
}

// Always grants unconditionally.
func Always() Predicate {
	return AllOf()
}

// Never denies unconditionally.
func Never() Predicate {
	return AnyOf()
}

// HasRole matches principals carrying the given role label.
func HasRole(role string) Predicate {
	return Predicate{Role: role}
}

// HasGrant matches principals holding the given capability grant.
func HasGrant(grant string) Predicate {
	return Predicate{Grant: grant}
}

// OnResource matches when the checked resource is covered by pattern.
func OnResource(pattern string) Predicate {
	return Predicate{Resource: pattern}
}

// Attr compares a context attribute using the given operator.
func Attr(key string, op Operator, value any) Predicate {
	return Predicate{Key: key, Operator: op, Value: value}
}

// Expression evaluates an expr-lang expression over
// {principal, resource, attributes}.
func Expression(code string) Predicate {
	return Predicate{Expr: code}
}
