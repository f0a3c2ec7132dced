package core

// Principal represents the authenticated identity a permission check is
// evaluated for. It is resolved by an external authentication collaborator
// (session layer, token verifier, ...) and treated as immutable for the
// duration of one check.
type Principal struct {
	// ID is the unique subject identifier (e.g., email, sub claim).
	ID string `yaml:"id" json:"id"`

	// Roles are the role/group labels attached to the principal.
	Roles []string `yaml:"roles" json:"roles,omitempty"`

	// Grants are directly-granted capability tokens (e.g. "posts.publish").
	Grants []string `yaml:"grants" json:"grants,omitempty"`

	// Attributes are additional facts about the principal (claims, flags).
	Attributes map[string]any `yaml:"attributes" json:"attributes,omitempty"`
}

// HasRole reports whether the principal carries the given role label.
func (p *Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasGrant reports whether the principal holds the given capability grant.
func (p *Principal) HasGrant(grant string) bool {
	for _, g := range p.Grants {
		if g == grant {
			return true
		}
	}
	return false
}
