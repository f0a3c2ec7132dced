package core

import "fmt"

// Effect is the outcome of an access evaluation. The zero value is Deny so
// that an uninitialized decision can never grant access.
type Effect int8

const (
	Deny Effect = iota
	Allow
)

func (e Effect) String() string {
	if e == Allow {
		return "allow"
	}
	return "deny"
}

// Allowed reports whether the effect grants access.
func (e Effect) Allowed() bool {
	return e == Allow
}

// ParseEffect converts a configuration string into an Effect.
func ParseEffect(s string) (Effect, error) {
	switch s {
	case "allow":
		return Allow, nil
	case "deny":
		return Deny, nil
	default:
		return Deny, fmt.Errorf("invalid effect '%s' (must be 'allow' or 'deny')", s)
	}
}

func (e Effect) MarshalYAML() (any, error) {
	return e.String(), nil
}

func (e *Effect) UnmarshalYAML(unmarshal func(any) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := ParseEffect(raw)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

func (e Effect) MarshalJSON() ([]byte, error) {
	return []byte(`"` + e.String() + `"`), nil
}

func (e *Effect) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		raw = raw[1 : len(raw)-1]
	}
	parsed, err := ParseEffect(raw)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
