package predicate

func isReservedKey(k string) bool {
	switch k {
	case "all", "any", "not", "role", "grant", "resource", "key", "operator", "value", "expr":
		return true
	default:
		return false
	}
}

// UnmarshalYAML supports both the explicit predicate form:
//
//	{ key: sub, operator: equals, value: "12345" }
//
// and the implicit shorthand:
//
//	{ sub: "12345" }
//	{ groups: { contains: admin } }
//
// Multiple shorthand keys in one mapping become an implicit `all`.
func (p *Predicate) UnmarshalYAML(unmarshal func(any) error) error {
	var raw map[string]any
	if err := unmarshal(&raw); err != nil {
		// it needs to be able to unmarshal into a map,
		// otherwise the user entered something very weird
		return err
	}

	isExplicit := false
	for k := range raw {
		if isReservedKey(k) {
			isExplicit = true
			break
		}
	}

	if isExplicit {
		// we can just unmarshal directly into our predicate struct
		type plain Predicate // hack to prevent recursion
		var decoded plain
		if err := unmarshal(&decoded); err != nil {
			return err
		}
		*p = Predicate(decoded)

		// implicit equals operator if operator missing
		if p.Key != "" && p.Operator == "" {
			p.Operator = OpEqual
		}

		return nil
	}

	// shorthand form: every key is an attribute comparison
	var children []Predicate

	for k, v := range raw {
		sub := Predicate{Key: k}

		// is it an operator shorthand like { groups: { contains: admin } }?
		if vMap, ok := v.(map[string]any); ok {
			foundOperator := false
			for opKey, opVal := range vMap {
				op := Operator(opKey)
				if op.IsValid() {
					sub.Operator = op
					sub.Value = opVal
					foundOperator = true
					break // only allow one operator per key
				}
			}
			if !foundOperator {
				sub.Operator = OpEqual
				sub.Value = v
			}
		} else {
			// simple key: value equality
			sub.Operator = OpEqual
			sub.Value = v
		}

		children = append(children, sub)
	}

	if len(children) == 1 {
		// exactly one child, use it directly
		*p = children[0]
	} else {
		// otherwise implicit AND
		p.All = children
	}

	return nil
}
