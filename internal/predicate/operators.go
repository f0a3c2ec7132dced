package predicate

import (
	"fmt"
	"reflect"
	"strings"
)

func evaluateComparison(cond *Predicate, attributes map[string]any) (bool, string) {
	val, exists := attributes[cond.Key]

	switch cond.Operator {
	case OpExists:
		if !exists {
			return false, fmt.Sprintf("attribute '%s' does not exist", cond.Key)
		}
		return true, ""

	case OpNotExists:
		if exists {
			return false, fmt.Sprintf("attribute '%s' exists", cond.Key)
		}
		return true, ""
	}

	if !exists {
		return false, fmt.Sprintf("attribute '%s' missing", cond.Key)
	}

	switch cond.Operator {
	case OpEqual:
		if !deepEqual(val, cond.Value) {
			return false, fmt.Sprintf("expected '%v' to equal '%v'", val, cond.Value)
		}
		return true, ""

	case OpNotEqual:
		if deepEqual(val, cond.Value) {
			return false, fmt.Sprintf("expected '%v' to not equal '%v'", val, cond.Value)
		}
		return true, ""

	case OpContains:
		// check if {val} contains {cond.Value}
		// e.g. email contains "@acme.com"
		if !contains(val, cond.Value) {
			return false, fmt.Sprintf("value '%v' does not contain '%v'", val, cond.Value)
		}
		return true, ""

	case OpIn:
		// check if the attribute value (val) is inside the config list (cond.Value)
		// e.g. region in ["us-east-1", "us-west-2"]
		if !contains(cond.Value, val) {
			return false, fmt.Sprintf("value '%v' not in '%v'", val, cond.Value)
		}
		return true, ""

	case OpNotIn:
		if contains(cond.Value, val) {
			return false, fmt.Sprintf("value '%v' found in '%v'", val, cond.Value)
		}
		return true, ""
	}

	return false, fmt.Sprintf("unknown operator '%s' in condition", cond.Operator)
}

func deepEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

func contains(container, item any) bool {
	// handle string contains substring
	if str, ok := container.(string); ok {
		if subStr, ok := item.(string); ok {
			return strings.Contains(str, subStr)
		}
	}

	// handle slice/array contains
	v := reflect.ValueOf(container)
	if v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
		for i := 0; i < v.Len(); i++ {
			if deepEqual(v.Index(i).Interface(), item) {
				return true
			}
		}
	}

	return false
}
