package predicate

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rs/zerolog/log"

	"github.com/gatehouse-sec/gatehouse/internal/core"
)

// Operator defines how a leaf condition compares an attribute value.
type Operator string

const (
	OpEqual Operator = "equals"
	// OpNotEqual inverts OpEqual.
	OpNotEqual Operator = "not_equals"
	// OpContains means the attribute value contains the given substring or item.
	// for strings: "hello world" contains "world"
	// for lists: ["a", "b", "c"] contains "b"
	OpContains Operator = "contains"
	// OpIn means the attribute value is in the given list.
	// e.g., value "b" in ["a", "b", "c"]
	OpIn Operator = "in"
	// OpNotIn inverts OpIn.
	OpNotIn     Operator = "not_in"
	OpExists    Operator = "exists"
	OpNotExists Operator = "not_exists"
)

func (op Operator) IsValid() bool {
	switch op {
	case OpEqual, OpNotEqual, OpContains, OpIn, OpNotIn, OpExists, OpNotExists:
		return true
	default:
		return false
	}
}

// Predicate is a node in a boolean condition tree over a permission context.
// Exactly one node kind may be set: one of the combinators (All, Any, Not)
// or one of the leaves (Role, Grant, Resource, Key+Operator+Value, Expr).
//
// Evaluation is total, pure and fail-closed: a malformed node, a missing
// attribute or a runtime expression error evaluates to false, never to an
// error. Absence of information is never treated as permission.
type Predicate struct {
	// Combinators
	All []Predicate `yaml:"all,omitempty" json:"all,omitempty"`
	Any []Predicate `yaml:"any,omitempty" json:"any,omitempty"`
	Not *Predicate  `yaml:"not,omitempty" json:"not,omitempty"`

	// Leaf: principal has the given role label.
	Role string `yaml:"role,omitempty" json:"role,omitempty"`

	// Leaf: principal holds the given capability grant.
	Grant string `yaml:"grant,omitempty" json:"grant,omitempty"`

	// Leaf: resource reference matches the given pattern (exact or prefix).
	Resource string `yaml:"resource,omitempty" json:"resource,omitempty"`

	// Leaf: attribute comparison.
	Key      string   `yaml:"key,omitempty" json:"key,omitempty"`
	Operator Operator `yaml:"operator,omitempty" json:"operator,omitempty"`
	Value    any      `yaml:"value,omitempty" json:"value,omitempty"`

	// Leaf: expression for more complex matching logic.
	Expr string `yaml:"expr,omitempty" json:"expr,omitempty"`

	// compiled holds the pre-compiled form of Expr for efficient evaluation.
	compiled *vm.Program
}

// Evaluate resolves the predicate tree against the given context snapshot.
// An empty `all` evaluates true, an empty `any` evaluates false; these are
// the identity elements of the two combinators.
func (p *Predicate) Evaluate(ctx *core.Context) bool {
	if p == nil || ctx == nil {
		return false
	}

	switch {
	case p.All != nil:
		for i := range p.All {
			if !p.All[i].Evaluate(ctx) {
				return false
			}
		}
		return true

	case p.Any != nil:
		for i := range p.Any {
			if p.Any[i].Evaluate(ctx) {
				return true
			}
		}
		return false

	case p.Not != nil:
		return !p.Not.Evaluate(ctx)

	case p.Role != "":
		return ctx.Principal().HasRole(p.Role)

	case p.Grant != "":
		return ctx.Principal().HasGrant(p.Grant)

	case p.Resource != "":
		return ctx.Resource().Match(p.Resource)

	case p.Key != "":
		ok, _ := evaluateComparison(p, ctx.Attrs())
		return ok

	case p.Expr != "":
		ok, _ := p.runExpr(ctx)
		return ok
	}

	// empty node: fail closed
	return false
}

func (p *Predicate) runExpr(ctx *core.Context) (bool, string) {
	program := p.compiled
	if program == nil {
		// Validate was never called; compile on the fly so ad-hoc trees
		// still work, but fail closed if the expression is broken.
		compiled, err := expr.Compile(p.Expr, expr.AsBool())
		if err != nil {
			return false, fmt.Sprintf("error compiling expression: %v", err)
		}
		program = compiled
	}

	out, err := expr.Run(program, map[string]any{
		"principal":  ctx.Principal(),
		"resource":   ctx.Resource().String(),
		"attributes": ctx.Attrs(),
	})
	if err != nil {
		log.Warn().Err(err).Msgf("error evaluating expression '%s'", p.Expr)
		return false, fmt.Sprintf("error evaluating expression: %v", err)
	}
	b, ok := out.(bool)
	if !ok || !b {
		return false, "expression evaluated to false"
	}
	return true, ""
}

// Validate checks the predicate tree for structural errors and pre-compiles
// any expressions. It returns a *core.ConfigurationError describing the
// first problem found.
func (p *Predicate) Validate() error {
	if p == nil {
		return core.ConfigErrorf("predicate is nil")
	}

	hasAll := p.All != nil
	hasAny := p.Any != nil
	hasNot := p.Not != nil
	hasRole := p.Role != ""
	hasGrant := p.Grant != ""
	hasResource := p.Resource != ""
	hasComparison := p.Key != ""
	hasExpr := p.Expr != ""

	count := 0
	for _, set := range []bool{hasAll, hasAny, hasNot, hasRole, hasGrant, hasResource, hasComparison, hasExpr} {
		if set {
			count++
		}
	}
	if count == 0 {
		return core.ConfigErrorf("predicate is missing required fields; must be one of (all, any, not, role, grant, resource, key, expr)")
	}
	if count > 1 {
		return core.ConfigErrorf("predicate has multiple node kinds set; only one is allowed")
	}

	if hasAll {
		for i := range p.All {
			if err := p.All[i].Validate(); err != nil {
				return err
			}
		}
	}
	if hasAny {
		for i := range p.Any {
			if err := p.Any[i].Validate(); err != nil {
				return err
			}
		}
	}
	if hasNot {
		return p.Not.Validate()
	}
	if hasComparison && !p.Operator.IsValid() {
		return core.ConfigErrorf("invalid operator '%s' for key '%s'", p.Operator, p.Key)
	}
	if hasExpr {
		compiled, err := expr.Compile(p.Expr, expr.AsBool())
		if err != nil {
			return core.ConfigErrorf("compiling expression '%s': %v", p.Expr, err)
		}
		p.compiled = compiled
	}

	return nil
}
