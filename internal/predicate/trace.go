package predicate

import (
	"fmt"

	"github.com/gatehouse-sec/gatehouse/internal/core"
)

// Trace evaluates the predicate tree like Evaluate, but records the outcome
// of every node instead of short-circuiting. It is used by the explain
// surface; hot-path decisions go through Evaluate.
func (p *Predicate) Trace(ctx *core.Context) core.ConditionResult {
	if p == nil || ctx == nil {
		return core.ConditionResult{
			Matched:    false,
			Expression: "(nil)",
			Reason:     "predicate is not defined",
		}
	}

	switch {
	case p.All != nil:
		res := core.ConditionResult{
			Matched: true,
			Label:   "AND",
		}
		for i := range p.All {
			cr := p.All[i].Trace(ctx)
			res.Children = append(res.Children, cr)
			if !cr.Matched {
				res.Matched = false
			}
		}
		return res

	case p.Any != nil:
		res := core.ConditionResult{
			Matched: false,
			Label:   "OR",
		}
		for i := range p.Any {
			cr := p.Any[i].Trace(ctx)
			res.Children = append(res.Children, cr)
			if cr.Matched {
				res.Matched = true
			}
		}
		return res

	case p.Not != nil:
		cr := p.Not.Trace(ctx)
		return core.ConditionResult{
			Matched:  !cr.Matched,
			Label:    "NOT",
			Children: []core.ConditionResult{cr},
		}

	case p.Role != "":
		matched := ctx.Principal().HasRole(p.Role)
		return leafResult(matched, fmt.Sprintf("role %s '%s'", OpEqual, p.Role),
			fmt.Sprintf("principal roles %v do not include '%s'", ctx.Principal().Roles, p.Role))

	case p.Grant != "":
		matched := ctx.Principal().HasGrant(p.Grant)
		return leafResult(matched, fmt.Sprintf("grant %s '%s'", OpEqual, p.Grant),
			fmt.Sprintf("principal grants %v do not include '%s'", ctx.Principal().Grants, p.Grant))

	case p.Resource != "":
		matched := ctx.Resource().Match(p.Resource)
		return leafResult(matched, fmt.Sprintf("resource matches '%s'", p.Resource),
			fmt.Sprintf("resource '%s' is not covered by pattern '%s'", ctx.Resource(), p.Resource))

	case p.Key != "":
		matched, reason := evaluateComparison(p, ctx.Attrs())
		return core.ConditionResult{
			Matched:    matched,
			Expression: fmt.Sprintf("%s %s %v", p.Key, p.Operator, p.Value),
			Reason:     reason,
		}

	case p.Expr != "":
		matched, reason := p.runExpr(ctx)
		return core.ConditionResult{
			Matched:    matched,
			Expression: p.Expr,
			Reason:     reason,
		}
	}

	return core.ConditionResult{
		Matched:    false,
		Expression: "(empty)",
		Reason:     "predicate has no node kind set",
	}
}

func leafResult(matched bool, expression, failReason string) core.ConditionResult {
	res := core.ConditionResult{
		Matched:    matched,
		Expression: expression,
	}
	if !matched {
		res.Reason = failReason
	}
	return res
}
