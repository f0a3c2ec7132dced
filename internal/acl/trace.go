package acl

import (
	"strings"

	"github.com/gatehouse-sec/gatehouse/internal/core"
)

// EvaluateTrace evaluates the context against every entry (no
// short-circuiting) and records why each entry matched or failed. The final
// effect is identical to Evaluate: the first matching entry in precedence
// order wins, with Deny as the default.
func (rs *RuleSet) EvaluateTrace(ctx *core.Context, correlationID string) *core.EvaluationTrace {
	trace := &core.EvaluationTrace{
		CorrelationID: correlationID,
		PrincipalID:   ctx.Principal().ID,
		Resource:      ctx.Resource().String(),
		FinalEffect:   core.Deny,
	}

	decided := false
	for i := range rs.entries {
		entry := &rs.entries[i]
		cr := entry.When.Trace(ctx)

		var flattened []core.ConditionResult
		flattenConditionResult(&flattened, cr, 0)

		trace.EntryResults = append(trace.EntryResults, core.EntryResult{
			EntryName:        entry.Name,
			Description:      entry.Description,
			Effect:           entry.Effect,
			Priority:         entry.Priority,
			Matched:          cr.Matched,
			ConditionResults: flattened,
		})

		if cr.Matched && !decided {
			decided = true
			trace.FinalEffect = entry.Effect
			trace.MatchedEntry = entry.Name
		}
	}

	return trace
}

func flattenConditionResult(out *[]core.ConditionResult, cr core.ConditionResult, depth int) {
	indent := strings.Repeat("  ", depth)

	if cr.Expression != "" {
		*out = append(*out, core.ConditionResult{
			Expression: indent + cr.Expression,
			Matched:    cr.Matched,
			Reason:     cr.Reason,
		})
		return
	}

	if cr.Label != "" {
		*out = append(*out, core.ConditionResult{
			Expression: indent + "[" + cr.Label + "]",
			Matched:    cr.Matched,
		})
	}

	for _, child := range cr.Children {
		flattenConditionResult(out, child, depth+1)
	}
}
