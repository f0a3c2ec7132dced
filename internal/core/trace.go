package core

// EvaluationTrace captures the detailed trace of an access evaluation.
type EvaluationTrace struct {
	// CorrelationID is the unique identifier for the evaluation request.
	CorrelationID string `yaml:"correlation_id" json:"correlation_id"`

	// PrincipalID identifies the principal being evaluated.
	PrincipalID string `yaml:"principal_id" json:"principal_id"`

	// Resource is the resource reference the evaluation targeted.
	Resource string `yaml:"resource" json:"resource"`

	// EntryResults contains the result of every ACL entry evaluated, in
	// precedence order.
	EntryResults []EntryResult `yaml:"entry_results" json:"entry_results"`

	// FinalEffect is the decision the rule set arrived at.
	FinalEffect Effect `yaml:"final_effect" json:"final_effect"`

	// MatchedEntry is the name of the entry that decided the outcome, if any.
	MatchedEntry string `yaml:"matched_entry,omitempty" json:"matched_entry,omitempty"`
}

// EntryResult captures why a specific ACL entry matched or failed.
type EntryResult struct {
	EntryName   string `yaml:"entry_name" json:"entry_name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Effect      Effect `yaml:"effect" json:"effect"`
	Priority    int    `yaml:"priority" json:"priority"`
	Matched     bool   `yaml:"matched" json:"matched"`

	ConditionResults []ConditionResult `yaml:"condition_results,omitempty" json:"condition_results,omitempty"`
}

// ConditionResult is the outcome of a single predicate node.
type ConditionResult struct {
	Matched bool `json:"matched"`

	// For leaves
	Expression string `json:"expression"` // e.g. "role equals admin"
	Reason     string `json:"reason,omitempty"`

	// For branching
	Label    string            `json:"label,omitempty"` // e.g. "AND"
	Children []ConditionResult `json:"children,omitempty"`
}
