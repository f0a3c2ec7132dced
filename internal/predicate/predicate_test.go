package predicate

import (
	"errors"
	"testing"

	"github.com/gatehouse-sec/gatehouse/internal/core"
)

func TestPredicate_Evaluate(t *testing.T) {
	principal := core.Principal{
		ID:     "alice@example.com",
		Roles:  []string{"staff", "editor"},
		Grants: []string{"posts.publish"},
	}

	tests := []struct {
		name      string
		predicate Predicate
		resource  core.Resource
		attrs     map[string]any
		want      bool
	}{
		// --- Leaves ---
		{
			name:      "Role - Held",
			predicate: HasRole("editor"),
			want:      true,
		},
		{
			name:      "Role - Not Held",
			predicate: HasRole("admin"),
			want:      false,
		},
		{
			name:      "Grant - Held",
			predicate: HasGrant("posts.publish"),
			want:      true,
		},
		{
			name:      "Grant - Not Held",
			predicate: HasGrant("posts.delete"),
			want:      false,
		},
		{
			name:      "Resource - Exact",
			predicate: OnResource("admin.users"),
			resource:  "admin.users",
			want:      true,
		},
		{
			name:      "Resource - Prefix Covers Descendant",
			predicate: OnResource("admin"),
			resource:  "admin.users.delete",
			want:      true,
		},
		{
			name:      "Resource - Unrelated",
			predicate: OnResource("billing"),
			resource:  "admin.users.delete",
			want:      false,
		},
		{
			name:      "Attr - Equal Match",
			predicate: Attr("env", OpEqual, "prod"),
			attrs:     map[string]any{"env": "prod"},
			want:      true,
		},
		{
			name:      "Attr - Missing Attribute Fails Closed",
			predicate: Attr("env", OpEqual, "prod"),
			attrs:     map[string]any{"other": "prod"},
			want:      false,
		},
		{
			name:      "Attr - Contains List Item",
			predicate: Attr("groups", OpContains, "admins"),
			attrs:     map[string]any{"groups": []string{"users", "admins"}},
			want:      true,
		},
		{
			name:      "Attr - In Allowed List",
			predicate: Attr("region", OpIn, []string{"eu-west", "us-east"}),
			attrs:     map[string]any{"region": "eu-west"},
			want:      true,
		},
		{
			name:      "Attr - Invalid Operator Fails Closed",
			predicate: Attr("env", Operator("regex"), "prod"),
			attrs:     map[string]any{"env": "prod"},
			want:      false,
		},
		{
			name:      "Expr - True",
			predicate: Expression(`attributes["age"] > 18`),
			attrs:     map[string]any{"age": 21},
			want:      true,
		},
		{
			name:      "Expr - False",
			predicate: Expression(`attributes["age"] > 18`),
			attrs:     map[string]any{"age": 16},
			want:      false,
		},
		{
			name:      "Expr - Runtime Error Fails Closed",
			predicate: Expression(`attributes["age"] > 18`),
			attrs:     map[string]any{"age": "not a number"},
			want:      false,
		},

		// --- Combinators ---
		{
			name:      "All - Empty Is True",
			predicate: Always(),
			want:      true,
		},
		{
			name:      "Any - Empty Is False",
			predicate: Never(),
			want:      false,
		},
		{
			name:      "All - Every Child Matches",
			predicate: AllOf(HasRole("staff"), HasGrant("posts.publish")),
			want:      true,
		},
		{
			name:      "All - One Child Fails",
			predicate: AllOf(HasRole("staff"), HasRole("admin")),
			want:      false,
		},
		{
			name:      "Any - One Child Matches",
			predicate: AnyOf(HasRole("admin"), HasRole("editor")),
			want:      true,
		},
		{
			name:      "Any - No Child Matches",
			predicate: AnyOf(HasRole("admin"), HasGrant("posts.delete")),
			want:      false,
		},
		{
			name:      "Not - Inverts",
			predicate: Negate(HasRole("admin")),
			want:      true,
		},
		{
			name:      "Not - Double Negation",
			predicate: Negate(Negate(HasRole("editor"))),
			want:      true,
		},
		{
			name: "Nested - (admin OR editor) AND env=prod",
			predicate: AllOf(
				AnyOf(HasRole("admin"), HasRole("editor")),
				Attr("env", OpEqual, "prod"),
			),
			attrs: map[string]any{"env": "prod"},
			want:  true,
		},
		{
			name:      "Empty Node Fails Closed",
			predicate: Predicate{},
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := core.NewContext(principal, tt.resource, tt.attrs)
			if got := tt.predicate.Evaluate(ctx); got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPredicate_Evaluate_NilReceiver(t *testing.T) {
	var p *Predicate
	ctx := core.NewContext(core.Principal{}, "", nil)
	if p.Evaluate(ctx) {
		t.Error("nil predicate must evaluate to false")
	}
}

func TestPredicate_Validate(t *testing.T) {
	tests := []struct {
		name      string
		predicate Predicate
		wantErr   bool
	}{
		{
			name:      "Valid Role Leaf",
			predicate: HasRole("admin"),
		},
		{
			name:      "Valid Comparison",
			predicate: Attr("env", OpEqual, "prod"),
		},
		{
			name:      "Valid Expression",
			predicate: Expression(`attributes["age"] > 18`),
		},
		{
			name:      "Valid Nested Tree",
			predicate: AllOf(AnyOf(HasRole("a"), HasRole("b")), Negate(HasGrant("c"))),
		},
		{
			name:      "Empty Node Rejected",
			predicate: Predicate{},
			wantErr:   true,
		},
		{
			name:      "Multiple Kinds Rejected",
			predicate: Predicate{Role: "admin", Grant: "posts.publish"},
			wantErr:   true,
		},
		{
			name:      "Invalid Operator Rejected",
			predicate: Attr("env", Operator("regex"), "prod"),
			wantErr:   true,
		},
		{
			name:      "Broken Expression Rejected",
			predicate: Expression(`attributes[`),
			wantErr:   true,
		},
		{
			name:      "Non-Boolean Expression Rejected",
			predicate: Expression(`"just a string"`),
			wantErr:   true,
		},
		{
			name:      "Invalid Nested Child Rejected",
			predicate: AllOf(HasRole("a"), Predicate{}),
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.predicate.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var cfgErr *core.ConfigurationError
				if !errors.As(err, &cfgErr) {
					t.Errorf("Validate() error is not a ConfigurationError: %v", err)
				}
			}
		})
	}
}
