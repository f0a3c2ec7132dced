package predicate

import (
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestPredicate_UnmarshalYAML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Predicate
	}{
		{
			name: "Explicit Syntax",
			input: `key: env
operator: equals
value: prod`,
			want: Predicate{Key: "env", Operator: OpEqual, Value: "prod"},
		},
		{
			name:  "Explicit Syntax - Implicit Equals",
			input: `{ key: env, value: prod }`,
			want:  Predicate{Key: "env", Operator: OpEqual, Value: "prod"},
		},
		{
			name:  "Explicit Role Leaf",
			input: `role: admin`,
			want:  Predicate{Role: "admin"},
		},
		{
			name:  "Explicit Resource Leaf",
			input: `resource: admin.*`,
			want:  Predicate{Resource: "admin.*"},
		},
		{
			name:  "Shorthand Simple Key-Value",
			input: `env: prod`,
			want:  Predicate{Key: "env", Operator: OpEqual, Value: "prod"},
		},
		{
			name:  "Shorthand Operator Map",
			input: `groups: { contains: admins }`,
			want:  Predicate{Key: "groups", Operator: OpContains, Value: "admins"},
		},
		{
			name:  "Shorthand Multiple Keys Become All",
			input: `{ env: prod, tier: gold }`,
			want: Predicate{
				All: []Predicate{
					{Key: "env", Operator: OpEqual, Value: "prod"},
					{Key: "tier", Operator: OpEqual, Value: "gold"},
				},
			},
		},
		{
			name: "Nested Logic (Any)",
			input: `
any:
  - role: admin
  - grant: posts.publish
`,
			want: Predicate{
				Any: []Predicate{
					{Role: "admin"},
					{Grant: "posts.publish"},
				},
			},
		},
		{
			name: "Nested Logic (Not)",
			input: `
not:
  role: banned
`,
			want: Predicate{
				Not: &Predicate{Role: "banned"},
			},
		},
		{
			name: "Mixed Explicit And Shorthand",
			input: `
all:
  - resource: billing
  - region: { in: [eu-west, us-east] }
`,
			want: Predicate{
				All: []Predicate{
					{Resource: "billing"},
					{Key: "region", Operator: OpIn, Value: []any{"eu-west", "us-east"}},
				},
			},
		},
	}

	sortChildren := cmpopts.SortSlices(func(a, b Predicate) bool {
		return a.Key < b.Key
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Predicate
			if err := yaml.Unmarshal([]byte(tt.input), &got); err != nil {
				t.Fatalf("UnmarshalYAML() error = %v", err)
			}

			if diff := cmp.Diff(tt.want, got,
				cmpopts.IgnoreUnexported(Predicate{}),
				sortChildren,
			); diff != "" {
				t.Errorf("Unmarshal mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
