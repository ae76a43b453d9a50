package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codes(errs []ValidationError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Code)
	}
	return out
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "valid",
			src: `
				class: A: {type: "http://example.org/A", property: b: {predicate: "http://example.org/b", class: "B"}}
				class: B: {type: "http://example.org/B"}
			`,
			want: []string{},
		},
		{
			name: "nested on undeclared property",
			src:  `class: A: {nested: ["missing"]}`,
			want: []string{ErrNestedUnknown},
		},
		{
			name: "list items without class",
			src: `class: L: {
				kind: "list"
				property: item: predicate: "http://example.org/item"
				nested: ["item"]
			}`,
			want: []string{ErrNestedScalar},
		},
		{
			name: "unresolved class",
			src:  `class: A: property: b: {predicate: "http://example.org/b", class: "Nope"}`,
			want: []string{ErrUnresolvedClass},
		},
		{
			name: "relative base",
			src:  `class: A: base_uri: "people/"`,
			want: []string{ErrInvalidBaseURI},
		},
		{
			name: "unexpanded predicate",
			src:  `class: A: property: b: predicate: "nope:b"`,
			want: []string{ErrInvalidPredicate},
		},
		{
			name: "urn predicate",
			src:  `class: A: property: b: predicate: "urn:example:b"`,
			want: []string{},
		},
		{
			name: "duplicate type",
			src: `
				class: A: type: "http://example.org/T"
				class: B: type: "http://example.org/T"
			`,
			want: []string{ErrDuplicateType},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := CompileString(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, codes(s.Validate()))
		})
	}
}

func TestValidationErrorFormat(t *testing.T) {
	err := ValidationError{Class: "A", Field: "nested", Message: "bad", Code: ErrNestedUnknown}
	assert.Equal(t, "[E201] A.nested: bad", err.Error())

	err.Line = 4
	assert.Equal(t, "[E201] line 4: A.nested: bad", err.Error())
}
