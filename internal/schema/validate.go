package schema

import (
	"fmt"
	"net/url"
	"sort"

	"github.com/roach88/rdfmap/internal/resource"
)

// Validation error codes (E200-E299)
const (
	ErrNestedUnknown    = "E201" // nested entry names no declared property
	ErrNestedScalar     = "E202" // nested entry on a property without a class
	ErrUnresolvedClass  = "E203" // property class is not declared
	ErrInvalidBaseURI   = "E204" // base_uri is not an absolute URI
	ErrDuplicateType    = "E205" // two classes register the same type
	ErrInvalidPredicate = "E206" // predicate does not expand to an absolute IRI
)

// ValidationError is one problem found in a compiled schema.
type ValidationError struct {
	Class   string `json:"class"`
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s.%s: %s", e.Code, e.Line, e.Class, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s.%s: %s", e.Code, e.Class, e.Field, e.Message)
}

// Validate checks cross-class rules that CUE unification cannot express.
// It returns every problem found, in class order.
func (s *Schema) Validate() []ValidationError {
	var errs []ValidationError

	known := make(map[string]bool, len(s.Classes))
	for _, c := range s.Classes {
		known[c.Name] = true
	}
	types := make(map[string][]string)

	for _, c := range s.Classes {
		if c.Type != "" {
			types[string(c.Type)] = append(types[string(c.Type)], c.Name)
		}

		if c.BaseURI != "" && !isAbsolute(c.BaseURI) {
			errs = append(errs, ValidationError{
				Class:   c.Name,
				Field:   "base_uri",
				Message: fmt.Sprintf("base %q is not an absolute URI", c.BaseURI),
				Code:    ErrInvalidBaseURI,
				Line:    c.Pos.Line(),
			})
		}

		for _, p := range c.Properties {
			if !isAbsolute(string(p.Predicate)) {
				errs = append(errs, ValidationError{
					Class:   c.Name,
					Field:   "property." + p.Name,
					Message: fmt.Sprintf("predicate %q has no known prefix", p.Predicate),
					Code:    ErrInvalidPredicate,
					Line:    p.Pos.Line(),
				})
			}
			if p.Class != "" && !known[p.Class] {
				errs = append(errs, ValidationError{
					Class:   c.Name,
					Field:   "property." + p.Name,
					Message: fmt.Sprintf("class %q is not declared", p.Class),
					Code:    ErrUnresolvedClass,
					Line:    p.Pos.Line(),
				})
			}
		}

		for _, name := range c.Nested {
			p, ok := c.property(name)
			switch {
			case !ok:
				errs = append(errs, ValidationError{
					Class:   c.Name,
					Field:   "nested",
					Message: fmt.Sprintf("nested attributes for undeclared property %q", name),
					Code:    ErrNestedUnknown,
					Line:    c.Pos.Line(),
				})
			case p.Class == "" && c.Kind == resource.KindList:
				errs = append(errs, ValidationError{
					Class:   c.Name,
					Field:   "nested",
					Message: fmt.Sprintf("list items for %q need a class", name),
					Code:    ErrNestedScalar,
					Line:    p.Pos.Line(),
				})
			}
		}
	}

	for _, t := range sortedTypeKeys(types) {
		names := types[t]
		if len(names) < 2 {
			continue
		}
		errs = append(errs, ValidationError{
			Class:   names[1],
			Field:   "type",
			Message: fmt.Sprintf("type <%s> is already registered by %s", t, names[0]),
			Code:    ErrDuplicateType,
		})
	}
	return errs
}

func (d *ClassDecl) property(name string) (PropertyDecl, bool) {
	for _, p := range d.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return PropertyDecl{}, false
}

// isAbsolute accepts hierarchical URIs and the opaque schemes used for
// identifiers. An unexpanded prefixed name such as "mads:Topic" parses with
// a scheme but no host, and is rejected.
func isAbsolute(s string) bool {
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" {
		return false
	}
	switch u.Scheme {
	case "urn", "info", "tag":
		return true
	}
	return u.Host != ""
}

func sortedTypeKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
