package queryir

import "fmt"

// ValidationResult lists suspicious shapes found in a query.
type ValidationResult struct {
	// Valid is true when there are no warnings.
	Valid bool

	Warnings []string
}

// Validate inspects a query without executing it. It never fails; callers
// decide whether warnings matter.
func Validate(query Query) ValidationResult {
	v := &validator{
		warnings: []string{},
	}
	v.validateQuery(query)

	return ValidationResult{
		Valid:    len(v.warnings) == 0,
		Warnings: v.warnings,
	}
}

type validator struct {
	warnings []string
}

func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func (v *validator) validateQuery(q Query) {
	if q == nil {
		v.addWarning("nil query")
		return
	}

	switch query := q.(type) {
	case Select:
		v.validateSelect(query)
	case *Select:
		v.validateSelect(*query)
	case Delete:
		v.validateDelete(query)
	case *Delete:
		v.validateDelete(*query)
	default:
		v.addWarning("unknown query type: %T", q)
	}
}

func (v *validator) validateSelect(sel Select) {
	if sel.From == "" {
		v.addWarning("select without a source table")
	}
	if len(sel.Bindings) == 0 {
		v.addWarning("empty bindings (SELECT *) - columns must be explicit")
	}
	if sel.Filter != nil {
		v.validatePredicate(sel.Filter)
	}
}

func (v *validator) validateDelete(del Delete) {
	if del.From == "" {
		v.addWarning("delete without a source table")
	}
	if del.Filter == nil {
		v.addWarning("unbounded delete on %q removes every row", del.From)
		return
	}
	v.validatePredicate(del.Filter)
}

func (v *validator) validatePredicate(p Predicate) {
	if p == nil {
		return
	}

	switch pred := p.(type) {
	case Equals:
		v.validateEquals(pred)
	case *Equals:
		v.validateEquals(*pred)
	case And:
		v.validateAnd(pred)
	case *And:
		v.validateAnd(*pred)
	default:
		v.addWarning("unknown predicate type: %T", p)
	}
}

func (v *validator) validateEquals(eq Equals) {
	if eq.Field == "" {
		v.addWarning("equals predicate without a field")
	}
}

func (v *validator) validateAnd(and And) {
	for _, sub := range and.Predicates {
		v.validatePredicate(sub)
	}
}
