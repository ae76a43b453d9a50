package schema

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"github.com/cayleygraph/quad"

	"github.com/roach88/rdfmap/internal/resource"
	"github.com/roach88/rdfmap/internal/vocab"
)

// definitions constrains the shape of one class declaration.
const definitions = `
#Property: {
	predicate:   string
	class?:      string
	multivalue?: bool
	behaviors?: [...string]
}

#Class: {
	kind?:       "resource" | "list"
	type?:       string
	base_uri?:   string
	repository?: string
	label?: [...string]
	property?: [string]: #Property
	nested?: [...string]
}
`

// PropertyDecl is one compiled property declaration.
type PropertyDecl struct {
	Name       string
	Predicate  quad.IRI
	Class      string
	Multivalue bool
	Behaviors  []string
	Pos        token.Pos
}

// ClassDecl is one compiled class declaration.
type ClassDecl struct {
	Name       string
	Kind       resource.Kind
	Type       quad.IRI
	BaseURI    string
	Repository string
	Labels     []string
	Properties []PropertyDecl
	Nested     []string
	Pos        token.Pos
}

// CompileError reports a declaration that could not be compiled.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// CompileClass compiles the CUE value of one class. The class name is the
// last selector of the value's path.
func CompileClass(v cue.Value, prefixes map[string]string) (*ClassDecl, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	def := v.Context().CompileString(definitions).LookupPath(cue.ParsePath("#Class"))
	if err := def.Unify(v).Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	decl := &ClassDecl{
		Kind:       resource.KindResource,
		Repository: resource.ParentRepository,
		Pos:        v.Pos(),
	}
	if selectors := v.Path().Selectors(); len(selectors) > 0 {
		decl.Name = selectors[len(selectors)-1].String()
	}

	kind, err := optionalString(v, "kind")
	if err != nil {
		return nil, err
	}
	if kind == "list" {
		decl.Kind = resource.KindList
	}

	typ, err := optionalString(v, "type")
	if err != nil {
		return nil, err
	}
	if typ != "" {
		decl.Type = vocab.Expand(typ, prefixes)
	}

	if decl.BaseURI, err = optionalString(v, "base_uri"); err != nil {
		return nil, err
	}
	repo, err := optionalString(v, "repository")
	if err != nil {
		return nil, err
	}
	if repo != "" {
		decl.Repository = repo
	}

	if decl.Properties, err = compileProperties(v, prefixes); err != nil {
		return nil, err
	}

	labels, err := stringList(v, "label")
	if err != nil {
		return nil, err
	}
	for _, label := range labels {
		if decl.hasProperty(label) {
			decl.Labels = append(decl.Labels, label)
			continue
		}
		decl.Labels = append(decl.Labels, string(vocab.Expand(label, prefixes)))
	}

	if decl.Nested, err = stringList(v, "nested"); err != nil {
		return nil, err
	}
	return decl, nil
}

// compileProperties reads the property struct in declaration order.
func compileProperties(v cue.Value, prefixes map[string]string) ([]PropertyDecl, error) {
	propsVal := v.LookupPath(cue.ParsePath("property"))
	if !propsVal.Exists() {
		return nil, nil
	}
	iter, err := propsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var props []PropertyDecl
	for iter.Next() {
		pv := iter.Value()
		prop := PropertyDecl{
			Name:       iter.Label(),
			Multivalue: true,
			Pos:        pv.Pos(),
		}

		predicate, err := pv.LookupPath(cue.ParsePath("predicate")).String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		if predicate == "" {
			return nil, &CompileError{
				Field:   fmt.Sprintf("property.%s.predicate", prop.Name),
				Message: "predicate must not be empty",
				Pos:     pv.Pos(),
			}
		}
		prop.Predicate = vocab.Expand(predicate, prefixes)

		if prop.Class, err = optionalString(pv, "class"); err != nil {
			return nil, err
		}
		if mv := pv.LookupPath(cue.ParsePath("multivalue")); mv.Exists() {
			if prop.Multivalue, err = mv.Bool(); err != nil {
				return nil, formatCUEError(err)
			}
		}
		if prop.Behaviors, err = stringList(pv, "behaviors"); err != nil {
			return nil, err
		}
		props = append(props, prop)
	}
	return props, nil
}

func (d *ClassDecl) hasProperty(name string) bool {
	_, ok := d.property(name)
	return ok
}

// Class builds the resource class. Class references stay unresolved until
// the class is declared on a mapper.
func (d *ClassDecl) Class() *resource.Class {
	var opts []resource.ClassOption
	if d.Kind == resource.KindList {
		opts = append(opts, resource.AsList())
	}
	if d.Type != "" {
		opts = append(opts, resource.WithType(d.Type))
	}
	if d.BaseURI != "" {
		opts = append(opts, resource.WithBaseURI(d.BaseURI))
	}
	if d.Repository != "" {
		opts = append(opts, resource.WithRepository(d.Repository))
	}
	if len(d.Labels) > 0 {
		opts = append(opts, resource.WithLabel(d.Labels...))
	}

	c := resource.NewClass(d.Name, opts...)
	for _, p := range d.Properties {
		var popts []resource.PropertyOption
		if p.Class != "" {
			popts = append(popts, resource.WithClassName(p.Class))
		}
		if !p.Multivalue {
			popts = append(popts, resource.SingleValued())
		}
		if len(p.Behaviors) > 0 {
			popts = append(popts, resource.WithBehaviors(p.Behaviors...))
		}
		c.Property(p.Name, p.Predicate, popts...)
	}
	if len(d.Nested) > 0 {
		c.AcceptsNestedAttributesFor(d.Nested...)
	}
	return c
}

func optionalString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func stringList(v cue.Value, field string) ([]string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return nil, nil
	}
	iter, err := fv.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, s)
	}
	return out, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
