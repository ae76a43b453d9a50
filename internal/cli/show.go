package cli

import (
	"fmt"

	"github.com/cayleygraph/quad"
	"github.com/spf13/cobra"

	"github.com/roach88/rdfmap/internal/graph"
	"github.com/roach88/rdfmap/internal/resource"
)

// ShowOptions holds flags shared by show and set.
type ShowOptions struct {
	*RootOptions
	Schema string // CUE schema directory
	Class  string // declared class name; empty means the default class
}

// PropertyView is one property of a shown resource.
type PropertyView struct {
	Name      string   `json:"name"`
	Predicate string   `json:"predicate"`
	Values    []string `json:"values"`
}

// ShowResult is a resource as the show command renders it.
type ShowResult struct {
	Subject    string         `json:"subject"`
	Class      string         `json:"class"`
	Types      []string       `json:"types,omitempty"`
	Label      []string       `json:"label,omitempty"`
	Properties []PropertyView `json:"properties,omitempty"`
	Elements   []string       `json:"elements,omitempty"`
}

func addSchemaFlags(cmd *cobra.Command, opts *ShowOptions) {
	cmd.Flags().StringVar(&opts.Schema, "schema", "", "CUE schema directory declaring the classes (required)")
	cmd.Flags().StringVar(&opts.Class, "class", "", "class to map the subject with")
	_ = cmd.MarkFlagRequired("schema")
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <subject>",
		Short: "Show a subject mapped through a schema class",
		Long: `Load a subject from the store as a resource of the given class and print
its label and declared properties. List classes print their elements.

Subjects may be <iri>, _:id, a prefixed name, or an id relative to the
class base URI.

Examples:
  rdfmap show baseball --schema ./schema --class Topic
  rdfmap show "<http://example.org/people/bob>" --schema ./schema --class Person --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], cmd)
		},
	}
	addSchemaFlags(cmd, opts)
	return cmd
}

func runShow(opts *ShowOptions, subject string, cmd *cobra.Command) error {
	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	s, err := openSession(cmd.Context(), opts.RootOptions, out)
	if err != nil {
		return err
	}
	defer s.close()

	if err := s.withSchema(opts.Schema); err != nil {
		return err
	}
	class, err := s.class(opts.Class)
	if err != nil {
		return err
	}
	node, err := s.mapper.NewNode(class, s.subject(subject), s.repo)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeMapping, err)
	}

	result, err := describeNode(node)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeMapping, err)
	}
	if out.Format == "json" {
		return out.Success(result)
	}
	printShowResult(out, result)
	return nil
}

// describeNode renders a node's types, label, properties and, for lists,
// elements.
func describeNode(node resource.Node) (ShowResult, error) {
	r := node.Resource()
	result := ShowResult{
		Subject: graph.Format(r.Subject()),
		Class:   r.Class().Name,
	}
	for _, t := range r.Types() {
		result.Types = append(result.Types, graph.Format(t))
	}
	for _, l := range r.Label() {
		result.Label = append(result.Label, display(l))
	}
	for _, p := range r.Class().Properties() {
		values, err := r.Values(p.Name)
		if err != nil {
			return ShowResult{}, err
		}
		view := PropertyView{Name: p.Name, Predicate: graph.Format(p.Predicate), Values: []string{}}
		for _, v := range values {
			view.Values = append(view.Values, display(v))
		}
		result.Properties = append(result.Properties, view)
	}
	if l, ok := node.(*resource.List); ok {
		for _, v := range l.Values() {
			result.Elements = append(result.Elements, display(v))
		}
	}
	return result, nil
}

// display renders a value for output: nodes by subject, literals by their
// Go value.
func display(v any) string {
	switch x := v.(type) {
	case resource.Node:
		return graph.Format(x.Subject())
	case quad.Value:
		return graph.Format(x)
	case string:
		return x
	}
	return fmt.Sprint(v)
}

func printShowResult(out *OutputFormatter, r ShowResult) {
	w := out.Writer
	fmt.Fprintf(w, "%s (%s)\n", r.Subject, r.Class)
	for _, t := range r.Types {
		fmt.Fprintf(w, "  a %s\n", t)
	}
	if len(r.Label) > 0 {
		fmt.Fprintf(w, "  label: %v\n", r.Label)
	}
	for _, p := range r.Properties {
		if len(p.Values) == 0 {
			continue
		}
		fmt.Fprintf(w, "  %s: %v\n", p.Name, p.Values)
	}
	for i, e := range r.Elements {
		fmt.Fprintf(w, "  [%d] %s\n", i, e)
	}
}
