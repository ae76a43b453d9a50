package cli

import (
	"github.com/spf13/cobra"
)

// SetOptions holds flags for the set command.
type SetOptions struct {
	ShowOptions
	Push bool // add to existing values instead of replacing them
}

// NewSetCommand creates the set command.
func NewSetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SetOptions{ShowOptions: ShowOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "set <subject> <property> [value]...",
		Short: "Assign property values and persist the resource",
		Long: `Replace the values of one property of a subject and persist the resource.

The property is a declared name, <iri>, or a prefixed name. Values of the
form <iri> or _:id are nodes; everything else is a string literal. With no
values the property is cleared. --push adds the values instead.

Examples:
  rdfmap set bob name Bob --schema ./schema --class Person
  rdfmap set bob knows "<http://example.org/people/alice>" --push --schema ./schema --class Person`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(opts, args[0], args[1], args[2:], cmd)
		},
	}
	addSchemaFlags(cmd, &opts.ShowOptions)
	cmd.Flags().BoolVar(&opts.Push, "push", false, "add values instead of replacing them")
	return cmd
}

func runSet(opts *SetOptions, subject, property string, args []string, cmd *cobra.Command) error {
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
	r := node.Resource()

	term, err := r.Term(s.property(class, property))
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeMapping, err)
	}
	values := make([]any, 0, len(args))
	for _, a := range args {
		values = append(values, value(a))
	}
	if opts.Push {
		err = term.Push(values)
	} else {
		err = term.Set(values)
	}
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeMapping, err)
	}
	if err := r.Persist(); err != nil {
		return out.Fail(ExitCommandError, ErrCodeMapping, err)
	}
	out.VerboseLog("Persisted %d statement(s) for %s", r.Len(), r.Subject())

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
