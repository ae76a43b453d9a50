package cli

import (
	"github.com/cayleygraph/quad/nquads"
	"github.com/spf13/cobra"

	"github.com/roach88/rdfmap/internal/graph"
)

// DumpResult is the JSON form of a dump: sorted N-Triples lines.
type DumpResult struct {
	Statements []string `json:"statements"`
}

// NewDumpCommand creates the dump command.
func NewDumpCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Write every statement in the store",
		Long: `Write the store contents as N-Triples on standard output.

With --format json the statements are returned as a sorted list of lines.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(rootOpts, cmd)
		},
	}
	return cmd
}

func runDump(opts *RootOptions, cmd *cobra.Command) error {
	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	s, err := openSession(cmd.Context(), opts, out)
	if err != nil {
		return err
	}
	defer s.close()

	quads, err := s.store.Statements(s.ctx)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeStore, err)
	}
	out.VerboseLog("Dumping %d statement(s)", len(quads))

	if out.Format == "json" {
		return out.Success(DumpResult{Statements: graph.Lines(quads)})
	}

	w := nquads.NewWriter(out.Writer)
	for _, q := range quads {
		if err := w.WriteQuad(q); err != nil {
			return out.Fail(ExitCommandError, ErrCodeStore, err)
		}
	}
	return w.Close()
}
