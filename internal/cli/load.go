package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// LoadResult reports what the load command wrote.
type LoadResult struct {
	Files      []string `json:"files"`
	Statements int      `json:"statements"`
	Total      int      `json:"total"`
}

// NewLoadCommand creates the load command.
func NewLoadCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load <file.nq>...",
		Short: "Load N-Quads or N-Triples into the store",
		Long: `Parse N-Quads or N-Triples files and insert their statements into the store.

Graph labels are ignored. "-" reads standard input. Statements already in
the store are left alone, so loading the same file twice is harmless.

Examples:
  rdfmap load topics.nt
  rdfmap load --db people.db a.nq b.nq
  cat dump.nt | rdfmap load -`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(rootOpts, args, cmd)
		},
	}
	return cmd
}

func runLoad(opts *RootOptions, files []string, cmd *cobra.Command) error {
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

	result := LoadResult{Files: files}
	for _, path := range files {
		quads, err := readQuads(path, cmd.InOrStdin())
		if err != nil {
			return out.Fail(ExitCommandError, ErrCodeInput, err)
		}
		if err := s.store.InsertQuads(s.ctx, quads...); err != nil {
			return out.Fail(ExitCommandError, ErrCodeStore, err)
		}
		out.VerboseLog("Loaded %d statement(s) from %s", len(quads), path)
		result.Statements += len(quads)
	}

	total, err := s.store.Count(s.ctx)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeStore, err)
	}
	result.Total = total

	if out.Format == "json" {
		return out.Success(result)
	}
	fmt.Fprintf(out.Writer, "✓ Loaded %d statement(s); store holds %d\n", result.Statements, result.Total)
	return nil
}
