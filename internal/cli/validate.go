package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/rdfmap/internal/schema"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool                      `json:"valid"`
	Classes []string                  `json:"classes,omitempty"`
	Errors  []schema.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <schema-dir>",
		Short: "Validate a CUE class schema",
		Long: `Load and check a CUE class schema without touching the store.

Reports every class that fails to compile, then cross-class problems:
nested attributes naming undeclared properties, property classes that are
not declared, relative base URIs and predicates, and types registered by
more than one class.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	validationErrors, sch, err := ValidateSchemaDir(dir)
	if err != nil {
		var loadErr *schema.LoadError
		if errors.As(err, &loadErr) {
			return outputValidateError(formatter, loadErr.Code, loadErr.Message, nil)
		}
		return outputValidateError(formatter, schema.ErrCodeGeneric, err.Error(), nil)
	}
	if sch != nil {
		formatter.VerboseLog("Found %d CUE file(s) in %s", sch.FileCount, dir)
	}

	if len(validationErrors) > 0 {
		return outputValidationErrors(formatter, validationErrors)
	}
	return outputValidateSuccess(formatter, sch.Names())
}

// ValidateSchemaDir loads every class in dir and validates the result.
// Class compile errors come back as validation errors alongside the
// cross-class ones; a returned error means the directory could not be
// loaded at all.
func ValidateSchemaDir(dir string) ([]schema.ValidationError, *schema.Schema, error) {
	sch, errs := schema.Load(dir, schema.LoadModeCollectAll)
	if sch == nil && len(errs) > 0 {
		return nil, nil, errs[0]
	}

	var out []schema.ValidationError
	for _, err := range errs {
		var loadErr *schema.LoadError
		if errors.As(err, &loadErr) {
			out = append(out, schema.ValidationError{
				Field:   "load",
				Message: loadErr.Message,
				Code:    loadErr.Code,
				Line:    lineOf(loadErr),
			})
			continue
		}
		out = append(out, schema.ValidationError{Field: "load", Message: err.Error(), Code: schema.ErrCodeGeneric})
	}
	if sch == nil {
		return out, nil, nil
	}
	out = append(out, sch.Validate()...)
	return out, sch, nil
}

func lineOf(e *schema.LoadError) int {
	if e.Pos.IsValid() {
		return e.Pos.Line()
	}
	return 0
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, classes []string) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Classes: classes})
	}

	fmt.Fprintf(formatter.Writer, "✓ Schema valid (%d classes)\n", len(classes))
	return nil
}

// outputValidateError outputs a single load error.
func outputValidateError(formatter *OutputFormatter, code, message string, details any) error {
	_ = formatter.Error(code, message, details)
	// Load errors are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []schema.ValidationError) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: errs},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		if err.Class != "" {
			fmt.Fprintf(formatter.Writer, "  %s: %s.%s: %s\n\n", err.Code, err.Class, err.Field, err.Message)
			continue
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", err.Code, err.Message)
	}

	// Validation failures = exit code 1
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
