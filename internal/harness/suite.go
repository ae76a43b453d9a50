package harness

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SuiteOptions controls RunSuite.
type SuiteOptions struct {
	// GoldenDir holds {name}.golden snapshots. Empty disables golden
	// comparison.
	GoldenDir string

	// Update rewrites golden files instead of comparing against them.
	Update bool
}

// SuiteResult contains results from running a directory of scenarios.
type SuiteResult struct {
	Total    int               `json:"total"`
	Passed   int               `json:"passed"`
	Failed   int               `json:"failed"`
	Updated  int               `json:"updated,omitempty"`
	Failures []ScenarioFailure `json:"failures,omitempty"`
}

// ScenarioFailure represents a failed scenario.
type ScenarioFailure struct {
	ScenarioPath string   `json:"scenario_path"`
	Name         string   `json:"name,omitempty"`
	Errors       []string `json:"errors"`
}

// FindScenarios returns the *.yaml and *.yml files in dir, sorted.
// Subdirectories are not searched.
func FindScenarios(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".yaml", ".yml":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// RunSuite loads and runs every scenario in dir.
//
// For each scenario file:
// 1. Load and validate the scenario
// 2. Run it via Run
// 3. Compare or update its golden snapshot when opts.GoldenDir is set
// 4. Collect failures
//
// A returned error means the directory could not be read; individual
// scenario failures are reported in the result.
func RunSuite(ctx context.Context, dir string, opts SuiteOptions) (*SuiteResult, error) {
	paths, err := FindScenarios(dir)
	if err != nil {
		return nil, err
	}

	result := &SuiteResult{}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Total++

		failure := ScenarioFailure{ScenarioPath: path}
		scenario, err := LoadScenario(path)
		if err != nil {
			failure.Errors = []string{fmt.Sprintf("failed to load scenario: %v", err)}
			result.fail(failure)
			continue
		}
		failure.Name = scenario.Name

		run, err := Run(scenario)
		if err != nil {
			failure.Errors = []string{fmt.Sprintf("failed to run scenario: %v", err)}
			result.fail(failure)
			continue
		}
		failure.Errors = append(failure.Errors, run.Errors...)

		if opts.GoldenDir != "" {
			updated, err := checkGolden(opts, scenario.Name, run)
			if err != nil {
				failure.Errors = append(failure.Errors, err.Error())
			}
			if updated {
				result.Updated++
			}
		}

		if len(failure.Errors) > 0 {
			result.fail(failure)
			continue
		}
		result.Passed++
	}
	return result, nil
}

func (r *SuiteResult) fail(f ScenarioFailure) {
	r.Failed++
	r.Failures = append(r.Failures, f)
}

// checkGolden compares the snapshot with its golden file, or writes it
// when updating. A missing golden file is not a failure.
func checkGolden(opts SuiteOptions, name string, run *Result) (bool, error) {
	path := filepath.Join(opts.GoldenDir, name+".golden")
	got := Snapshot(name, run)

	if opts.Update {
		if err := os.MkdirAll(opts.GoldenDir, 0o755); err != nil {
			return false, fmt.Errorf("failed to create golden directory: %w", err)
		}
		if err := os.WriteFile(path, got, 0o644); err != nil {
			return false, fmt.Errorf("failed to write golden file: %w", err)
		}
		return true, nil
	}

	want, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read golden file: %w", err)
	}
	if !bytes.Equal(want, got) {
		return false, fmt.Errorf("snapshot differs from %s:\n--- want\n%s--- got\n%s",
			path, indent(string(want)), indent(string(got)))
	}
	return false, nil
}

func indent(s string) string {
	lines := strings.SplitAfter(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = "  " + l
		}
	}
	return strings.Join(lines, "")
}
