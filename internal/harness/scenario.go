package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a mapping scenario.
// Scenarios declare classes with a CUE schema, seed the store, drive
// resources through a sequence of steps, and assert on the resulting
// values and statements.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Schema is the CUE schema directory declaring the classes.
	// Relative paths are resolved against the scenario file location.
	Schema string `yaml:"schema"`

	// NodePrefix prefixes generated blank-node ids. Defaults to "n".
	NodePrefix string `yaml:"node_prefix,omitempty"`

	// Repositories names extra in-memory repositories for classes that
	// do not persist into their parent. "default" is always the store.
	Repositories []string `yaml:"repositories,omitempty"`

	// Seed holds N-Triples lines written to the store before the steps.
	Seed []string `yaml:"seed,omitempty"`

	// Steps are executed in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final state.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one operation on a resource or list.
type Step struct {
	// Op selects the operation; see the Op constants.
	Op string `yaml:"op"`

	// As binds the created or built node to a name for later steps.
	As string `yaml:"as,omitempty"`

	// Target names a node bound by an earlier step.
	Target string `yaml:"target,omitempty"`

	// Class is the declared class name (new, new_list).
	Class string `yaml:"class,omitempty"`

	// Subject is the subject argument (new, new_list, set_subject).
	Subject string `yaml:"subject,omitempty"`

	// Parent is a bound node name, "none", or empty for the store.
	Parent string `yaml:"parent,omitempty"`

	// Property is a declared name or a "<iri>" predicate.
	Property string `yaml:"property,omitempty"`

	// Values are assigned by set, push and delete.
	Values []any `yaml:"values,omitempty"`

	// Value is assigned by append and set_index.
	Value any `yaml:"value,omitempty"`

	// Index is the list position for set_index.
	Index *int `yaml:"index,omitempty"`

	// Attributes are assigned by set_attributes and build.
	Attributes map[string]any `yaml:"attributes,omitempty"`

	// Error is the expected error code. The step must fail with it.
	Error string `yaml:"error,omitempty"`
}

// Assertion validates the final state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "value": Get of target.property equals Equals
	// - "count": Term length of target.property equals Count
	// - "list": values of list target equal Equals
	// - "list_classes": element class names of list target equal Classes
	// - "well_formed": list target has a single terminated chain
	// - "subject": subject of target renders as Equals
	// - "statement": Statement is present in Repository
	// - "no_statement": Statement is absent from Repository
	// - "store_count": Repository holds Count statements
	Type string `yaml:"type"`

	Target   string `yaml:"target,omitempty"`
	Property string `yaml:"property,omitempty"`

	// Equals is the expected value. Nodes compare by their rendered
	// subject ("<iri>" or "_:id"); IRIs render the same way.
	Equals any `yaml:"equals,omitempty"`

	Count   *int     `yaml:"count,omitempty"`
	Classes []string `yaml:"classes,omitempty"`

	// Statement is one N-Triples line.
	Statement string `yaml:"statement,omitempty"`

	// Repository names the repository to inspect. Defaults to the store.
	Repository string `yaml:"repository,omitempty"`
}

// Step operations.
const (
	OpNew           = "new"
	OpNewList       = "new_list"
	OpSet           = "set"
	OpPush          = "push"
	OpDelete        = "delete"
	OpSetAttributes = "set_attributes"
	OpBuild         = "build"
	OpAppend        = "append"
	OpSetIndex      = "set_index"
	OpShift         = "shift"
	OpPersist       = "persist"
	OpReload        = "reload"
	OpDestroy       = "destroy"
	OpSetSubject    = "set_subject"
)

// Assertion type constants.
const (
	AssertValue       = "value"
	AssertCount       = "count"
	AssertList        = "list"
	AssertListClasses = "list_classes"
	AssertWellFormed  = "well_formed"
	AssertSubject     = "subject"
	AssertStatement   = "statement"
	AssertNoStatement = "no_statement"
	AssertStoreCount  = "store_count"
)

// DefaultRepository is the name the store is registered under.
const DefaultRepository = "default"

// LoadScenario reads and parses a scenario YAML file, resolving the schema
// path against the file's directory.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving the schema path relative to the provided base path.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Schema != "" && !filepath.IsAbs(scenario.Schema) && basePath != "" {
		scenario.Schema = filepath.Join(basePath, scenario.Schema)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Schema == "" {
		return fmt.Errorf("schema is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	if info, err := os.Stat(s.Schema); err != nil || !info.IsDir() {
		return fmt.Errorf("schema directory not found: %s", s.Schema)
	}

	for i, name := range s.Repositories {
		if name == "" || name == DefaultRepository {
			return fmt.Errorf("repositories[%d]: %q is not a valid repository name", i, name)
		}
	}

	bound := make(map[string]bool)
	for i, step := range s.Steps {
		if err := validateStep(i, &step, bound); err != nil {
			return err
		}
		if step.As != "" {
			bound[step.As] = true
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

// validateStep checks the fields an operation needs and that targets were
// bound by an earlier step.
func validateStep(index int, s *Step, bound map[string]bool) error {
	needTarget := true
	switch s.Op {
	case OpNew, OpNewList:
		needTarget = false
		if s.As == "" {
			return fmt.Errorf("steps[%d]: as is required for %s", index, s.Op)
		}
		if s.Op == OpNew && s.Class == "" {
			return fmt.Errorf("steps[%d]: class is required for new", index)
		}
		if s.Parent != "" && s.Parent != "none" && !bound[s.Parent] {
			return fmt.Errorf("steps[%d]: parent %q is not bound", index, s.Parent)
		}
	case OpSet, OpPush, OpDelete, OpBuild:
		if s.Property == "" {
			return fmt.Errorf("steps[%d]: property is required for %s", index, s.Op)
		}
	case OpSetIndex:
		if s.Index == nil {
			return fmt.Errorf("steps[%d]: index is required for set_index", index)
		}
	case OpSetSubject:
		if s.Subject == "" {
			return fmt.Errorf("steps[%d]: subject is required for set_subject", index)
		}
	case OpSetAttributes, OpAppend, OpShift, OpPersist, OpReload, OpDestroy:
	case "":
		return fmt.Errorf("steps[%d]: op is required", index)
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", index, s.Op)
	}

	if needTarget {
		if s.Target == "" {
			return fmt.Errorf("steps[%d]: target is required for %s", index, s.Op)
		}
		if !bound[s.Target] {
			return fmt.Errorf("steps[%d]: target %q is not bound", index, s.Target)
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertValue:
		if a.Target == "" || a.Property == "" {
			return fmt.Errorf("assertions[%d]: target and property are required for value", index)
		}
	case AssertCount:
		if a.Target == "" || a.Property == "" || a.Count == nil {
			return fmt.Errorf("assertions[%d]: target, property and count are required for count", index)
		}
	case AssertList, AssertWellFormed, AssertSubject:
		if a.Target == "" {
			return fmt.Errorf("assertions[%d]: target is required for %s", index, a.Type)
		}
	case AssertListClasses:
		if a.Target == "" || len(a.Classes) == 0 {
			return fmt.Errorf("assertions[%d]: target and classes are required for list_classes", index)
		}
	case AssertStatement, AssertNoStatement:
		if a.Statement == "" {
			return fmt.Errorf("assertions[%d]: statement is required for %s", index, a.Type)
		}
	case AssertStoreCount:
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: non-negative count is required for store_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
