package harness

// StepEvent records one executed step for the trace.
type StepEvent struct {
	Seq     int64  `json:"seq"`
	Op      string `json:"op"`
	Target  string `json:"target,omitempty"`
	Outcome string `json:"outcome"` // "ok" or an error code
}

// OutcomeOK marks a step that returned no error.
const OutcomeOK = "ok"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	Pass bool `json:"pass"`

	// Trace contains every step in execution order.
	Trace []StepEvent `json:"trace"`

	// Errors contains failed step and assertion messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Statements is the final content of the store as sorted N-Triples
	// lines.
	Statements []string `json:"statements"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:       true,
		Trace:      []StepEvent{},
		Errors:     []string{},
		Statements: []string{},
	}
}

// AddError adds an error message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddStep appends a step to the trace.
func (r *Result) AddStep(seq int64, op, target, outcome string) {
	r.Trace = append(r.Trace, StepEvent{
		Seq:     seq,
		Op:      op,
		Target:  target,
		Outcome: outcome,
	})
}
