package harness

// CheckEvent records the outcome of a single check in the transcript.
type CheckEvent struct {
	Seq     int    `json:"seq"`
	Scalar  string `json:"scalar"`
	Surface string `json:"surface"` // "literal", "variable", or "resolve"
	Input   string `json:"input"`   // the input as given in the scenario
	Outcome string `json:"outcome"`
	Wire    string `json:"wire,omitempty"`  // canonical JSON, ok outcomes only
	Error   string `json:"error,omitempty"` // failure outcomes only
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success.
	// True if every check matched its expect clause.
	Pass bool `json:"pass"`

	// Transcript contains one event per check, in order.
	// Used for golden comparison.
	Transcript []CheckEvent `json:"transcript"`

	// Errors contains expectation mismatch messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:       true,
		Transcript: []CheckEvent{},
		Errors:     []string{},
	}
}

// AddError adds an expectation mismatch and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
