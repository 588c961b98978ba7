package harness

// Step outcomes recorded in the trace.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeNoop     = "noop"
	OutcomeError    = "error"
)

// TraceEvent records one executed step.
type TraceEvent struct {
	Step    int    `json:"step"`
	Action  string `json:"action"`
	At      string `json:"at"`
	Outcome string `json:"outcome"`
	Record  string `json:"record,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every step expectation and assertion held.
	Pass bool `json:"pass"`

	// Trace contains one event per executed step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains expectation and assertion failures.
	Errors []string `json:"errors,omitempty"`
}

// NewResult returns an empty result that passes until a failure is added.
func NewResult() *Result {
	return &Result{Pass: true, Trace: []TraceEvent{}, Errors: []string{}}
}

// AddError records a failed expectation or assertion.
func (r *Result) AddError(msg string) {
	r.Pass = false
	r.Errors = append(r.Errors, msg)
}

// AddTrace appends a trace event.
func (r *Result) AddTrace(e TraceEvent) {
	r.Trace = append(r.Trace, e)
}
