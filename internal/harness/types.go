package harness

import "github.com/witherBattler/edit-hunt-ai/internal/review"

// TraceEvent records one executed step.
type TraceEvent struct {
	Seq int64  `json:"seq"`
	Op  string `json:"op"`
	// Lead is the 1-based lead the step applied to, 0 when none.
	Lead int `json:"lead,omitempty"`
	// Cursor is the 1-based position after the step.
	Cursor int `json:"cursor"`
	// Result is the step outcome when it succeeded.
	Result string `json:"result,omitempty"`
	// Error is the error code when it failed.
	Error string `json:"error,omitempty"`
}

// Artifacts holds the checkpoint files as left on disk by the run. A file
// that was never written is empty.
type Artifacts struct {
	Accepted string `json:"accepted"`
	Rejected string `json:"rejected"`
	Snapshot string `json:"snapshot"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Trace lists executed steps in order.
	Trace []TraceEvent `json:"trace"`

	// Errors are failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Counts are the final session totals.
	Counts review.Counts `json:"counts"`

	// Artifacts are the final checkpoint files.
	Artifacts Artifacts `json:"artifacts"`
}

// NewResult creates a passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError records a failure.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

func (r *Result) addTrace(e TraceEvent) {
	e.Seq = int64(len(r.Trace) + 1)
	r.Trace = append(r.Trace, e)
}
