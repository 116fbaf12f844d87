package harness

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/witherBattler/edit-hunt-ai/internal/lead"
	"github.com/witherBattler/edit-hunt-ai/internal/persist"
	"github.com/witherBattler/edit-hunt-ai/internal/review"
	"github.com/witherBattler/edit-hunt-ai/internal/testutil"
)

// Harness executes one scenario against one session.
type Harness struct {
	input   string
	opts    review.Options
	session *review.Session
	clock   *testutil.ManualClock
	logger  *slog.Logger
}

// Run executes a scenario and returns its result.
//
// Each run gets a fresh temporary directory holding the leads file and the
// checkpoint files, removed afterwards. The autosave clock starts at
// testutil.Epoch and only moves on wait steps.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, nil)
}

// RunWithLogger is Run with session and step logging sent to logger. A nil
// logger discards output.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	dir, err := os.MkdirTemp("", "leadreview-scenario-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create scenario dir: %w", err)
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "leads.jsonl")
	if err := writeLeads(input, scenario.Leads); err != nil {
		return nil, err
	}

	clock := testutil.NewManualClock()
	h := &Harness{
		input: input,
		opts: review.Options{
			Paths: persist.Paths{
				Accepted: filepath.Join(dir, persist.DefaultAcceptedFile),
				Rejected: filepath.Join(dir, persist.DefaultRejectedFile),
				Snapshot: filepath.Join(dir, persist.DefaultSnapshotFile),
			},
			Clock:  clock,
			Logger: logger,
		},
		clock:  clock,
		logger: logger,
	}

	h.session, err = review.Open(input, h.opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	defer func() { h.session.Close() }()

	result := NewResult()
	for i, step := range scenario.Steps {
		event, err := h.execute(step)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, step.Op, err)
		}
		result.addTrace(event)
		checkExpect(i, step, event, result)

		h.logger.Debug("scenario step",
			"step", i,
			"op", step.Op,
			"cursor", event.Cursor,
			"result", event.Result,
			"error", event.Error,
		)
	}

	result.Counts = h.session.Counts()
	result.Artifacts, err = readArtifacts(h.opts.Paths)
	if err != nil {
		return nil, err
	}

	for _, msg := range EvaluateAssertions(h.session, result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// execute applies one step. Session errors are recorded on the event; only
// harness failures are returned.
func (h *Harness) execute(step Step) (TraceEvent, error) {
	event := TraceEvent{Op: step.Op}
	before := h.session.Current()

	var opErr error
	switch step.Op {
	case OpAccept, OpReject:
		outcome := review.Accepted
		if step.Op == OpReject {
			outcome = review.Rejected
		}
		event.Lead = before + 1
		var move review.Move
		move, opErr = h.session.Classify(outcome)
		event.Result = move.String()
	case OpDelete:
		event.Lead = before + 1
		var move review.Move
		move, opErr = h.session.Delete()
		event.Result = move.String()
	case OpNext:
		event.Result = h.session.Advance().String()
	case OpPrev:
		event.Result = h.session.Retreat().String()
	case OpJump:
		event.Lead = step.N
		opErr = h.session.JumpTo(step.N)
		event.Result = review.Moved.String()
	case OpSave:
		opErr = h.session.Save()
		event.Result = "saved"
	case OpReload:
		var found bool
		found, opErr = h.session.Reload()
		event.Result = restoredResult(found)
	case OpAutosave:
		var fired bool
		fired, opErr = h.session.Scheduler().Fire()
		event.Result = firedResult(fired)
	case OpWait:
		h.clock.Advance(time.Duration(step.Seconds) * time.Second)
		var fired bool
		fired, opErr = h.session.Scheduler().Poll()
		event.Result = firedResult(fired)
	case OpReopen:
		var next *review.Session
		next, opErr = review.Open(h.input, h.opts)
		if opErr == nil {
			h.session.Close()
			h.session = next
		}
		event.Result = "reopened"
	case OpCorrupt:
		if err := os.WriteFile(h.opts.Paths.Snapshot, []byte("{corrupt"), 0o644); err != nil {
			return event, fmt.Errorf("corrupt snapshot: %w", err)
		}
		event.Result = "corrupted"
	default:
		return event, fmt.Errorf("unknown op %q", step.Op)
	}

	if opErr != nil {
		event.Result = ""
		event.Error = errorCode(opErr)
	}
	event.Cursor = h.session.Current() + 1
	return event, nil
}

func checkExpect(index int, step Step, event TraceEvent, result *Result) {
	if step.Expect == nil {
		if event.Error != "" {
			result.AddError(fmt.Sprintf("steps[%d] (%s): unexpected error %s", index, step.Op, event.Error))
		}
		return
	}
	if step.Expect.Error != "" && event.Error != step.Expect.Error {
		result.AddError(fmt.Sprintf("steps[%d] (%s): expected error %s, got %q",
			index, step.Op, step.Expect.Error, event.Error))
	}
	if step.Expect.Result != "" && (event.Error != "" || event.Result != step.Expect.Result) {
		result.AddError(fmt.Sprintf("steps[%d] (%s): expected result %s, got result %q error %q",
			index, step.Op, step.Expect.Result, event.Result, event.Error))
	}
}

func errorCode(err error) string {
	var re *review.Error
	if errors.As(err, &re) {
		return string(re.Code)
	}
	return err.Error()
}

func restoredResult(found bool) string {
	if found {
		return "restored"
	}
	return "no_checkpoint"
}

func firedResult(fired bool) string {
	if fired {
		return "saved"
	}
	return "idle"
}

func writeLeads(path string, texts []string) error {
	records := make([]lead.Record, len(texts))
	for i, text := range texts {
		records[i] = lead.Record{Text: text}.WithLabel(lead.LabelAccept)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write leads: %w", err)
	}
	if err := lead.WriteJSONL(f, records); err != nil {
		f.Close()
		return fmt.Errorf("failed to write leads: %w", err)
	}
	return f.Close()
}

func readArtifacts(paths persist.Paths) (Artifacts, error) {
	read := func(path string) (string, error) {
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to read artifact: %w", err)
		}
		return string(data), nil
	}

	var a Artifacts
	var err error
	if a.Accepted, err = read(paths.Accepted); err != nil {
		return Artifacts{}, err
	}
	if a.Rejected, err = read(paths.Rejected); err != nil {
		return Artifacts{}, err
	}
	if a.Snapshot, err = read(paths.Snapshot); err != nil {
		return Artifacts{}, err
	}
	return a, nil
}
