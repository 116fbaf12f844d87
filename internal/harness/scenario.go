package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/witherBattler/edit-hunt-ai/internal/review"
)

// Scenario is one scripted review.
type Scenario struct {
	// Name identifies the scenario and its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario demonstrates.
	Description string `yaml:"description"`

	// Leads are the input texts, in review order.
	Leads []string `yaml:"leads"`

	// Steps are applied in order to a single session.
	Steps []Step `yaml:"steps"`

	// Assertions are checked once every step has run.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one reviewer operation.
type Step struct {
	// Op is the operation name, see the Op* constants.
	Op string `yaml:"op"`

	// N is the 1-based lead number for jump.
	N int `yaml:"n,omitempty"`

	// Seconds is the clock advance for wait.
	Seconds int `yaml:"seconds,omitempty"`

	// Expect optionally checks the step's outcome.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect checks a step outcome. Set Result or Error, not both.
type Expect struct {
	Result string `yaml:"result,omitempty"`
	Error  string `yaml:"error,omitempty"`
}

// Assertion checks final session state.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Counts are expected totals keyed by their JSON names (counts).
	Counts map[string]int `yaml:"counts,omitempty"`

	// Lead is a 1-based lead number (status, cursor).
	Lead int `yaml:"lead,omitempty"`

	// Status is the expected disposition name (status).
	Status string `yaml:"status,omitempty"`

	// Export names the collection, accepted or rejected (export).
	Export string `yaml:"export,omitempty"`

	// Texts is the exact expected export content, in order (export).
	Texts []string `yaml:"texts,omitempty"`

	// Op and Count check how many times an operation ran (trace_count).
	Op    string `yaml:"op,omitempty"`
	Count int    `yaml:"count,omitempty"`
}

// Operations.
const (
	OpAccept   = "accept"
	OpReject   = "reject"
	OpDelete   = "delete"
	OpNext     = "next"
	OpPrev     = "prev"
	OpJump     = "jump"
	OpSave     = "save"
	OpReload   = "reload"
	OpAutosave = "autosave" // fire the pending autosave now
	OpWait     = "wait"     // advance the clock, then poll the scheduler
	OpReopen   = "reopen"   // close and open the session from disk
	OpCorrupt  = "corrupt"  // overwrite the snapshot with garbage
)

// Assertion types.
const (
	AssertCounts     = "counts"
	AssertStatus     = "status"
	AssertCursor     = "cursor"
	AssertExport     = "export"
	AssertTraceCount = "trace_count"
	AssertDriftClean = "drift_clean"
)

var knownOps = map[string]bool{
	OpAccept: true, OpReject: true, OpDelete: true, OpNext: true,
	OpPrev: true, OpJump: true, OpSave: true, OpReload: true,
	OpAutosave: true, OpWait: true, OpReopen: true, OpCorrupt: true,
}

var countKeys = map[string]func(review.Counts) int{
	"total":     func(c review.Counts) int { return c.Total },
	"accepted":  func(c review.Counts) int { return c.Accepted },
	"rejected":  func(c review.Counts) int { return c.Rejected },
	"deleted":   func(c review.Counts) int { return c.Deleted },
	"reviewed":  func(c review.Counts) int { return c.Reviewed },
	"remaining": func(c review.Counts) int { return c.Remaining },
}

// LoadScenario reads and validates a scenario file. Unknown fields are
// rejected so typos surface immediately.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates a scenario document.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if !knownOps[step.Op] {
			return fmt.Errorf("steps[%d]: unknown op %q", i, step.Op)
		}
		if step.Op == OpWait && step.Seconds <= 0 {
			return fmt.Errorf("steps[%d]: seconds must be positive for wait", i)
		}
		if step.Expect != nil {
			if (step.Expect.Result == "") == (step.Expect.Error == "") {
				return fmt.Errorf("steps[%d].expect: exactly one of result or error is required", i)
			}
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertCounts:
		if len(a.Counts) == 0 {
			return fmt.Errorf("assertions[%d]: counts is required for counts", index)
		}
		for key := range a.Counts {
			if countKeys[key] == nil {
				return fmt.Errorf("assertions[%d]: unknown count %q", index, key)
			}
		}
	case AssertStatus:
		if a.Lead < 1 {
			return fmt.Errorf("assertions[%d]: lead is required for status", index)
		}
		if _, err := review.ParseDisposition(a.Status); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
	case AssertCursor:
		if a.Lead < 1 {
			return fmt.Errorf("assertions[%d]: lead is required for cursor", index)
		}
	case AssertExport:
		if a.Export != "accepted" && a.Export != "rejected" {
			return fmt.Errorf("assertions[%d]: export must be accepted or rejected", index)
		}
	case AssertTraceCount:
		if !knownOps[a.Op] {
			return fmt.Errorf("assertions[%d]: unknown op %q for trace_count", index, a.Op)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertDriftClean:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
