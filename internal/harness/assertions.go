package harness

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/witherBattler/edit-hunt-ai/internal/lead"
	"github.com/witherBattler/edit-hunt-ai/internal/review"
)

// AssertionError describes a failed assertion.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nTrace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s -> cursor %d", event.Seq, event.Op, event.Cursor)
			if event.Error != "" {
				fmt.Fprintf(&buf, " (%s)", event.Error)
			}
			buf.WriteByte('\n')
		}
	}
	return buf.String()
}

// EvaluateAssertions checks every assertion and returns the failures.
func EvaluateAssertions(s *review.Session, result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(s, result, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluate(s *review.Session, result *Result, a Assertion) error {
	switch a.Type {
	case AssertCounts:
		return assertCounts(s.Counts(), a, result.Trace)
	case AssertStatus:
		return assertStatus(s, a, result.Trace)
	case AssertCursor:
		if got := s.Current() + 1; got != a.Lead {
			return &AssertionError{
				Type:     AssertCursor,
				Expected: fmt.Sprintf("cursor at lead %d", a.Lead),
				Actual:   fmt.Sprintf("cursor at lead %d", got),
				Trace:    result.Trace,
			}
		}
	case AssertExport:
		return assertExport(s, a, result.Trace)
	case AssertTraceCount:
		count := 0
		for _, e := range result.Trace {
			if e.Op == a.Op {
				count++
			}
		}
		if count != a.Count {
			return &AssertionError{
				Type:     AssertTraceCount,
				Expected: fmt.Sprintf("%d occurrences of %s", a.Count, a.Op),
				Actual:   fmt.Sprintf("%d occurrences", count),
				Trace:    result.Trace,
			}
		}
	case AssertDriftClean:
		if report := s.Drift(); !report.Clean() {
			return &AssertionError{
				Type:     AssertDriftClean,
				Expected: "no drift between index sets and exports",
				Actual:   fmt.Sprintf("%+v", report),
			}
		}
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

func assertCounts(c review.Counts, a Assertion, trace []TraceEvent) error {
	keys := make([]string, 0, len(a.Counts))
	for k := range a.Counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var mismatches []string
	for _, k := range keys {
		get, ok := countKeys[k]
		if !ok {
			return fmt.Errorf("unknown count %q", k)
		}
		if got := get(c); got != a.Counts[k] {
			mismatches = append(mismatches, fmt.Sprintf("%s=%d (want %d)", k, got, a.Counts[k]))
		}
	}
	if len(mismatches) > 0 {
		return &AssertionError{
			Type:     AssertCounts,
			Expected: fmt.Sprintf("%v", a.Counts),
			Actual:   strings.Join(mismatches, ", "),
			Trace:    trace,
		}
	}
	return nil
}

func assertStatus(s *review.Session, a Assertion, trace []TraceEvent) error {
	want, err := review.ParseDisposition(a.Status)
	if err != nil {
		return err
	}
	got, err := s.Status(a.Lead - 1)
	if err != nil {
		return err
	}
	if got != want {
		return &AssertionError{
			Type:     AssertStatus,
			Expected: fmt.Sprintf("lead %d %s", a.Lead, want),
			Actual:   fmt.Sprintf("lead %d %s", a.Lead, got),
			Trace:    trace,
		}
	}
	return nil
}

func assertExport(s *review.Session, a Assertion, trace []TraceEvent) error {
	var records []lead.Record
	if a.Export == "accepted" {
		records = s.Accepted()
	} else {
		records = s.Rejected()
	}
	got := make([]string, len(records))
	for i, rec := range records {
		got[i] = rec.Text
	}
	want := a.Texts
	if want == nil {
		want = []string{}
	}
	if !reflect.DeepEqual(got, want) {
		return &AssertionError{
			Type:     AssertExport,
			Expected: fmt.Sprintf("%s export %q", a.Export, want),
			Actual:   fmt.Sprintf("%q", got),
			Trace:    trace,
		}
	}
	return nil
}
