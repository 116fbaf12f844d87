package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", name+".yaml"))
	require.NoError(t, err)
	return s
}

func TestScenarios_Pass(t *testing.T) {
	for _, name := range []string{"triage", "duplicates", "resume", "corrupt"} {
		t.Run(name, func(t *testing.T) {
			result, err := Run(loadTestScenario(t, name))
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Empty(t, result.Errors)
		})
	}
}

func TestRunWithGolden_Triage(t *testing.T) {
	result, err := RunWithGolden(t, loadTestScenario(t, "triage"))
	require.NoError(t, err)
	assert.True(t, result.Pass)
}

func TestRun_TraceRecordsCursorAndLead(t *testing.T) {
	result, err := Run(loadTestScenario(t, "duplicates"))
	require.NoError(t, err)

	require.Len(t, result.Trace, 4)
	assert.Equal(t, TraceEvent{Seq: 1, Op: OpAccept, Lead: 1, Cursor: 2, Result: "moved"}, result.Trace[0])
	assert.Equal(t, TraceEvent{Seq: 2, Op: OpJump, Lead: 6, Cursor: 6, Result: "moved"}, result.Trace[1])
	assert.Equal(t, TraceEvent{Seq: 4, Op: OpJump, Lead: 7, Cursor: 6, Error: "OUT_OF_RANGE"}, result.Trace[3])
}

func TestRun_ResumeLeavesAutosavedArtifacts(t *testing.T) {
	result, err := Run(loadTestScenario(t, "resume"))
	require.NoError(t, err)

	assert.Equal(t, "{\"label\":1,\"text\":\"one\"}\n", result.Artifacts.Accepted)
	assert.Equal(t, "{\"label\":0,\"text\":\"two\"}\n", result.Artifacts.Rejected)
	assert.Contains(t, result.Artifacts.Snapshot, "\"current_index\": 2")
}

func TestRun_ReportsExpectMismatch(t *testing.T) {
	scenario := &Scenario{
		Name:        "mismatch",
		Description: "expect clause that cannot hold",
		Leads:       []string{"only"},
		Steps: []Step{
			{Op: OpNext, Expect: &Expect{Result: "moved"}},
			{Op: OpJump, N: 2},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "expected result moved")
	assert.Contains(t, result.Errors[1], "unexpected error OUT_OF_RANGE")
}

func TestRun_FailedAssertions(t *testing.T) {
	scenario := &Scenario{
		Name:        "failing",
		Description: "assertions that do not hold",
		Leads:       []string{"a", "b"},
		Steps:       []Step{{Op: OpAccept}},
		Assertions: []Assertion{
			{Type: AssertCounts, Counts: map[string]int{"accepted": 2, "rejected": 0}},
			{Type: AssertStatus, Lead: 2, Status: "accepted"},
			{Type: AssertCursor, Lead: 1},
			{Type: AssertExport, Export: "rejected", Texts: []string{"a"}},
			{Type: AssertTraceCount, Op: OpAccept, Count: 3},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 5)
	assert.Contains(t, result.Errors[0], "accepted=1 (want 2)")
	assert.NotContains(t, result.Errors[0], "rejected=")
	assert.Contains(t, result.Errors[1], "lead 2 pending")
	assert.Contains(t, result.Errors[2], "cursor at lead 2")
	assert.Contains(t, result.Errors[4], "1 occurrences")
}

func TestParseScenario_Validation(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"missing name", "description: d\nsteps: [{op: next}]\n", "name is required"},
		{"missing steps", "name: n\ndescription: d\n", "steps list is required"},
		{"unknown op", "name: n\ndescription: d\nsteps: [{op: fly}]\n", `unknown op "fly"`},
		{"unknown field", "name: n\ndescription: d\nstep: []\n", "field step not found"},
		{"wait without seconds", "name: n\ndescription: d\nsteps: [{op: wait}]\n", "seconds must be positive"},
		{"expect both", "name: n\ndescription: d\nsteps: [{op: next, expect: {result: moved, error: X}}]\n", "exactly one"},
		{"bad count key", "name: n\ndescription: d\nsteps: [{op: next}]\nassertions: [{type: counts, counts: {bogus: 1}}]\n", `unknown count "bogus"`},
		{"bad status", "name: n\ndescription: d\nsteps: [{op: next}]\nassertions: [{type: status, lead: 1, status: maybe}]\n", "unknown outcome"},
		{"bad assertion", "name: n\ndescription: d\nsteps: [{op: next}]\nassertions: [{type: vibes}]\n", "unknown assertion type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestAssertionError_Format(t *testing.T) {
	err := &AssertionError{
		Type:     AssertCursor,
		Expected: "cursor at lead 1",
		Actual:   "cursor at lead 2",
		Trace:    []TraceEvent{{Seq: 1, Op: OpJump, Cursor: 2, Error: "OUT_OF_RANGE"}},
	}

	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: cursor")
	assert.Contains(t, msg, "[1] jump -> cursor 2 (OUT_OF_RANGE)")
}
