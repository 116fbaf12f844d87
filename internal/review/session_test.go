package review

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/witherBattler/edit-hunt-ai/internal/autosave"
	"github.com/witherBattler/edit-hunt-ai/internal/persist"
	"github.com/witherBattler/edit-hunt-ai/internal/testutil"
)

func TestOpen_MissingInput(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(filepath.Join(dir, "leads.jsonl"), Options{Paths: testPaths(dir)})

	require.Error(t, err)
	assert.Nil(t, s)
	assert.True(t, IsMissingInput(err))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestOpen_NoPreviousSession(t *testing.T) {
	s, _, _ := openTestSession(t, testutil.NumberedTexts(3)...)

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 0, s.Current())
	assert.Equal(t, Counts{Total: 3, Remaining: 3}, s.Counts())
	assert.False(t, s.Scheduler().Pending())
}

func TestOpen_CorruptSnapshot(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteLeads(t, dir, "a", "b")
	paths := testPaths(dir)
	require.NoError(t, os.WriteFile(paths.Snapshot, []byte("{not json"), 0o644))

	_, err := Open(input, Options{Paths: paths})
	require.Error(t, err)
	assert.True(t, IsCorruptSession(err))

	s, err := OpenFresh(input, Options{Paths: paths})
	require.NoError(t, err)
	assert.Equal(t, Counts{Total: 2, Remaining: 2}, s.Counts())
}

func TestOpen_CorruptExport(t *testing.T) {
	s, input, opts := openTestSession(t, "a", "b")
	_, err := s.Classify(Accepted)
	require.NoError(t, err)
	require.NoError(t, s.Save())
	require.NoError(t, os.WriteFile(opts.Paths.Accepted, []byte("{\"text\":\"a\"}\ngarbage\n"), 0o644))

	_, err = Open(input, opts)
	assert.True(t, IsCorruptSession(err))
}

func TestSession_ClassifyAdvancesAndSchedules(t *testing.T) {
	s, _, _ := openTestSession(t, "a", "b")

	move, err := s.Classify(Accepted)
	require.NoError(t, err)

	assert.Equal(t, Moved, move)
	assert.Equal(t, 1, s.Current())
	assert.True(t, s.Scheduler().Pending())
	status, err := s.Status(0)
	require.NoError(t, err)
	assert.Equal(t, Accepted, status)
}

func TestSession_ClassifyAtLastRecord(t *testing.T) {
	s, _, _ := openTestSession(t, "a")

	move, err := s.Classify(Rejected)
	require.NoError(t, err)

	assert.Equal(t, EndOfList, move)
	assert.Equal(t, 0, s.Current())
	assert.Equal(t, 1, s.Counts().Rejected)
}

func TestSession_ClassifyEmptyInput(t *testing.T) {
	s, _, _ := openTestSession(t)

	_, err := s.Classify(Accepted)
	assert.True(t, IsOutOfRange(err))
	_, err = s.Delete()
	assert.True(t, IsOutOfRange(err))
	assert.False(t, s.Scheduler().Pending())
}

func TestSession_DeleteAlwaysAdvances(t *testing.T) {
	s, _, _ := openTestSession(t, "a", "b", "c")
	_, err := s.Classify(Accepted)
	require.NoError(t, err)
	require.Equal(t, Moved, s.Retreat())

	move, err := s.Delete()
	require.NoError(t, err)

	assert.Equal(t, Moved, move)
	assert.Equal(t, 1, s.Current())
	status, _ := s.Status(0)
	assert.Equal(t, Deleted, status)
	assert.False(t, s.IsReviewed(0))
	assert.Empty(t, s.Accepted())
}

func TestSession_AdvanceAtEndLeavesSchedulerIdle(t *testing.T) {
	s, _, _ := openTestSession(t, "a")

	assert.Equal(t, EndOfList, s.Advance())
	assert.Equal(t, StartOfList, s.Retreat())
	assert.False(t, s.Scheduler().Pending())
}

func TestSession_NavigationSchedules(t *testing.T) {
	s, _, _ := openTestSession(t, "a", "b", "c")

	assert.Equal(t, Moved, s.Advance())
	first, _ := s.Scheduler().Current()
	assert.Equal(t, Moved, s.Retreat())
	second, _ := s.Scheduler().Current()
	require.NoError(t, s.JumpTo(3))
	third, _ := s.Scheduler().Current()

	assert.Equal(t, 2, s.Current())
	assert.Less(t, first.Generation, second.Generation)
	assert.Less(t, second.Generation, third.Generation)
}

func TestSession_JumpOutOfRange(t *testing.T) {
	s, _, _ := openTestSession(t, "a", "b")
	require.NoError(t, s.JumpTo(2))
	s.Scheduler().Cancel()

	err := s.JumpTo(3)

	assert.True(t, IsOutOfRange(err))
	assert.Equal(t, 1, s.Current())
	assert.False(t, s.Scheduler().Pending())
}

func TestSession_RecordAndStatusBounds(t *testing.T) {
	s, _, _ := openTestSession(t, "a")

	rec, err := s.Record(0)
	require.NoError(t, err)
	assert.Equal(t, "a", rec.Text)

	_, err = s.Record(1)
	assert.True(t, IsOutOfRange(err))
	_, err = s.Status(-1)
	assert.True(t, IsOutOfRange(err))
}

func TestSession_DuplicateTextScenario(t *testing.T) {
	texts := []string{"Hiring video editor", "b", "c", "d", "e", "Hiring video editor"}
	s, _, _ := openTestSession(t, texts...)

	_, err := s.Classify(Accepted)
	require.NoError(t, err)
	require.NoError(t, s.JumpTo(6))
	_, err = s.Classify(Accepted)
	require.NoError(t, err)

	require.Len(t, s.Accepted(), 1)
	assert.Equal(t, "Hiring video editor", s.Accepted()[0].Text)
	assert.True(t, s.IsReviewed(0))
	assert.True(t, s.IsReviewed(5))
	assert.Equal(t, 2, s.Counts().Reviewed)
}

func TestSession_EndToEnd(t *testing.T) {
	s, input, opts := openTestSession(t, testutil.NumberedTexts(10)...)

	for i := 0; i < 9; i++ {
		outcome := Accepted
		if i%2 == 1 {
			outcome = Rejected
		}
		_, err := s.Classify(outcome)
		require.NoError(t, err)
	}
	move, err := s.Delete()
	require.NoError(t, err)
	assert.Equal(t, EndOfList, move)

	want := Counts{Total: 10, Accepted: 5, Rejected: 4, Deleted: 1, Reviewed: 9, Remaining: 0}
	assert.Equal(t, want, s.Counts())
	require.NoError(t, s.Save())

	snap, err := os.ReadFile(opts.Paths.Snapshot)
	require.NoError(t, err)
	decoded, err := persist.UnmarshalSnapshot(snap)
	require.NoError(t, err)
	assert.Equal(t, 9, decoded.CurrentIndex)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, decoded.ReviewedIndices)
	assert.Equal(t, []int{9}, decoded.DeletedLeads)
	assert.Equal(t, 5, decoded.TrueCount)
	assert.Equal(t, 4, decoded.FalseCount)

	restored, err := Open(input, opts)
	require.NoError(t, err)
	assert.Equal(t, want, restored.Counts())
	assert.Equal(t, 9, restored.Current())
}

func TestSession_SaveIsIdempotent(t *testing.T) {
	s, _, opts := openTestSession(t, "a", "b", "c", "d")
	_, _ = s.Classify(Rejected)
	_, _ = s.Classify(Accepted)
	_, _ = s.Delete()

	read := func() [][]byte {
		var out [][]byte
		for _, p := range []string{opts.Paths.Accepted, opts.Paths.Rejected, opts.Paths.Snapshot} {
			data, err := os.ReadFile(p)
			require.NoError(t, err)
			out = append(out, data)
		}
		return out
	}

	require.NoError(t, s.Save())
	first := read()
	require.NoError(t, s.Save())
	assert.Equal(t, first, read())
}

func TestSession_RoundTrip(t *testing.T) {
	texts := []string{"a", "b", "c", "d", "e"}
	s, input, opts := openTestSession(t, texts...)
	_, _ = s.Classify(Accepted)
	_, _ = s.Classify(Rejected)
	_, _ = s.Delete()
	require.NoError(t, s.JumpTo(5))
	_, _ = s.Classify(Accepted)
	require.NoError(t, s.JumpTo(2))
	require.NoError(t, s.Save())

	restored, err := Open(input, opts)
	require.NoError(t, err)

	assert.Equal(t, s.Current(), restored.Current())
	assert.Equal(t, s.Counts(), restored.Counts())
	assert.Equal(t, s.Accepted(), restored.Accepted())
	assert.Equal(t, s.Rejected(), restored.Rejected())
	for i := range texts {
		want, _ := s.Status(i)
		got, _ := restored.Status(i)
		assert.Equal(t, want, got, "index %d", i)
		assert.Equal(t, s.IsReviewed(i), restored.IsReviewed(i), "index %d", i)
	}
}

func TestSession_ReloadDiscardsUnsavedChanges(t *testing.T) {
	s, _, _ := openTestSession(t, "a", "b")
	_, _ = s.Classify(Accepted)
	require.NoError(t, s.Save())
	_, _ = s.Classify(Rejected)

	found, err := s.Reload()
	require.NoError(t, err)

	assert.True(t, found)
	assert.Equal(t, 1, s.Current())
	status, _ := s.Status(1)
	assert.Equal(t, Pending, status)
	assert.False(t, s.Scheduler().Pending())
}

func TestSession_ReloadWithoutCheckpoint(t *testing.T) {
	s, _, _ := openTestSession(t, "a", "b")
	_, _ = s.Classify(Accepted)

	found, err := s.Reload()
	require.NoError(t, err)

	assert.False(t, found)
	assert.Equal(t, 1, s.Counts().Accepted)
}

func TestSession_RestoredCursorClamped(t *testing.T) {
	s, input, opts := openTestSession(t, testutil.NumberedTexts(5)...)
	require.NoError(t, s.JumpTo(5))
	require.NoError(t, s.Save())

	testutil.WriteLeads(t, filepath.Dir(input), "lead 1", "lead 2")
	restored, err := Open(input, opts)
	require.NoError(t, err)

	assert.Equal(t, 1, restored.Current())
}

func TestSession_SaveFailureKeepsState(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteLeads(t, dir, "a", "b")
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	paths := testPaths(filepath.Join(blocker, "out"))

	s, err := OpenFresh(input, Options{Paths: paths})
	require.NoError(t, err)
	_, err = s.Classify(Accepted)
	require.NoError(t, err)
	before := s.State()

	err = s.Save()

	require.Error(t, err)
	assert.True(t, IsPersistenceFailure(err))
	assert.Equal(t, before, s.State())
	assert.True(t, s.Scheduler().Pending())
}

func TestSession_AutosaveWritesCheckpoint(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteLeads(t, dir, "a", "b")
	clock := testutil.NewManualClock()
	var events []autosave.EventKind
	opts := Options{
		Paths: testPaths(dir),
		Clock: clock,
		Observer: func(e autosave.Event) {
			events = append(events, e.Kind)
		},
	}
	s, err := Open(input, opts)
	require.NoError(t, err)

	_, err = s.Classify(Accepted)
	require.NoError(t, err)

	clock.Advance(9 * time.Second)
	fired, err := s.Scheduler().Poll()
	require.NoError(t, err)
	assert.False(t, fired)
	_, err = os.Stat(opts.Paths.Snapshot)
	assert.True(t, os.IsNotExist(err))

	clock.Advance(time.Second)
	fired, err = s.Scheduler().Poll()
	require.NoError(t, err)
	assert.True(t, fired)

	restored, err := Open(input, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, restored.Counts().Accepted)
	assert.Equal(t, []autosave.EventKind{autosave.EventScheduled, autosave.EventSaved}, events)
}

func TestSession_ManualSaveCancelsAutosave(t *testing.T) {
	s, _, _ := openTestSession(t, "a", "b")
	_, _ = s.Classify(Accepted)
	require.True(t, s.Scheduler().Pending())

	require.NoError(t, s.Save())

	assert.False(t, s.Scheduler().Pending())
	fired, err := s.Scheduler().Fire()
	require.NoError(t, err)
	assert.False(t, fired)
}

func TestSession_RecordsActions(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteLeads(t, dir, "a", "b", "c")
	log := &actionLog{err: errors.New("journal offline")}
	s, err := Open(input, Options{Paths: testPaths(dir), Recorder: log})
	require.NoError(t, err)

	_, err = s.Classify(Accepted)
	require.NoError(t, err, "recorder failures must not fail the operation")
	_, _ = s.Delete()
	s.Retreat()
	require.NoError(t, s.JumpTo(3))
	require.NoError(t, s.Save())

	kinds := make([]ActionKind, len(log.actions))
	for i, a := range log.actions {
		kinds[i] = a.Kind
	}
	assert.Equal(t, []ActionKind{ActionAccept, ActionDelete, ActionRetreat, ActionJump, ActionSave}, kinds)
	assert.Equal(t, Action{Kind: ActionAccept, Index: 0, Cursor: 1, Text: "a"}, log.actions[0])
	assert.Equal(t, Action{Kind: ActionDelete, Index: 1, Cursor: 2, Text: "b"}, log.actions[1])
	assert.Equal(t, -1, log.actions[4].Index)
}
