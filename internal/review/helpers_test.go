package review

import (
	"path/filepath"
	"testing"

	"github.com/witherBattler/edit-hunt-ai/internal/lead"
	"github.com/witherBattler/edit-hunt-ai/internal/persist"
	"github.com/witherBattler/edit-hunt-ai/internal/testutil"
)

func storeOf(texts ...string) *lead.Store {
	records := make([]lead.Record, len(texts))
	for i, text := range texts {
		records[i] = lead.Record{Text: text}.WithLabel(lead.LabelAccept)
	}
	return lead.NewStore(records)
}

func testPaths(dir string) persist.Paths {
	return persist.Paths{
		Accepted: filepath.Join(dir, persist.DefaultAcceptedFile),
		Rejected: filepath.Join(dir, persist.DefaultRejectedFile),
		Snapshot: filepath.Join(dir, persist.DefaultSnapshotFile),
	}
}

// openTestSession writes texts as a leads file in a temp dir and opens it.
func openTestSession(t *testing.T, texts ...string) (*Session, string, Options) {
	t.Helper()
	dir := t.TempDir()
	input := testutil.WriteLeads(t, dir, texts...)
	opts := Options{Paths: testPaths(dir), Clock: testutil.NewManualClock()}
	s, err := Open(input, opts)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	return s, input, opts
}

type actionLog struct {
	actions []Action
	err     error
}

func (l *actionLog) RecordAction(a Action) error {
	l.actions = append(l.actions, a)
	return l.err
}
