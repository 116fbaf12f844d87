package journal

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/witherBattler/edit-hunt-ai/internal/review"
)

// IDGenerator produces run identifiers.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-ordered UUIDv7 run IDs.
type UUIDv7Generator struct{}

// Generate returns a new UUIDv7 string.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// StartRun registers a new run over the leads file at input and returns a
// Recorder that appends its actions.
func (j *Journal) StartRun(ctx context.Context, ids IDGenerator, input string) (*Recorder, error) {
	if ids == nil {
		ids = UUIDv7Generator{}
	}
	id := ids.Generate()

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("start run: begin tx: %w", err)
	}
	defer tx.Rollback()

	seq, err := nextSeq(ctx, tx, "runs")
	if err != nil {
		return nil, fmt.Errorf("start run: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, input, started_at, seq)
		VALUES (?, ?, ?, ?)
	`, id, input, formatTime(j.clock.Now()), seq); err != nil {
		return nil, fmt.Errorf("start run: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("start run: commit: %w", err)
	}
	return &Recorder{journal: j, runID: id, ctx: ctx}, nil
}

// Append writes one action under runID and returns its seq.
func (j *Journal) Append(ctx context.Context, runID string, a review.Action) (int64, error) {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("append entry: begin tx: %w", err)
	}
	defer tx.Rollback()

	seq, err := nextSeq(ctx, tx, "entries")
	if err != nil {
		return 0, fmt.Errorf("append entry: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO entries
		(seq, run_id, kind, lead_index, cursor, text, text_hash, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		seq,
		runID,
		string(a.Kind),
		a.Index,
		a.Cursor,
		a.Text,
		TextHash(a.Text),
		formatTime(j.clock.Now()),
	)
	if err != nil {
		return 0, fmt.Errorf("append entry: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("append entry: commit: %w", err)
	}
	return seq, nil
}

// Recorder appends a session's actions to one run. It implements
// review.ActionRecorder.
type Recorder struct {
	journal *Journal
	runID   string
	ctx     context.Context
}

// RunID returns the run this recorder writes to.
func (r *Recorder) RunID() string { return r.runID }

// RecordAction appends a.
func (r *Recorder) RecordAction(a review.Action) error {
	_, err := r.journal.Append(r.ctx, r.runID, a)
	return err
}

var _ review.ActionRecorder = (*Recorder)(nil)
