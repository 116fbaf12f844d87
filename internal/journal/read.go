package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/witherBattler/edit-hunt-ai/internal/review"
)

// Run is one recorded review run.
type Run struct {
	ID        string    `json:"id"`
	Input     string    `json:"input"`
	StartedAt time.Time `json:"started_at"`
	Seq       int64     `json:"seq"`
	Entries   int       `json:"entries"`
}

// Entry is one recorded action.
type Entry struct {
	Seq        int64             `json:"seq"`
	RunID      string            `json:"run_id"`
	Kind       review.ActionKind `json:"kind"`
	Index      int               `json:"index"`
	Cursor     int               `json:"cursor"`
	Text       string            `json:"text,omitempty"`
	TextHash   string            `json:"text_hash"`
	RecordedAt time.Time         `json:"recorded_at"`
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	RunID string
	Kind  review.ActionKind
	// Limit keeps only the last Limit entries, still in seq order.
	Limit int
}

// Runs returns every run ordered by seq, with its entry count.
//
// Returns an empty slice (not nil) when the journal is empty.
func (j *Journal) Runs(ctx context.Context) ([]Run, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT r.id, r.input, r.started_at, r.seq, COUNT(e.seq)
		FROM runs r
		LEFT JOIN entries e ON e.run_id = r.id
		GROUP BY r.id
		ORDER BY r.seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var r Run
		var started string
		if err := rows.Scan(&r.ID, &r.Input, &started, &r.Seq, &r.Entries); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if r.StartedAt, err = parseTime(started); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// List returns entries matching f ordered by seq ascending.
//
// Returns an empty slice (not nil) when nothing matches.
func (j *Journal) List(ctx context.Context, f Filter) ([]Entry, error) {
	query := `
		SELECT seq, run_id, kind, lead_index, cursor, text, text_hash, recorded_at
		FROM entries
		WHERE (? = '' OR run_id = ?) AND (? = '' OR kind = ?)
		ORDER BY seq DESC`
	args := []any{f.RunID, f.RunID, string(f.Kind), string(f.Kind)}
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	// Selected newest-first so LIMIT keeps the tail; flip back to seq order.
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[len(entries)-1-i] = e
	}
	return out, nil
}

// TextHistory returns every entry recorded against text, in seq order.
func (j *Journal) TextHistory(ctx context.Context, text string) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT seq, run_id, kind, lead_index, cursor, text, text_hash, recorded_at
		FROM entries
		WHERE text_hash = ?
		ORDER BY seq ASC
	`, TextHash(text))
	if err != nil {
		return nil, fmt.Errorf("query text history: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate text history: %w", err)
	}
	return entries, nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var e Entry
	var kind, recorded string
	if err := rows.Scan(&e.Seq, &e.RunID, &kind, &e.Index, &e.Cursor, &e.Text, &e.TextHash, &recorded); err != nil {
		return Entry{}, fmt.Errorf("scan entry: %w", err)
	}
	e.Kind = review.ActionKind(kind)
	t, err := parseTime(recorded)
	if err != nil {
		return Entry{}, err
	}
	e.RecordedAt = t
	return e, nil
}
