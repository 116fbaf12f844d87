package review

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"time"

	"github.com/witherBattler/edit-hunt-ai/internal/autosave"
	"github.com/witherBattler/edit-hunt-ai/internal/lead"
	"github.com/witherBattler/edit-hunt-ai/internal/persist"
)

// Options configures a Session.
type Options struct {
	// Paths locates the checkpoint files. Empty fields use persist defaults.
	Paths persist.Paths

	// AutosaveDelay is the idle time before an automatic checkpoint.
	// Zero means autosave.DefaultDelay.
	AutosaveDelay time.Duration

	// Clock drives autosave deadlines. Nil means the wall clock.
	Clock autosave.Clock

	// Observer receives autosave status events.
	Observer func(autosave.Event)

	// Recorder receives completed actions. Optional.
	Recorder ActionRecorder

	// Logger defaults to discarding output.
	Logger *slog.Logger
}

// Session is one reviewer's pass over a leads file.
type Session struct {
	store     *lead.Store
	ledger    *Ledger
	cursor    *Cursor
	files     *persist.Files
	scheduler *autosave.Scheduler
	recorder  ActionRecorder
	logger    *slog.Logger
}

// Open loads the leads file at input and reconciles any previous checkpoint.
//
// A missing leads file fails with MISSING_INPUT before any state is built. An
// unreadable checkpoint fails with CORRUPT_SESSION; call OpenFresh to discard
// it deliberately.
func Open(input string, opts Options) (*Session, error) {
	s, err := OpenFresh(input, opts)
	if err != nil {
		return nil, err
	}
	if _, err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// OpenFresh loads the leads file at input and ignores any previous checkpoint.
// The next save overwrites it.
func OpenFresh(input string, opts Options) (*Session, error) {
	store, err := lead.Load(input)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, newMissingInput(input, err)
		}
		return nil, err
	}
	return New(store, opts), nil
}

// New builds a session over an already loaded store, with every record
// pending and the cursor at 0.
func New(store *lead.Store, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Session{
		store:    store,
		ledger:   NewLedger(store),
		cursor:   NewCursor(store.Len()),
		files:    persist.New(opts.Paths),
		recorder: opts.Recorder,
		logger:   logger,
	}
	s.scheduler = autosave.New(opts.AutosaveDelay, s.checkpoint,
		autosave.WithClock(opts.Clock),
		autosave.WithObserver(opts.Observer),
		autosave.WithLogger(logger),
	)
	return s
}

// Len returns the number of records.
func (s *Session) Len() int { return s.store.Len() }

// Current returns the 0-based cursor position.
func (s *Session) Current() int { return s.cursor.Current() }

// Record returns the record at 0-based index.
func (s *Session) Record(index int) (lead.Record, error) {
	rec, ok := s.store.At(index)
	if !ok {
		return lead.Record{}, newOutOfRange(index, s.store.Len())
	}
	return rec, nil
}

// CurrentRecord returns the record under the cursor; false if there are none.
func (s *Session) CurrentRecord() (lead.Record, bool) {
	return s.store.At(s.cursor.Current())
}

// Classify labels the current record and advances.
func (s *Session) Classify(outcome Disposition) (Move, error) {
	index := s.cursor.Current()
	if err := s.ledger.Classify(index, outcome); err != nil {
		return Moved, err
	}
	kind := ActionAccept
	if outcome == Rejected {
		kind = ActionReject
	}
	move := s.cursor.Advance()
	s.scheduler.Schedule()
	s.record(kind, index)
	return move, nil
}

// Delete removes the current record from review and advances.
func (s *Session) Delete() (Move, error) {
	index := s.cursor.Current()
	if err := s.ledger.Delete(index); err != nil {
		return Moved, err
	}
	move := s.cursor.Advance()
	s.scheduler.Schedule()
	s.record(ActionDelete, index)
	return move, nil
}

// Advance moves to the next record. At the last record it returns EndOfList
// and leaves the cursor and the scheduler untouched.
func (s *Session) Advance() Move {
	from := s.cursor.Current()
	move := s.cursor.Advance()
	if move == Moved {
		s.scheduler.Schedule()
		s.record(ActionAdvance, from)
	}
	return move
}

// Retreat moves to the previous record; a no-op at the first one.
func (s *Session) Retreat() Move {
	from := s.cursor.Current()
	move := s.cursor.Retreat()
	if move == Moved {
		s.scheduler.Schedule()
		s.record(ActionRetreat, from)
	}
	return move
}

// JumpTo moves to 1-based record number n.
func (s *Session) JumpTo(n int) error {
	if err := s.cursor.JumpTo(n); err != nil {
		return err
	}
	s.scheduler.Schedule()
	s.record(ActionJump, n-1)
	return nil
}

// Status returns the disposition of the record at 0-based index.
func (s *Session) Status(index int) (Disposition, error) {
	if !s.store.Valid(index) {
		return Pending, newOutOfRange(index, s.store.Len())
	}
	return s.ledger.Status(index), nil
}

// IsReviewed reports whether index is in the reviewed set.
func (s *Session) IsReviewed(index int) bool { return s.ledger.IsReviewed(index) }

// Counts returns aggregate totals.
func (s *Session) Counts() Counts { return s.ledger.Counts() }

// Accepted returns the accepted export collection in insertion order.
func (s *Session) Accepted() []lead.Record { return s.ledger.Accepted() }

// Rejected returns the rejected export collection in insertion order.
func (s *Session) Rejected() []lead.Record { return s.ledger.Rejected() }

// Scheduler exposes the autosave scheduler to the owning event loop.
func (s *Session) Scheduler() *autosave.Scheduler { return s.scheduler }

// Paths returns the checkpoint file locations.
func (s *Session) Paths() persist.Paths { return s.files.Paths() }

// State returns the checkpoint content for the current in-memory state.
func (s *Session) State() persist.State {
	counts := s.ledger.Counts()
	return persist.State{
		Snapshot: persist.Snapshot{
			CurrentIndex:    s.cursor.Current(),
			ReviewedIndices: s.ledger.Reviewed(),
			DeletedLeads:    s.ledger.Deleted(),
			TrueCount:       counts.Accepted,
			FalseCount:      counts.Rejected,
		},
		Accepted: s.ledger.Accepted(),
		Rejected: s.ledger.Rejected(),
	}
}

// Save writes a checkpoint now and drops any pending autosave. On failure the
// in-memory state is unchanged and the pending autosave, if any, is kept.
func (s *Session) Save() error {
	if err := s.checkpoint(); err != nil {
		return err
	}
	s.scheduler.Cancel()
	s.record(ActionSave, -1)
	return nil
}

// Reload replaces the in-memory state with the last checkpoint. It returns
// false, leaving state untouched, when there is none.
func (s *Session) Reload() (bool, error) {
	st, found, err := s.files.Load()
	if err != nil {
		if persist.IsCorrupt(err) {
			return false, newCorruptSession(err)
		}
		return false, err
	}
	if !found {
		s.logger.Debug("no previous session", "snapshot", s.files.Paths().Snapshot)
		return false, nil
	}

	ledger := RestoreLedger(s.store, st.Snapshot.ReviewedIndices, st.Snapshot.DeletedLeads, st.Accepted, st.Rejected)
	cursor := NewCursor(s.store.Len())
	if cursor.restore(st.Snapshot.CurrentIndex) {
		s.logger.Warn("checkpoint cursor out of range, clamped",
			"saved", st.Snapshot.CurrentIndex,
			"restored", cursor.Current(),
			"records", s.store.Len(),
		)
	}
	s.ledger = ledger
	s.cursor = cursor
	s.scheduler.Cancel()

	counts := ledger.Counts()
	s.logger.Info("session restored",
		"cursor", cursor.Current(),
		"reviewed", counts.Reviewed,
		"accepted", counts.Accepted,
		"rejected", counts.Rejected,
		"deleted", counts.Deleted,
	)
	s.record(ActionReload, -1)
	return true, nil
}

// Close drops any pending autosave without writing it.
func (s *Session) Close() {
	s.scheduler.Cancel()
}

func (s *Session) checkpoint() error {
	if err := s.files.Save(s.State()); err != nil {
		s.logger.Error("checkpoint failed", "error", err)
		return newPersistenceFailure(err)
	}
	s.logger.Debug("checkpoint written", "snapshot", s.files.Paths().Snapshot)
	return nil
}

func (s *Session) record(kind ActionKind, index int) {
	if s.recorder == nil {
		return
	}
	a := Action{Kind: kind, Index: index, Cursor: s.cursor.Current()}
	if rec, ok := s.store.At(index); ok {
		a.Text = rec.Text
	}
	if err := s.recorder.RecordAction(a); err != nil {
		s.logger.Warn("journal write failed", "action", string(kind), "error", err)
	}
}
