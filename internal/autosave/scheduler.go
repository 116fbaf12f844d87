package autosave

import (
	"io"
	"log/slog"
	"time"
)

// DefaultDelay is the idle time before a pending checkpoint is written.
const DefaultDelay = 10 * time.Second

// Clock provides the current time for deadlines.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// SaveFunc writes a checkpoint.
type SaveFunc func() error

// Ticket identifies one Schedule call.
type Ticket struct {
	Generation uint64
	Deadline   time.Time
	Delay      time.Duration
}

// EventKind classifies observer notifications.
type EventKind int

const (
	// EventScheduled is sent when a save is armed (or re-armed).
	EventScheduled EventKind = iota + 1
	// EventCancelled is sent when a pending save is dropped by Cancel.
	EventCancelled
	// EventSaved is sent after a successful deferred save.
	EventSaved
	// EventFailed is sent when a deferred save returns an error.
	EventFailed
)

// String returns a short lowercase name.
func (k EventKind) String() string {
	switch k {
	case EventScheduled:
		return "scheduled"
	case EventCancelled:
		return "cancelled"
	case EventSaved:
		return "saved"
	case EventFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Event is delivered to the observer.
type Event struct {
	Kind   EventKind
	Ticket Ticket
	Err    error
	At     time.Time
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock overrides the wall clock.
func WithClock(c Clock) Option {
	return func(s *Scheduler) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithObserver registers the status observer.
func WithObserver(fn func(Event)) Option {
	return func(s *Scheduler) { s.observer = fn }
}

// WithLogger sets the logger. Defaults to discarding output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// Scheduler holds at most one pending deferred save.
//
// Not safe for concurrent use; it belongs to a single event loop.
type Scheduler struct {
	delay    time.Duration
	save     SaveFunc
	clock    Clock
	observer func(Event)
	logger   *slog.Logger

	generation uint64
	pending    bool
	current    Ticket
}

// New creates an idle scheduler. A non-positive delay means DefaultDelay.
func New(delay time.Duration, save SaveFunc, opts ...Option) *Scheduler {
	if delay <= 0 {
		delay = DefaultDelay
	}
	s := &Scheduler{
		delay:  delay,
		save:   save,
		clock:  SystemClock{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Delay returns the debounce interval.
func (s *Scheduler) Delay() time.Duration { return s.delay }

// Schedule drops any pending save and arms a new one.
func (s *Scheduler) Schedule() Ticket {
	s.generation++
	s.pending = true
	s.current = Ticket{
		Generation: s.generation,
		Deadline:   s.clock.Now().Add(s.delay),
		Delay:      s.delay,
	}
	s.notify(Event{Kind: EventScheduled, Ticket: s.current})
	return s.current
}

// Cancel drops the pending save. Reports whether one was pending.
func (s *Scheduler) Cancel() bool {
	if !s.pending {
		return false
	}
	s.pending = false
	s.notify(Event{Kind: EventCancelled, Ticket: s.current})
	return true
}

// Pending reports whether a save is armed.
func (s *Scheduler) Pending() bool { return s.pending }

// Current returns the armed ticket, if any.
func (s *Scheduler) Current() (Ticket, bool) {
	return s.current, s.pending
}

// Remaining returns the time left before the pending save is due.
func (s *Scheduler) Remaining() time.Duration {
	if !s.pending {
		return 0
	}
	d := s.current.Deadline.Sub(s.clock.Now())
	if d < 0 {
		return 0
	}
	return d
}

// Fire runs the pending save immediately. It reports whether a save ran.
func (s *Scheduler) Fire() (bool, error) {
	if !s.pending {
		return false, nil
	}
	return true, s.run()
}

// FireTicket runs the pending save only if t is from the latest Schedule call.
func (s *Scheduler) FireTicket(t Ticket) (bool, error) {
	if !s.pending || t.Generation != s.current.Generation {
		return false, nil
	}
	return true, s.run()
}

// Poll runs the pending save if its deadline has passed.
func (s *Scheduler) Poll() (bool, error) {
	if !s.pending || s.clock.Now().Before(s.current.Deadline) {
		return false, nil
	}
	return true, s.run()
}

func (s *Scheduler) run() error {
	ticket := s.current
	s.pending = false

	if s.save == nil {
		return nil
	}
	if err := s.save(); err != nil {
		s.logger.Warn("autosave failed", "generation", ticket.Generation, "error", err)
		s.notify(Event{Kind: EventFailed, Ticket: ticket, Err: err})
		return err
	}
	s.logger.Debug("autosaved", "generation", ticket.Generation)
	s.notify(Event{Kind: EventSaved, Ticket: ticket})
	return nil
}

func (s *Scheduler) notify(e Event) {
	if s.observer == nil {
		return
	}
	e.At = s.clock.Now()
	s.observer(e)
}
