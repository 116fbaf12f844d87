// Package autosave implements the debounced checkpoint scheduler.
//
// The scheduler holds at most one pending deferred save. Every Schedule call
// replaces the pending one with a fresh deadline, so a save happens only after
// the reviewer has been idle for the configured delay.
//
// The scheduler never starts goroutines or OS timers. It is driven by the event
// loop that owns the session, in one of two ways:
//
//   - Ticket driven: Schedule returns a Ticket; the loop arranges to call
//     FireTicket with it after Ticket.Delay (for example via tea.Tick). Tickets
//     from superseded schedules are ignored, which is what makes rescheduling a
//     cancellation.
//   - Poll driven: the loop calls Poll periodically and the scheduler fires once
//     its clock has passed the deadline.
//
// Tests drive it with Fire, or with Poll and a manual clock.
//
// A failed save is not retried. The observer is told about the failure and the
// scheduler stays idle until the next Schedule.
package autosave
