package review

import (
	"sort"

	"github.com/witherBattler/edit-hunt-ai/internal/lead"
)

// Counts aggregates ledger state.
type Counts struct {
	Total     int `json:"total"`
	Accepted  int `json:"accepted"`
	Rejected  int `json:"rejected"`
	Deleted   int `json:"deleted"`
	Reviewed  int `json:"reviewed"`
	Remaining int `json:"remaining"`
}

// Ledger maps record indices to dispositions and owns the export collections.
type Ledger struct {
	store    *lead.Store
	reviewed map[int]struct{}
	deleted  map[int]struct{}
	accepted *collection
	rejected *collection
}

// NewLedger returns a ledger with every record pending.
func NewLedger(store *lead.Store) *Ledger {
	return &Ledger{
		store:    store,
		reviewed: map[int]struct{}{},
		deleted:  map[int]struct{}{},
		accepted: newCollection(),
		rejected: newCollection(),
	}
}

// RestoreLedger rebuilds a ledger from persisted index sets and export
// collections. Nothing is cross-checked: indices are kept even when they fall
// outside the store, and export records are kept even when no input record
// carries their text.
func RestoreLedger(store *lead.Store, reviewed, deleted []int, accepted, rejected []lead.Record) *Ledger {
	l := NewLedger(store)
	for _, i := range reviewed {
		l.reviewed[i] = struct{}{}
	}
	for _, i := range deleted {
		l.deleted[i] = struct{}{}
	}
	l.accepted = restoreCollection(accepted)
	l.rejected = restoreCollection(rejected)
	return l
}

// Classify records index as Accepted or Rejected.
//
// The record's text is removed from the opposite collection and added to the
// target one unless already present there. The index is marked reviewed and,
// if it had been deleted, restored.
func (l *Ledger) Classify(index int, outcome Disposition) error {
	rec, ok := l.store.At(index)
	if !ok {
		return newOutOfRange(index, l.store.Len())
	}

	var target, opposite *collection
	var label int
	switch outcome {
	case Accepted:
		target, opposite, label = l.accepted, l.rejected, lead.LabelAccept
	case Rejected:
		target, opposite, label = l.rejected, l.accepted, lead.LabelReject
	default:
		return newInvalidOutcome(outcome)
	}

	opposite.remove(rec.Text)
	target.add(rec.WithLabel(label))
	delete(l.deleted, index)
	l.reviewed[index] = struct{}{}
	return nil
}

// Delete marks index deleted, drops it from the reviewed set and retracts its
// text from both collections.
func (l *Ledger) Delete(index int) error {
	rec, ok := l.store.At(index)
	if !ok {
		return newOutOfRange(index, l.store.Len())
	}
	l.deleted[index] = struct{}{}
	delete(l.reviewed, index)
	l.accepted.remove(rec.Text)
	l.rejected.remove(rec.Text)
	return nil
}

// Status returns the disposition of index. Indices outside the store are
// reported as Pending.
func (l *Ledger) Status(index int) Disposition {
	if _, ok := l.deleted[index]; ok {
		return Deleted
	}
	rec, ok := l.store.At(index)
	if !ok {
		return Pending
	}
	if l.accepted.contains(rec.Text) {
		return Accepted
	}
	if l.rejected.contains(rec.Text) {
		return Rejected
	}
	return Pending
}

// IsReviewed reports whether index is in the reviewed set.
func (l *Ledger) IsReviewed(index int) bool {
	_, ok := l.reviewed[index]
	return ok
}

// Counts returns aggregate totals. Accepted and Rejected count export
// entries, so duplicate texts are counted once.
func (l *Ledger) Counts() Counts {
	c := Counts{
		Total:    l.store.Len(),
		Accepted: l.accepted.len(),
		Rejected: l.rejected.len(),
		Deleted:  len(l.deleted),
		Reviewed: len(l.reviewed),
	}
	c.Remaining = c.Total - c.Reviewed - c.Deleted
	if c.Remaining < 0 {
		c.Remaining = 0
	}
	return c
}

// Accepted returns a copy of the accepted export collection.
func (l *Ledger) Accepted() []lead.Record { return l.accepted.snapshot() }

// Rejected returns a copy of the rejected export collection.
func (l *Ledger) Rejected() []lead.Record { return l.rejected.snapshot() }

// Reviewed returns the reviewed indices in ascending order.
func (l *Ledger) Reviewed() []int { return sortedKeys(l.reviewed) }

// Deleted returns the deleted indices in ascending order.
func (l *Ledger) Deleted() []int { return sortedKeys(l.deleted) }

func sortedKeys(m map[int]struct{}) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
