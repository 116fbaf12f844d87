// Package review implements the lead review session state machine.
//
// A Session owns the record store, the disposition ledger, the navigation
// cursor and the autosave scheduler, and is the only surface a presentation
// layer talks to. Every operation runs to completion on the caller's goroutine;
// a Session is not safe for concurrent use.
//
// # Dispositions
//
// Each record index is Pending, Accepted, Rejected or Deleted. Accepted and
// Rejected records are materialized into two export collections keyed by
// record text, not index: classifying two records with byte-identical text
// under the same label yields a single exported entry, and a later
// classification or delete of either one affects both. This matches the files
// earlier versions of the tool produced.
//
// The disposition of an index is derived, in order: Deleted if the index is in
// the deleted set; Accepted if the accepted collection holds its text; Rejected
// if the rejected collection does; Pending otherwise.
//
// # Movement and autosave
//
// Classify and Delete always advance the cursor afterwards. Every mutation and
// every successful movement re-arms the autosave scheduler; Save writes a
// checkpoint immediately and drops the pending autosave.
package review
