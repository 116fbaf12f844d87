// Package persist reads and writes the durable artifacts of a review session.
//
// A session is checkpointed as three files:
//   - the accepted export: one JSON record per line, label forced to 1
//   - the rejected export: one JSON record per line, label forced to 0
//   - the snapshot: a single JSON document with the cursor, the reviewed and
//     deleted index sets and the two counts
//
// # Write discipline
//
// Each file is written whole to a temporary file in the target directory,
// fsynced and renamed over the target. A crash leaves every file either at its
// old or its new content, never truncated. The three files are not updated as
// one transaction; the snapshot is written last.
//
// Saves are deterministic: index sets are sorted, exports keep their given
// order and record keys are sorted, so saving the same state twice produces
// byte-identical files.
//
// # Split source of truth
//
// On load the cursor and index sets come from the snapshot while label
// membership comes from the export files. The two are not cross-validated.
package persist
