// Package journal keeps an append-only SQLite record of review actions.
//
// Every mutating session operation (classify, delete, navigation, save,
// reload) becomes one entry tagged with the run that produced it. The journal
// is an audit trail only: the checkpoint files remain the source of truth and
// nothing here is read back into a session.
//
// # Ordering
//
// Entries are ordered by seq, a logical counter assigned at insert time,
// never by the recorded wall time. Queries always use ORDER BY seq ASC.
//
// # Database Configuration
//
//   - WAL mode: history can be listed while a review is running
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON: entries must reference an existing run
//
// Schema versions are tracked with PRAGMA user_version.
package journal
