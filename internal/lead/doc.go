// Package lead loads and serializes the records under review.
//
// A lead is one line of a JSONL file with at least a "text" field and an
// optional integer "label". Any other fields are carried through untouched so
// exported files keep the shape of the input. Records are identified only by
// their position in the load order; they are never re-keyed by content.
//
// Serialization is deterministic: object keys are written in sorted order and
// HTML characters are not escaped, so the same records always produce the same
// bytes. Session persistence relies on this for idempotent saves.
//
// The package also implements "prepare", which turns a raw scraped export
// (an array of {platform, title, content} objects) into a leads file.
package lead
