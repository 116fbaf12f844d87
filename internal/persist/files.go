package persist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"

	"github.com/witherBattler/edit-hunt-ai/internal/lead"
)

// Default file names, matching what earlier versions of the tool wrote.
const (
	DefaultAcceptedFile = "classified_leads.jsonl"
	DefaultRejectedFile = "nonleads.jsonl"
	DefaultSnapshotFile = "classifier_session.json"
)

// Paths locates the three session artifacts.
type Paths struct {
	Accepted string `json:"accepted" yaml:"accepted"`
	Rejected string `json:"rejected" yaml:"rejected"`
	Snapshot string `json:"snapshot" yaml:"snapshot"`
}

// DefaultPaths returns the default file names relative to the working dir.
func DefaultPaths() Paths {
	return Paths{
		Accepted: DefaultAcceptedFile,
		Rejected: DefaultRejectedFile,
		Snapshot: DefaultSnapshotFile,
	}
}

// Snapshot is the durable record of review progress.
type Snapshot struct {
	CurrentIndex    int   `json:"current_index"`
	ReviewedIndices []int `json:"reviewed_indices"`
	DeletedLeads    []int `json:"deleted_leads"`
	TrueCount       int   `json:"true_count"`
	FalseCount      int   `json:"false_count"`
}

// State is everything a checkpoint contains.
type State struct {
	Snapshot Snapshot
	Accepted []lead.Record
	Rejected []lead.Record
}

// CorruptError reports an artifact that exists but cannot be parsed.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("corrupt session file %s: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// IsCorrupt reports whether err is (or wraps) a CorruptError.
func IsCorrupt(err error) bool {
	var ce *CorruptError
	return errors.As(err, &ce)
}

// Files saves and loads session state at fixed paths.
type Files struct {
	paths Paths
	perm  os.FileMode
}

// New returns a Files for paths. Empty paths fall back to the defaults.
func New(paths Paths) *Files {
	def := DefaultPaths()
	if paths.Accepted == "" {
		paths.Accepted = def.Accepted
	}
	if paths.Rejected == "" {
		paths.Rejected = def.Rejected
	}
	if paths.Snapshot == "" {
		paths.Snapshot = def.Snapshot
	}
	return &Files{paths: paths, perm: 0o644}
}

// Paths returns the resolved artifact paths.
func (f *Files) Paths() Paths { return f.paths }

// Save writes the accepted export, the rejected export and then the snapshot.
// The caller's slices are not modified.
func (f *Files) Save(st State) error {
	accepted := withLabel(st.Accepted, lead.LabelAccept)
	rejected := withLabel(st.Rejected, lead.LabelReject)

	if err := writeFileAtomic(f.paths.Accepted, f.perm, func(w io.Writer) error {
		return lead.WriteJSONL(w, accepted)
	}); err != nil {
		return fmt.Errorf("save accepted: %w", err)
	}
	if err := writeFileAtomic(f.paths.Rejected, f.perm, func(w io.Writer) error {
		return lead.WriteJSONL(w, rejected)
	}); err != nil {
		return fmt.Errorf("save rejected: %w", err)
	}

	data, err := MarshalSnapshot(st.Snapshot)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	if err := writeBytesAtomic(f.paths.Snapshot, f.perm, data); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Load reads a previous checkpoint. found is false (with a nil error) when no
// snapshot exists. A missing export file loads as an empty collection.
func (f *Files) Load() (st State, found bool, err error) {
	data, err := os.ReadFile(f.paths.Snapshot)
	if errors.Is(err, fs.ErrNotExist) {
		return State{}, false, nil
	}
	if err != nil {
		return State{}, false, fmt.Errorf("read snapshot: %w", err)
	}

	snap, err := UnmarshalSnapshot(data)
	if err != nil {
		return State{}, false, &CorruptError{Path: f.paths.Snapshot, Err: err}
	}

	accepted, err := readExport(f.paths.Accepted)
	if err != nil {
		return State{}, false, err
	}
	rejected, err := readExport(f.paths.Rejected)
	if err != nil {
		return State{}, false, err
	}

	return State{Snapshot: snap, Accepted: accepted, Rejected: rejected}, true, nil
}

// MarshalSnapshot encodes a snapshot with sorted index sets and two-space
// indentation.
func MarshalSnapshot(s Snapshot) ([]byte, error) {
	s.ReviewedIndices = sortedCopy(s.ReviewedIndices)
	s.DeletedLeads = sortedCopy(s.DeletedLeads)
	return json.MarshalIndent(s, "", "  ")
}

// UnmarshalSnapshot decodes a snapshot document. Missing fields default to
// zero values; anything that is not a JSON object is an error.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var snap *Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, err
	}
	if snap == nil {
		return Snapshot{}, fmt.Errorf("snapshot is null")
	}
	if snap.ReviewedIndices == nil {
		snap.ReviewedIndices = []int{}
	}
	if snap.DeletedLeads == nil {
		snap.DeletedLeads = []int{}
	}
	return *snap, nil
}

func readExport(path string) ([]lead.Record, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []lead.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read export %s: %w", path, err)
	}
	records, err := lead.ReadJSONL(bytes.NewReader(data))
	if err != nil {
		return nil, &CorruptError{Path: path, Err: err}
	}
	return records, nil
}

func withLabel(records []lead.Record, label int) []lead.Record {
	out := make([]lead.Record, len(records))
	for i, rec := range records {
		out[i] = rec.WithLabel(label)
	}
	return out
}

func sortedCopy(xs []int) []int {
	out := make([]int, len(xs))
	copy(out, xs)
	sort.Ints(out)
	return out
}

// WriteRecords atomically replaces path with records as JSON Lines.
func WriteRecords(path string, records []lead.Record) error {
	return writeFileAtomic(path, 0o644, func(w io.Writer) error {
		return lead.WriteJSONL(w, records)
	})
}
