package lead

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// Label values written to export files.
const (
	LabelReject = 0
	LabelAccept = 1
)

// ErrMissingText is returned when a record has no "text" field.
var ErrMissingText = errors.New("record has no text field")

// Record is one lead. Text is the dedup key for export collections.
//
// Records are treated as immutable after load: Extra is shared between copies
// and must not be modified.
type Record struct {
	Text  string
	Label *int
	Extra map[string]json.RawMessage
}

// WithLabel returns a copy of r carrying the given label.
func (r Record) WithLabel(label int) Record {
	l := label
	r.Label = &l
	return r
}

// MarshalJSON writes the record with sorted keys and without HTML escaping.
func (r Record) MarshalJSON() ([]byte, error) {
	fields := make(map[string]json.RawMessage, len(r.Extra)+2)
	for k, v := range r.Extra {
		fields[k] = v
	}

	text, err := encode(r.Text)
	if err != nil {
		return nil, fmt.Errorf("marshal text: %w", err)
	}
	fields["text"] = text

	if r.Label != nil {
		label, err := encode(*r.Label)
		if err != nil {
			return nil, fmt.Errorf("marshal label: %w", err)
		}
		fields["label"] = label
	}

	// encoding/json sorts map keys.
	return encode(fields)
}

// UnmarshalJSON reads a record object. A null label is treated as absent.
func (r *Record) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return fmt.Errorf("record must be a JSON object")
	}

	raw, ok := fields["text"]
	if !ok {
		return ErrMissingText
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return fmt.Errorf("text must be a string: %w", err)
	}
	delete(fields, "text")

	var label *int
	if raw, ok := fields["label"]; ok {
		delete(fields, "label")
		if !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			l, err := decodeLabel(raw)
			if err != nil {
				return err
			}
			label = &l
		}
	}

	r.Text = text
	r.Label = label
	r.Extra = nil
	if len(fields) > 0 {
		r.Extra = fields
	}
	return nil
}

// decodeLabel accepts integral JSON numbers, including ones written as 1.0.
func decodeLabel(raw json.RawMessage) (int, error) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, fmt.Errorf("label must be a number: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		return int(i), nil
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("label must be an integer, got %s", n)
	}
	return int(f), nil
}

// encode marshals v with HTML escaping disabled and no trailing newline.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
