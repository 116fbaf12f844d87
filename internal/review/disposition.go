package review

import (
	"fmt"
	"strings"
)

// Disposition is the classification state of one record.
type Disposition int

const (
	Pending Disposition = iota
	Accepted
	Rejected
	Deleted
)

// String returns the lowercase name.
func (d Disposition) String() string {
	switch d {
	case Pending:
		return "pending"
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	case Deleted:
		return "deleted"
	default:
		return fmt.Sprintf("disposition(%d)", int(d))
	}
}

// MarshalText encodes the disposition by name.
func (d Disposition) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a disposition name.
func (d *Disposition) UnmarshalText(text []byte) error {
	v, err := ParseDisposition(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// ParseOutcome parses a classification outcome as typed by a reviewer.
// Accepts accept/accepted/job/1 and reject/rejected/notjob/0.
func ParseOutcome(s string) (Disposition, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "accept", "accepted", "job", "1":
		return Accepted, nil
	case "reject", "rejected", "notjob", "not-job", "0":
		return Rejected, nil
	default:
		return Pending, fmt.Errorf("unknown outcome %q (want accept or reject)", s)
	}
}

// ParseDisposition parses any disposition name.
func ParseDisposition(s string) (Disposition, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return Pending, nil
	case "deleted", "delete":
		return Deleted, nil
	}
	return ParseOutcome(s)
}
