package review

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes session errors.
type ErrorCode string

const (
	// ErrCodeOutOfRange indicates an index or jump target outside the record list.
	ErrCodeOutOfRange ErrorCode = "OUT_OF_RANGE"

	// ErrCodeMissingInput indicates the leads file does not exist.
	ErrCodeMissingInput ErrorCode = "MISSING_INPUT"

	// ErrCodeCorruptSession indicates a checkpoint file exists but cannot be parsed.
	ErrCodeCorruptSession ErrorCode = "CORRUPT_SESSION"

	// ErrCodePersistenceFailure indicates a checkpoint could not be written.
	ErrCodePersistenceFailure ErrorCode = "PERSISTENCE_FAILURE"

	// ErrCodeInvalidOutcome indicates Classify was called with something other
	// than Accepted or Rejected.
	ErrCodeInvalidOutcome ErrorCode = "INVALID_OUTCOME"
)

// Error is returned by Session, Ledger and Cursor operations.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Index is the offending 0-based index for OUT_OF_RANGE, otherwise -1.
	Index int

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

func hasCode(err error, code ErrorCode) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// IsOutOfRange reports whether err is an OUT_OF_RANGE error.
func IsOutOfRange(err error) bool { return hasCode(err, ErrCodeOutOfRange) }

// IsMissingInput reports whether err is a MISSING_INPUT error.
func IsMissingInput(err error) bool { return hasCode(err, ErrCodeMissingInput) }

// IsCorruptSession reports whether err is a CORRUPT_SESSION error.
func IsCorruptSession(err error) bool { return hasCode(err, ErrCodeCorruptSession) }

// IsPersistenceFailure reports whether err is a PERSISTENCE_FAILURE error.
func IsPersistenceFailure(err error) bool { return hasCode(err, ErrCodePersistenceFailure) }

// IsInvalidOutcome reports whether err is an INVALID_OUTCOME error.
func IsInvalidOutcome(err error) bool { return hasCode(err, ErrCodeInvalidOutcome) }

func newOutOfRange(index, count int) *Error {
	return &Error{
		Code:    ErrCodeOutOfRange,
		Message: fmt.Sprintf("index %d outside [0, %d)", index, count),
		Index:   index,
	}
}

func newJumpOutOfRange(n, count int) *Error {
	return &Error{
		Code:    ErrCodeOutOfRange,
		Message: fmt.Sprintf("lead number must be between 1 and %d, got %d", count, n),
		Index:   n - 1,
	}
}

func newMissingInput(path string, err error) *Error {
	return &Error{
		Code:    ErrCodeMissingInput,
		Message: fmt.Sprintf("leads file %s not found", path),
		Index:   -1,
		Err:     err,
	}
}

func newCorruptSession(err error) *Error {
	return &Error{
		Code:    ErrCodeCorruptSession,
		Message: "previous session cannot be read",
		Index:   -1,
		Err:     err,
	}
}

func newPersistenceFailure(err error) *Error {
	return &Error{
		Code:    ErrCodePersistenceFailure,
		Message: "checkpoint not written",
		Index:   -1,
		Err:     err,
	}
}

func newInvalidOutcome(d Disposition) *Error {
	return &Error{
		Code:    ErrCodeInvalidOutcome,
		Message: fmt.Sprintf("cannot classify as %s", d),
		Index:   -1,
	}
}
