package review

// ActionKind names a session operation for audit recording.
type ActionKind string

const (
	ActionAccept  ActionKind = "accept"
	ActionReject  ActionKind = "reject"
	ActionDelete  ActionKind = "delete"
	ActionAdvance ActionKind = "advance"
	ActionRetreat ActionKind = "retreat"
	ActionJump    ActionKind = "jump"
	ActionSave    ActionKind = "save"
	ActionReload  ActionKind = "reload"
)

// Action is one completed session operation.
type Action struct {
	Kind ActionKind
	// Index is the record the action applied to (the position before any
	// auto-advance); -1 for save and reload.
	Index int
	// Cursor is the position after the action.
	Cursor int
	// Text is the text of the record at Index, if any.
	Text string
}

// ActionRecorder receives every completed operation. Recording failures are
// logged and never fail the operation.
type ActionRecorder interface {
	RecordAction(Action) error
}
