package review

// Move reports the outcome of a cursor movement.
type Move int

const (
	// Moved means the cursor changed position.
	Moved Move = iota
	// EndOfList means the cursor was already at the last record.
	EndOfList
	// StartOfList means the cursor was already at the first record.
	StartOfList
)

// String returns a short name for the move.
func (m Move) String() string {
	switch m {
	case Moved:
		return "moved"
	case EndOfList:
		return "end_of_list"
	case StartOfList:
		return "start_of_list"
	default:
		return "unknown"
	}
}

// Cursor is the 0-based review position. It saturates at both ends.
type Cursor struct {
	index int
	count int
}

// NewCursor returns a cursor at 0 over count records.
func NewCursor(count int) *Cursor {
	return &Cursor{count: count}
}

// Current returns the 0-based position.
func (c *Cursor) Current() int { return c.index }

// Advance moves forward one record unless already at the last one.
func (c *Cursor) Advance() Move {
	if c.index+1 >= c.count {
		return EndOfList
	}
	c.index++
	return Moved
}

// Retreat moves back one record unless already at the first one.
func (c *Cursor) Retreat() Move {
	if c.index <= 0 {
		return StartOfList
	}
	c.index--
	return Moved
}

// JumpTo moves to the 1-based record number n.
func (c *Cursor) JumpTo(n int) error {
	if n < 1 || n > c.count {
		return newJumpOutOfRange(n, c.count)
	}
	c.index = n - 1
	return nil
}

// restore sets the position from a checkpoint, clamping it into range.
// It reports whether clamping was needed.
func (c *Cursor) restore(index int) bool {
	switch {
	case c.count == 0 || index < 0:
		c.index = 0
		return index != 0
	case index >= c.count:
		c.index = c.count - 1
		return true
	default:
		c.index = index
		return false
	}
}
