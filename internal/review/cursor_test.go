package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor_AdvanceSaturates(t *testing.T) {
	c := NewCursor(3)

	assert.Equal(t, Moved, c.Advance())
	assert.Equal(t, Moved, c.Advance())
	assert.Equal(t, 2, c.Current())

	assert.Equal(t, EndOfList, c.Advance())
	assert.Equal(t, 2, c.Current())
}

func TestCursor_RetreatAtStart(t *testing.T) {
	c := NewCursor(3)

	assert.Equal(t, StartOfList, c.Retreat())
	assert.Equal(t, 0, c.Current())
}

func TestCursor_EmptyList(t *testing.T) {
	c := NewCursor(0)

	assert.Equal(t, EndOfList, c.Advance())
	assert.Equal(t, StartOfList, c.Retreat())
	assert.Equal(t, 0, c.Current())
}

func TestCursor_JumpTo(t *testing.T) {
	c := NewCursor(5)

	require.NoError(t, c.JumpTo(5))
	assert.Equal(t, 4, c.Current())
	require.NoError(t, c.JumpTo(1))
	assert.Equal(t, 0, c.Current())
}

func TestCursor_JumpToOutOfRange(t *testing.T) {
	c := NewCursor(5)
	require.NoError(t, c.JumpTo(3))

	for _, n := range []int{0, -2, 6} {
		err := c.JumpTo(n)
		require.Error(t, err)
		assert.True(t, IsOutOfRange(err))
		assert.Contains(t, err.Error(), "between 1 and 5")
		assert.Equal(t, 2, c.Current(), "cursor must not move on a rejected jump")
	}
}

func TestCursor_Restore(t *testing.T) {
	tests := []struct {
		name    string
		count   int
		index   int
		want    int
		clamped bool
	}{
		{"in range", 5, 3, 3, false},
		{"past end", 5, 9, 4, true},
		{"negative", 5, -1, 0, true},
		{"empty list", 0, 2, 0, true},
		{"empty list at zero", 0, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCursor(tt.count)
			assert.Equal(t, tt.clamped, c.restore(tt.index))
			assert.Equal(t, tt.want, c.Current())
		})
	}
}

func TestMove_String(t *testing.T) {
	assert.Equal(t, "moved", Moved.String())
	assert.Equal(t, "end_of_list", EndOfList.String())
	assert.Equal(t, "start_of_list", StartOfList.String())
	assert.Equal(t, "unknown", Move(42).String())
}
