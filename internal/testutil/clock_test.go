package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualClock_StartsAtEpoch(t *testing.T) {
	clock := NewManualClock()
	assert.Equal(t, Epoch, clock.Now())
}

func TestManualClock_Advance(t *testing.T) {
	clock := NewManualClock()

	clock.Advance(9 * time.Second)
	assert.Equal(t, Epoch.Add(9*time.Second), clock.Now())

	clock.Advance(time.Second)
	assert.Equal(t, Epoch.Add(10*time.Second), clock.Now())
}

func TestManualClock_SetAndReset(t *testing.T) {
	clock := NewManualClock()
	later := Epoch.Add(time.Hour)

	clock.Set(later)
	assert.Equal(t, later, clock.Now())

	clock.Reset()
	assert.Equal(t, Epoch, clock.Now())
}

func TestManualClock_ThreadSafe(t *testing.T) {
	clock := NewManualClock()
	const goroutines = 50

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			clock.Advance(time.Millisecond)
			_ = clock.Now()
		}()
	}
	wg.Wait()

	assert.Equal(t, Epoch.Add(goroutines*time.Millisecond), clock.Now())
}
