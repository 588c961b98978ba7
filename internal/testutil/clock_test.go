package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/theaarondumas/unitflow/internal/window"
)

var start = time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

var _ window.Clock = (*FixedClock)(nil)

func TestFixedClock_DoesNotMove(t *testing.T) {
	clock := NewFixedClock(start)
	assert.Equal(t, start, clock.Now())
	assert.Equal(t, start, clock.Now())
}

func TestFixedClock_Advance(t *testing.T) {
	clock := NewFixedClock(start)

	got := clock.Advance(14 * time.Hour)
	assert.Equal(t, start.Add(14*time.Hour), got)
	assert.Equal(t, got, clock.Now())

	// Crossing midnight rolls "today" over.
	assert.Equal(t, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), window.StartOfToday(clock.Now()))
}

func TestFixedClock_SetBackwards(t *testing.T) {
	clock := NewFixedClock(start)
	earlier := start.Add(-48 * time.Hour)

	clock.Set(earlier)
	assert.Equal(t, earlier, clock.Now())
}

func TestFixedClock_ThreadSafe(t *testing.T) {
	clock := NewFixedClock(start)
	const numGoroutines = 100

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			clock.Advance(time.Second)
		}()
	}
	wg.Wait()

	assert.Equal(t, start.Add(numGoroutines*time.Second), clock.Now())
}
