package wait

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUntilReturnsOnceConditionHolds(t *testing.T) {
	t.Parallel()

	calls := 0
	start := time.Now()
	v, ok := Until(time.Second, 10*time.Millisecond, func() (string, bool) {
		calls++
		if calls < 3 {
			return "", false
		}
		return "province", true
	})
	elapsed := time.Since(start)

	require.True(t, ok)
	assert.Equal(t, "province", v)
	assert.Equal(t, 3, calls)
	assert.Less(t, elapsed, time.Second)
}

func TestUntilImmediateSuccessDoesNotSleep(t *testing.T) {
	t.Parallel()

	start := time.Now()
	ok := True(time.Second, time.Second, func() bool { return true })

	assert.True(t, ok)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestUntilTimesOut(t *testing.T) {
	t.Parallel()

	const (
		timeout  = 150 * time.Millisecond
		interval = 20 * time.Millisecond
	)

	start := time.Now()
	v, ok := Until(timeout, interval, func() (*int, bool) { return nil, false })
	elapsed := time.Since(start)

	assert.False(t, ok)
	assert.Nil(t, v)
	assert.GreaterOrEqual(t, elapsed, timeout)
	// one interval of slack plus scheduler noise
	assert.Less(t, elapsed, timeout+interval+100*time.Millisecond)
}

func TestUntilZeroTimeoutEvaluatesOnce(t *testing.T) {
	t.Parallel()

	calls := 0
	ok := True(0, 0, func() bool {
		calls++
		return false
	})

	assert.False(t, ok)
	assert.Equal(t, 1, calls)
}

func TestUntilDefaultsNonPositiveInterval(t *testing.T) {
	t.Parallel()

	calls := 0
	ok := True(250*time.Millisecond, 0, func() bool {
		calls++
		return false
	})

	assert.False(t, ok)
	// DefaultInterval spacing gives a handful of attempts, not a busy loop
	assert.LessOrEqual(t, calls, 5)
}
