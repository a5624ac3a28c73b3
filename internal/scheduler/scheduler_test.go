package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/recentro-booking/pkg/logger"
)

func TestAddIntervalJob_Runs(t *testing.T) {
	s, err := New(logger.NewNop())
	require.NoError(t, err)

	var runs atomic.Int32
	_, err = s.AddIntervalJob("audit", 10*time.Millisecond, func() { runs.Add(1) })
	require.NoError(t, err)

	s.Start()
	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())
}

func TestAddIntervalJob_Validation(t *testing.T) {
	s, err := New(logger.NewNop())
	require.NoError(t, err)
	s.Start()
	defer func() { _ = s.Stop() }()

	_, err = s.AddIntervalJob(" ", time.Second, func() {})
	assert.ErrorIs(t, err, ErrEmptyJobName)

	_, err = s.AddIntervalJob("audit", 0, func() {})
	assert.ErrorIs(t, err, ErrInvalidInterval)
}
