package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	s := New(time.UTC, func() {})
	t.Cleanup(s.Stop)
	return s
}

func TestAddRegistersTheJob(t *testing.T) {
	s := newTestScheduler(t)

	status, err := s.Add("0 * * * *")
	require.NoError(t, err)
	assert.True(t, s.Exists())
	assert.False(t, status.NextRun.IsZero())
	assert.True(t, status.Running)
}

func TestAddAcceptsSecondsField(t *testing.T) {
	s := newTestScheduler(t)

	_, err := s.Add("45 * * * * *")
	require.NoError(t, err)
	assert.True(t, s.Exists())
}

func TestSecondAddIsConflict(t *testing.T) {
	s := newTestScheduler(t)

	_, err := s.Add("0 * * * *")
	require.NoError(t, err)

	_, err = s.Add("30 * * * *")
	require.ErrorIs(t, err, ErrConflict)

	// The original schedule must be untouched.
	status, err := s.Get()
	require.NoError(t, err)
	assert.Equal(t, 0, status.NextRun.Minute())
}

func TestAddRejectsUnparsableExpression(t *testing.T) {
	s := newTestScheduler(t)

	_, err := s.Add("definitely not cron")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrConflict)
	assert.False(t, s.Exists(), "a rejected expression must not leave a job behind")
}

func TestRemoveWithoutJobIsNotFound(t *testing.T) {
	s := newTestScheduler(t)

	require.ErrorIs(t, s.Remove(), ErrNotFound)
}

func TestRemoveThenGetIsNotFound(t *testing.T) {
	s := newTestScheduler(t)

	_, err := s.Add("0 * * * *")
	require.NoError(t, err)

	require.NoError(t, s.Remove())
	assert.False(t, s.Exists())

	_, err = s.Get()
	require.ErrorIs(t, err, ErrNotFound)

	// A new schedule is accepted once the old one is gone.
	_, err = s.Add("30 * * * *")
	require.NoError(t, err)
}

func TestGetWithoutJobIsNotFound(t *testing.T) {
	s := newTestScheduler(t)

	_, err := s.Get()
	require.ErrorIs(t, err, ErrNotFound)
}
