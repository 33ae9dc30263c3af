package notify

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSink(successTTL, infoTTL time.Duration) *Sink {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewSink(logger, successTTL, infoTTL)
}

func TestTransientNoticesExpire(t *testing.T) {
	s := newTestSink(10*time.Millisecond, 10*time.Millisecond)
	defer s.Close()

	s.Success("added")
	s.Info("adjusted")
	require.Len(t, s.Active(), 2)

	assert.Eventually(t, func() bool {
		return len(s.Active()) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestErrorsAreStickyUntilDismissed(t *testing.T) {
	s := newTestSink(10*time.Millisecond, 10*time.Millisecond)
	defer s.Close()

	s.Error("load cart failed")

	time.Sleep(50 * time.Millisecond)
	active := s.Active()
	require.Len(t, active, 1)
	assert.Equal(t, SeverityError, active[0].Severity)

	s.Dismiss(active[0].ID)
	assert.Empty(t, s.Active())
}

func TestActiveOrderedOldestFirst(t *testing.T) {
	s := newTestSink(time.Hour, time.Hour)
	defer s.Close()

	s.Error("first")
	s.Success("second")
	s.Info("third")

	active := s.Active()
	require.Len(t, active, 3)
	assert.Equal(t, "first", active[0].Message)
	assert.Equal(t, "third", active[2].Message)
}

func TestClearErrorsLeavesTransientNotices(t *testing.T) {
	s := newTestSink(time.Hour, time.Hour)
	defer s.Close()

	s.Error("load cart failed")
	s.Error("checkout failed")
	s.Success("cleared cart")
	require.Len(t, s.Active(), 3)

	s.ClearErrors()

	active := s.Active()
	require.Len(t, active, 1)
	assert.Equal(t, SeveritySuccess, active[0].Severity)
}

func TestCloseStopsTimersAndRejectsNewNotices(t *testing.T) {
	s := newTestSink(time.Hour, time.Hour)

	s.Success("pending")
	s.Close()

	assert.Empty(t, s.Active())

	s.Error("after close")
	assert.Empty(t, s.Active(), "a closed sink accepts nothing")
}

func TestDismissUnknownIDIsNoop(t *testing.T) {
	s := newTestSink(time.Hour, time.Hour)
	defer s.Close()

	s.Dismiss("nope")
	s.Success("still fine")
	assert.Len(t, s.Active(), 1)
}
