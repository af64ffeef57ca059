package app

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatus_FailureStreakResetsOnSuccess(t *testing.T) {
	s := NewStatus()
	at := time.Unix(500, 0)

	s.start(500, at)
	s.failed(errors.New("boom"), at)
	s.failed(errors.New("boom again"), at.Add(5*time.Second))

	snap := s.Snapshot()
	assert.Equal(t, 2, snap.ConsecutiveFailures)
	assert.Equal(t, "boom again", snap.LastError)
	assert.False(t, snap.Healthy())

	s.succeeded(1000, at.Add(10*time.Second))

	snap = s.Snapshot()
	assert.True(t, snap.Healthy())
	assert.Empty(t, snap.LastError)
	assert.Equal(t, int64(1000), snap.Cursor)
	assert.Equal(t, 3, snap.Cycles)
	assert.Equal(t, at, snap.StartedAt)
}

func TestStatus_ConcurrentReaders(t *testing.T) {
	s := NewStatus()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = s.Snapshot()
			}
		}()
	}
	for i := 0; i < 100; i++ {
		s.enter(StateFetching)
		s.succeeded(int64(i), time.Unix(int64(i), 0))
	}
	wg.Wait()

	assert.Equal(t, 100, s.Snapshot().Cycles)
}
