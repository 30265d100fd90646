package remote

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasknest/model"
)

func TestMonitorStartsOnline(t *testing.T) {
	m := NewMonitor()
	assert.True(t, m.Online())

	err := m.WaitOnline(context.Background(), time.Millisecond)
	assert.NoError(t, err, "an online monitor returns immediately")
}

func TestWaitOnlineTimesOut(t *testing.T) {
	m := NewMonitor()
	m.SetOnline(false)

	start := time.Now()
	err := m.WaitOnline(context.Background(), 20*time.Millisecond)
	require.Error(t, err)
	assert.True(t, model.IsOffline(err))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestWaitOnlineWakesOnRecovery(t *testing.T) {
	m := NewMonitor()
	m.SetOnline(false)

	done := make(chan error, 1)
	go func() {
		done <- m.WaitOnline(context.Background(), time.Second)
	}()

	time.Sleep(10 * time.Millisecond)
	m.SetOnline(true)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("waiter was not woken by the recovery")
	}
}

func TestWaitOnlineHonorsContext(t *testing.T) {
	m := NewMonitor()
	m.SetOnline(false)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := m.WaitOnline(ctx, time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSetOnlineIdempotent(t *testing.T) {
	m := NewMonitor()
	m.SetOnline(true)
	m.SetOnline(false)
	m.SetOnline(false)
	assert.False(t, m.Online())
	m.SetOnline(true)
	assert.True(t, m.Online())
}
