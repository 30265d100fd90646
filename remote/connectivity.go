package remote

import (
	"context"
	"errors"
	"sync"
	"time"

	"tasknest/model"
)

// Monitor tracks the host's last-known connectivity. It starts optimistic:
// until a transport reports otherwise, the host is considered online.
type Monitor struct {
	mu      sync.Mutex
	online  bool
	waiters map[chan struct{}]struct{}
}

func NewMonitor() *Monitor {
	return &Monitor{
		online:  true,
		waiters: make(map[chan struct{}]struct{}),
	}
}

// Online reports the last-known connectivity flag.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// SetOnline records a connectivity change. Transitioning back online wakes
// every waiter.
func (m *Monitor) SetOnline(online bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	wasOnline := m.online
	m.online = online
	if online && !wasOnline {
		for ch := range m.waiters {
			close(ch)
		}
		m.waiters = make(map[chan struct{}]struct{})
	}
}

// WaitOnline returns immediately when the host is online, otherwise it
// blocks until connectivity is restored or the timeout elapses. The waiter
// registration is removed on every exit path.
func (m *Monitor) WaitOnline(ctx context.Context, timeout time.Duration) error {
	m.mu.Lock()
	if m.online {
		m.mu.Unlock()
		return nil
	}
	ch := make(chan struct{})
	m.waiters[ch] = struct{}{}
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.waiters, ch)
		m.mu.Unlock()
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-ch:
		return nil
	case <-timer.C:
		return model.E("remote.WaitOnline", model.ErrOffline, errors.New("timed out waiting for connectivity"))
	case <-ctx.Done():
		return ctx.Err()
	}
}
