package livesync

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/koligo/koligo/types"
)

// Manager owns the change-feed subscription of one view.
// At most one subscription is open at a time, bound to the active scope key.
//
// Deliver is called once per change, from a single goroutine, in the order
// the backend published them. Deliver must not call Activate or Deactivate.
type Manager struct {
	Backend Backend
	Table   types.Table
	Column  string
	Deliver func(types.Change)

	// OnReconnect is called after a dropped subscription has been reopened,
	// so the owner can reload what it missed.
	OnReconnect func(ctx context.Context)
	// NewBackOff builds the reconnect policy.
	// Defaults to an exponential backoff that never gives up.
	NewBackOff func() backoff.BackOff
	Logger     *slog.Logger

	mu     sync.Mutex
	scope  string
	feed   Feed
	cancel context.CancelFunc
	done   chan struct{}

	gen       atomic.Uint64
	deliverMu sync.Mutex
}

func NewManager(b Backend, table types.Table, column string, deliver func(types.Change)) *Manager {
	return &Manager{
		Backend: b,
		Table:   table,
		Column:  column,
		Deliver: deliver,
	}
}

// Scope returns the active scope key, empty when inactive.
func (m *Manager) Scope() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scope
}

// Activate opens the subscription of the given scope.
// Activating the already active scope is a no-op.
// Activating another scope closes the previous subscription first.
func (m *Manager) Activate(ctx context.Context, scope string) error {
	if scope == "" {
		return ErrEmptyScope
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.scope == scope && m.feed != nil {
		return nil
	}

	m.closeLocked()

	gen := m.gen.Add(1)
	filter := types.ChangeFilter{Table: m.Table, Column: m.Column, Value: scope}
	feed, err := m.Backend.Subscribe(ctx, filter)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", filter, err)
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})

	m.scope = scope
	m.feed = feed
	m.cancel = cancel
	m.done = done

	go m.run(runCtx, gen, filter, feed, done)

	return nil
}

// Deactivate closes the open subscription, if any.
// Once it returns no further change is delivered.
func (m *Manager) Deactivate() {
	m.mu.Lock()
	m.closeLocked()
	m.mu.Unlock()

	// waits for an in flight delivery to finish.
	m.deliverMu.Lock()
	defer m.deliverMu.Unlock()
}

// Wait blocks until the subscription goroutine has returned.
func (m *Manager) Wait() {
	m.mu.Lock()
	done := m.done
	m.mu.Unlock()

	if done != nil {
		<-done
	}
}

func (m *Manager) closeLocked() {
	m.gen.Add(1)

	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}

	if m.feed != nil {
		if err := m.feed.Close(); err != nil {
			m.logger().Error("could not close change-feed", "scope", m.scope, "err", err)
		}
		m.feed = nil
	}

	m.scope = ""
}

func (m *Manager) current(gen uint64) bool {
	return m.gen.Load() == gen
}

func (m *Manager) deliver(gen uint64, c types.Change) {
	m.deliverMu.Lock()
	defer m.deliverMu.Unlock()

	if !m.current(gen) || m.Deliver == nil {
		return
	}

	m.Deliver(c)
}

func (m *Manager) run(ctx context.Context, gen uint64, filter types.ChangeFilter, feed Feed, done chan struct{}) {
	defer close(done)

	for {
		if !m.drain(ctx, gen, feed) {
			return
		}

		if err := feed.Err(); err != nil {
			m.logger().Error("change-feed dropped", "filter", filter.String(), "err", err)
		}

		var ok bool
		feed, ok = m.reconnect(ctx, gen, filter)
		if !ok {
			return
		}

		if m.OnReconnect != nil {
			m.OnReconnect(ctx)
		}
	}
}

// drain delivers changes until the feed ends.
// It reports false when the subscription was closed by the manager.
func (m *Manager) drain(ctx context.Context, gen uint64, feed Feed) bool {
	changes := feed.Changes()
	for {
		select {
		case <-ctx.Done():
			return false
		case c, ok := <-changes:
			if !ok {
				return ctx.Err() == nil && m.current(gen)
			}

			m.deliver(gen, c)
		}
	}
}

func (m *Manager) reconnect(ctx context.Context, gen uint64, filter types.ChangeFilter) (Feed, bool) {
	var b backoff.BackOff
	if m.NewBackOff != nil {
		b = m.NewBackOff()
	} else {
		eb := backoff.NewExponentialBackOff()
		eb.MaxInterval = 30 * time.Second
		eb.MaxElapsedTime = 0
		b = eb
	}

	feed, err := backoff.RetryNotifyWithData(func() (Feed, error) {
		if !m.current(gen) {
			return nil, backoff.Permanent(context.Canceled)
		}

		return m.Backend.Subscribe(ctx, filter)
	}, backoff.WithContext(b, ctx), func(err error, next time.Duration) {
		m.logger().Error("could not reopen change-feed", "filter", filter.String(), "retry_in", next, "err", err)
	})
	if err != nil {
		return nil, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.current(gen) {
		_ = feed.Close()
		return nil, false
	}

	m.feed = feed
	return feed, true
}

func (m *Manager) logger() *slog.Logger {
	if m.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return m.Logger
}
