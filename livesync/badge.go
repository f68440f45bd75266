package livesync

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/koligo/koligo/types"
)

// Badge keeps the unread messages count of one user.
// The count is recomputed from scratch on every change of the messages
// of the user's conversations. Recomputes coalesce: at most one runs
// while one more waits.
type Badge struct {
	Backend  Backend
	UserID   string
	Timeout  time.Duration
	Logger   *slog.Logger
	OnChange func(count uint64)

	manager *Manager

	mu      sync.Mutex
	count   uint64
	running bool
	pending bool
	ctx     context.Context
	wg      sync.WaitGroup
}

func NewBadge(b Backend, userID string, logger *slog.Logger) *Badge {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	badge := &Badge{
		Backend: b,
		UserID:  userID,
		Timeout: DefaultTimeout,
		Logger:  logger,
	}
	badge.manager = NewManager(b, types.TableMessages, "participant_id", func(types.Change) {
		badge.Refresh()
	})
	badge.manager.Logger = logger
	badge.manager.OnReconnect = func(context.Context) {
		badge.Refresh()
	}
	return badge
}

// Start subscribes to the user's messages and runs the first recompute.
func (b *Badge) Start(ctx context.Context) error {
	b.mu.Lock()
	b.ctx = context.WithoutCancel(ctx)
	b.mu.Unlock()

	if err := b.manager.Activate(ctx, b.UserID); err != nil {
		return err
	}

	b.Refresh()
	return nil
}

// Stop closes the subscription and waits for a running recompute.
func (b *Badge) Stop() {
	b.manager.Deactivate()
	b.wg.Wait()
}

func (b *Badge) Count() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// Refresh schedules a recompute.
func (b *Badge) Refresh() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.running {
		b.pending = true
		return
	}

	b.running = true
	ctx := b.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	b.wg.Go(func() {
		b.loop(ctx)
	})
}

// Wait blocks until no recompute is running.
func (b *Badge) Wait() {
	b.wg.Wait()
}

func (b *Badge) loop(ctx context.Context) {
	for {
		count, err := b.Recompute(ctx)
		if err != nil {
			b.Logger.Error("could not recompute unread messages badge", "user_id", b.UserID, "err", err)
		}

		b.mu.Lock()
		changed := err == nil && count != b.count
		if err == nil {
			b.count = count
		}
		onChange := b.OnChange
		again := b.pending
		b.pending = false
		if !again {
			b.running = false
		}
		b.mu.Unlock()

		if changed && onChange != nil {
			onChange(count)
		}

		if !again {
			return
		}
	}
}

// Recompute runs both queries: the conversations of the user first,
// then the unread messages within them.
func (b *Badge) Recompute(ctx context.Context) (uint64, error) {
	ctx, cancel := withTimeout(ctx, b.Timeout)
	defer cancel()

	ids, err := b.Backend.ConversationIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("conversation ids: %w", err)
	}

	if len(ids) == 0 {
		return 0, nil
	}

	count, err := b.Backend.UnreadMessagesCount(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("unread messages count: %w", err)
	}

	return count, nil
}
