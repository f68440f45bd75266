package livesync

import (
	"context"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/koligo/koligo/id"
	"github.com/koligo/koligo/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreadBackend answers both badge queries from an in memory fixture.
func unreadBackend(me string, conversations []string, messages []types.Message) *BackendMock {
	return &BackendMock{
		ConversationIDsFunc: func(context.Context) ([]string, error) {
			return conversations, nil
		},
		UnreadMessagesCountFunc: func(_ context.Context, conversationIDs []string) (uint64, error) {
			var n uint64
			for _, m := range messages {
				if slices.Contains(conversationIDs, m.ConversationID) && m.SenderID != me && m.ReadAt == nil {
					n++
				}
			}
			return n, nil
		},
	}
}

func TestBadge_Recompute(t *testing.T) {
	me, other := id.Generate(), id.Generate()
	c1, c2 := id.Generate(), id.Generate()
	now := time.Now()

	m1 := testMessage(c1, other, now)
	m2 := testMessage(c2, other, now)
	m2.ReadAt = new(now)
	m3 := testMessage(c1, me, now)

	b := NewBadge(unreadBackend(me, []string{c1, c2}, []types.Message{m1, m2, m3}), me, nil)

	got, err := b.Recompute(t.Context())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got)
}

func TestBadge_Recompute_noConversations(t *testing.T) {
	backend := &BackendMock{
		ConversationIDsFunc: func(context.Context) ([]string, error) {
			return nil, nil
		},
	}
	b := NewBadge(backend, id.Generate(), nil)

	got, err := b.Recompute(t.Context())
	require.NoError(t, err)
	assert.Zero(t, got)
	assert.Empty(t, backend.UnreadMessagesCountCalls())
}

func TestBadge_Refresh_coalesces(t *testing.T) {
	release := make(chan struct{})
	var started atomic.Int32
	backend := &BackendMock{
		ConversationIDsFunc: func(context.Context) ([]string, error) {
			if started.Add(1) == 1 {
				<-release
			}
			return []string{id.Generate()}, nil
		},
		UnreadMessagesCountFunc: func(context.Context, []string) (uint64, error) {
			return 2, nil
		},
	}

	var changes atomic.Int32
	b := NewBadge(backend, id.Generate(), nil)
	b.OnChange = func(uint64) {
		changes.Add(1)
	}

	b.Refresh()
	require.Eventually(t, func() bool { return started.Load() == 1 }, time.Second, time.Millisecond)

	for range 10 {
		b.Refresh()
	}
	close(release)
	b.Wait()

	assert.Equal(t, int32(2), started.Load())
	assert.Equal(t, uint64(2), b.Count())
	assert.Equal(t, int32(1), changes.Load())
}

func TestBadge_Start(t *testing.T) {
	hub := &feedHub{}
	me, other := id.Generate(), id.Generate()
	c1 := id.Generate()

	messages := []types.Message{testMessage(c1, other, time.Now())}
	var unread atomic.Uint64
	unread.Store(1)

	backend := &BackendMock{
		SubscribeFunc: hub.Subscribe,
		ConversationIDsFunc: func(context.Context) ([]string, error) {
			return []string{c1}, nil
		},
		UnreadMessagesCountFunc: func(context.Context, []string) (uint64, error) {
			return unread.Load(), nil
		},
	}

	b := NewBadge(backend, me, nil)
	require.NoError(t, b.Start(t.Context()))
	defer b.Stop()

	assert.Eventually(t, func() bool { return b.Count() == 1 }, time.Second, time.Millisecond)

	feed := hub.last(t, types.ChangeFilter{Table: types.TableMessages, Column: "participant_id", Value: me})

	unread.Store(2)
	feed.ch <- newChange(t, types.TableMessages, types.ChangeKindInsert, testMessage(c1, other, time.Now()))
	assert.Eventually(t, func() bool { return b.Count() == 2 }, time.Second, time.Millisecond)

	read := messages[0]
	read.ReadAt = new(time.Now())
	unread.Store(1)
	feed.ch <- newChange(t, types.TableMessages, types.ChangeKindUpdate, read)
	assert.Eventually(t, func() bool { return b.Count() == 1 }, time.Second, time.Millisecond)
}
