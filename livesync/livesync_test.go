package livesync

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/koligo/koligo/id"
	"github.com/koligo/koligo/types"
	"github.com/stretchr/testify/require"
)

// testFeed never closes its channel on Close
// so tests can still inject changes after teardown.
type testFeed struct {
	*ChanFeed
	filter types.ChangeFilter
	ch     chan types.Change
	closed atomic.Bool
}

// drop ends the feed as if the connection went away.
func (f *testFeed) drop() {
	f.Fail(errors.New("connection reset"))
	close(f.ch)
}

type feedHub struct {
	mu    sync.Mutex
	feeds []*testFeed
	log   []string
}

func (h *feedHub) Subscribe(ctx context.Context, filter types.ChangeFilter) (Feed, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	f := &testFeed{filter: filter, ch: make(chan types.Change, 32)}
	f.ChanFeed = NewChanFeed(f.ch, func() {
		f.closed.Store(true)

		h.mu.Lock()
		h.log = append(h.log, "close "+filter.Value)
		h.mu.Unlock()
	})
	h.feeds = append(h.feeds, f)
	h.log = append(h.log, "open "+filter.Value)
	return f, nil
}

// open returns the feeds not closed yet.
func (h *feedHub) open() []*testFeed {
	h.mu.Lock()
	defer h.mu.Unlock()

	var out []*testFeed
	for _, f := range h.feeds {
		if !f.closed.Load() {
			out = append(out, f)
		}
	}
	return out
}

func (h *feedHub) events() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.log...)
}

// last returns the latest feed opened for the filter.
func (h *feedHub) last(t *testing.T, filter types.ChangeFilter) *testFeed {
	t.Helper()

	h.mu.Lock()
	defer h.mu.Unlock()

	for i := len(h.feeds) - 1; i >= 0; i-- {
		if h.feeds[i].filter == filter {
			return h.feeds[i]
		}
	}

	t.Fatalf("no feed for %s", filter)
	return nil
}

func (h *feedHub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.feeds)
}

func newChange(t *testing.T, table types.Table, kind types.ChangeKind, record any) types.Change {
	t.Helper()

	c, err := types.NewChange(table, kind, record)
	require.NoError(t, err)
	return c
}

type noticeRecorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *noticeRecorder) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *noticeRecorder) all() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

func testMessage(conversationID, senderID string, at time.Time) types.Message {
	return types.Message{
		ID:             id.Generate(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        "hello",
		CreatedAt:      at,
	}
}

func messageIDs(mm []types.Message) []string {
	out := make([]string, len(mm))
	for i, m := range mm {
		out[i] = m.ID
	}
	return out
}
