// Package livesync keeps client side views of conversations, tracking
// timelines and notifications in sync with the backend change-feeds.
//
// Every view follows the same sequence: open the change-feed of its scope,
// fetch the snapshot, then merge both by primary key.
package livesync

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/koligo/koligo/types"
)

//go:generate go tool moq -out backend_mock_test.go . Backend

// DefaultTimeout bounds every backend call made by the views and the gateway.
const DefaultTimeout = 15 * time.Second

var ErrEmptyScope = errors.New("livesync: empty scope key")

// Feed is an open change-feed subscription.
// Changes is closed when the subscription ends, either because Close
// was called or because the connection dropped.
type Feed interface {
	Changes() <-chan types.Change
	// Err reports why the feed ended. It is nil while the feed is open
	// and after a call to Close.
	Err() error
	Close() error
}

// Backend is the remote surface the views consume.
// Calls act on behalf of the identity the backend was authenticated with.
type Backend interface {
	Subscribe(ctx context.Context, filter types.ChangeFilter) (Feed, error)

	Messages(ctx context.Context, conversationID string) ([]types.Message, error)
	CreateMessage(ctx context.Context, in types.CreateMessage) (types.Message, error)
	MarkConversationRead(ctx context.Context, conversationID string) (types.MarkedRead, error)
	ConversationIDs(ctx context.Context) ([]string, error)
	UnreadMessagesCount(ctx context.Context, conversationIDs []string) (uint64, error)

	Assignment(ctx context.Context, assignmentID string) (types.AssignmentView, error)
	TrackingEvents(ctx context.Context, assignmentID string) ([]types.TrackingEvent, error)
	CreateTrackingEvent(ctx context.Context, in types.CreateTrackingEvent) (types.TrackingEvent, error)
	ConfirmPickup(ctx context.Context, in types.ConfirmStep) (types.StepConfirmed, error)
	ConfirmDelivery(ctx context.Context, in types.ConfirmStep) (types.StepConfirmed, error)

	Notifications(ctx context.Context, args types.PageArgs) (types.Page[types.Notification], error)
	ReadNotification(ctx context.Context, notificationID string) (types.Notification, error)
	ReadAllNotifications(ctx context.Context) error
	UnreadNotificationsCount(ctx context.Context) (uint64, error)

	DeleteShipment(ctx context.Context, shipmentID string) error
}

// ChanFeed adapts a channel of changes into a Feed.
// stop is called once on Close and must make the producer close ch.
type ChanFeed struct {
	ch   <-chan types.Change
	stop func()

	once sync.Once
	mu   sync.Mutex
	err  error
}

func NewChanFeed(ch <-chan types.Change, stop func()) *ChanFeed {
	return &ChanFeed{ch: ch, stop: stop}
}

func (f *ChanFeed) Changes() <-chan types.Change {
	return f.ch
}

// Fail records the reason the producer is about to close the channel.
func (f *ChanFeed) Fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *ChanFeed) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *ChanFeed) Close() error {
	f.once.Do(func() {
		f.mu.Lock()
		f.err = nil
		f.mu.Unlock()

		if f.stop != nil {
			f.stop()
		}
	})
	return nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = DefaultTimeout
	}
	return context.WithTimeout(ctx, d)
}
