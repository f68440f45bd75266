package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/koligo/koligo/auth"
	"github.com/koligo/koligo/types"
	"github.com/nicolasparada/go-errs"
	"github.com/vmihailenco/msgpack/v5"
)

// feedBufferSize bounds how many changes a slow subscriber can lag behind.
// Past that the feed is closed so the subscriber resubscribes and reloads.
const feedBufferSize = 64

// Subscribe opens a change-feed over the rows matching the filter.
// Changes are delivered in publish order. The channel is closed once ctx
// is done, or right away when the subscriber falls too far behind.
func (svc *Service) Subscribe(ctx context.Context, filter types.ChangeFilter) (<-chan types.Change, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return nil, errs.Unauthenticated
	}

	if err := svc.authorizeFilter(ctx, loggedInUser, filter); err != nil {
		return nil, err
	}

	var (
		mu     sync.Mutex
		closed bool
	)
	out := make(chan types.Change, feedBufferSize)
	overflow := make(chan struct{})

	unsub, err := svc.PubSub.Sub(filter.Topic(), func(data []byte) {
		var change types.Change
		if err := msgpack.Unmarshal(data, &change); err != nil {
			svc.Logger.Error("msgpack unmarshal change", "err", err, "filter", filter.String())
			return
		}

		mu.Lock()
		defer mu.Unlock()

		if closed {
			return
		}

		select {
		case out <- change:
		default:
			svc.Metrics.FeedDropped.WithLabelValues(filter.Table.String()).Inc()
			svc.Logger.Warn("change-feed overflow, closing", "filter", filter.String())
			closed = true
			close(out)
			close(overflow)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe to %s: %w", filter, err)
	}

	go func() {
		select {
		case <-ctx.Done():
		case <-overflow:
		}

		if err := unsub(); err != nil {
			svc.Logger.Error("unsubscribe from changes", "err", err, "filter", filter.String())
		}

		mu.Lock()
		if !closed {
			closed = true
			close(out)
		}
		mu.Unlock()
	}()

	return out, nil
}

func (svc *Service) authorizeFilter(ctx context.Context, user types.User, filter types.ChangeFilter) error {
	switch filter.Column {
	case "participant_id", "user_id":
		if filter.Value != user.ID {
			return errs.PermissionDenied
		}
		return nil
	case "conversation_id":
		_, err := svc.participatedConversation(ctx, user, filter.Value)
		return err
	case "assignment_id", "id":
		_, err := svc.partyAssignment(ctx, user, filter.Value)
		return err
	}

	return errs.PermissionDenied
}

func filterBy(table types.Table, column, value string) types.ChangeFilter {
	return types.ChangeFilter{Table: table, Column: column, Value: value}
}

// publish sends one change to the topic of every given filter.
func (svc *Service) publish(table types.Table, kind types.ChangeKind, record any, filters ...types.ChangeFilter) error {
	change, err := types.NewChange(table, kind, record)
	if err != nil {
		return err
	}

	b, err := msgpack.Marshal(change)
	if err != nil {
		return fmt.Errorf("msgpack marshal change: %w", err)
	}

	for _, f := range filters {
		if err := svc.PubSub.Pub(f.Topic(), b); err != nil {
			return fmt.Errorf("publish %s change: %w", f, err)
		}
	}

	svc.Metrics.ChangesPublished.WithLabelValues(table.String(), kind.String()).Inc()
	return nil
}

// conversationAudience returns the users that should get
// participant scoped changes of the conversation.
func (svc *Service) conversationAudience(ctx context.Context, conversation types.Conversation) ([]string, error) {
	audience := conversation.ParticipantIDs()
	if conversation.Kind != types.ConversationKindSupport {
		return audience, nil
	}

	adminIDs, err := svc.Cockroach.AdminIDs(ctx)
	if err != nil {
		return nil, err
	}

	return append(audience, adminIDs...), nil
}

func (svc *Service) publishMessages(ctx context.Context, conversation types.Conversation, kind types.ChangeKind, messages ...types.Message) error {
	audience, err := svc.conversationAudience(ctx, conversation)
	if err != nil {
		return err
	}

	for _, m := range messages {
		filters := []types.ChangeFilter{filterBy(types.TableMessages, "conversation_id", conversation.ID)}
		for _, userID := range audience {
			filters = append(filters, filterBy(types.TableMessages, "participant_id", userID))
		}

		if err := svc.publish(types.TableMessages, kind, m, filters...); err != nil {
			return err
		}
	}

	return nil
}

func (svc *Service) publishConversation(ctx context.Context, conversation types.Conversation, kind types.ChangeKind) error {
	audience, err := svc.conversationAudience(ctx, conversation)
	if err != nil {
		return err
	}

	filters := make([]types.ChangeFilter, 0, len(audience))
	for _, userID := range audience {
		filters = append(filters, filterBy(types.TableConversations, "participant_id", userID))
	}

	return svc.publish(types.TableConversations, kind, conversation, filters...)
}

func (svc *Service) publishAssignment(a types.Assignment) error {
	return svc.publish(types.TableAssignments, types.ChangeKindUpdate, types.NewAssignmentView(a),
		filterBy(types.TableAssignments, "id", a.ID))
}

func (svc *Service) publishTrackingEvent(e types.TrackingEvent) error {
	return svc.publish(types.TableTrackingEvents, types.ChangeKindInsert, e,
		filterBy(types.TableTrackingEvents, "assignment_id", e.AssignmentID))
}

func (svc *Service) publishNotification(n types.Notification, kind types.ChangeKind) error {
	return svc.publish(types.TableNotifications, kind, n,
		filterBy(types.TableNotifications, "user_id", n.UserID))
}
