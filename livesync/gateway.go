package livesync

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/koligo/koligo/types"
	"github.com/koligo/koligo/validator"
)

// Gateway runs the mutating calls of the views.
// Every call is bounded by Timeout and reports its outcome as a Notice.
// Invalid input never reaches the backend.
type Gateway struct {
	Backend  Backend
	Actor    string
	Timeout  time.Duration
	Notifier Notifier
	Logger   *slog.Logger
}

func NewGateway(b Backend, actor string, n Notifier, logger *slog.Logger) *Gateway {
	if n == nil {
		n = discardNotifier{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Gateway{
		Backend:  b,
		Actor:    actor,
		Timeout:  DefaultTimeout,
		Notifier: n,
		Logger:   logger,
	}
}

func (g *Gateway) guard(action string, v *validator.Validator) error {
	if strings.TrimSpace(g.Actor) == "" {
		v.AddError("Actor", "Log in first")
	}

	if err := v.AsError(); err != nil {
		g.Notifier.Notify(Notice{
			Kind:    NoticeWarning,
			Action:  action,
			Message: failureMessage(action, err),
			Err:     err,
		})
		return err
	}

	return nil
}

func (g *Gateway) done(action, success string, err error) {
	if err != nil {
		g.Logger.Error("could not "+action, "actor", g.Actor, "err", err)
		g.Notifier.Notify(Notice{
			Kind:    NoticeError,
			Action:  action,
			Message: failureMessage(action, err),
			Err:     err,
		})
		return
	}

	g.Notifier.Notify(Notice{
		Kind:    NoticeSuccess,
		Action:  action,
		Message: success,
	})
}

// Send creates a message with the trimmed body.
// The change-feed is what appends it to the conversation;
// callers may still merge the returned message by its ID.
func (g *Gateway) Send(ctx context.Context, conversationID, body string) (types.Message, error) {
	return g.SendWithImage(ctx, conversationID, body, nil)
}

func (g *Gateway) SendWithImage(ctx context.Context, conversationID, body string, image *types.Upload) (types.Message, error) {
	const action = "send the message"

	body = strings.TrimSpace(body)

	v := validator.New()
	v.Check(strings.TrimSpace(conversationID) != "", "ConversationID", "Pick a conversation first")
	v.Check(body != "", "Content", "Write something first")
	if err := g.guard(action, v); err != nil {
		return types.Message{}, err
	}

	ctx, cancel := withTimeout(ctx, g.Timeout)
	defer cancel()

	out, err := g.Backend.CreateMessage(ctx, types.CreateMessage{
		ConversationID: conversationID,
		Content:        body,
		Image:          image,
	})
	g.done(action, "Message sent", err)
	return out, err
}

func (g *Gateway) LogTrackingEvent(ctx context.Context, in types.CreateTrackingEvent) (types.TrackingEvent, error) {
	const action = "log the tracking event"

	v := validator.New()
	v.Check(in.AssignmentID != "", "AssignmentID", "Pick an assignment first")
	v.Check(in.Kind.Loggable(), "Kind", "Pick a kind of event")
	v.Check(in.Kind != types.TrackingEventKindCustom || strings.TrimSpace(in.Description) != "", "Description", "Describe the event")
	if err := g.guard(action, v); err != nil {
		return types.TrackingEvent{}, err
	}

	ctx, cancel := withTimeout(ctx, g.Timeout)
	defer cancel()

	out, err := g.Backend.CreateTrackingEvent(ctx, in)
	g.done(action, "Tracking event logged", err)
	return out, err
}

func (g *Gateway) ConfirmPickup(ctx context.Context, in types.ConfirmStep) (types.StepConfirmed, error) {
	return g.confirmStep(ctx, in, "confirm the pickup", "Pickup confirmed", g.Backend.ConfirmPickup)
}

func (g *Gateway) ConfirmDelivery(ctx context.Context, in types.ConfirmStep) (types.StepConfirmed, error) {
	return g.confirmStep(ctx, in, "confirm the delivery", "Delivery confirmed", g.Backend.ConfirmDelivery)
}

func (g *Gateway) confirmStep(
	ctx context.Context,
	in types.ConfirmStep,
	action, success string,
	confirm func(context.Context, types.ConfirmStep) (types.StepConfirmed, error),
) (types.StepConfirmed, error) {
	v := validator.New()
	v.Check(in.AssignmentID != "", "AssignmentID", "Pick an assignment first")
	if err := g.guard(action, v); err != nil {
		return types.StepConfirmed{}, err
	}

	ctx, cancel := withTimeout(ctx, g.Timeout)
	defer cancel()

	out, err := confirm(ctx, in)
	g.done(action, success, err)
	return out, err
}

func (g *Gateway) ReadNotification(ctx context.Context, notificationID string) (types.Notification, error) {
	const action = "mark the notification as read"

	v := validator.New()
	v.Check(notificationID != "", "NotificationID", "Pick a notification first")
	if err := g.guard(action, v); err != nil {
		return types.Notification{}, err
	}

	ctx, cancel := withTimeout(ctx, g.Timeout)
	defer cancel()

	out, err := g.Backend.ReadNotification(ctx, notificationID)
	g.done(action, "Notification marked as read", err)
	return out, err
}

func (g *Gateway) ReadAllNotifications(ctx context.Context) error {
	const action = "mark all notifications as read"

	if err := g.guard(action, validator.New()); err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx, g.Timeout)
	defer cancel()

	err := g.Backend.ReadAllNotifications(ctx)
	g.done(action, "All notifications marked as read", err)
	return err
}

// DeleteShipment is only allowed once the shipment was delivered.
// The backend rejection surfaces as a "not allowed" notice.
func (g *Gateway) DeleteShipment(ctx context.Context, shipmentID string) error {
	const action = "delete the shipment"

	v := validator.New()
	v.Check(shipmentID != "", "ShipmentID", "Pick a shipment first")
	if err := g.guard(action, v); err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx, g.Timeout)
	defer cancel()

	err := g.Backend.DeleteShipment(ctx, shipmentID)
	g.done(action, "Shipment deleted", err)
	return err
}
