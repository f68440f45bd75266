package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/koligo/koligo/auth"
	"github.com/koligo/koligo/mailing"
	"github.com/koligo/koligo/types"
	"github.com/nicolasparada/go-errs"
	"golang.org/x/sync/errgroup"
)

const webPushTTL = 60 * 60 * 24

func (svc *Service) Notifications(ctx context.Context, in types.ListNotifications) (types.Page[types.Notification], error) {
	var out types.Page[types.Notification]

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return out, errs.Unauthenticated
	}

	in.SetUserID(loggedInUser.ID)

	return svc.Cockroach.Notifications(ctx, in)
}

func (svc *Service) ReadNotification(ctx context.Context, in types.ReadNotification) (types.Notification, error) {
	var out types.Notification

	if err := in.Validate(); err != nil {
		return out, err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return out, errs.Unauthenticated
	}

	in.SetUserID(loggedInUser.ID)

	out, err := svc.Cockroach.ReadNotification(ctx, in)
	if err != nil {
		return out, err
	}

	svc.background(func(ctx context.Context) error {
		return svc.publishNotification(out, types.ChangeKindUpdate)
	})

	return out, nil
}

func (svc *Service) ReadAllNotifications(ctx context.Context) error {
	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return errs.Unauthenticated
	}

	read, err := svc.Cockroach.ReadAllNotifications(ctx, loggedInUser.ID)
	if err != nil {
		return err
	}

	if len(read) != 0 {
		svc.background(func(ctx context.Context) error {
			var errList []error
			for _, n := range read {
				errList = append(errList, svc.publishNotification(n, types.ChangeKindUpdate))
			}
			return errors.Join(errList...)
		})
	}

	return nil
}

func (svc *Service) UnreadNotificationsCount(ctx context.Context) (uint64, error) {
	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return 0, errs.Unauthenticated
	}

	return svc.Cockroach.UnreadNotificationsCount(ctx, loggedInUser.ID)
}

func (svc *Service) AddWebPushSubscription(ctx context.Context, in types.AddWebPushSubscription) error {
	if err := in.Validate(); err != nil {
		return err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return errs.Unauthenticated
	}

	in.SetUserID(loggedInUser.ID)

	return svc.Cockroach.UpsertWebPushSubscription(ctx, in)
}

// notify stores a notification for a user and fans it out to the
// notifications change-feed, the user web push subscriptions
// and, for success and error notifications, the user email.
func (svc *Service) notify(ctx context.Context, in types.CreateNotification) error {
	if err := in.Validate(); err != nil {
		return err
	}

	n, err := svc.Cockroach.CreateNotification(ctx, in)
	if err != nil {
		return err
	}

	if err := svc.publishNotification(n, types.ChangeKindInsert); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return svc.sendWebPush(gctx, n)
	})

	if n.Kind == types.NotificationKindSuccess || n.Kind == types.NotificationKindError {
		g.Go(func() error {
			return svc.sendEmail(gctx, n)
		})
	}

	return g.Wait()
}

func (svc *Service) sendWebPush(ctx context.Context, n types.Notification) error {
	if !svc.webPush.Enabled() {
		return nil
	}

	subs, err := svc.Cockroach.WebPushSubscriptions(ctx, n.UserID)
	if err != nil {
		return err
	}

	if len(subs) == 0 {
		return nil
	}

	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("json marshal web push payload: %w", err)
	}

	var errList []error
	for _, sub := range subs {
		resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
			Endpoint: sub.Endpoint,
			Keys: webpush.Keys{
				Auth:   sub.Auth,
				P256dh: sub.P256dh,
			},
		}, &webpush.Options{
			Subscriber:      svc.webPush.Subscriber,
			VAPIDPublicKey:  svc.webPush.VAPIDPublicKey,
			VAPIDPrivateKey: svc.webPush.VAPIDPrivateKey,
			TTL:             webPushTTL,
		})
		if err != nil {
			svc.Metrics.PushDeliveries.WithLabelValues("error").Inc()
			errList = append(errList, fmt.Errorf("send web push: %w", err))
			continue
		}

		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
			svc.Metrics.PushDeliveries.WithLabelValues("gone").Inc()
			errList = append(errList, svc.Cockroach.DeleteWebPushSubscription(ctx, sub.Endpoint))
		case resp.StatusCode >= 400:
			svc.Metrics.PushDeliveries.WithLabelValues("error").Inc()
			errList = append(errList, fmt.Errorf("web push endpoint responded with %d", resp.StatusCode))
		default:
			svc.Metrics.PushDeliveries.WithLabelValues("ok").Inc()
		}
	}

	return errors.Join(errList...)
}

func (svc *Service) sendEmail(ctx context.Context, n types.Notification) error {
	user, err := svc.Cockroach.User(ctx, n.UserID)
	if err != nil {
		return err
	}

	if user.Email == nil {
		return nil
	}

	msg, err := mailing.NotificationMessage(*user.Email, svc.publicURL, n)
	if err != nil {
		return err
	}

	if err := svc.Mailer.Send(ctx, msg); err != nil {
		svc.Metrics.EmailDeliveries.WithLabelValues("error").Inc()
		return err
	}

	svc.Metrics.EmailDeliveries.WithLabelValues("ok").Inc()
	return nil
}
