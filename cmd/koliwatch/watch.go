package main

import (
	"context"
	"errors"
	"strings"

	"github.com/koligo/koligo/client"
	"github.com/koligo/koligo/livesync"
	"github.com/koligo/koligo/types"
)

type watcher struct {
	gateway  *livesync.Gateway
	client   *client.Client
	printer  *printer
	maxItems int
	lines    <-chan string
}

// each reads input lines until ctx is done or stdin is closed.
func (w *watcher) each(ctx context.Context, fn func(line string)) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-w.lines:
			if !ok {
				return nil
			}
			fn(line)
		}
	}
}

func (w *watcher) chat(ctx context.Context, conversationID string) error {
	s := livesync.NewChatSession(w.gateway)
	s.SetMaxItems(w.maxItems)
	s.OnUpdate = w.printer.messages

	if err := s.Open(ctx, conversationID); err != nil {
		return err
	}

	defer s.Close()

	w.printer.messages(s.Messages())

	return w.each(ctx, func(line string) {
		// failures are already reported as notices.
		_, _ = s.Send(ctx, line)
	})
}

func (w *watcher) support(ctx context.Context, subject string) error {
	in := types.SupportConversation{}
	if subject != "" {
		in.Subject = &subject
	}

	conversation, err := w.client.SupportConversation(ctx, in)
	if err != nil {
		return err
	}

	w.printer.info("support conversation " + conversation.ID)

	return w.chat(ctx, conversation.ID)
}

// track accepts the "pickup", "deliver" and "log <description>" commands.
func (w *watcher) track(ctx context.Context, assignmentID string) error {
	s := livesync.NewTrackingSession(w.gateway)
	s.SetMaxItems(w.maxItems)
	s.OnUpdate = w.printer.tracking

	if err := s.Open(ctx, assignmentID); err != nil {
		return err
	}

	defer s.Close()

	w.printer.tracking(s.Assignment(), s.Events())

	return w.each(ctx, func(line string) {
		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		var err error
		switch cmd {
		case "pickup":
			err = s.ConfirmPickup(ctx, types.ConfirmStep{Description: rest})
		case "deliver":
			err = s.ConfirmDelivery(ctx, types.ConfirmStep{Description: rest})
		case "log":
			_, err = s.LogEvent(ctx, types.CreateTrackingEvent{
				Kind:        types.TrackingEventKindCustom,
				Description: rest,
			})
		default:
			w.printer.warn("commands: pickup, deliver, log <description>")
			return
		}

		switch {
		case errors.Is(err, livesync.ErrBusy):
			w.printer.warn("a confirmation is already in flight")
		case err != nil && !w.printer.noticed(err):
			w.printer.warn(err.Error())
		}
	})
}

// inbox accepts the "read <notification-id>" and "readall" commands.
func (w *watcher) inbox(ctx context.Context) error {
	in := livesync.NewInbox(w.gateway)
	in.SetMaxItems(w.maxItems)
	in.OnUpdate = w.printer.notifications
	in.Badge.OnChange = w.printer.unreadMessages

	if err := in.Open(ctx); err != nil {
		return err
	}

	defer in.Close()

	w.printer.notifications(in.Notifications(), in.Unread())

	return w.each(ctx, func(line string) {
		cmd, rest, _ := strings.Cut(line, " ")
		switch cmd {
		case "read":
			_ = in.Read(ctx, strings.TrimSpace(rest))
		case "readall":
			_ = in.ReadAll(ctx)
		default:
			w.printer.warn("commands: read <notification-id>, readall")
		}
	})
}
