package livesync

import (
	"context"
	"log/slog"
	"sync"

	"github.com/koligo/koligo/types"
)

// Inbox is the live view of the notifications of the actor,
// newest first, along with the unread notifications and messages counts.
type Inbox struct {
	Gateway  *Gateway
	Logger   *slog.Logger
	PageSize uint
	OnUpdate func(notifications []types.Notification, unread uint64)

	Badge *Badge

	manager       *Manager
	notifications *List[types.Notification]

	mu      sync.Mutex
	unread  uint64
	loading bool
	buffer  []types.Notification
}

func NewInbox(gw *Gateway) *Inbox {
	in := &Inbox{
		Gateway:       gw,
		Logger:        gw.Logger,
		PageSize:      50,
		Badge:         NewBadge(gw.Backend, gw.Actor, gw.Logger),
		notifications: NewList[types.Notification](DefaultMaxItems),
	}
	in.manager = NewManager(gw.Backend, types.TableNotifications, "user_id", in.deliver)
	in.manager.Logger = gw.Logger
	in.manager.OnReconnect = func(ctx context.Context) {
		if err := in.load(ctx); err != nil {
			in.Logger.Error("could not reload notifications", "err", err)
		}
	}
	return in
}

// Notifications returns the loaded notifications, newest first.
func (in *Inbox) Notifications() []types.Notification {
	items := in.notifications.Items()
	out := make([]types.Notification, len(items))
	for i, n := range items {
		out[len(items)-1-i] = n
	}
	return out
}

func (in *Inbox) SetMaxItems(n int) {
	in.notifications.SetMaxItems(n)
}

func (in *Inbox) Unread() uint64 {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.unread
}

// Open subscribes to the actor notifications and loads the first page.
// The messages badge is started alongside.
func (in *Inbox) Open(ctx context.Context) error {
	if in.Gateway.Actor == "" {
		return ErrEmptyScope
	}

	if in.manager.Scope() == in.Gateway.Actor {
		return nil
	}

	in.mu.Lock()
	in.loading = true
	in.buffer = nil
	in.mu.Unlock()

	if err := in.manager.Activate(ctx, in.Gateway.Actor); err != nil {
		in.finishLoading(nil)
		return err
	}

	if err := in.Badge.Start(ctx); err != nil {
		in.Logger.Error("could not start unread messages badge", "err", err)
	}

	if err := in.load(ctx); err != nil {
		in.Logger.Error("could not load notifications", "err", err)
		in.finishLoading(nil)
		in.Close()
		return err
	}

	return nil
}

func (in *Inbox) load(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, in.Gateway.Timeout)
	defer cancel()

	page, err := in.Gateway.Backend.Notifications(ctx, types.PageArgs{First: &in.PageSize})
	if err != nil {
		return err
	}

	unread, err := in.Gateway.Backend.UnreadNotificationsCount(ctx)
	if err != nil {
		return err
	}

	in.mu.Lock()
	in.unread = unread
	in.mu.Unlock()

	in.finishLoading(page.Items)
	return nil
}

func (in *Inbox) finishLoading(snapshot []types.Notification) {
	in.mu.Lock()
	if snapshot != nil {
		in.notifications.Load(snapshot)
	}
	in.notifications.Merge(in.buffer...)
	in.buffer = nil
	in.loading = false
	in.mu.Unlock()

	in.updated()
}

// Read marks one notification as read.
func (in *Inbox) Read(ctx context.Context, notificationID string) error {
	n, err := in.Gateway.ReadNotification(ctx, notificationID)
	if err != nil {
		return err
	}

	in.merge(n)
	return nil
}

// ReadAll marks every notification as read.
func (in *Inbox) ReadAll(ctx context.Context) error {
	if err := in.Gateway.ReadAllNotifications(ctx); err != nil {
		return err
	}

	for _, n := range in.notifications.Items() {
		if !n.Read {
			n.Read = true
			in.notifications.Append(n)
		}
	}

	in.mu.Lock()
	in.unread = 0
	in.mu.Unlock()

	in.updated()
	return nil
}

func (in *Inbox) Close() {
	in.manager.Deactivate()
	in.Badge.Stop()

	in.mu.Lock()
	in.buffer = nil
	in.loading = false
	in.mu.Unlock()
}

func (in *Inbox) deliver(c types.Change) {
	var n types.Notification
	if err := c.Decode(&n); err != nil {
		in.Logger.Error("could not decode notification change", "err", err)
		return
	}

	in.merge(n)
}

// merge keeps the unread count in step with the transitions it sees.
func (in *Inbox) merge(n types.Notification) {
	in.mu.Lock()
	if n.UserID != in.Gateway.Actor {
		in.mu.Unlock()
		return
	}

	if in.loading {
		in.buffer = append(in.buffer, n)
		in.mu.Unlock()
		return
	}

	prev, existed := in.find(n.ID)
	in.notifications.Append(n)

	switch {
	case !existed && !n.Read:
		in.unread++
	case existed && !prev.Read && n.Read && in.unread > 0:
		in.unread--
	}
	in.mu.Unlock()

	in.updated()
}

func (in *Inbox) find(id string) (types.Notification, bool) {
	for _, n := range in.notifications.Items() {
		if n.ID == id {
			return n, true
		}
	}
	return types.Notification{}, false
}

func (in *Inbox) updated() {
	if in.OnUpdate != nil {
		in.OnUpdate(in.Notifications(), in.Unread())
	}
}
