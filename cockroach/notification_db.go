package cockroach

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgxutil"
	"github.com/koligo/koligo/id"
	"github.com/koligo/koligo/types"
	"github.com/nicolasparada/go-db"
	"github.com/nicolasparada/go-errs"
)

const notificationColumns = `
	notifications.id,
	notifications.user_id,
	notifications.title,
	notifications.message,
	notifications.kind,
	notifications.link,
	notifications.read,
	notifications.created_at
`

func (c *Cockroach) CreateNotification(ctx context.Context, in types.CreateNotification) (types.Notification, error) {
	var out types.Notification

	const q = `
		INSERT INTO notifications (id, user_id, title, message, kind, link)
		VALUES (@notification_id, @user_id, @title, @message, @kind, @link)
		RETURNING ` + notificationColumns

	rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
		"notification_id": id.Generate(),
		"user_id":         in.UserID,
		"title":           in.Title,
		"message":         in.Message,
		"kind":            in.Kind,
		"link":            in.Link,
	})
	if err != nil {
		return out, fmt.Errorf("sql insert notification: %w", err)
	}

	out, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByNameLax[types.Notification])
	if isForeignKeyViolation(err) {
		return out, errUserNotFound
	}

	if err != nil {
		return out, fmt.Errorf("sql collect inserted notification: %w", err)
	}

	return out, nil
}

// Notifications pages the notifications of a user newest first.
func (c *Cockroach) Notifications(ctx context.Context, in types.ListNotifications) (types.Page[types.Notification], error) {
	var out types.Page[types.Notification]

	pageArgs, err := ParsePageArgs[time.Time](in.PageArgs)
	if err != nil {
		return out, err
	}

	filters := []string{"notifications.user_id = @user_id"}
	args := pgx.NamedArgs{
		"user_id": in.UserID(),
		"limit":   pageArgs.Limit(),
	}

	if pageArgs.After != nil {
		filters = append(filters, "(notifications.created_at, notifications.id) < (@cursor_value, @cursor_id)")
		args["cursor_value"] = pageArgs.After.Value
		args["cursor_id"] = pageArgs.After.ID
	} else if pageArgs.Before != nil {
		filters = append(filters, "(notifications.created_at, notifications.id) > (@cursor_value, @cursor_id)")
		args["cursor_value"] = pageArgs.Before.Value
		args["cursor_id"] = pageArgs.Before.ID
	}

	order := "DESC"
	if pageArgs.IsBackwards() {
		order = "ASC"
	}

	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
	` + where(filters) + `
		ORDER BY notifications.created_at ` + order + `, notifications.id ` + order + `
		LIMIT @limit
	`

	rows, err := c.db.Query(ctx, query, args)
	if err != nil {
		return out, fmt.Errorf("sql select notifications: %w", err)
	}

	out.Items, err = pgx.CollectRows(rows, pgx.RowToStructByNameLax[types.Notification])
	if err != nil {
		return out, fmt.Errorf("sql collect notifications: %w", err)
	}

	err = applyPageInfo(&out, pageArgs, func(n types.Notification) Cursor[time.Time] {
		return Cursor[time.Time]{ID: n.ID, Value: n.CreatedAt}
	})
	if err != nil {
		return out, err
	}

	return out, nil
}

func (c *Cockroach) ReadNotification(ctx context.Context, in types.ReadNotification) (types.Notification, error) {
	var out types.Notification

	const q = `
		UPDATE notifications
		SET read = true
		WHERE id = @notification_id AND user_id = @user_id
		RETURNING ` + notificationColumns

	rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
		"notification_id": in.NotificationID,
		"user_id":         in.UserID(),
	})
	if err != nil {
		return out, fmt.Errorf("sql update notification read: %w", err)
	}

	out, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByNameLax[types.Notification])
	if db.IsNotFoundError(err) {
		return out, errs.NotFoundError("notification not found")
	}

	if err != nil {
		return out, fmt.Errorf("sql collect read notification: %w", err)
	}

	return out, nil
}

// ReadAllNotifications returns the notifications that flipped to read.
func (c *Cockroach) ReadAllNotifications(ctx context.Context, userID string) ([]types.Notification, error) {
	const q = `
		UPDATE notifications
		SET read = true
		WHERE user_id = @user_id AND read = false
		RETURNING ` + notificationColumns

	rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
		"user_id": userID,
	})
	if err != nil {
		return nil, fmt.Errorf("sql update notifications read: %w", err)
	}

	out, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[types.Notification])
	if err != nil {
		return nil, fmt.Errorf("sql collect read notifications: %w", err)
	}

	return out, nil
}

func (c *Cockroach) UnreadNotificationsCount(ctx context.Context, userID string) (uint64, error) {
	const q = `SELECT count(*) FROM notifications WHERE user_id = @user_id AND read = false`

	args := pgx.StrictNamedArgs{"user_id": userID}
	out, err := pgxutil.SelectRow(ctx, c.db, q, []any{args}, pgx.RowTo[uint64])
	if err != nil {
		return 0, fmt.Errorf("sql count unread notifications: %w", err)
	}

	return out, nil
}
