package cockroach

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/koligo/koligo/types"
)

func (c *Cockroach) UpsertWebPushSubscription(ctx context.Context, in types.AddWebPushSubscription) error {
	const q = `
		UPSERT INTO web_push_subscriptions (endpoint, user_id, auth, p256dh)
		VALUES (@endpoint, @user_id, @auth, @p256dh)
	`

	_, err := c.db.Exec(ctx, q, pgx.StrictNamedArgs{
		"endpoint": in.Endpoint,
		"user_id":  in.UserID(),
		"auth":     in.Keys.Auth,
		"p256dh":   in.Keys.P256dh,
	})
	if isForeignKeyViolation(err) {
		return errUserNotFound
	}

	if err != nil {
		return fmt.Errorf("sql upsert web push subscription: %w", err)
	}

	return nil
}

func (c *Cockroach) WebPushSubscriptions(ctx context.Context, userID string) ([]types.WebPushSubscription, error) {
	const q = `
		SELECT endpoint, user_id, auth, p256dh, created_at
		FROM web_push_subscriptions
		WHERE user_id = @user_id
		ORDER BY created_at DESC
	`

	rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
		"user_id": userID,
	})
	if err != nil {
		return nil, fmt.Errorf("sql select web push subscriptions: %w", err)
	}

	out, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[types.WebPushSubscription])
	if err != nil {
		return nil, fmt.Errorf("sql collect web push subscriptions: %w", err)
	}

	return out, nil
}

// DeleteWebPushSubscription drops an endpoint the push service reported gone.
func (c *Cockroach) DeleteWebPushSubscription(ctx context.Context, endpoint string) error {
	const q = `DELETE FROM web_push_subscriptions WHERE endpoint = @endpoint`

	_, err := c.db.Exec(ctx, q, pgx.StrictNamedArgs{
		"endpoint": endpoint,
	})
	if err != nil {
		return fmt.Errorf("sql delete web push subscription: %w", err)
	}

	return nil
}
