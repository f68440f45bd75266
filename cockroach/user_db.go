package cockroach

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgxutil"
	"github.com/koligo/koligo/id"
	"github.com/koligo/koligo/types"
	"github.com/nicolasparada/go-db"
	"github.com/nicolasparada/go-errs"
)

const userColumns = `users.id, users.username, users.email, users.role, users.created_at`

var errUserNotFound = errs.NotFoundError("user not found")

func (c *Cockroach) User(ctx context.Context, userID string) (types.User, error) {
	var out types.User

	const q = `SELECT ` + userColumns + ` FROM users WHERE users.id = @user_id`

	rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
		"user_id": userID,
	})
	if err != nil {
		return out, fmt.Errorf("sql select user: %w", err)
	}

	out, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByNameLax[types.User])
	if db.IsNotFoundError(err) {
		return out, errUserNotFound
	}

	if err != nil {
		return out, fmt.Errorf("sql collect user: %w", err)
	}

	return out, nil
}

// UpsertUser returns the user with the given username, creating it when missing.
func (c *Cockroach) UpsertUser(ctx context.Context, in types.DevLogin, role types.Role) (types.User, error) {
	var out types.User

	const q = `
		INSERT INTO users (id, username, email, role)
		VALUES (@user_id, @username, @email, @role)
		ON CONFLICT (username) DO UPDATE SET email = COALESCE(excluded.email, users.email)
		RETURNING ` + userColumns

	rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
		"user_id":  id.Generate(),
		"username": in.Username,
		"email":    in.Email,
		"role":     role,
	})
	if err != nil {
		return out, fmt.Errorf("sql upsert user: %w", err)
	}

	out, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByNameLax[types.User])
	if isUniqueViolation(err) {
		return out, errs.ConflictError("email taken")
	}

	if err != nil {
		return out, fmt.Errorf("sql collect upserted user: %w", err)
	}

	return out, nil
}

func (c *Cockroach) AdminIDs(ctx context.Context) ([]string, error) {
	const q = `SELECT id FROM users WHERE role = 'admin'`

	out, err := pgxutil.Select(ctx, c.db, q, nil, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("sql select admin ids: %w", err)
	}

	return out, nil
}
