package cockroach

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgxutil"
	"github.com/koligo/koligo/id"
	"github.com/koligo/koligo/types"
)

const messageColumns = `
	messages.id,
	messages.conversation_id,
	messages.sender_id,
	messages.content,
	messages.image_url,
	messages.created_at,
	messages.read_at
`

// Messages returns the whole history of a conversation oldest first.
func (c *Cockroach) Messages(ctx context.Context, in types.ListMessages) ([]types.Message, error) {
	const q = `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE messages.conversation_id = @conversation_id
		ORDER BY messages.created_at ASC, messages.id ASC
	`

	rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
		"conversation_id": in.ConversationID,
	})
	if err != nil {
		return nil, fmt.Errorf("sql select messages: %w", err)
	}

	out, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[types.Message])
	if err != nil {
		return nil, fmt.Errorf("sql collect messages: %w", err)
	}

	return out, nil
}

func (c *Cockroach) CreateMessage(ctx context.Context, in types.CreateMessage) (types.Message, error) {
	var out types.Message
	return out, c.db.RunTx(ctx, func(ctx context.Context) error {
		created, err := c.createMessage(ctx, in)
		if err != nil {
			return err
		}

		if err := c.touchConversation(ctx, in.ConversationID); err != nil {
			return err
		}

		out = created
		return nil
	})
}

func (c *Cockroach) createMessage(ctx context.Context, in types.CreateMessage) (types.Message, error) {
	var out types.Message

	const q = `
		INSERT INTO messages (id, conversation_id, sender_id, content, image_url)
		VALUES (@message_id, @conversation_id, @sender_id, @content, @image_url)
		RETURNING ` + messageColumns

	rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
		"message_id":      id.Generate(),
		"conversation_id": in.ConversationID,
		"sender_id":       in.LoggedInUserID(),
		"content":         in.Content,
		"image_url":       in.ImageURL(),
	})
	if err != nil {
		return out, fmt.Errorf("sql insert message: %w", err)
	}

	out, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByNameLax[types.Message])
	if isForeignKeyViolation(err) {
		return out, errConversationNotFound
	}

	if err != nil {
		return out, fmt.Errorf("sql collect inserted message: %w", err)
	}

	return out, nil
}

// MarkConversationRead stamps every unread message the logged in user
// received in the conversation and returns the stamped messages.
// Messages already read keep their original read_at.
func (c *Cockroach) MarkConversationRead(ctx context.Context, in types.MarkConversationRead) ([]types.Message, error) {
	const q = `
		UPDATE messages
		SET read_at = now()
		WHERE conversation_id = @conversation_id
			AND read_at IS NULL
			AND sender_id != @user_id
		RETURNING ` + messageColumns

	rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
		"conversation_id": in.ConversationID,
		"user_id":         in.LoggedInUserID(),
	})
	if err != nil {
		return nil, fmt.Errorf("sql update messages read_at: %w", err)
	}

	out, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[types.Message])
	if err != nil {
		return nil, fmt.Errorf("sql collect read messages: %w", err)
	}

	return out, nil
}

// UnreadMessagesCount counts messages inside the given conversations
// that were not sent by the logged in user and have no read marker.
func (c *Cockroach) UnreadMessagesCount(ctx context.Context, in types.CountUnreadMessages) (uint64, error) {
	if len(in.ConversationIDs) == 0 {
		return 0, nil
	}

	const q = `
		SELECT count(*)
		FROM messages
		WHERE messages.conversation_id = ANY(@conversation_ids)
			AND messages.sender_id != @user_id
			AND messages.read_at IS NULL
	`

	args := pgx.StrictNamedArgs{
		"conversation_ids": in.ConversationIDs,
		"user_id":          in.LoggedInUserID(),
	}
	out, err := pgxutil.SelectRow(ctx, c.db, q, []any{args}, pgx.RowTo[uint64])
	if err != nil {
		return 0, fmt.Errorf("sql count unread messages: %w", err)
	}

	return out, nil
}
