package cockroach

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgxutil"
	"github.com/koligo/koligo/id"
	"github.com/koligo/koligo/types"
	"github.com/nicolasparada/go-db"
	"github.com/nicolasparada/go-errs"
)

const conversationColumns = `
	conversations.id,
	conversations.kind,
	conversations.participant_a,
	conversations.participant_b,
	conversations.assignment_id,
	conversations.subject,
	conversations.status,
	conversations.created_at,
	conversations.updated_at
`

var errConversationNotFound = errs.NotFoundError("conversation not found")

// StartConversation returns the direct conversation between both users
// in the given assignment context, creating it when missing.
func (c *Cockroach) StartConversation(ctx context.Context, in types.StartConversation) (types.Conversation, error) {
	var out types.Conversation

	a, b := types.SortedPair(in.LoggedInUserID(), in.OtherUserID)

	err := c.db.RunTx(ctx, func(ctx context.Context) error {
		existing, err := c.directConversation(ctx, a, b, in.AssignmentID)
		if err == nil {
			out = existing
			return nil
		}

		if !errors.Is(err, errs.NotFound) {
			return err
		}

		created, err := c.createConversation(ctx, createConversation{
			kind:         types.ConversationKindDirect,
			participantA: a,
			participantB: &b,
			assignmentID: in.AssignmentID,
			subject:      in.Subject,
		})
		if err != nil {
			return err
		}

		out = created
		return nil
	})
	if isUniqueViolation(err) {
		// lost a race against a concurrent start of the same conversation.
		return c.directConversation(ctx, a, b, in.AssignmentID)
	}

	if isForeignKeyViolation(err) {
		return out, errs.NotFoundError("user or assignment not found")
	}

	return out, err
}

// SupportConversation returns the single support conversation of the user,
// creating it when missing.
func (c *Cockroach) SupportConversation(ctx context.Context, in types.SupportConversation) (types.Conversation, error) {
	var out types.Conversation

	err := c.db.RunTx(ctx, func(ctx context.Context) error {
		existing, err := c.supportConversation(ctx, in.LoggedInUserID())
		if err == nil {
			out = existing
			return nil
		}

		if !errors.Is(err, errs.NotFound) {
			return err
		}

		created, err := c.createConversation(ctx, createConversation{
			kind:         types.ConversationKindSupport,
			participantA: in.LoggedInUserID(),
			subject:      in.Subject,
		})
		if err != nil {
			return err
		}

		out = created
		return nil
	})
	if isUniqueViolation(err) {
		return c.supportConversation(ctx, in.LoggedInUserID())
	}

	return out, err
}

type createConversation struct {
	kind         types.ConversationKind
	participantA string
	participantB *string
	assignmentID *string
	subject      *string
}

func (c *Cockroach) createConversation(ctx context.Context, in createConversation) (types.Conversation, error) {
	var out types.Conversation

	const q = `
		INSERT INTO conversations (id, kind, participant_a, participant_b, assignment_id, subject)
		VALUES (@conversation_id, @kind, @participant_a, @participant_b, @assignment_id, @subject)
		RETURNING ` + conversationColumns

	rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
		"conversation_id": id.Generate(),
		"kind":            in.kind,
		"participant_a":   in.participantA,
		"participant_b":   in.participantB,
		"assignment_id":   in.assignmentID,
		"subject":         in.subject,
	})
	if err != nil {
		return out, fmt.Errorf("sql insert conversation: %w", err)
	}

	out, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByNameLax[types.Conversation])
	if err != nil {
		return out, fmt.Errorf("sql collect inserted conversation: %w", err)
	}

	return out, nil
}

func (c *Cockroach) directConversation(ctx context.Context, a, b string, assignmentID *string) (types.Conversation, error) {
	var out types.Conversation

	const q = `
		SELECT ` + conversationColumns + `
		FROM conversations
		WHERE conversations.kind = 'direct'
			AND conversations.participant_a = @participant_a
			AND conversations.participant_b = @participant_b
			AND conversations.context_key = COALESCE(@assignment_id, '')
	`

	rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
		"participant_a": a,
		"participant_b": b,
		"assignment_id": assignmentID,
	})
	if err != nil {
		return out, fmt.Errorf("sql select direct conversation: %w", err)
	}

	out, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByNameLax[types.Conversation])
	if db.IsNotFoundError(err) {
		return out, errConversationNotFound
	}

	if err != nil {
		return out, fmt.Errorf("sql collect direct conversation: %w", err)
	}

	return out, nil
}

func (c *Cockroach) supportConversation(ctx context.Context, userID string) (types.Conversation, error) {
	var out types.Conversation

	const q = `
		SELECT ` + conversationColumns + `
		FROM conversations
		WHERE conversations.kind = 'support'
			AND conversations.participant_a = @user_id
	`

	rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
		"user_id": userID,
	})
	if err != nil {
		return out, fmt.Errorf("sql select support conversation: %w", err)
	}

	out, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByNameLax[types.Conversation])
	if db.IsNotFoundError(err) {
		return out, errConversationNotFound
	}

	if err != nil {
		return out, fmt.Errorf("sql collect support conversation: %w", err)
	}

	return out, nil
}

func (c *Cockroach) Conversation(ctx context.Context, conversationID string) (types.Conversation, error) {
	var out types.Conversation

	const q = `SELECT ` + conversationColumns + ` FROM conversations WHERE conversations.id = @conversation_id`

	rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
		"conversation_id": conversationID,
	})
	if err != nil {
		return out, fmt.Errorf("sql select conversation: %w", err)
	}

	out, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByNameLax[types.Conversation])
	if db.IsNotFoundError(err) {
		return out, errConversationNotFound
	}

	if err != nil {
		return out, fmt.Errorf("sql collect conversation: %w", err)
	}

	return out, nil
}

func conversationsFilter(in types.ListConversations) string {
	filter := `(conversations.participant_a = @user_id OR conversations.participant_b = @user_id`
	if in.IncludeSupport() {
		filter += ` OR conversations.kind = 'support'`
	}
	return filter + `)`
}

func (c *Cockroach) Conversations(ctx context.Context, in types.ListConversations) ([]types.Conversation, error) {
	query := `
		SELECT ` + conversationColumns + `
		FROM conversations
	` + where([]string{conversationsFilter(in)}) + `
		ORDER BY conversations.updated_at DESC, conversations.id DESC
	`

	rows, err := c.db.Query(ctx, query, pgx.StrictNamedArgs{
		"user_id": in.LoggedInUserID(),
	})
	if err != nil {
		return nil, fmt.Errorf("sql select conversations: %w", err)
	}

	out, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[types.Conversation])
	if err != nil {
		return nil, fmt.Errorf("sql collect conversations: %w", err)
	}

	return out, nil
}

// ConversationIDs is the first of the two unread count queries.
func (c *Cockroach) ConversationIDs(ctx context.Context, in types.ListConversations) ([]string, error) {
	query := `SELECT conversations.id FROM conversations` + where([]string{conversationsFilter(in)})

	out, err := pgxutil.Select(ctx, c.db, query, []any{pgx.StrictNamedArgs{
		"user_id": in.LoggedInUserID(),
	}}, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("sql select conversation ids: %w", err)
	}

	return out, nil
}

func (c *Cockroach) UpdateConversationStatus(ctx context.Context, in types.UpdateConversationStatus) (types.Conversation, error) {
	var out types.Conversation

	const q = `
		UPDATE conversations
		SET status = @status, updated_at = now()
		WHERE id = @conversation_id
		RETURNING ` + conversationColumns

	rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
		"conversation_id": in.ConversationID,
		"status":          in.Status,
	})
	if err != nil {
		return out, fmt.Errorf("sql update conversation status: %w", err)
	}

	out, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByNameLax[types.Conversation])
	if db.IsNotFoundError(err) {
		return out, errConversationNotFound
	}

	if err != nil {
		return out, fmt.Errorf("sql collect updated conversation: %w", err)
	}

	return out, nil
}

func (c *Cockroach) touchConversation(ctx context.Context, conversationID string) error {
	const q = `UPDATE conversations SET updated_at = now() WHERE id = @conversation_id`

	_, err := c.db.Exec(ctx, q, pgx.StrictNamedArgs{
		"conversation_id": conversationID,
	})
	if err != nil {
		return fmt.Errorf("sql touch conversation: %w", err)
	}

	return nil
}
