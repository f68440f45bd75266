package service

import (
	"context"

	"github.com/koligo/koligo/types"
	"github.com/nicolasparada/go-errs"
)

// participatedConversation fetches a conversation the user takes part in.
func (svc *Service) participatedConversation(ctx context.Context, user types.User, conversationID string) (types.Conversation, error) {
	conversation, err := svc.Cockroach.Conversation(ctx, conversationID)
	if err != nil {
		return conversation, err
	}

	if !conversation.HasParticipant(user) {
		return conversation, errs.PermissionDenied
	}

	return conversation, nil
}

// partyAssignment fetches an assignment the user is sender or traveler of.
// Admins can see every assignment.
func (svc *Service) partyAssignment(ctx context.Context, user types.User, assignmentID string) (types.Assignment, error) {
	assignment, err := svc.Cockroach.Assignment(ctx, assignmentID)
	if err != nil {
		return assignment, err
	}

	if !assignment.HasParty(user.ID) && !user.IsAdmin() {
		return assignment, errs.PermissionDenied
	}

	return assignment, nil
}
