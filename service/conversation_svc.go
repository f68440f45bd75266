package service

import (
	"context"

	"github.com/koligo/koligo/auth"
	"github.com/koligo/koligo/types"
	"github.com/nicolasparada/go-errs"
)

func (svc *Service) StartConversation(ctx context.Context, in types.StartConversation) (types.Conversation, error) {
	var out types.Conversation

	if err := in.Validate(); err != nil {
		return out, err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return out, errs.Unauthenticated
	}

	if loggedInUser.ID == in.OtherUserID {
		return out, errs.InvalidArgumentError("cannot start a conversation with yourself")
	}

	in.SetLoggedInUserID(loggedInUser.ID)

	if in.AssignmentID != nil {
		if _, err := svc.partyAssignment(ctx, loggedInUser, *in.AssignmentID); err != nil {
			return out, err
		}
	}

	out, err := svc.Cockroach.StartConversation(ctx, in)
	if err != nil {
		return out, err
	}

	svc.background(func(ctx context.Context) error {
		return svc.publishConversation(ctx, out, types.ChangeKindInsert)
	})

	return out, nil
}

func (svc *Service) SupportConversation(ctx context.Context, in types.SupportConversation) (types.Conversation, error) {
	var out types.Conversation

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return out, errs.Unauthenticated
	}

	in.SetLoggedInUserID(loggedInUser.ID)

	out, err := svc.Cockroach.SupportConversation(ctx, in)
	if err != nil {
		return out, err
	}

	svc.background(func(ctx context.Context) error {
		return svc.publishConversation(ctx, out, types.ChangeKindInsert)
	})

	return out, nil
}

func (svc *Service) Conversation(ctx context.Context, in types.RetrieveConversation) (types.Conversation, error) {
	var out types.Conversation

	if err := in.Validate(); err != nil {
		return out, err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return out, errs.Unauthenticated
	}

	return svc.participatedConversation(ctx, loggedInUser, in.ConversationID)
}

func (svc *Service) Conversations(ctx context.Context) ([]types.Conversation, error) {
	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return nil, errs.Unauthenticated
	}

	var in types.ListConversations
	in.SetLoggedInUser(loggedInUser)

	return svc.Cockroach.Conversations(ctx, in)
}

func (svc *Service) ConversationIDs(ctx context.Context) ([]string, error) {
	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return nil, errs.Unauthenticated
	}

	var in types.ListConversations
	in.SetLoggedInUser(loggedInUser)

	return svc.Cockroach.ConversationIDs(ctx, in)
}

func (svc *Service) UpdateConversationStatus(ctx context.Context, in types.UpdateConversationStatus) (types.Conversation, error) {
	var out types.Conversation

	if err := in.Validate(); err != nil {
		return out, err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return out, errs.Unauthenticated
	}

	if _, err := svc.participatedConversation(ctx, loggedInUser, in.ConversationID); err != nil {
		return out, err
	}

	out, err := svc.Cockroach.UpdateConversationStatus(ctx, in)
	if err != nil {
		return out, err
	}

	svc.background(func(ctx context.Context) error {
		return svc.publishConversation(ctx, out, types.ChangeKindUpdate)
	})

	return out, nil
}
