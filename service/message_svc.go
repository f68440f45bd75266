package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/koligo/koligo/auth"
	"github.com/koligo/koligo/minio"
	"github.com/koligo/koligo/ptr"
	"github.com/koligo/koligo/types"
	"github.com/nicolasparada/go-errs"
)

var errConversationClosed = errs.PermissionDeniedError("conversation is closed")

func (svc *Service) Messages(ctx context.Context, in types.ListMessages) ([]types.Message, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return nil, errs.Unauthenticated
	}

	if _, err := svc.participatedConversation(ctx, loggedInUser, in.ConversationID); err != nil {
		return nil, err
	}

	return svc.Cockroach.Messages(ctx, in)
}

func (svc *Service) CreateMessage(ctx context.Context, in types.CreateMessage) (types.Message, error) {
	var out types.Message

	if err := in.Validate(); err != nil {
		return out, err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return out, errs.Unauthenticated
	}

	in.SetLoggedInUserID(loggedInUser.ID)

	conversation, err := svc.participatedConversation(ctx, loggedInUser, in.ConversationID)
	if err != nil {
		return out, err
	}

	if conversation.Status == types.ConversationStatusClosed {
		return out, errConversationClosed
	}

	cleanup := func() {}
	if in.Image != nil {
		attachment, err := processImage(*in.Image)
		if err != nil {
			return out, err
		}

		cleanup, err = svc.Minio.Upload(ctx, minio.BucketMessageImages, attachment)
		if err != nil {
			return out, err
		}

		in.SetImageURL(svc.Minio.ObjectURL(minio.BucketMessageImages, attachment.Path))
	}

	out, err = svc.Cockroach.CreateMessage(ctx, in)
	if err != nil {
		go cleanup()
		return out, err
	}

	svc.background(func(ctx context.Context) error {
		return svc.publishMessages(ctx, conversation, types.ChangeKindInsert, out)
	})

	if recipientID := conversation.OtherParticipantID(loggedInUser.ID); recipientID != nil {
		svc.background(func(ctx context.Context) error {
			return svc.notify(ctx, types.CreateNotification{
				UserID:  *recipientID,
				Title:   "New message from " + loggedInUser.Username,
				Message: preview(out.Content, 140),
				Kind:    types.NotificationKindInfo,
				Link:    ptr.From(fmt.Sprintf("/conversations/%s", conversation.ID)),
			})
		})
	}

	return out, nil
}

// MarkConversationRead stamps the unread messages the logged in user
// received in the conversation.
// Messages sent by the user and messages already read are left untouched.
func (svc *Service) MarkConversationRead(ctx context.Context, in types.MarkConversationRead) (types.MarkedRead, error) {
	var out types.MarkedRead

	if err := in.Validate(); err != nil {
		return out, err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return out, errs.Unauthenticated
	}

	in.SetLoggedInUserID(loggedInUser.ID)

	conversation, err := svc.participatedConversation(ctx, loggedInUser, in.ConversationID)
	if err != nil {
		return out, err
	}

	read, err := svc.Cockroach.MarkConversationRead(ctx, in)
	if err != nil {
		return out, err
	}

	out.ConversationID = conversation.ID
	out.Count = int64(len(read))
	if len(read) != 0 {
		out.ReadAt = *read[0].ReadAt
		svc.background(func(ctx context.Context) error {
			return svc.publishMessages(ctx, conversation, types.ChangeKindUpdate, read...)
		})
	}

	return out, nil
}

// UnreadMessagesCount recomputes the unread badge count from scratch:
// first the conversations of the user, then the unread messages
// not sent by the user within them.
// An optional conversation ID list narrows the count down.
func (svc *Service) UnreadMessagesCount(ctx context.Context, in types.CountUnreadMessages) (uint64, error) {
	if err := in.Validate(); err != nil {
		return 0, err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return 0, errs.Unauthenticated
	}

	var list types.ListConversations
	list.SetLoggedInUser(loggedInUser)

	conversationIDs, err := svc.Cockroach.ConversationIDs(ctx, list)
	if err != nil {
		return 0, err
	}

	// a filter can only narrow down the user's own conversations.
	if len(in.ConversationIDs) != 0 {
		conversationIDs = slices.DeleteFunc(conversationIDs, func(s string) bool {
			return !slices.Contains(in.ConversationIDs, s)
		})
		if len(conversationIDs) == 0 {
			return 0, nil
		}
	}

	in.ConversationIDs = conversationIDs
	in.SetLoggedInUserID(loggedInUser.ID)

	return svc.Cockroach.UnreadMessagesCount(ctx, in)
}
