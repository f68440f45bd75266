package types

import (
	"time"
	"unicode/utf8"

	"github.com/koligo/koligo/emoji"
	"github.com/koligo/koligo/id"
	"github.com/koligo/koligo/textutil"
	"github.com/koligo/koligo/validator"
)

const messageContentMaxLength = 2000

type Message struct {
	ID             string     `db:"id" json:"id"`
	ConversationID string     `db:"conversation_id" json:"conversationID"`
	SenderID       string     `db:"sender_id" json:"senderID"`
	Content        string     `db:"content" json:"content"`
	ImageURL       *string    `db:"image_url" json:"imageURL"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
	ReadAt         *time.Time `db:"read_at" json:"readAt"`
}

func (m Message) Read() bool {
	return m.ReadAt != nil
}

func (m Message) RecordID() string { return m.ID }

func (m Message) RecordTime() time.Time { return m.CreatedAt }

type CreateMessage struct {
	ConversationID string  `json:"conversationID"`
	Content        string  `json:"content"`
	Image          *Upload `json:"-"`

	loggedInUserID string
	imageURL       *string
}

func (in *CreateMessage) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in CreateMessage) LoggedInUserID() string {
	return in.loggedInUserID
}

func (in *CreateMessage) SetImageURL(url string) {
	in.imageURL = &url
}

func (in CreateMessage) ImageURL() *string {
	return in.imageURL
}

func (in *CreateMessage) Validate() error {
	v := validator.New()

	in.Content = emoji.Expand(textutil.SmartTrim(in.Content))

	if in.ConversationID == "" {
		v.AddError("ConversationID", "Conversation ID is required")
	} else if !id.Valid(in.ConversationID) {
		v.AddError("ConversationID", "Conversation ID is invalid")
	}

	if in.Content == "" {
		v.AddError("Content", "Content is required")
	}
	if utf8.RuneCountInString(in.Content) > messageContentMaxLength {
		v.AddError("Content", "Content must be at most 2000 characters")
	}

	if in.Image != nil && len(in.Image.Data) == 0 {
		v.AddError("Image", "Image is empty")
	}

	return v.AsError()
}

type ListMessages struct {
	ConversationID string
}

func (in *ListMessages) Validate() error {
	v := validator.New()

	if in.ConversationID == "" {
		v.AddError("ConversationID", "Conversation ID is required")
	} else if !id.Valid(in.ConversationID) {
		v.AddError("ConversationID", "Conversation ID is invalid")
	}

	return v.AsError()
}

type MarkConversationRead struct {
	ConversationID string

	loggedInUserID string
}

func (in *MarkConversationRead) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in MarkConversationRead) LoggedInUserID() string {
	return in.loggedInUserID
}

func (in *MarkConversationRead) Validate() error {
	v := validator.New()

	if in.ConversationID == "" {
		v.AddError("ConversationID", "Conversation ID is required")
	} else if !id.Valid(in.ConversationID) {
		v.AddError("ConversationID", "Conversation ID is invalid")
	}

	return v.AsError()
}

type MarkedRead struct {
	ConversationID string    `json:"conversationID"`
	Count          int64     `json:"count"`
	ReadAt         time.Time `json:"readAt"`
}

// CountUnreadMessages counts messages not sent by the logged in user
// that still have no read marker.
// When ConversationIDs is empty every conversation of the user is considered.
type CountUnreadMessages struct {
	ConversationIDs []string

	loggedInUserID string
}

func (in *CountUnreadMessages) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in CountUnreadMessages) LoggedInUserID() string {
	return in.loggedInUserID
}

func (in *CountUnreadMessages) Validate() error {
	v := validator.New()

	for _, s := range in.ConversationIDs {
		if !id.Valid(s) {
			v.AddError("ConversationIDs", "Conversation ID is invalid")
			break
		}
	}

	return v.AsError()
}
