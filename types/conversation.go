package types

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/koligo/koligo/id"
	"github.com/koligo/koligo/validator"
)

type Conversation struct {
	ID           string             `db:"id" json:"id"`
	Kind         ConversationKind   `db:"kind" json:"kind"`
	ParticipantA string             `db:"participant_a" json:"participantA"`
	ParticipantB *string            `db:"participant_b" json:"participantB"`
	AssignmentID *string            `db:"assignment_id" json:"assignmentID"`
	Subject      *string            `db:"subject" json:"subject"`
	Status       ConversationStatus `db:"status" json:"status"`
	CreatedAt    time.Time          `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `db:"updated_at" json:"updatedAt"`
}

// HasParticipant reports whether the user takes part in the conversation.
// Admins take part in every support conversation.
func (c Conversation) HasParticipant(user User) bool {
	if c.ParticipantA == user.ID {
		return true
	}
	if c.ParticipantB != nil && *c.ParticipantB == user.ID {
		return true
	}
	return c.Kind == ConversationKindSupport && user.IsAdmin()
}

// ParticipantIDs returns the user participants.
// Support conversations only list their owner.
func (c Conversation) ParticipantIDs() []string {
	out := []string{c.ParticipantA}
	if c.ParticipantB != nil {
		out = append(out, *c.ParticipantB)
	}
	return out
}

// OtherParticipantID returns the participant that is not userID.
// It is nil for support conversations seen by their owner.
func (c Conversation) OtherParticipantID(userID string) *string {
	if c.ParticipantA == userID {
		return c.ParticipantB
	}
	return &c.ParticipantA
}

type ConversationKind string

const (
	ConversationKindDirect  ConversationKind = "direct"
	ConversationKindSupport ConversationKind = "support"
)

func (k ConversationKind) String() string {
	return string(k)
}

type ConversationStatus string

const (
	ConversationStatusOpen   ConversationStatus = "open"
	ConversationStatusClosed ConversationStatus = "closed"
)

func (s ConversationStatus) String() string {
	return string(s)
}

func (s ConversationStatus) Valid() bool {
	return s == ConversationStatusOpen || s == ConversationStatusClosed
}

// SortedPair orders two user IDs so the unordered pair
// always maps to the same (participant_a, participant_b) row.
func SortedPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

type StartConversation struct {
	OtherUserID  string  `json:"otherUserID"`
	AssignmentID *string `json:"assignmentID"`
	Subject      *string `json:"subject"`

	loggedInUserID string
}

func (in *StartConversation) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in StartConversation) LoggedInUserID() string {
	return in.loggedInUserID
}

func (in *StartConversation) Validate() error {
	v := validator.New()

	if in.Subject != nil {
		*in.Subject = strings.TrimSpace(*in.Subject)
		if *in.Subject == "" {
			in.Subject = nil
		}
	}

	if in.OtherUserID == "" {
		v.AddError("OtherUserID", "Other user ID is required")
	} else if !id.Valid(in.OtherUserID) {
		v.AddError("OtherUserID", "Other user ID is invalid")
	}

	if !id.ValidOptional(in.AssignmentID) {
		v.AddError("AssignmentID", "Assignment ID is invalid")
	}

	if in.Subject != nil && utf8.RuneCountInString(*in.Subject) > 120 {
		v.AddError("Subject", "Subject must be at most 120 characters")
	}

	return v.AsError()
}

type SupportConversation struct {
	Subject *string `json:"subject"`

	loggedInUserID string
}

func (in *SupportConversation) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in SupportConversation) LoggedInUserID() string {
	return in.loggedInUserID
}

type RetrieveConversation struct {
	ConversationID string
}

func (in *RetrieveConversation) Validate() error {
	v := validator.New()

	if in.ConversationID == "" {
		v.AddError("ConversationID", "Conversation ID is required")
	} else if !id.Valid(in.ConversationID) {
		v.AddError("ConversationID", "Conversation ID is invalid")
	}

	return v.AsError()
}

type ListConversations struct {
	loggedInUserID string
	isAdmin        bool
}

func (in *ListConversations) SetLoggedInUser(user User) {
	in.loggedInUserID = user.ID
	in.isAdmin = user.IsAdmin()
}

func (in ListConversations) LoggedInUserID() string {
	return in.loggedInUserID
}

// IncludeSupport reports whether every support conversation should be listed.
func (in ListConversations) IncludeSupport() bool {
	return in.isAdmin
}

type UpdateConversationStatus struct {
	ConversationID string             `json:"-"`
	Status         ConversationStatus `json:"status"`
}

func (in *UpdateConversationStatus) Validate() error {
	v := validator.New()

	if !id.Valid(in.ConversationID) {
		v.AddError("ConversationID", "Conversation ID is invalid")
	}
	if !in.Status.Valid() {
		v.AddError("Status", "Status must be open or closed")
	}

	return v.AsError()
}
