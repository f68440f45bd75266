package types

import (
	"strings"
	"time"

	"github.com/koligo/koligo/id"
	"github.com/koligo/koligo/validator"
)

type Notification struct {
	ID        string           `db:"id" json:"id"`
	UserID    string           `db:"user_id" json:"userID"`
	Title     string           `db:"title" json:"title"`
	Message   string           `db:"message" json:"message"`
	Kind      NotificationKind `db:"kind" json:"kind"`
	Link      *string          `db:"link" json:"link"`
	Read      bool             `db:"read" json:"read"`
	CreatedAt time.Time        `db:"created_at" json:"createdAt"`
}

func (n Notification) RecordID() string { return n.ID }

func (n Notification) RecordTime() time.Time { return n.CreatedAt }

type NotificationKind string

func (k NotificationKind) String() string {
	return string(k)
}

const (
	NotificationKindInfo    NotificationKind = "info"
	NotificationKindSuccess NotificationKind = "success"
	NotificationKindWarning NotificationKind = "warning"
	NotificationKindError   NotificationKind = "error"
)

func (k NotificationKind) Valid() bool {
	switch k {
	case NotificationKindInfo, NotificationKindSuccess, NotificationKindWarning, NotificationKindError:
		return true
	}
	return false
}

// CreateNotification is only issued by the service fan-out,
// never directly by clients.
type CreateNotification struct {
	UserID  string
	Title   string
	Message string
	Kind    NotificationKind
	Link    *string
}

func (in *CreateNotification) Validate() error {
	v := validator.New()

	in.Title = strings.TrimSpace(in.Title)
	in.Message = strings.TrimSpace(in.Message)

	if !id.Valid(in.UserID) {
		v.AddError("UserID", "User ID is invalid")
	}
	if in.Title == "" {
		v.AddError("Title", "Title is required")
	}
	if !in.Kind.Valid() {
		v.AddError("Kind", "Kind is invalid")
	}

	return v.AsError()
}

type ListNotifications struct {
	PageArgs PageArgs

	userID string
}

func (in *ListNotifications) SetUserID(userID string) {
	in.userID = userID
}

func (in ListNotifications) UserID() string {
	return in.userID
}

type ReadNotification struct {
	NotificationID string
	userID         string
}

func (in *ReadNotification) SetUserID(userID string) {
	in.userID = userID
}

func (in ReadNotification) UserID() string {
	return in.userID
}

func (in *ReadNotification) Validate() error {
	v := validator.New()

	if in.NotificationID == "" {
		v.AddError("NotificationID", "Notification ID is required")
	} else if !id.Valid(in.NotificationID) {
		v.AddError("NotificationID", "Notification ID is invalid")
	}

	return v.AsError()
}
