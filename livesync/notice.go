package livesync

import (
	"context"
	"errors"

	"github.com/koligo/koligo/validator"
	"github.com/nicolasparada/go-errs"
)

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeWarning NoticeKind = "warning"
	NoticeError   NoticeKind = "error"
)

// Notice is the user facing outcome of an action.
type Notice struct {
	Kind    NoticeKind
	Action  string
	Message string
	Err     error
}

type Notifier interface {
	Notify(Notice)
}

type NotifierFunc func(Notice)

func (fn NotifierFunc) Notify(n Notice) {
	fn(n)
}

type discardNotifier struct{}

func (discardNotifier) Notify(Notice) {}

// failureMessage tells "not allowed" apart from "broke".
func failureMessage(action string, err error) string {
	var v *validator.Validator
	switch {
	case errors.As(err, &v):
		return "Could not " + action + ": " + v.Error()
	case errors.Is(err, errs.PermissionDenied):
		return "You are not allowed to " + action + "."
	case errors.Is(err, errs.Unauthenticated):
		return "Your session expired. Log in again to " + action + "."
	case errors.Is(err, errs.NotFound):
		return "Could not " + action + ": it no longer exists."
	case errors.Is(err, context.DeadlineExceeded):
		return "Could not " + action + ": the server took too long to answer."
	}
	return "Could not " + action + ". Try again."
}
