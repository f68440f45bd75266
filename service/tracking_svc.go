package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hako/durafmt"
	"github.com/koligo/koligo/auth"
	"github.com/koligo/koligo/minio"
	"github.com/koligo/koligo/ptr"
	"github.com/koligo/koligo/types"
	"github.com/nicolasparada/go-errs"
)

var errTravelerOnly = errs.PermissionDeniedError("only the traveler can confirm this step")

func (svc *Service) Assignment(ctx context.Context, in types.RetrieveAssignment) (types.AssignmentView, error) {
	var out types.AssignmentView

	if err := in.Validate(); err != nil {
		return out, err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return out, errs.Unauthenticated
	}

	assignment, err := svc.partyAssignment(ctx, loggedInUser, in.AssignmentID)
	if err != nil {
		return out, err
	}

	return types.NewAssignmentView(assignment), nil
}

// ConfirmPickup moves a ready for pickup assignment to in transit.
func (svc *Service) ConfirmPickup(ctx context.Context, in types.ConfirmStep) (types.StepConfirmed, error) {
	return svc.confirmStep(ctx, in, types.AssignmentStatusReadyForPickup, svc.Cockroach.ConfirmPickup)
}

// ConfirmDelivery moves an in transit assignment to delivered.
func (svc *Service) ConfirmDelivery(ctx context.Context, in types.ConfirmStep) (types.StepConfirmed, error) {
	return svc.confirmStep(ctx, in, types.AssignmentStatusInTransit, svc.Cockroach.ConfirmDelivery)
}

func (svc *Service) confirmStep(
	ctx context.Context,
	in types.ConfirmStep,
	from types.AssignmentStatus,
	confirm func(context.Context, types.ConfirmStep) (types.StepConfirmed, error),
) (types.StepConfirmed, error) {
	var out types.StepConfirmed

	if err := in.Validate(); err != nil {
		return out, err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return out, errs.Unauthenticated
	}

	in.SetLoggedInUserID(loggedInUser.ID)

	assignment, err := svc.partyAssignment(ctx, loggedInUser, in.AssignmentID)
	if err != nil {
		return out, err
	}

	if assignment.TravelerID != loggedInUser.ID {
		return out, errTravelerOnly
	}

	if status := assignment.Status(); status != from {
		return out, errs.InvalidArgumentError(fmt.Sprintf("assignment is %s", status))
	}

	out, err = confirm(ctx, in)
	if err != nil {
		return out, err
	}

	svc.background(func(ctx context.Context) error {
		return errors.Join(
			svc.publishAssignment(out.Assignment),
			svc.publishTrackingEvent(out.Event),
		)
	})

	svc.background(func(ctx context.Context) error {
		return svc.notify(ctx, stepNotification(out))
	})

	return out, nil
}

func stepNotification(step types.StepConfirmed) types.CreateNotification {
	n := types.CreateNotification{
		UserID: step.Assignment.SenderID,
		Kind:   types.NotificationKindInfo,
		Link:   ptr.From(fmt.Sprintf("/assignments/%s", step.Assignment.ID)),
	}

	if step.Event.Kind == types.TrackingEventKindDelivered {
		n.Title = "Package delivered"
		n.Kind = types.NotificationKindSuccess
	} else {
		n.Title = "Package picked up"
	}
	n.Message = step.Event.Description

	return n
}

// ReleasePayment is only available to admins.
func (svc *Service) ReleasePayment(ctx context.Context, in types.RetrieveAssignment) (types.AssignmentView, error) {
	var out types.AssignmentView

	if err := in.Validate(); err != nil {
		return out, err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return out, errs.Unauthenticated
	}

	if !loggedInUser.IsAdmin() {
		return out, errs.PermissionDenied
	}

	assignment, err := svc.Cockroach.ReleasePayment(ctx, in.AssignmentID)
	if err != nil {
		return out, err
	}

	svc.background(func(ctx context.Context) error {
		return svc.publishAssignment(assignment)
	})

	svc.background(func(ctx context.Context) error {
		return svc.notify(ctx, types.CreateNotification{
			UserID:  assignment.TravelerID,
			Title:   "Payment secured",
			Message: "The package is ready for pickup.",
			Kind:    types.NotificationKindSuccess,
			Link:    ptr.From(fmt.Sprintf("/assignments/%s", assignment.ID)),
		})
	})

	return types.NewAssignmentView(assignment), nil
}

func (svc *Service) TrackingEvents(ctx context.Context, in types.ListTrackingEvents) ([]types.TrackingEvent, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return nil, errs.Unauthenticated
	}

	if _, err := svc.partyAssignment(ctx, loggedInUser, in.AssignmentID); err != nil {
		return nil, err
	}

	return svc.Cockroach.TrackingEvents(ctx, in)
}

// CreateTrackingEvent logs a progress event.
// Pickup and delivered events only come from their confirmations.
func (svc *Service) CreateTrackingEvent(ctx context.Context, in types.CreateTrackingEvent) (types.TrackingEvent, error) {
	var out types.TrackingEvent

	if err := in.Validate(); err != nil {
		return out, err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return out, errs.Unauthenticated
	}

	in.SetLoggedInUserID(loggedInUser.ID)

	assignment, err := svc.partyAssignment(ctx, loggedInUser, in.AssignmentID)
	if err != nil {
		return out, err
	}

	if assignment.TravelerID != loggedInUser.ID && !loggedInUser.IsAdmin() {
		return out, errs.PermissionDeniedError("only the traveler can log tracking events")
	}

	if assignment.Status() == types.AssignmentStatusDelivered {
		return out, errs.ConflictError("assignment already delivered")
	}

	cleanup := func() {}
	if in.Photo != nil {
		attachment, err := processImage(*in.Photo)
		if err != nil {
			return out, err
		}

		cleanup, err = svc.Minio.Upload(ctx, minio.BucketTrackingPhotos, attachment)
		if err != nil {
			return out, err
		}

		in.SetPhotoURL(svc.Minio.ObjectURL(minio.BucketTrackingPhotos, attachment.Path))
	}

	out, err = svc.Cockroach.CreateTrackingEvent(ctx, in)
	if err != nil {
		go cleanup()
		return out, err
	}

	svc.background(func(ctx context.Context) error {
		return svc.publishTrackingEvent(out)
	})

	return out, nil
}

// TrackingSummary condenses an assignment timeline into its status,
// latest event and human readable durations.
func (svc *Service) TrackingSummary(ctx context.Context, in types.RetrieveAssignment) (types.TrackingSummary, error) {
	var out types.TrackingSummary

	if err := in.Validate(); err != nil {
		return out, err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return out, errs.Unauthenticated
	}

	assignment, err := svc.partyAssignment(ctx, loggedInUser, in.AssignmentID)
	if err != nil {
		return out, err
	}

	latest, err := svc.Cockroach.LatestTrackingEvent(ctx, in.AssignmentID)
	if err != nil && !errors.Is(err, errs.NotFound) {
		return out, err
	}

	out = summarize(assignment, time.Now())
	if err == nil {
		out.Latest = &latest
	}

	return out, nil
}

func summarize(a types.Assignment, now time.Time) types.TrackingSummary {
	out := types.TrackingSummary{
		AssignmentID: a.ID,
		Status:       a.Status(),
	}

	switch {
	case a.PickupCompletedAt != nil && a.DeliveryCompletedAt != nil:
		out.TookFor = ptr.From(humanDuration(a.DeliveryCompletedAt.Sub(*a.PickupCompletedAt)))
	case a.PickupCompletedAt != nil:
		out.InTransitFor = ptr.From(humanDuration(now.Sub(*a.PickupCompletedAt)))
	}

	return out
}

func humanDuration(d time.Duration) string {
	if d < time.Minute {
		return "less than a minute"
	}

	return durafmt.Parse(d.Truncate(time.Minute)).LimitFirstN(2).String()
}
