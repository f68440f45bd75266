package cockroach

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/koligo/koligo/types"
	"github.com/nicolasparada/go-db"
	"github.com/nicolasparada/go-errs"
)

const assignmentColumns = `
	assignments.id,
	assignments.shipment_id,
	assignments.sender_id,
	assignments.traveler_id,
	assignments.payment_status,
	assignments.pickup_completed_at,
	assignments.delivery_completed_at,
	assignments.created_at,
	assignments.updated_at
`

var (
	errAssignmentNotFound = errs.NotFoundError("assignment not found")
	errStepAlreadyTaken   = errs.ConflictError("assignment is not in the expected status")
)

func (c *Cockroach) Assignment(ctx context.Context, assignmentID string) (types.Assignment, error) {
	var out types.Assignment

	const q = `SELECT ` + assignmentColumns + ` FROM assignments WHERE assignments.id = @assignment_id`

	rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
		"assignment_id": assignmentID,
	})
	if err != nil {
		return out, fmt.Errorf("sql select assignment: %w", err)
	}

	out, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByNameLax[types.Assignment])
	if db.IsNotFoundError(err) {
		return out, errAssignmentNotFound
	}

	if err != nil {
		return out, fmt.Errorf("sql collect assignment: %w", err)
	}

	return out, nil
}

// ConfirmPickup stamps pickup_completed_at and appends the pickup event
// in the same transaction.
// The update only applies while the assignment is ready for pickup.
func (c *Cockroach) ConfirmPickup(ctx context.Context, in types.ConfirmStep) (types.StepConfirmed, error) {
	const q = `
		UPDATE assignments
		SET pickup_completed_at = now(), updated_at = now()
		WHERE id = @assignment_id
			AND traveler_id = @user_id
			AND payment_status = 'released'
			AND pickup_completed_at IS NULL
		RETURNING ` + assignmentColumns

	return c.confirmStep(ctx, in, q, types.TrackingEventKindPickup, "Package picked up")
}

// ConfirmDelivery stamps delivery_completed_at, appends the delivered event
// and marks the shipment as delivered in the same transaction.
func (c *Cockroach) ConfirmDelivery(ctx context.Context, in types.ConfirmStep) (types.StepConfirmed, error) {
	const q = `
		UPDATE assignments
		SET delivery_completed_at = now(), updated_at = now()
		WHERE id = @assignment_id
			AND traveler_id = @user_id
			AND pickup_completed_at IS NOT NULL
			AND delivery_completed_at IS NULL
		RETURNING ` + assignmentColumns

	return c.confirmStep(ctx, in, q, types.TrackingEventKindDelivered, "Package delivered")
}

func (c *Cockroach) confirmStep(ctx context.Context, in types.ConfirmStep, q string, kind types.TrackingEventKind, defaultDescription string) (types.StepConfirmed, error) {
	var out types.StepConfirmed
	return out, c.db.RunTx(ctx, func(ctx context.Context) error {
		rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
			"assignment_id": in.AssignmentID,
			"user_id":       in.LoggedInUserID(),
		})
		if err != nil {
			return fmt.Errorf("sql update assignment %s: %w", kind, err)
		}

		assignment, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByNameLax[types.Assignment])
		if db.IsNotFoundError(err) {
			return errStepAlreadyTaken
		}

		if err != nil {
			return fmt.Errorf("sql collect updated assignment: %w", err)
		}

		description := in.Description
		if description == "" {
			description = defaultDescription
		}

		event, err := c.createTrackingEvent(ctx, createTrackingEvent{
			assignmentID: assignment.ID,
			kind:         kind,
			description:  description,
			location:     in.Location,
			createdBy:    in.LoggedInUserID(),
		})
		if err != nil {
			return err
		}

		if kind == types.TrackingEventKindDelivered && assignment.ShipmentID != nil {
			if err := c.updateShipmentStatus(ctx, *assignment.ShipmentID, types.ShipmentStatusDelivered); err != nil {
				return err
			}
		}

		out.Assignment = assignment
		out.Event = event
		return nil
	})
}

// ReleasePayment moves a pending or held payment to released.
func (c *Cockroach) ReleasePayment(ctx context.Context, assignmentID string) (types.Assignment, error) {
	var out types.Assignment

	const q = `
		UPDATE assignments
		SET payment_status = 'released', updated_at = now()
		WHERE id = @assignment_id AND payment_status IN ('pending', 'held')
		RETURNING ` + assignmentColumns

	rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
		"assignment_id": assignmentID,
	})
	if err != nil {
		return out, fmt.Errorf("sql update assignment payment status: %w", err)
	}

	out, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByNameLax[types.Assignment])
	if db.IsNotFoundError(err) {
		return out, errStepAlreadyTaken
	}

	if err != nil {
		return out, fmt.Errorf("sql collect updated assignment: %w", err)
	}

	return out, nil
}
