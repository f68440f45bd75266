package cockroach

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/koligo/koligo/id"
	"github.com/koligo/koligo/types"
	"github.com/nicolasparada/go-db"
	"github.com/nicolasparada/go-errs"
)

const trackingEventColumns = `
	tracking_events.id,
	tracking_events.assignment_id,
	tracking_events.kind,
	tracking_events.description,
	tracking_events.location,
	tracking_events.lat,
	tracking_events.lng,
	tracking_events.photo_url,
	tracking_events.created_by,
	tracking_events.created_at
`

type createTrackingEvent struct {
	assignmentID string
	kind         types.TrackingEventKind
	description  string
	location     *string
	lat          *float64
	lng          *float64
	photoURL     *string
	createdBy    string
}

func (c *Cockroach) CreateTrackingEvent(ctx context.Context, in types.CreateTrackingEvent) (types.TrackingEvent, error) {
	return c.createTrackingEvent(ctx, createTrackingEvent{
		assignmentID: in.AssignmentID,
		kind:         in.Kind,
		description:  in.Description,
		location:     in.Location,
		lat:          in.Lat,
		lng:          in.Lng,
		photoURL:     in.PhotoURL(),
		createdBy:    in.LoggedInUserID(),
	})
}

func (c *Cockroach) createTrackingEvent(ctx context.Context, in createTrackingEvent) (types.TrackingEvent, error) {
	var out types.TrackingEvent

	const q = `
		INSERT INTO tracking_events (id, assignment_id, kind, description, location, lat, lng, photo_url, created_by)
		VALUES (@event_id, @assignment_id, @kind, @description, @location, @lat, @lng, @photo_url, @created_by)
		RETURNING ` + trackingEventColumns

	rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
		"event_id":      id.Generate(),
		"assignment_id": in.assignmentID,
		"kind":          in.kind,
		"description":   in.description,
		"location":      in.location,
		"lat":           in.lat,
		"lng":           in.lng,
		"photo_url":     in.photoURL,
		"created_by":    in.createdBy,
	})
	if err != nil {
		return out, fmt.Errorf("sql insert tracking event: %w", err)
	}

	out, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByNameLax[types.TrackingEvent])
	if isForeignKeyViolation(err) {
		return out, errAssignmentNotFound
	}

	if err != nil {
		return out, fmt.Errorf("sql collect inserted tracking event: %w", err)
	}

	return out, nil
}

// TrackingEvents returns the timeline of an assignment oldest first.
func (c *Cockroach) TrackingEvents(ctx context.Context, in types.ListTrackingEvents) ([]types.TrackingEvent, error) {
	const q = `
		SELECT ` + trackingEventColumns + `
		FROM tracking_events
		WHERE tracking_events.assignment_id = @assignment_id
		ORDER BY tracking_events.created_at ASC, tracking_events.id ASC
	`

	rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
		"assignment_id": in.AssignmentID,
	})
	if err != nil {
		return nil, fmt.Errorf("sql select tracking events: %w", err)
	}

	out, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[types.TrackingEvent])
	if err != nil {
		return nil, fmt.Errorf("sql collect tracking events: %w", err)
	}

	return out, nil
}

func (c *Cockroach) LatestTrackingEvent(ctx context.Context, assignmentID string) (types.TrackingEvent, error) {
	var out types.TrackingEvent

	const q = `
		SELECT ` + trackingEventColumns + `
		FROM tracking_events
		WHERE tracking_events.assignment_id = @assignment_id
		ORDER BY tracking_events.created_at DESC, tracking_events.id DESC
		LIMIT 1
	`

	rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
		"assignment_id": assignmentID,
	})
	if err != nil {
		return out, fmt.Errorf("sql select latest tracking event: %w", err)
	}

	out, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByNameLax[types.TrackingEvent])
	if db.IsNotFoundError(err) {
		return out, errs.NotFoundError("tracking event not found")
	}

	if err != nil {
		return out, fmt.Errorf("sql collect latest tracking event: %w", err)
	}

	return out, nil
}
