package types

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/koligo/koligo/emoji"
	"github.com/koligo/koligo/id"
	"github.com/koligo/koligo/validator"
)

// TrackingEvent is an append-only log entry of an assignment.
type TrackingEvent struct {
	ID           string            `db:"id" json:"id"`
	AssignmentID string            `db:"assignment_id" json:"assignmentID"`
	Kind         TrackingEventKind `db:"kind" json:"kind"`
	Description  string            `db:"description" json:"description"`
	Location     *string           `db:"location" json:"location"`
	Lat          *float64          `db:"lat" json:"lat"`
	Lng          *float64          `db:"lng" json:"lng"`
	PhotoURL     *string           `db:"photo_url" json:"photoURL"`
	CreatedBy    string            `db:"created_by" json:"createdBy"`
	CreatedAt    time.Time         `db:"created_at" json:"createdAt"`
}

func (e TrackingEvent) RecordID() string { return e.ID }

func (e TrackingEvent) RecordTime() time.Time { return e.CreatedAt }

type TrackingEventKind string

const (
	TrackingEventKindPickup         TrackingEventKind = "pickup"
	TrackingEventKindInTransit      TrackingEventKind = "in_transit"
	TrackingEventKindDelivered      TrackingEventKind = "delivered"
	TrackingEventKindLocationUpdate TrackingEventKind = "location_update"
	TrackingEventKindCustom         TrackingEventKind = "custom"
)

func (k TrackingEventKind) String() string {
	return string(k)
}

// Loggable reports whether the kind can be logged by hand.
// Pickup and delivered events are only appended by their confirmations.
func (k TrackingEventKind) Loggable() bool {
	switch k {
	case TrackingEventKindInTransit, TrackingEventKindLocationUpdate, TrackingEventKindCustom:
		return true
	}
	return false
}

type CreateTrackingEvent struct {
	AssignmentID string            `json:"assignmentID"`
	Kind         TrackingEventKind `json:"kind"`
	Description  string            `json:"description"`
	Location     *string           `json:"location"`
	Lat          *float64          `json:"lat"`
	Lng          *float64          `json:"lng"`
	Photo        *Upload           `json:"-"`

	loggedInUserID string
	photoURL       *string
}

func (in *CreateTrackingEvent) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in CreateTrackingEvent) LoggedInUserID() string {
	return in.loggedInUserID
}

func (in *CreateTrackingEvent) SetPhotoURL(url string) {
	in.photoURL = &url
}

func (in CreateTrackingEvent) PhotoURL() *string {
	return in.photoURL
}

func (in *CreateTrackingEvent) Validate() error {
	v := validator.New()

	in.Description = emoji.Expand(strings.TrimSpace(in.Description))
	if in.Location != nil {
		*in.Location = strings.TrimSpace(*in.Location)
		if *in.Location == "" {
			in.Location = nil
		}
	}

	if in.AssignmentID == "" {
		v.AddError("AssignmentID", "Assignment ID is required")
	} else if !id.Valid(in.AssignmentID) {
		v.AddError("AssignmentID", "Assignment ID is invalid")
	}

	if !in.Kind.Loggable() {
		v.AddError("Kind", "Kind must be in_transit, location_update or custom")
	}

	if in.Description == "" && in.Kind == TrackingEventKindCustom {
		v.AddError("Description", "Description is required for custom events")
	}
	if utf8.RuneCountInString(in.Description) > 500 {
		v.AddError("Description", "Description must be at most 500 characters")
	}

	if (in.Lat == nil) != (in.Lng == nil) {
		v.AddError("Lat", "Lat and Lng must be set together")
	}
	if in.Lat != nil && (*in.Lat < -90 || *in.Lat > 90) {
		v.AddError("Lat", "Lat must be between -90 and 90")
	}
	if in.Lng != nil && (*in.Lng < -180 || *in.Lng > 180) {
		v.AddError("Lng", "Lng must be between -180 and 180")
	}

	if in.Kind == TrackingEventKindLocationUpdate && in.Location == nil && in.Lat == nil {
		v.AddError("Location", "Location or coordinates are required for location updates")
	}

	if in.Photo != nil && len(in.Photo.Data) == 0 {
		v.AddError("Photo", "Photo is empty")
	}

	return v.AsError()
}

type ListTrackingEvents struct {
	AssignmentID string
}

func (in *ListTrackingEvents) Validate() error {
	v := validator.New()

	if in.AssignmentID == "" {
		v.AddError("AssignmentID", "Assignment ID is required")
	} else if !id.Valid(in.AssignmentID) {
		v.AddError("AssignmentID", "Assignment ID is invalid")
	}

	return v.AsError()
}

type TrackingSummary struct {
	AssignmentID string           `json:"assignmentID"`
	Status       AssignmentStatus `json:"status"`
	Latest       *TrackingEvent   `json:"latest"`
	// InTransitFor is a human readable duration since pickup,
	// only set while in transit.
	InTransitFor *string `json:"inTransitFor"`
	// TookFor is the human readable duration between pickup and delivery.
	TookFor *string `json:"tookFor"`
}
