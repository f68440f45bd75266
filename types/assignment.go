package types

import (
	"time"

	"github.com/koligo/koligo/id"
	"github.com/koligo/koligo/validator"
)

type Assignment struct {
	ID                  string        `db:"id" json:"id"`
	ShipmentID          *string       `db:"shipment_id" json:"shipmentID"`
	SenderID            string        `db:"sender_id" json:"senderID"`
	TravelerID          string        `db:"traveler_id" json:"travelerID"`
	PaymentStatus       PaymentStatus `db:"payment_status" json:"paymentStatus"`
	PickupCompletedAt   *time.Time    `db:"pickup_completed_at" json:"pickupCompletedAt"`
	DeliveryCompletedAt *time.Time    `db:"delivery_completed_at" json:"deliveryCompletedAt"`
	CreatedAt           time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time     `db:"updated_at" json:"updatedAt"`
}

// Status is recomputed on every call, it is never stored.
func (a Assignment) Status() AssignmentStatus {
	return DeriveStatus(a.PaymentStatus, a.PickupCompletedAt, a.DeliveryCompletedAt)
}

func (a Assignment) HasParty(userID string) bool {
	return a.SenderID == userID || a.TravelerID == userID
}

// NextAction returns the single forward action available to the traveler,
// if any.
func (a Assignment) NextAction() (AssignmentAction, bool) {
	switch a.Status() {
	case AssignmentStatusReadyForPickup:
		return AssignmentActionConfirmPickup, true
	case AssignmentStatusInTransit:
		return AssignmentActionConfirmDelivery, true
	}
	return "", false
}

// AssignmentView is an assignment together with its derived status
// as sent over the wire.
type AssignmentView struct {
	Assignment
	Status AssignmentStatus `json:"status"`
}

func NewAssignmentView(a Assignment) AssignmentView {
	return AssignmentView{Assignment: a, Status: a.Status()}
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusHeld     PaymentStatus = "held"
	PaymentStatusReleased PaymentStatus = "released"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) String() string {
	return string(s)
}

type AssignmentStatus string

const (
	AssignmentStatusPendingPayment AssignmentStatus = "pending_payment"
	AssignmentStatusReadyForPickup AssignmentStatus = "ready_for_pickup"
	AssignmentStatusInTransit      AssignmentStatus = "in_transit"
	AssignmentStatusDelivered      AssignmentStatus = "delivered"
)

func (s AssignmentStatus) String() string {
	return string(s)
}

// DeriveStatus computes the presentation status of an assignment
// from its three source fields.
func DeriveStatus(paymentStatus PaymentStatus, pickupAt, deliveryAt *time.Time) AssignmentStatus {
	switch {
	case deliveryAt != nil:
		return AssignmentStatusDelivered
	case pickupAt != nil:
		return AssignmentStatusInTransit
	case paymentStatus == PaymentStatusReleased:
		return AssignmentStatusReadyForPickup
	default:
		return AssignmentStatusPendingPayment
	}
}

type AssignmentAction string

const (
	AssignmentActionConfirmPickup   AssignmentAction = "confirm_pickup"
	AssignmentActionConfirmDelivery AssignmentAction = "confirm_delivery"
)

type RetrieveAssignment struct {
	AssignmentID string
}

func (in *RetrieveAssignment) Validate() error {
	v := validator.New()

	if in.AssignmentID == "" {
		v.AddError("AssignmentID", "Assignment ID is required")
	} else if !id.Valid(in.AssignmentID) {
		v.AddError("AssignmentID", "Assignment ID is invalid")
	}

	return v.AsError()
}

// ConfirmStep stamps one completion timestamp of an assignment
// and appends its tracking event.
type ConfirmStep struct {
	AssignmentID string  `json:"-"`
	Description  string  `json:"description"`
	Location     *string `json:"location"`

	loggedInUserID string
}

func (in *ConfirmStep) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in ConfirmStep) LoggedInUserID() string {
	return in.loggedInUserID
}

func (in *ConfirmStep) Validate() error {
	v := validator.New()

	if in.AssignmentID == "" {
		v.AddError("AssignmentID", "Assignment ID is required")
	} else if !id.Valid(in.AssignmentID) {
		v.AddError("AssignmentID", "Assignment ID is invalid")
	}

	return v.AsError()
}

type StepConfirmed struct {
	Assignment Assignment    `json:"assignment"`
	Event      TrackingEvent `json:"event"`
}
