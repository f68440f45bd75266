package types

import (
	"time"

	"github.com/koligo/koligo/id"
	"github.com/koligo/koligo/validator"
)

type Shipment struct {
	ID        string         `db:"id" json:"id"`
	SenderID  string         `db:"sender_id" json:"senderID"`
	Title     string         `db:"title" json:"title"`
	Status    ShipmentStatus `db:"status" json:"status"`
	CreatedAt time.Time      `db:"created_at" json:"createdAt"`
}

type ShipmentStatus string

const (
	ShipmentStatusOpen      ShipmentStatus = "open"
	ShipmentStatusMatched   ShipmentStatus = "matched"
	ShipmentStatusDelivered ShipmentStatus = "delivered"
	ShipmentStatusCancelled ShipmentStatus = "cancelled"
)

func (s ShipmentStatus) String() string {
	return string(s)
}

type DeleteShipment struct {
	ShipmentID string

	loggedInUserID string
}

func (in *DeleteShipment) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in DeleteShipment) LoggedInUserID() string {
	return in.loggedInUserID
}

func (in *DeleteShipment) Validate() error {
	v := validator.New()

	if in.ShipmentID == "" {
		v.AddError("ShipmentID", "Shipment ID is required")
	} else if !id.Valid(in.ShipmentID) {
		v.AddError("ShipmentID", "Shipment ID is invalid")
	}

	return v.AsError()
}
