package cockroach

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/koligo/koligo/types"
	"github.com/nicolasparada/go-db"
	"github.com/nicolasparada/go-errs"
)

const shipmentColumns = `shipments.id, shipments.sender_id, shipments.title, shipments.status, shipments.created_at`

var (
	errShipmentNotFound     = errs.NotFoundError("shipment not found")
	errShipmentNotDelivered = errs.PermissionDeniedError("shipment can only be deleted once delivered")
)

func (c *Cockroach) Shipment(ctx context.Context, shipmentID string) (types.Shipment, error) {
	var out types.Shipment

	const q = `SELECT ` + shipmentColumns + ` FROM shipments WHERE shipments.id = @shipment_id`

	rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
		"shipment_id": shipmentID,
	})
	if err != nil {
		return out, fmt.Errorf("sql select shipment: %w", err)
	}

	out, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByNameLax[types.Shipment])
	if db.IsNotFoundError(err) {
		return out, errShipmentNotFound
	}

	if err != nil {
		return out, fmt.Errorf("sql collect shipment: %w", err)
	}

	return out, nil
}

// DeleteShipment removes a shipment owned by the logged in user.
// Only delivered shipments can be deleted.
func (c *Cockroach) DeleteShipment(ctx context.Context, in types.DeleteShipment) error {
	return c.db.RunTx(ctx, func(ctx context.Context) error {
		const q = `
			DELETE FROM shipments
			WHERE id = @shipment_id AND sender_id = @user_id AND status = 'delivered'
		`

		tag, err := c.db.Exec(ctx, q, pgx.StrictNamedArgs{
			"shipment_id": in.ShipmentID,
			"user_id":     in.LoggedInUserID(),
		})
		if err != nil {
			return fmt.Errorf("sql delete shipment: %w", err)
		}

		if tag.RowsAffected() != 0 {
			return nil
		}

		shipment, err := c.Shipment(ctx, in.ShipmentID)
		if err != nil {
			return err
		}

		if shipment.SenderID != in.LoggedInUserID() {
			return errs.PermissionDenied
		}

		return errShipmentNotDelivered
	})
}

func (c *Cockroach) updateShipmentStatus(ctx context.Context, shipmentID string, status types.ShipmentStatus) error {
	const q = `UPDATE shipments SET status = @status WHERE id = @shipment_id`

	_, err := c.db.Exec(ctx, q, pgx.StrictNamedArgs{
		"shipment_id": shipmentID,
		"status":      status,
	})
	if err != nil {
		return fmt.Errorf("sql update shipment status: %w", err)
	}

	return nil
}
