package service

import (
	"context"

	"github.com/koligo/koligo/auth"
	"github.com/koligo/koligo/types"
	"github.com/nicolasparada/go-errs"
)

// DeleteShipment removes a shipment of the logged in user.
// The store rejects shipments that are not delivered yet
// with a permission denied error.
func (svc *Service) DeleteShipment(ctx context.Context, in types.DeleteShipment) error {
	if err := in.Validate(); err != nil {
		return err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return errs.Unauthenticated
	}

	in.SetLoggedInUserID(loggedInUser.ID)

	return svc.Cockroach.DeleteShipment(ctx, in)
}
