package http

import (
	"net/http"

	"github.com/koligo/koligo/types"
	"github.com/matryer/way"
)

func (h *handler) deleteShipment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	err := h.svc.DeleteShipment(ctx, types.DeleteShipment{
		ShipmentID: way.Param(ctx, "shipment_id"),
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
