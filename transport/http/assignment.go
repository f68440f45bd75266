package http

import (
	"context"
	"net/http"

	"github.com/koligo/koligo/types"
	"github.com/matryer/way"
)

func (h *handler) assignment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := h.svc.Assignment(ctx, types.RetrieveAssignment{
		AssignmentID: way.Param(ctx, "assignment_id"),
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusOK)
}

func (h *handler) confirmPickup(w http.ResponseWriter, r *http.Request) {
	h.confirmStep(w, r, h.svc.ConfirmPickup)
}

func (h *handler) confirmDelivery(w http.ResponseWriter, r *http.Request) {
	h.confirmStep(w, r, h.svc.ConfirmDelivery)
}

func (h *handler) confirmStep(w http.ResponseWriter, r *http.Request, confirm func(ctx context.Context, in types.ConfirmStep) (types.StepConfirmed, error)) {
	var in types.ConfirmStep
	if err := decodeJSON(r, &in); err != nil {
		h.respondErr(w, err)
		return
	}

	ctx := r.Context()
	in.AssignmentID = way.Param(ctx, "assignment_id")
	out, err := confirm(ctx, in)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, struct {
		Assignment types.AssignmentView `json:"assignment"`
		Event      types.TrackingEvent  `json:"event"`
	}{
		Assignment: types.NewAssignmentView(out.Assignment),
		Event:      out.Event,
	}, http.StatusOK)
}

func (h *handler) releasePayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := h.svc.ReleasePayment(ctx, types.RetrieveAssignment{
		AssignmentID: way.Param(ctx, "assignment_id"),
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusOK)
}

func (h *handler) trackingEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := h.svc.TrackingEvents(ctx, types.ListTrackingEvents{
		AssignmentID: way.Param(ctx, "assignment_id"),
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	if out == nil {
		out = []types.TrackingEvent{} // non null array
	}

	h.respond(w, out, http.StatusOK)
}

// createTrackingEvent accepts either a JSON body or a multipart form
// with an optional "photo" file.
func (h *handler) createTrackingEvent(w http.ResponseWriter, r *http.Request) {
	var in types.CreateTrackingEvent

	multipart, err := parseMultipart(r)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	if multipart {
		in.Kind = types.TrackingEventKind(r.PostFormValue("kind"))
		in.Description = r.PostFormValue("description")
		in.Location = formOptional(r, "location")
		if in.Lat, err = formFloat(r, "lat"); err != nil {
			h.respondErr(w, err)
			return
		}
		if in.Lng, err = formFloat(r, "lng"); err != nil {
			h.respondErr(w, err)
			return
		}
		if in.Photo, err = formUpload(r, "photo"); err != nil {
			h.respondErr(w, err)
			return
		}
	} else if err := decodeJSON(r, &in); err != nil {
		h.respondErr(w, err)
		return
	}

	ctx := r.Context()
	in.AssignmentID = way.Param(ctx, "assignment_id")
	out, err := h.svc.CreateTrackingEvent(ctx, in)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusCreated)
}

func (h *handler) trackingSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := h.svc.TrackingSummary(ctx, types.RetrieveAssignment{
		AssignmentID: way.Param(ctx, "assignment_id"),
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusOK)
}
