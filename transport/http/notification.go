package http

import (
	"net/http"

	"github.com/koligo/koligo/types"
	"github.com/matryer/way"
)

func (h *handler) notifications(w http.ResponseWriter, r *http.Request) {
	pageArgs, err := parsePageArgs(r.URL.Query())
	if err != nil {
		h.respondErr(w, err)
		return
	}

	out, err := h.svc.Notifications(r.Context(), types.ListNotifications{PageArgs: pageArgs})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	if out.Items == nil {
		out.Items = []types.Notification{} // non null array
	}

	h.respond(w, out, http.StatusOK)
}

func (h *handler) readNotification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := h.svc.ReadNotification(ctx, types.ReadNotification{
		NotificationID: way.Param(ctx, "notification_id"),
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusOK)
}

func (h *handler) readAllNotifications(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ReadAllNotifications(r.Context()); err != nil {
		h.respondErr(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) unreadNotificationsCount(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.UnreadNotificationsCount(r.Context())
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, countRespBody{Count: out}, http.StatusOK)
}

func (h *handler) addWebPushSubscription(w http.ResponseWriter, r *http.Request) {
	var in types.AddWebPushSubscription
	if err := decodeJSON(r, &in); err != nil {
		h.respondErr(w, err)
		return
	}

	if err := h.svc.AddWebPushSubscription(r.Context(), in); err != nil {
		h.respondErr(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
