package http

import (
	"net/http"

	"github.com/koligo/koligo/types"
)

func (h *handler) devLogin(w http.ResponseWriter, r *http.Request) {
	var in types.DevLogin
	if err := decodeJSON(r, &in); err != nil {
		h.respondErr(w, err)
		return
	}

	out, err := h.svc.DevLogin(r.Context(), in)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusOK)
}

func (h *handler) me(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Me(r.Context())
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusOK)
}
