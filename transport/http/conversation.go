package http

import (
	"net/http"

	"github.com/koligo/koligo/types"
	"github.com/matryer/way"
)

func (h *handler) conversations(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Conversations(r.Context())
	if err != nil {
		h.respondErr(w, err)
		return
	}

	if out == nil {
		out = []types.Conversation{} // non null array
	}

	h.respond(w, out, http.StatusOK)
}

func (h *handler) startConversation(w http.ResponseWriter, r *http.Request) {
	var in types.StartConversation
	if err := decodeJSON(r, &in); err != nil {
		h.respondErr(w, err)
		return
	}

	out, err := h.svc.StartConversation(r.Context(), in)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusOK)
}

func (h *handler) supportConversation(w http.ResponseWriter, r *http.Request) {
	var in types.SupportConversation
	if err := decodeJSON(r, &in); err != nil {
		h.respondErr(w, err)
		return
	}

	out, err := h.svc.SupportConversation(r.Context(), in)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusOK)
}

func (h *handler) conversationIDs(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.ConversationIDs(r.Context())
	if err != nil {
		h.respondErr(w, err)
		return
	}

	if out == nil {
		out = []string{} // non null array
	}

	h.respond(w, out, http.StatusOK)
}

func (h *handler) conversation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := h.svc.Conversation(ctx, types.RetrieveConversation{
		ConversationID: way.Param(ctx, "conversation_id"),
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusOK)
}

func (h *handler) updateConversationStatus(w http.ResponseWriter, r *http.Request) {
	var in types.UpdateConversationStatus
	if err := decodeJSON(r, &in); err != nil {
		h.respondErr(w, err)
		return
	}

	ctx := r.Context()
	in.ConversationID = way.Param(ctx, "conversation_id")
	out, err := h.svc.UpdateConversationStatus(ctx, in)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusOK)
}
