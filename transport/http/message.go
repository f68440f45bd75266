package http

import (
	"net/http"

	"github.com/koligo/koligo/types"
	"github.com/matryer/way"
)

func (h *handler) messages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := h.svc.Messages(ctx, types.ListMessages{
		ConversationID: way.Param(ctx, "conversation_id"),
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	if out == nil {
		out = []types.Message{} // non null array
	}

	h.respond(w, out, http.StatusOK)
}

// createMessage accepts either a JSON body or a multipart form
// with a "content" field and an optional "image" file.
func (h *handler) createMessage(w http.ResponseWriter, r *http.Request) {
	var in types.CreateMessage

	multipart, err := parseMultipart(r)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	if multipart {
		in.Content = r.PostFormValue("content")
		in.Image, err = formUpload(r, "image")
		if err != nil {
			h.respondErr(w, err)
			return
		}
	} else if err := decodeJSON(r, &in); err != nil {
		h.respondErr(w, err)
		return
	}

	ctx := r.Context()
	in.ConversationID = way.Param(ctx, "conversation_id")
	out, err := h.svc.CreateMessage(ctx, in)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusCreated)
}

func (h *handler) markConversationRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := h.svc.MarkConversationRead(ctx, types.MarkConversationRead{
		ConversationID: way.Param(ctx, "conversation_id"),
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusOK)
}

func (h *handler) unreadMessagesCount(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.UnreadMessagesCount(r.Context(), types.CountUnreadMessages{
		ConversationIDs: r.URL.Query()["conversation_id"],
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, countRespBody{Count: out}, http.StatusOK)
}
