package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/koligo/koligo/types"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
	sseKeepAlive = 30 * time.Second
)

func changeFilterFromQuery(r *http.Request) types.ChangeFilter {
	q := r.URL.Query()
	return types.ChangeFilter{
		Table:  types.Table(q.Get("table")),
		Column: q.Get("column"),
		Value:  q.Get("value"),
	}
}

// changes streams the change-feed of one filter as server-sent events.
func (h *handler) changes(w http.ResponseWriter, r *http.Request) {
	f, ok := w.(http.Flusher)
	if !ok {
		h.respondErr(w, errStreamingUnsupported)
		return
	}

	ctx := r.Context()
	filter := changeFilterFromQuery(r)
	cc, err := h.svc.Subscribe(ctx, filter)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	gauge := h.metrics.FeedSubscribers.WithLabelValues(filter.Table.String(), "sse")
	gauge.Inc()
	defer gauge.Dec()

	header := w.Header()
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("Content-Type", "text/event-stream; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	// announces the subscription is live.
	_, _ = w.Write([]byte(": subscribed\n\n"))
	f.Flush()

	ticker := time.NewTicker(sseKeepAlive)
	defer ticker.Stop()

	for {
		select {
		case c, ok := <-cc:
			if !ok {
				return
			}

			h.writeSSE(w, c)
			f.Flush()
		case <-ticker.C:
			_, _ = w.Write([]byte(": ping\n\n"))
			f.Flush()
		case <-ctx.Done():
			return
		}
	}
}

// changesWebsocket streams the change-feed of one filter as websocket
// JSON text frames.
func (h *handler) changesWebsocket(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// subscribed before upgrading so failures get a proper HTTP status.
	filter := changeFilterFromQuery(r)
	cc, err := h.svc.Subscribe(ctx, filter)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("could not upgrade websocket", "err", err)
		return
	}

	defer conn.Close()

	gauge := h.metrics.FeedSubscribers.WithLabelValues(filter.Table.String(), "websocket")
	gauge.Inc()
	defer gauge.Dec()

	// the read loop only serves control frames and detects the peer going away.
	go func() {
		defer cancel()

		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})

		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case c, ok := <-cc:
			if !ok {
				return
			}

			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(c); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(wsWriteWait))
			return
		}
	}
}
