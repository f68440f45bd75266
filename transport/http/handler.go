package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/koligo/koligo/auth"
	"github.com/koligo/koligo/metrics"
	"github.com/koligo/koligo/service"
	"github.com/matryer/way"
)

type handler struct {
	svc      *service.Service
	logger   *slog.Logger
	metrics  *metrics.Metrics
	upgrader websocket.Upgrader
}

// New builds the API handler.
// Requests authenticate with an "Authorization: Bearer <token>" header
// or, for browser change-feeds that cannot set headers, a "token" query param.
func New(svc *service.Service, logger *slog.Logger, m *metrics.Metrics) http.Handler {
	h := &handler{
		svc:     svc,
		logger:  logger,
		metrics: m,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}

	api := way.NewRouter()

	api.Handle("POST", "/api/dev_login", h.instrument("dev_login", h.devLogin))
	api.Handle("GET", "/api/me", h.instrument("me", h.me))

	api.Handle("GET", "/api/conversations", h.instrument("conversations", h.conversations))
	api.Handle("POST", "/api/conversations", h.instrument("start_conversation", h.startConversation))
	api.Handle("POST", "/api/support_conversation", h.instrument("support_conversation", h.supportConversation))
	api.Handle("GET", "/api/conversation_ids", h.instrument("conversation_ids", h.conversationIDs))
	api.Handle("GET", "/api/conversations/:conversation_id", h.instrument("conversation", h.conversation))
	api.Handle("PATCH", "/api/conversations/:conversation_id", h.instrument("update_conversation", h.updateConversationStatus))
	api.Handle("GET", "/api/conversations/:conversation_id/messages", h.instrument("messages", h.messages))
	api.Handle("POST", "/api/conversations/:conversation_id/messages", h.instrument("create_message", h.createMessage))
	api.Handle("POST", "/api/conversations/:conversation_id/read", h.instrument("mark_conversation_read", h.markConversationRead))
	api.Handle("GET", "/api/unread_messages", h.instrument("unread_messages", h.unreadMessagesCount))

	api.Handle("GET", "/api/assignments/:assignment_id", h.instrument("assignment", h.assignment))
	api.Handle("POST", "/api/assignments/:assignment_id/pickup", h.instrument("confirm_pickup", h.confirmPickup))
	api.Handle("POST", "/api/assignments/:assignment_id/delivery", h.instrument("confirm_delivery", h.confirmDelivery))
	api.Handle("POST", "/api/assignments/:assignment_id/release_payment", h.instrument("release_payment", h.releasePayment))
	api.Handle("GET", "/api/assignments/:assignment_id/tracking_events", h.instrument("tracking_events", h.trackingEvents))
	api.Handle("POST", "/api/assignments/:assignment_id/tracking_events", h.instrument("create_tracking_event", h.createTrackingEvent))
	api.Handle("GET", "/api/assignments/:assignment_id/tracking_summary", h.instrument("tracking_summary", h.trackingSummary))

	api.Handle("GET", "/api/notifications", h.instrument("notifications", h.notifications))
	api.Handle("POST", "/api/notifications/:notification_id/read", h.instrument("read_notification", h.readNotification))
	api.Handle("POST", "/api/notifications/read", h.instrument("read_all_notifications", h.readAllNotifications))
	api.Handle("GET", "/api/unread_notifications", h.instrument("unread_notifications", h.unreadNotificationsCount))
	api.Handle("POST", "/api/web_push_subscriptions", h.instrument("add_web_push_subscription", h.addWebPushSubscription))

	api.Handle("DELETE", "/api/shipments/:shipment_id", h.instrument("delete_shipment", h.deleteShipment))

	api.HandleFunc("GET", "/api/changes", h.changes)
	api.HandleFunc("GET", "/api/changes/ws", h.changesWebsocket)

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.Handle("/api/", h.withAuth(api))

	return mux
}

func (h *handler) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if a := r.Header.Get("Authorization"); strings.HasPrefix(a, "Bearer ") {
			token = strings.TrimPrefix(a, "Bearer ")
		}

		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		user, err := h.svc.UserFromToken(ctx, token)
		if err != nil {
			h.respondErr(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.ContextWithUser(ctx, user)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.code = code
	rec.ResponseWriter.WriteHeader(code)
}

// instrument records the request latency of a route.
// Streaming routes are left out since their duration is the connection lifetime.
func (h *handler) instrument(route string, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next(rec, r)
		h.metrics.HTTPRequestDuration.
			WithLabelValues(route, strconv.Itoa(rec.code)).
			Observe(time.Since(start).Seconds())
	})
}
