// Package client is the HTTP SDK of the KoliGo API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/koligo/koligo/livesync"
	"github.com/koligo/koligo/types"
	"github.com/koligo/koligo/validator"
	"github.com/nicolasparada/go-errs"
)

var ErrUnexpectedResponse = errors.New("unexpected response")

var _ livesync.Backend = (*Client)(nil)

// Client calls the API on behalf of the user the token was issued to.
// It maps error responses back to errs kinds and validator errors.
type Client struct {
	BaseURL    *url.URL
	HTTPClient *http.Client
	Token      string
	// Websocket selects the websocket change-feed instead of SSE.
	Websocket bool
	// DialTimeout bounds how long opening a change-feed can take.
	DialTimeout time.Duration
	Logger      *slog.Logger
}

func New(baseURL string) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url scheme must be http or https, got %q", u.Scheme)
	}

	return &Client{
		BaseURL:     u,
		HTTPClient:  &http.Client{},
		DialTimeout: livesync.DefaultTimeout,
		Logger:      slog.New(slog.DiscardHandler),
	}, nil
}

func (c *Client) url(path string, q url.Values) *url.URL {
	u := c.BaseURL.JoinPath(path)
	if len(q) != 0 {
		u.RawQuery = q.Encode()
	}
	return u
}

func (c *Client) newRequest(ctx context.Context, method, path string, q url.Values, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path, q).String(), body)
	if err != nil {
		return nil, fmt.Errorf("new %s %s request: %w", method, path, err)
	}

	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	return req, nil
}

// do sends in as JSON when not nil and decodes the response into out when not nil.
func (c *Client) do(ctx context.Context, method, path string, q url.Values, in, out any) error {
	var body io.Reader
	var contentType string
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("json marshal %s %s request body: %w", method, path, err)
		}

		body = bytes.NewReader(b)
		contentType = "application/json; charset=utf-8"
	}

	req, err := c.newRequest(ctx, method, path, q, body, contentType)
	if err != nil {
		return err
	}

	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}

	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return respErr(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("json decode %s %s response body: %w", req.Method, req.URL.Path, err)
	}

	return nil
}

// respErr maps an error response back to the error kind the server started from.
func respErr(resp *http.Response) error {
	b, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("read error response body: %w", err)
	}

	msg := strings.TrimSpace(string(b))

	switch resp.StatusCode {
	case http.StatusUnprocessableEntity:
		v := validator.New()
		if err := json.Unmarshal(b, v); err == nil && v.HasErrors() {
			return v
		}
		return errs.InvalidArgumentError(msg)
	case http.StatusBadRequest:
		return errs.InvalidArgumentError(msg)
	case http.StatusUnauthorized:
		return errs.UnauthenticatedError(msg)
	case http.StatusForbidden:
		return errs.PermissionDeniedError(msg)
	case http.StatusNotFound:
		return errs.NotFoundError(msg)
	case http.StatusConflict:
		return errs.ConflictError(msg)
	}

	return fmt.Errorf("%w: %d %s", ErrUnexpectedResponse, resp.StatusCode, msg)
}

// doMultipart sends the fields and an optional file as a multipart form.
func (c *Client) doMultipart(ctx context.Context, path string, fields map[string]string, fileField string, file *types.Upload, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return fmt.Errorf("write %s form field: %w", k, err)
		}
	}

	if file != nil {
		filename := file.Filename
		if filename == "" {
			filename = fileField
		}

		w, err := mw.CreateFormFile(fileField, filename)
		if err != nil {
			return fmt.Errorf("create %s form file: %w", fileField, err)
		}

		if _, err := w.Write(file.Data); err != nil {
			return fmt.Errorf("write %s form file: %w", fileField, err)
		}
	}

	if err := mw.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, nil, &buf, mw.FormDataContentType())
	if err != nil {
		return err
	}

	return c.send(req, out)
}

// DevLogin exchanges a username for a token and keeps it for the next calls.
func (c *Client) DevLogin(ctx context.Context, in types.DevLogin) (types.AuthOutput, error) {
	var out types.AuthOutput
	if err := c.do(ctx, http.MethodPost, "/api/dev_login", nil, in, &out); err != nil {
		return out, err
	}

	c.Token = out.Token
	return out, nil
}

func (c *Client) Me(ctx context.Context) (types.User, error) {
	var out types.User
	return out, c.do(ctx, http.MethodGet, "/api/me", nil, nil, &out)
}

func (c *Client) Conversations(ctx context.Context) ([]types.Conversation, error) {
	var out []types.Conversation
	return out, c.do(ctx, http.MethodGet, "/api/conversations", nil, nil, &out)
}

func (c *Client) StartConversation(ctx context.Context, in types.StartConversation) (types.Conversation, error) {
	var out types.Conversation
	return out, c.do(ctx, http.MethodPost, "/api/conversations", nil, in, &out)
}

func (c *Client) SupportConversation(ctx context.Context, in types.SupportConversation) (types.Conversation, error) {
	var out types.Conversation
	return out, c.do(ctx, http.MethodPost, "/api/support_conversation", nil, in, &out)
}

func (c *Client) ConversationIDs(ctx context.Context) ([]string, error) {
	var out []string
	return out, c.do(ctx, http.MethodGet, "/api/conversation_ids", nil, nil, &out)
}

func (c *Client) Conversation(ctx context.Context, conversationID string) (types.Conversation, error) {
	var out types.Conversation
	return out, c.do(ctx, http.MethodGet, "/api/conversations/"+url.PathEscape(conversationID), nil, nil, &out)
}

func (c *Client) Messages(ctx context.Context, conversationID string) ([]types.Message, error) {
	var out []types.Message
	return out, c.do(ctx, http.MethodGet, "/api/conversations/"+url.PathEscape(conversationID)+"/messages", nil, nil, &out)
}

// CreateMessage switches to a multipart request when an image is attached.
func (c *Client) CreateMessage(ctx context.Context, in types.CreateMessage) (types.Message, error) {
	var out types.Message
	path := "/api/conversations/" + url.PathEscape(in.ConversationID) + "/messages"

	if in.Image != nil {
		return out, c.doMultipart(ctx, path, map[string]string{"content": in.Content}, "image", in.Image, &out)
	}

	return out, c.do(ctx, http.MethodPost, path, nil, in, &out)
}

func (c *Client) MarkConversationRead(ctx context.Context, conversationID string) (types.MarkedRead, error) {
	var out types.MarkedRead
	return out, c.do(ctx, http.MethodPost, "/api/conversations/"+url.PathEscape(conversationID)+"/read", nil, nil, &out)
}

func (c *Client) UnreadMessagesCount(ctx context.Context, conversationIDs []string) (uint64, error) {
	q := url.Values{}
	for _, s := range conversationIDs {
		q.Add("conversation_id", s)
	}

	var out types.Count
	err := c.do(ctx, http.MethodGet, "/api/unread_messages", q, nil, &out)
	return uint64(out.Count), err
}

func (c *Client) Assignment(ctx context.Context, assignmentID string) (types.AssignmentView, error) {
	var out types.AssignmentView
	return out, c.do(ctx, http.MethodGet, "/api/assignments/"+url.PathEscape(assignmentID), nil, nil, &out)
}

func (c *Client) ConfirmPickup(ctx context.Context, in types.ConfirmStep) (types.StepConfirmed, error) {
	var out types.StepConfirmed
	return out, c.do(ctx, http.MethodPost, "/api/assignments/"+url.PathEscape(in.AssignmentID)+"/pickup", nil, in, &out)
}

func (c *Client) ConfirmDelivery(ctx context.Context, in types.ConfirmStep) (types.StepConfirmed, error) {
	var out types.StepConfirmed
	return out, c.do(ctx, http.MethodPost, "/api/assignments/"+url.PathEscape(in.AssignmentID)+"/delivery", nil, in, &out)
}

func (c *Client) ReleasePayment(ctx context.Context, assignmentID string) (types.AssignmentView, error) {
	var out types.AssignmentView
	return out, c.do(ctx, http.MethodPost, "/api/assignments/"+url.PathEscape(assignmentID)+"/release_payment", nil, nil, &out)
}

func (c *Client) TrackingEvents(ctx context.Context, assignmentID string) ([]types.TrackingEvent, error) {
	var out []types.TrackingEvent
	return out, c.do(ctx, http.MethodGet, "/api/assignments/"+url.PathEscape(assignmentID)+"/tracking_events", nil, nil, &out)
}

// CreateTrackingEvent switches to a multipart request when a photo is attached.
func (c *Client) CreateTrackingEvent(ctx context.Context, in types.CreateTrackingEvent) (types.TrackingEvent, error) {
	var out types.TrackingEvent
	path := "/api/assignments/" + url.PathEscape(in.AssignmentID) + "/tracking_events"

	if in.Photo == nil {
		return out, c.do(ctx, http.MethodPost, path, nil, in, &out)
	}

	fields := map[string]string{
		"kind":        in.Kind.String(),
		"description": in.Description,
	}
	if in.Location != nil {
		fields["location"] = *in.Location
	}
	if in.Lat != nil && in.Lng != nil {
		fields["lat"] = strconv.FormatFloat(*in.Lat, 'f', -1, 64)
		fields["lng"] = strconv.FormatFloat(*in.Lng, 'f', -1, 64)
	}

	return out, c.doMultipart(ctx, path, fields, "photo", in.Photo, &out)
}

func (c *Client) TrackingSummary(ctx context.Context, assignmentID string) (types.TrackingSummary, error) {
	var out types.TrackingSummary
	return out, c.do(ctx, http.MethodGet, "/api/assignments/"+url.PathEscape(assignmentID)+"/tracking_summary", nil, nil, &out)
}

func (c *Client) Notifications(ctx context.Context, args types.PageArgs) (types.Page[types.Notification], error) {
	q := url.Values{}
	if args.First != nil {
		q.Set("first", strconv.FormatUint(uint64(*args.First), 10))
	}
	if args.After != nil {
		q.Set("after", *args.After)
	}
	if args.Last != nil {
		q.Set("last", strconv.FormatUint(uint64(*args.Last), 10))
	}
	if args.Before != nil {
		q.Set("before", *args.Before)
	}

	var out types.Page[types.Notification]
	return out, c.do(ctx, http.MethodGet, "/api/notifications", q, nil, &out)
}

func (c *Client) ReadNotification(ctx context.Context, notificationID string) (types.Notification, error) {
	var out types.Notification
	return out, c.do(ctx, http.MethodPost, "/api/notifications/"+url.PathEscape(notificationID)+"/read", nil, nil, &out)
}

func (c *Client) ReadAllNotifications(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/notifications/read", nil, nil, nil)
}

func (c *Client) UnreadNotificationsCount(ctx context.Context) (uint64, error) {
	var out types.Count
	err := c.do(ctx, http.MethodGet, "/api/unread_notifications", nil, nil, &out)
	return uint64(out.Count), err
}

func (c *Client) AddWebPushSubscription(ctx context.Context, in types.AddWebPushSubscription) error {
	return c.do(ctx, http.MethodPost, "/api/web_push_subscriptions", nil, in, nil)
}

func (c *Client) DeleteShipment(ctx context.Context, shipmentID string) error {
	return c.do(ctx, http.MethodDelete, "/api/shipments/"+url.PathEscape(shipmentID), nil, nil, nil)
}
