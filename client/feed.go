package client

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/koligo/koligo/livesync"
	"github.com/koligo/koligo/types"
)

const (
	wsWriteWait = 10 * time.Second
	wsPingWait  = 90 * time.Second
)

var errFeedEnded = errors.New("change-feed ended by server")

// Subscribe opens a change-feed over SSE, or websocket when enabled.
// ctx only bounds the opening; the feed lives until closed.
func (c *Client) Subscribe(ctx context.Context, filter types.ChangeFilter) (livesync.Feed, error) {
	if c.Websocket {
		return c.WebsocketFeed(ctx, filter)
	}
	return c.SSEFeed(ctx, filter)
}

func feedQuery(filter types.ChangeFilter) url.Values {
	return url.Values{
		"table":  {filter.Table.String()},
		"column": {filter.Column},
		"value":  {filter.Value},
	}
}

// dialContext derives the feed lifetime context from ctx without its
// cancellation, and arms the dial timeout. Calling the returned stop
// disarms the timeout once connected.
func (c *Client) dialContext(ctx context.Context) (context.Context, context.CancelFunc, func() bool) {
	feedCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	timeout := c.DialTimeout
	if timeout <= 0 {
		timeout = livesync.DefaultTimeout
	}

	timer := time.AfterFunc(timeout, cancel)
	stop := context.AfterFunc(ctx, cancel)

	return feedCtx, cancel, func() bool {
		stop()
		return timer.Stop()
	}
}

// SSEFeed opens a change-feed over server-sent events.
func (c *Client) SSEFeed(ctx context.Context, filter types.ChangeFilter) (livesync.Feed, error) {
	feedCtx, cancel, connected := c.dialContext(ctx)

	req, err := c.newRequest(feedCtx, http.MethodGet, "/api/changes", feedQuery(filter), nil, "")
	if err != nil {
		cancel()
		return nil, err
	}

	req.Header.Set("Accept", "text/event-stream")

	// the default client timeout would cut the stream.
	httpClient := *c.HTTPClient
	httpClient.Timeout = 0

	resp, err := httpClient.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("open %s change-feed: %w", filter, err)
	}

	if !connected() {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("open %s change-feed: %w", filter, context.DeadlineExceeded)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		cancel()
		return nil, respErr(resp)
	}

	ch := make(chan types.Change)
	feed := livesync.NewChanFeed(ch, cancel)

	go func() {
		defer close(ch)
		defer resp.Body.Close()

		err := readSSE(feedCtx, resp.Body, ch)
		if feedCtx.Err() == nil {
			if err == nil {
				err = errFeedEnded
			}
			feed.Fail(err)
		}
	}()

	return feed, nil
}

// readSSE forwards every data event of the stream.
// Comment lines, used as keep alive, are skipped.
func readSSE(ctx context.Context, r io.Reader, ch chan<- types.Change) error {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64<<10), 1<<20)

	var event string
	var data strings.Builder

	for s.Scan() {
		line := s.Text()

		switch {
		case line == "":
			if data.Len() == 0 {
				event = ""
				continue
			}

			if event == "error" {
				return fmt.Errorf("change-feed error event: %s", data.String())
			}

			var c types.Change
			if err := json.Unmarshal([]byte(data.String()), &c); err != nil {
				return fmt.Errorf("json unmarshal change: %w", err)
			}

			event = ""
			data.Reset()

			select {
			case ch <- c:
			case <-ctx.Done():
				return nil
			}
		case strings.HasPrefix(line, ":"):
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			if data.Len() != 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}

	return s.Err()
}

// WebsocketFeed opens a change-feed over a websocket.
func (c *Client) WebsocketFeed(ctx context.Context, filter types.ChangeFilter) (livesync.Feed, error) {
	u := c.url("/api/changes/ws", feedQuery(filter))
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}

	header := http.Header{}
	if c.Token != "" {
		header.Set("Authorization", "Bearer "+c.Token)
	}

	feedCtx, cancel, connected := c.dialContext(ctx)

	conn, resp, err := websocket.DefaultDialer.DialContext(feedCtx, u.String(), header)
	if err != nil {
		cancel()
		if resp != nil {
			defer resp.Body.Close()
			return nil, respErr(resp)
		}
		return nil, fmt.Errorf("open %s change-feed: %w", filter, err)
	}

	if !connected() {
		conn.Close()
		cancel()
		return nil, fmt.Errorf("open %s change-feed: %w", filter, context.DeadlineExceeded)
	}

	ch := make(chan types.Change)
	feed := livesync.NewChanFeed(ch, cancel)

	// closing the connection unblocks the reader.
	context.AfterFunc(feedCtx, func() {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(wsWriteWait))
		conn.Close()
	})

	go func() {
		defer close(ch)

		err := readWebsocket(feedCtx, conn, ch)
		if feedCtx.Err() == nil {
			feed.Fail(err)
			cancel()
		}
	}()

	return feed, nil
}

func readWebsocket(ctx context.Context, conn *websocket.Conn, ch chan<- types.Change) error {
	_ = conn.SetReadDeadline(time.Now().Add(wsPingWait))
	conn.SetPingHandler(func(appData string) error {
		_ = conn.SetReadDeadline(time.Now().Add(wsPingWait))
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(wsWriteWait))
	})

	for {
		var c types.Change
		if err := conn.ReadJSON(&c); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return errFeedEnded
			}
			return fmt.Errorf("read websocket change: %w", err)
		}

		select {
		case ch <- c:
		case <-ctx.Done():
			return nil
		}
	}
}
