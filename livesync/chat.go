package livesync

import (
	"context"
	"log/slog"
	"sync"

	"github.com/koligo/koligo/types"
)

// ChatSession is the live view of one conversation.
type ChatSession struct {
	Gateway *Gateway
	Logger  *slog.Logger
	// OnUpdate is called with the whole list every time it changes.
	OnUpdate func([]types.Message)

	manager  *Manager
	messages *List[types.Message]

	mu             sync.Mutex
	conversationID string
	loading        bool
	buffer         []types.Message
}

func NewChatSession(gw *Gateway) *ChatSession {
	s := &ChatSession{
		Gateway:  gw,
		Logger:   gw.Logger,
		messages: NewList[types.Message](DefaultMaxItems),
	}
	s.manager = NewManager(gw.Backend, types.TableMessages, "conversation_id", s.deliver)
	s.manager.Logger = gw.Logger
	s.manager.OnReconnect = s.reload
	return s
}

func (s *ChatSession) ConversationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversationID
}

func (s *ChatSession) SetMaxItems(n int) {
	s.messages.SetMaxItems(n)
}

func (s *ChatSession) Messages() []types.Message {
	return s.messages.Items()
}

// Open switches the session to the given conversation.
// The change-feed is opened before the messages are fetched and changes
// arriving in between are merged after the fetch.
// Once loaded the conversation is marked as read; a failure there
// only produces a warning notice.
func (s *ChatSession) Open(ctx context.Context, conversationID string) error {
	if conversationID == "" {
		return ErrEmptyScope
	}

	if s.manager.Scope() == conversationID {
		return nil
	}

	s.mu.Lock()
	s.conversationID = conversationID
	s.loading = true
	s.buffer = nil
	s.messages.Reset()
	s.mu.Unlock()

	if err := s.manager.Activate(ctx, conversationID); err != nil {
		s.finishLoading(nil)
		return err
	}

	fetchCtx, cancel := withTimeout(ctx, s.Gateway.Timeout)
	defer cancel()

	messages, err := s.Gateway.Backend.Messages(fetchCtx, conversationID)
	if err != nil {
		s.Logger.Error("could not load messages", "conversation_id", conversationID, "err", err)
		s.finishLoading(nil)
		// a later Open on the same conversation fetches again.
		s.Close()
		return err
	}

	s.finishLoading(messages)

	s.MarkRead(ctx)

	return nil
}

func (s *ChatSession) finishLoading(snapshot []types.Message) {
	s.mu.Lock()
	if snapshot != nil {
		s.messages.Load(snapshot)
	}
	s.messages.Merge(s.buffer...)
	s.buffer = nil
	s.loading = false
	s.mu.Unlock()

	s.updated()
}

// MarkRead stamps the read marker of every message of the conversation
// not sent by the actor.
func (s *ChatSession) MarkRead(ctx context.Context) (types.MarkedRead, error) {
	conversationID := s.ConversationID()
	if conversationID == "" {
		return types.MarkedRead{}, ErrEmptyScope
	}

	ctx, cancel := withTimeout(ctx, s.Gateway.Timeout)
	defer cancel()

	out, err := s.Gateway.Backend.MarkConversationRead(ctx, conversationID)
	if err != nil {
		s.Logger.Error("could not mark conversation as read", "conversation_id", conversationID, "err", err)
		s.Gateway.Notifier.Notify(Notice{
			Kind:    NoticeWarning,
			Action:  "mark the conversation as read",
			Message: failureMessage("mark the conversation as read", err),
			Err:     err,
		})
		return out, err
	}

	return out, nil
}

// Send posts a message to the open conversation.
// The returned message is merged right away; the change-feed echo
// of it is merged onto the same entry.
func (s *ChatSession) Send(ctx context.Context, body string) (types.Message, error) {
	out, err := s.Gateway.Send(ctx, s.ConversationID(), body)
	if err != nil {
		return out, err
	}

	s.merge(out)
	return out, nil
}

// Close stops the live updates.
func (s *ChatSession) Close() {
	s.manager.Deactivate()

	s.mu.Lock()
	s.conversationID = ""
	s.buffer = nil
	s.loading = false
	s.mu.Unlock()
}

func (s *ChatSession) deliver(c types.Change) {
	var m types.Message
	if err := c.Decode(&m); err != nil {
		s.Logger.Error("could not decode message change", "err", err)
		return
	}

	s.merge(m)
}

func (s *ChatSession) merge(m types.Message) {
	s.mu.Lock()
	if m.ConversationID != s.conversationID {
		s.mu.Unlock()
		return
	}

	if s.loading {
		s.buffer = append(s.buffer, m)
		s.mu.Unlock()
		return
	}

	s.messages.Append(m)
	s.mu.Unlock()

	s.updated()
}

func (s *ChatSession) reload(ctx context.Context) {
	conversationID := s.ConversationID()
	if conversationID == "" {
		return
	}

	ctx, cancel := withTimeout(ctx, s.Gateway.Timeout)
	defer cancel()

	messages, err := s.Gateway.Backend.Messages(ctx, conversationID)
	if err != nil {
		s.Logger.Error("could not reload messages", "conversation_id", conversationID, "err", err)
		return
	}

	for _, m := range messages {
		s.merge(m)
	}
}

func (s *ChatSession) updated() {
	if s.OnUpdate != nil {
		s.OnUpdate(s.messages.Items())
	}
}
