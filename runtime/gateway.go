// Package runtime handles realtime connections and the relay of their events.
// It routes frames between online users without containing business rules.
package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/samber/lo"
	"log/slog"
	"skillsync/contract"
	"skillsync/domain/event"
	"skillsync/observability"
	"sync"
	"time"
)

var (
	errAnonymous      = fmt.Errorf("anonymous connection")
	errSenderMismatch = fmt.Errorf("sender does not match connection identity")
	errMissingTarget  = fmt.Errorf("missing conversationId")
	errNotParticipant = fmt.Errorf("sender is not a participant")
	errUnknownEvent   = fmt.Errorf("unknown event")
)

// Gateway relays send-message, typing and stop-typing frames to the other
// online participants of a conversation. Nothing is persisted here.
type Gateway struct {
	mu            sync.RWMutex
	log           *slog.Logger
	registry      contract.IRegistry
	conversations contract.ConversationFinder
	monitoring    *observability.MonitoringManager
	sockets       map[string]contract.EventSink // every open connection, anonymous included
	sinkTimeout   time.Duration
}

func NewGateway(log *slog.Logger, registry contract.IRegistry,
	conversations contract.ConversationFinder, monitoring *observability.MonitoringManager,
	sinkTimeout time.Duration) *Gateway {
	return &Gateway{
		log:           log,
		registry:      registry,
		conversations: conversations,
		monitoring:    monitoring,
		sockets:       make(map[string]contract.EventSink),
		sinkTimeout:   sinkTimeout,
	}
}

// Connect moves a connection to the Connected state.
// An empty userID keeps the connection anonymous and unregistered.
func (g *Gateway) Connect(ctx context.Context, userID string, sink contract.EventSink) {
	g.mu.Lock()
	g.sockets[sink.ID()] = sink
	g.mu.Unlock()
	g.monitoring.ConnectionOpened()

	if userID == "" {
		g.log.Debug("Anonymous connection opened", "connection_id", sink.ID())
		return
	}
	g.registry.Register(userID, sink)
	g.log.Info("User connected", "user_id", userID, "connection_id", sink.ID())
	g.broadcastOnlineUsers(ctx)
}

// Disconnect is terminal for the connection.
// The registry entry is only removed while it still points at this sink.
func (g *Gateway) Disconnect(ctx context.Context, userID string, sink contract.EventSink) {
	g.mu.Lock()
	delete(g.sockets, sink.ID())
	g.mu.Unlock()
	g.monitoring.ConnectionClosed()

	if userID == "" {
		return
	}
	if !g.registry.Release(userID, sink) {
		g.log.Debug("Connection already replaced", "user_id", userID, "connection_id", sink.ID())
		return
	}
	g.log.Info("User disconnected", "user_id", userID, "connection_id", sink.ID())
	g.broadcastOnlineUsers(ctx)
}

// Handle processes one inbound frame. Failures are logged and the frame dropped,
// the connection is never closed because of them.
func (g *Gateway) Handle(ctx context.Context, userID string, frame event.Frame) {
	if err := g.handle(ctx, userID, frame); err != nil {
		g.monitoring.IncrDropped()
		g.log.Warn("Frame dropped", "event", frame.Event, "user_id", userID, "error", err)
	}
}

// HandleRaw decodes one text message read from a connection and handles it.
func (g *Gateway) HandleRaw(ctx context.Context, userID string, data []byte) {
	var frame event.Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		g.monitoring.IncrDropped()
		g.log.Warn("Undecodable frame dropped", "user_id", userID, "error", err)
		return
	}
	g.Handle(ctx, userID, frame)
}

// OnlineCount returns how many identified users are registered.
func (g *Gateway) OnlineCount() int {
	return len(g.registry.ListAll())
}

func (g *Gateway) handle(ctx context.Context, userID string, frame event.Frame) error {
	if userID == "" {
		return errAnonymous
	}
	switch frame.Event {
	case event.SendMessage:
		var payload event.MessageSent
		if err := json.Unmarshal(frame.Data, &payload); err != nil {
			return fmt.Errorf("decode %s: %w", frame.Event, err)
		}
		return g.relay(ctx, userID, payload.Sender, payload.ConversationID, event.Frame{Event: event.NewMessage, Data: frame.Data})
	case event.Typing, event.StopTyping:
		var payload event.TypingChanged
		if err := json.Unmarshal(frame.Data, &payload); err != nil {
			return fmt.Errorf("decode %s: %w", frame.Event, err)
		}
		return g.relay(ctx, userID, payload.UserID, payload.ConversationID, frame)
	default:
		return fmt.Errorf("%w: %q", errUnknownEvent, frame.Event)
	}
}

// relay forwards out verbatim to every online participant except the sender.
// Offline recipients are skipped silently.
func (g *Gateway) relay(ctx context.Context, userID, claimed, conversationID string, out event.Frame) error {
	if claimed != userID {
		return fmt.Errorf("%w: claimed %q", errSenderMismatch, claimed)
	}
	if conversationID == "" {
		return errMissingTarget
	}
	conversation, err := g.conversations.GetConversation(conversationID)
	if err != nil {
		return fmt.Errorf("resolve conversation %s: %w", conversationID, err)
	}
	if !conversation.HasParticipant(userID) {
		return fmt.Errorf("%w: conversation %s", errNotParticipant, conversationID)
	}
	for _, recipient := range conversation.Recipients(userID) {
		sink, ok := g.registry.Lookup(recipient)
		if !ok {
			continue
		}
		g.deliver(ctx, sink, out)
	}
	return nil
}

func (g *Gateway) deliver(ctx context.Context, sink contract.EventSink, frame event.Frame) {
	sendCtx, cancel := context.WithTimeout(ctx, g.sinkTimeout)
	defer cancel()
	if err := sink.Send(sendCtx, frame); err != nil {
		g.log.Debug("Delivery failed", "connection_id", sink.ID(), "event", frame.Event, "error", err)
		return
	}
	g.monitoring.IncrRelayed()
}

// broadcastOnlineUsers resends the full online list to every open connection.
func (g *Gateway) broadcastOnlineUsers(ctx context.Context) {
	online := lo.Map(g.registry.ListAll(), func(e contract.Entry, _ int) event.OnlineUser {
		return event.OnlineUser{UserID: e.UserID, ConnectionID: e.Sink.ID()}
	})
	frame, err := event.NewFrame(event.UsersOnline, online)
	if err != nil {
		g.log.Error("Cannot encode online users", "error", err)
		return
	}

	g.mu.RLock()
	sockets := lo.Values(g.sockets)
	g.mu.RUnlock()

	for _, sink := range sockets {
		g.deliver(ctx, sink, frame)
	}
}
