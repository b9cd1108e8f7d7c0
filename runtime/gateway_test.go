package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"log/slog"
	"skillsync/domain"
	"skillsync/domain/event"
	"skillsync/errors"
	"skillsync/mocks"
	"skillsync/observability"
	"testing"
	"time"
)

type gatewayFixture struct {
	gateway       *Gateway
	registry      *Registry
	conversations *mocks.MockConversationFinder
	monitoring    *observability.MonitoringManager
}

func newGatewayFixture(t *testing.T) gatewayFixture {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	f := gatewayFixture{
		registry:      NewRegistry(),
		conversations: mocks.NewMockConversationFinder(gomock.NewController(t)),
		monitoring:    observability.NewMonitoringManager(log),
	}
	f.gateway = NewGateway(log, f.registry, f.conversations, f.monitoring, time.Second)
	return f
}

func rawFrame(t *testing.T, name event.Name, payload string) event.Frame {
	t.Helper()
	require.True(t, json.Valid([]byte(payload)))
	return event.Frame{Event: name, Data: json.RawMessage(payload)}
}

func onlineUsers(t *testing.T, frame event.Frame) []event.OnlineUser {
	t.Helper()
	require.Equal(t, event.UsersOnline, frame.Event)
	var users []event.OnlineUser
	require.NoError(t, json.Unmarshal(frame.Data, &users))
	return users
}

func TestGateway_Connect_Broadcasts_Online_Users(t *testing.T) {
	req := require.New(t)
	f := newGatewayFixture(t)
	ctx := context.Background()
	alice, bob, anonymous := newFakeSink(), newFakeSink(), newFakeSink()

	// Given an anonymous connection and alice are connected
	f.gateway.Connect(ctx, "", anonymous)
	f.gateway.Connect(ctx, "alice", alice)

	// When bob connects
	f.gateway.Connect(ctx, "bob", bob)

	// Then every connection, anonymous included, receives the full list
	for _, s := range []*fakeSink{anonymous, alice, bob} {
		frames := s.received()
		req.NotEmpty(frames)
		req.Equal([]event.OnlineUser{
			{UserID: "alice", ConnectionID: alice.ID()},
			{UserID: "bob", ConnectionID: bob.ID()},
		}, onlineUsers(t, frames[len(frames)-1]))
	}
	req.Equal(2, f.gateway.OnlineCount())
	req.Equal(int64(3), f.monitoring.GetLatest(0).OpenConnections)
}

func TestGateway_Anonymous_Connection_Is_Not_Registered(t *testing.T) {
	req := require.New(t)
	f := newGatewayFixture(t)
	anonymous := newFakeSink()

	f.gateway.Connect(context.Background(), "", anonymous)

	req.Empty(f.registry.ListAll())
	req.Empty(anonymous.received())
}

func TestGateway_Disconnect(t *testing.T) {
	req := require.New(t)
	f := newGatewayFixture(t)
	ctx := context.Background()
	alice, bob := newFakeSink(), newFakeSink()
	f.gateway.Connect(ctx, "alice", alice)
	f.gateway.Connect(ctx, "bob", bob)

	// When bob leaves
	f.gateway.Disconnect(ctx, "bob", bob)

	// Then alice sees only herself online
	frames := alice.received()
	req.Equal([]event.OnlineUser{{UserID: "alice", ConnectionID: alice.ID()}}, onlineUsers(t, frames[len(frames)-1]))
	_, ok := f.registry.Lookup("bob")
	req.False(ok)
}

func TestGateway_Disconnect_Of_Replaced_Connection(t *testing.T) {
	req := require.New(t)
	f := newGatewayFixture(t)
	ctx := context.Background()
	oldTab, newTab := newFakeSink(), newFakeSink()
	f.gateway.Connect(ctx, "alice", oldTab)
	f.gateway.Connect(ctx, "alice", newTab)
	before := len(newTab.received())

	// When the first tab closes
	f.gateway.Disconnect(ctx, "alice", oldTab)

	// Then alice stays online on the newest connection, no broadcast happens
	found, ok := f.registry.Lookup("alice")
	req.True(ok)
	req.Equal(newTab.ID(), found.ID())
	req.Len(newTab.received(), before)
}

func TestGateway_Send_Message_Relayed_Verbatim(t *testing.T) {
	req := require.New(t)
	f := newGatewayFixture(t)
	ctx := context.Background()
	alice, bob := newFakeSink(), newFakeSink()
	f.gateway.Connect(ctx, "alice", alice)
	f.gateway.Connect(ctx, "bob", bob)
	aliceBefore, bobBefore := len(alice.received()), len(bob.received())
	payload := `{"conversationId":"c1","sender":"alice","content":"hi","timestamp":"2024-05-01T10:00:00Z","extra":true}`

	f.conversations.EXPECT().GetConversation("c1").
		Return(domain.NewConversation("c1", []string{"alice", "bob"}, nil, time.Now()), nil)

	f.gateway.Handle(ctx, "alice", rawFrame(t, event.SendMessage, payload))

	// Then bob receives the payload untouched as new-message
	bobFrames := bob.received()
	req.Len(bobFrames, bobBefore+1)
	last := bobFrames[len(bobFrames)-1]
	req.Equal(event.NewMessage, last.Event)
	req.JSONEq(payload, string(last.Data))

	// And nothing is echoed to the sender
	req.Len(alice.received(), aliceBefore)
	req.Equal(uint64(0), f.monitoring.GetLatest(0).DroppedEvents)
}

func TestGateway_Typing_Relayed_Under_Same_Name(t *testing.T) {
	f := newGatewayFixture(t)
	ctx := context.Background()
	alice, bob := newFakeSink(), newFakeSink()
	f.gateway.Connect(ctx, "alice", alice)
	f.gateway.Connect(ctx, "bob", bob)
	f.conversations.EXPECT().GetConversation("c1").
		Return(domain.NewConversation("c1", []string{"alice", "bob"}, nil, time.Now()), nil).Times(2)

	for _, name := range []event.Name{event.Typing, event.StopTyping} {
		t.Run(string(name), func(t *testing.T) {
			req := require.New(t)
			payload := `{"conversationId":"c1","userId":"bob"}`

			f.gateway.Handle(ctx, "bob", rawFrame(t, name, payload))

			frames := alice.received()
			last := frames[len(frames)-1]
			req.Equal(name, last.Event)
			req.JSONEq(payload, string(last.Data))
		})
	}
}

func TestGateway_Offline_Recipient_Is_A_Silent_No_Op(t *testing.T) {
	req := require.New(t)
	f := newGatewayFixture(t)
	ctx := context.Background()
	alice := newFakeSink()
	f.gateway.Connect(ctx, "alice", alice)
	before := len(alice.received())
	f.conversations.EXPECT().GetConversation("c1").
		Return(domain.NewConversation("c1", []string{"alice", "bob"}, nil, time.Now()), nil)

	f.gateway.Handle(ctx, "alice", rawFrame(t, event.SendMessage, `{"conversationId":"c1","sender":"alice","content":"hi"}`))

	req.Len(alice.received(), before)
	req.Equal(uint64(0), f.monitoring.GetLatest(0).DroppedEvents)
	_, ok := f.registry.Lookup("alice")
	req.True(ok)
}

func TestGateway_Drops_Invalid_Frames(t *testing.T) {
	tests := []struct {
		name     string
		userID   string
		frame    event.Frame
		resolves bool
		err      error
	}{
		{name: "Anonymous", userID: "", frame: event.Frame{Event: event.SendMessage, Data: json.RawMessage(`{"conversationId":"c1","sender":"alice"}`)}},
		{name: "Spoofed sender", userID: "mallory", frame: event.Frame{Event: event.SendMessage, Data: json.RawMessage(`{"conversationId":"c1","sender":"alice"}`)}},
		{name: "Spoofed typing", userID: "mallory", frame: event.Frame{Event: event.Typing, Data: json.RawMessage(`{"conversationId":"c1","userId":"alice"}`)}},
		{name: "Missing conversation id", userID: "alice", frame: event.Frame{Event: event.SendMessage, Data: json.RawMessage(`{"sender":"alice"}`)}},
		{name: "Malformed payload", userID: "alice", frame: event.Frame{Event: event.SendMessage, Data: json.RawMessage(`[1,2]`)}},
		{name: "Unknown event", userID: "alice", frame: event.Frame{Event: "dance", Data: json.RawMessage(`{}`)}},
		{name: "Unknown conversation", userID: "alice", frame: event.Frame{Event: event.SendMessage, Data: json.RawMessage(`{"conversationId":"c404","sender":"alice"}`)},
			resolves: true, err: fmt.Errorf("%w: c404", errors.ErrConversationNotFound)},
		{name: "Not a participant", userID: "mallory", frame: event.Frame{Event: event.StopTyping, Data: json.RawMessage(`{"conversationId":"c1","userId":"mallory"}`)},
			resolves: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			f := newGatewayFixture(t)
			ctx := context.Background()
			alice, bob := newFakeSink(), newFakeSink()
			f.gateway.Connect(ctx, "alice", alice)
			f.gateway.Connect(ctx, "bob", bob)
			before := len(bob.received())
			if tt.resolves {
				f.conversations.EXPECT().GetConversation(gomock.Any()).
					Return(domain.NewConversation("c1", []string{"alice", "bob"}, nil, time.Now()), tt.err)
			}

			f.gateway.Handle(ctx, tt.userID, tt.frame)

			// Then the frame is dropped and counted, nobody is disconnected
			req.Len(bob.received(), before)
			req.Equal(uint64(1), f.monitoring.GetLatest(0).DroppedEvents)
			req.Len(f.registry.ListAll(), 2)
		})
	}
}

func TestGateway_Delivery_Failure_Does_Not_Stop_Relay(t *testing.T) {
	req := require.New(t)
	f := newGatewayFixture(t)
	ctx := context.Background()
	alice, bob := newFakeSink(), newFakeSink()
	f.gateway.Connect(ctx, "alice", alice)
	f.gateway.Connect(ctx, "bob", bob)
	bob.err = fmt.Errorf("socket gone")
	f.conversations.EXPECT().GetConversation("c1").
		Return(domain.NewConversation("c1", []string{"alice", "bob"}, nil, time.Now()), nil)

	f.gateway.Handle(ctx, "alice", rawFrame(t, event.SendMessage, `{"conversationId":"c1","sender":"alice","content":"hi"}`))

	req.Equal(uint64(0), f.monitoring.GetLatest(0).DroppedEvents)
	_, ok := f.registry.Lookup("alice")
	req.True(ok)
}

func TestGateway_HandleRaw(t *testing.T) {
	req := require.New(t)
	f := newGatewayFixture(t)
	ctx := context.Background()
	alice, bob := newFakeSink(), newFakeSink()
	f.gateway.Connect(ctx, "alice", alice)
	f.gateway.Connect(ctx, "bob", bob)
	before := len(bob.received())
	f.conversations.EXPECT().GetConversation("c1").
		Return(domain.NewConversation("c1", []string{"alice", "bob"}, nil, time.Now()), nil)

	// When a valid frame then garbage arrive
	f.gateway.HandleRaw(ctx, "alice", []byte(`{"event":"typing","data":{"conversationId":"c1","userId":"alice"}}`))
	f.gateway.HandleRaw(ctx, "alice", []byte(`not json`))

	// Then only the typing frame is relayed and the garbage is counted
	req.Len(bob.received(), before+1)
	req.Equal(uint64(1), f.monitoring.GetLatest(0).DroppedEvents)
}
