// Package event defines the frames exchanged with realtime clients.
package event

import (
	"encoding/json"
	"fmt"
	"skillsync/domain"
)

type Name string

const (
	// Inbound from clients.
	SendMessage Name = "send-message"
	Typing      Name = "typing"
	StopTyping  Name = "stop-typing"

	// Outbound to clients. Typing and StopTyping are relayed under their own name.
	NewMessage  Name = "new-message"
	UsersOnline Name = "users-online"
)

// Frame is the envelope of every realtime message: {"event": "...", "data": {...}}.
// Data is kept raw so relayed payloads reach recipients verbatim.
type Frame struct {
	Event Name            `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// NewFrame marshals payload into a frame named name.
func NewFrame(name Name, payload any) (Frame, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Frame{}, fmt.Errorf("encode %s payload: %w", name, err)
	}
	return Frame{Event: name, Data: data}, nil
}

// MessageSent is the payload of send-message and new-message.
// The timestamp is client supplied and never interpreted by the server.
type MessageSent struct {
	ConversationID string          `json:"conversationId"`
	Sender         string          `json:"sender"`
	Content        string          `json:"content"`
	Timestamp      json.RawMessage `json:"timestamp,omitempty"`
}

// TypingChanged is the payload of typing and stop-typing.
type TypingChanged struct {
	ConversationID string `json:"conversationId"`
	UserID         string `json:"userId"`
}

// OnlineUser is one entry of the users-online list.
type OnlineUser struct {
	UserID       string `json:"userId"`
	ConnectionID string `json:"connectionId"`
}

// MessagePersisted is emitted internally once a message is durably stored.
type MessagePersisted struct {
	ConversationID string
	Message        domain.Message
}
