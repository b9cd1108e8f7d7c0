// Package domain contains core concepts of the chat system.
// This file defines Message entities and related rules.
// Messages are owned by their conversation and never referenced outside it.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message is a single authored unit of text inside a conversation.
type Message struct {
	ID        uuid.UUID `json:"id"`
	SenderID  string    `json:"sender"`
	Content   string    `json:"content"`
	Lang      string    `json:"lang,omitempty"`
	CreatedAt time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

// NewMessage builds an unread message authored by senderID.
func NewMessage(senderID, content string, at time.Time) Message {
	return Message{
		ID:        uuid.New(),
		SenderID:  senderID,
		Content:   content,
		CreatedAt: at,
	}
}

// LastMessage is the denormalized preview of the latest message of a conversation.
type LastMessage struct {
	Content   string    `json:"content"`
	SenderID  string    `json:"sender"`
	CreatedAt time.Time `json:"timestamp"`
}
