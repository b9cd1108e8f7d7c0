// Package domain contains core concepts of the chat system.
// This file defines Conversation aggregates and their invariants.
// No runtime, network, or storage logic should be added here.
package domain

import (
	"slices"
	"strings"
	"time"
)

// noTask stands for "no task association" inside pair keys.
const noTask = "-"

// Conversation is a persistent record of participants and their exchanged messages.
// Participants are fixed at creation, messages are append-only.
type Conversation struct {
	ID           string       `json:"id"`
	Participants []string     `json:"participants"`
	Messages     []Message    `json:"messages"`
	LastMessage  *LastMessage `json:"lastMessage,omitempty"`
	TaskID       *string      `json:"taskId,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

func NewConversation(id string, participants []string, taskID *string, at time.Time) Conversation {
	return Conversation{
		ID:           id,
		Participants: slices.Clone(participants),
		Messages:     []Message{},
		TaskID:       taskID,
		CreatedAt:    at,
		UpdatedAt:    at,
	}
}

// HasParticipant reports whether userID belongs to the participant set.
func (c Conversation) HasParticipant(userID string) bool {
	return slices.Contains(c.Participants, userID)
}

// Recipients returns every participant except the sender.
func (c Conversation) Recipients(senderID string) []string {
	recipients := make([]string, 0, len(c.Participants))
	for _, p := range c.Participants {
		if p != senderID {
			recipients = append(recipients, p)
		}
	}
	return recipients
}

// Append adds a message at the end of the sequence and refreshes LastMessage.
func (c *Conversation) Append(message Message) {
	c.Messages = append(c.Messages, message)
	c.LastMessage = &LastMessage{
		Content:   message.Content,
		SenderID:  message.SenderID,
		CreatedAt: message.CreatedAt,
	}
	if message.CreatedAt.After(c.UpdatedAt) {
		c.UpdatedAt = message.CreatedAt
	}
}

// MarkReadBy flips every unread message not authored by readerID.
// It returns how many messages changed.
func (c *Conversation) MarkReadBy(readerID string) int {
	flipped := 0
	for i := range c.Messages {
		if c.Messages[i].SenderID != readerID && !c.Messages[i].Read {
			c.Messages[i].Read = true
			flipped++
		}
	}
	return flipped
}

// UnreadCountFor counts unread messages authored by someone else than userID.
func (c Conversation) UnreadCountFor(userID string) int {
	count := 0
	for _, m := range c.Messages {
		if !m.Read && m.SenderID != userID {
			count++
		}
	}
	return count
}

// PairKey identifies a conversation by its unordered participant pair and optional task.
// Two calls with swapped users produce the same key.
func PairKey(userA, userB string, taskID *string) string {
	users := []string{userA, userB}
	slices.Sort(users)
	task := noTask
	if taskID != nil && *taskID != "" {
		task = *taskID
	}
	return strings.Join(users, "|") + ":" + task
}
