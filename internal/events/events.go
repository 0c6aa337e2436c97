// Package events defines the domain events the chat service emits and the
// publishers that carry them.
package events

import (
	"context"
	"time"
)

const (
	TypeUserRegistered      = "user.registered"
	TypeUserDeleted         = "user.deleted"
	TypeMessageSent         = "message.sent"
	TypeConversationDeleted = "conversation.deleted"
	TypeContactAdded        = "contact.added"
	TypeContactRemoved      = "contact.removed"
)

// Event is implemented by every payload below.
type Event interface {
	EventType() string
	// Key partitions the event stream; events for one user stay ordered.
	Key() string
	OccurredAt() time.Time
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

type UserRegistered struct {
	UserID string    `json:"userId"`
	Email  string    `json:"email"`
	At     time.Time `json:"at"`
}

func (e UserRegistered) EventType() string     { return TypeUserRegistered }
func (e UserRegistered) Key() string           { return e.UserID }
func (e UserRegistered) OccurredAt() time.Time { return e.At }

type UserDeleted struct {
	UserID  string           `json:"userId"`
	Email   string           `json:"email"`
	Removed map[string]int64 `json:"removed"`
	At      time.Time        `json:"at"`
}

func (e UserDeleted) EventType() string     { return TypeUserDeleted }
func (e UserDeleted) Key() string           { return e.UserID }
func (e UserDeleted) OccurredAt() time.Time { return e.At }

// MessageSent never carries content, plaintext or ciphertext.
type MessageSent struct {
	MessageID      string    `json:"messageId"`
	ConversationID string    `json:"conversationId"`
	SenderID       string    `json:"senderId"`
	RecipientID    string    `json:"recipientId"`
	At             time.Time `json:"at"`
}

func (e MessageSent) EventType() string     { return TypeMessageSent }
func (e MessageSent) Key() string           { return e.RecipientID }
func (e MessageSent) OccurredAt() time.Time { return e.At }

type ConversationDeleted struct {
	ConversationID  string    `json:"conversationId"`
	MessagesRemoved int64     `json:"messagesRemoved"`
	At              time.Time `json:"at"`
}

func (e ConversationDeleted) EventType() string     { return TypeConversationDeleted }
func (e ConversationDeleted) Key() string           { return e.ConversationID }
func (e ConversationDeleted) OccurredAt() time.Time { return e.At }

type ContactChanged struct {
	Added     bool      `json:"added"`
	UserID    string    `json:"userId"`
	ContactID string    `json:"contactId"`
	At        time.Time `json:"at"`
}

func (e ContactChanged) EventType() string {
	if e.Added {
		return TypeContactAdded
	}
	return TypeContactRemoved
}
func (e ContactChanged) Key() string           { return e.UserID }
func (e ContactChanged) OccurredAt() time.Time { return e.At }
