package domain

import "time"

type Conversation struct {
	ID           string    `gorm:"type:text;primaryKey" db:"id"`
	ParticipantA UserID    `gorm:"type:uuid;not null;index" db:"participant_a"`
	ParticipantB UserID    `gorm:"type:uuid;not null;index" db:"participant_b"`
	CreatedAt    time.Time `gorm:"not null" db:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" db:"updated_at"`
}

func (Conversation) TableName() string { return "conversations" }

// Message is stored encrypted under the recipient's public key. Plaintext is
// never persisted.
type Message struct {
	ID             MessageID `gorm:"type:uuid;primaryKey" db:"id"`
	ConversationID string    `gorm:"type:text;not null;index:idx_messages_conversation" db:"conversation_id"`
	SenderID       UserID    `gorm:"type:uuid;not null;index:idx_messages_sender" db:"sender_id"`
	RecipientID    UserID    `gorm:"type:uuid;not null;index:idx_messages_recipient" db:"recipient_id"`
	Scheme         string    `gorm:"type:text;not null" db:"scheme"`
	Ciphertext     string    `gorm:"type:text;not null" db:"ciphertext"`
	CreatedAt      time.Time `gorm:"not null;index" db:"created_at"`
}

func (Message) TableName() string { return "messages" }

// ChatbotMessage is a plaintext exchange with the chat assistant. Sender and
// recipient are either a user id or AssistantParticipant.
type ChatbotMessage struct {
	ID             MessageID `gorm:"type:uuid;primaryKey" db:"id"`
	ConversationID string    `gorm:"type:text;not null;index" db:"conversation_id"`
	UserID         UserID    `gorm:"type:uuid;not null;index" db:"user_id"`
	SenderID       string    `gorm:"type:text;not null" db:"sender_id"`
	RecipientID    string    `gorm:"type:text;not null" db:"recipient_id"`
	Content        string    `gorm:"type:text;not null" db:"content"`
	CreatedAt      time.Time `gorm:"not null" db:"created_at"`
}

func (ChatbotMessage) TableName() string { return "chatbot_messages" }

const AssistantParticipant = "chatbot"
