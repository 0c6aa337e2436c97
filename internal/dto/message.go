package dto

import "time"

type SendMessageRequest struct {
	SenderID       string `json:"senderId"`
	RecipientID    string `json:"recipientId"`
	MessageContent string `json:"messageContent"`
}

type SendMessageResponse struct {
	MessageID      string    `json:"messageId"`
	ConversationID string    `json:"conversationId"`
	Timestamp      time.Time `json:"timestamp"`
}

type MessageView struct {
	ID             string    `json:"id"`
	SenderID       string    `json:"senderId"`
	RecipientID    string    `json:"recipientId"`
	MessageContent string    `json:"messageContent"`
	Timestamp      time.Time `json:"timestamp"`
}

type ConversationMessage struct {
	ConversationID string      `json:"conversationId"`
	Message        MessageView `json:"message"`
}

type DeleteMessagesResponse struct {
	Deleted int64 `json:"deleted"`
}

type ChatbotMessageRequest struct {
	UserID         string `json:"userId"`
	MessageContent string `json:"messageContent"`
}

type ChatbotReply struct {
	ConversationID string      `json:"conversationId"`
	Message        MessageView `json:"message"`
	Reply          MessageView `json:"reply"`
}
