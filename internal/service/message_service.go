package service

import (
	"context"

	"encrypto-chat/internal/domain"
	"encrypto-chat/internal/dto"
)

type MessageService interface {
	Send(ctx context.Context, r dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	List(ctx context.Context, userID domain.UserID) ([]dto.ConversationMessage, error)
	DeleteConversation(ctx context.Context, conversationID string) error
	DeleteUserMessages(ctx context.Context, userID domain.UserID) (int64, error)
}

type ChatbotService interface {
	Send(ctx context.Context, r dto.ChatbotMessageRequest) (*dto.ChatbotReply, error)
	List(ctx context.Context, userID domain.UserID) ([]dto.MessageView, error)
	SendWelcome(ctx context.Context, user *domain.User) error
}
