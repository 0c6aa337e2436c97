package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"encrypto-chat/internal/addressing"
	"encrypto-chat/internal/assistant"
	"encrypto-chat/internal/domain"
	"encrypto-chat/internal/dto"
	"encrypto-chat/internal/observability/metrics"
	"encrypto-chat/internal/observability/middleware"
	"encrypto-chat/internal/store"
)

// ChatbotServiceImpl keeps each user's exchange with the assistant in the
// user's chatbot conversation. These messages are not encrypted.
type ChatbotServiceImpl struct {
	store     *store.Store
	responder assistant.Responder
	now       func() time.Time
}

func NewChatbotServiceImpl(st *store.Store, responder assistant.Responder) *ChatbotServiceImpl {
	if responder == nil {
		responder = assistant.Static{}
	}
	return &ChatbotServiceImpl{store: st, responder: responder, now: time.Now}
}

func (c *ChatbotServiceImpl) Send(ctx context.Context, r dto.ChatbotMessageRequest) (*dto.ChatbotReply, error) {
	if strings.TrimSpace(r.MessageContent) == "" {
		return nil, domain.ErrMissingFields
	}
	userID, err := parseUserID(r.UserID)
	if err != nil {
		return nil, err
	}
	if _, err := c.store.Users().GetByID(ctx, userID); err != nil {
		return nil, storeErr(err, domain.ErrUserNotFound)
	}

	reply, err := c.responder.Reply(ctx, r.MessageContent)
	if err != nil {
		metrics.ChatbotRepliesTotal.WithLabelValues("error").Inc()
		attrs := append([]any{"user_id", userID, "err", err}, middleware.LogAttrs(ctx)...)
		slog.Error("assistant reply failed", attrs...)
		return nil, fmt.Errorf("%w: assistant: %v", domain.ErrDependency, err)
	}
	metrics.ChatbotRepliesTotal.WithLabelValues("assistant").Inc()

	convID := addressing.ChatbotConversationID(userID.String())
	now := c.now().UTC()
	question := &domain.ChatbotMessage{
		ID:             uuid.New(),
		ConversationID: convID,
		UserID:         userID,
		SenderID:       userID.String(),
		RecipientID:    domain.AssistantParticipant,
		Content:        r.MessageContent,
		CreatedAt:      now,
	}
	answer := &domain.ChatbotMessage{
		ID:             uuid.New(),
		ConversationID: convID,
		UserID:         userID,
		SenderID:       domain.AssistantParticipant,
		RecipientID:    userID.String(),
		Content:        reply,
		// keeps the reply after the question when timestamps tie
		CreatedAt: now.Add(time.Microsecond),
	}
	if err := c.store.Chatbot().Create(ctx, question, answer); err != nil {
		return nil, storeErr(err, nil)
	}
	return &dto.ChatbotReply{
		ConversationID: convID,
		Message:        chatbotView(question),
		Reply:          chatbotView(answer),
	}, nil
}

func (c *ChatbotServiceImpl) List(ctx context.Context, userID domain.UserID) ([]dto.MessageView, error) {
	msgs, err := c.store.Chatbot().ListByConversation(ctx, addressing.ChatbotConversationID(userID.String()))
	if err != nil {
		return nil, storeErr(err, nil)
	}
	out := make([]dto.MessageView, 0, len(msgs))
	for i := range msgs {
		out = append(out, chatbotView(&msgs[i]))
	}
	return out, nil
}

// SendWelcome stores a greeting from the assistant. A failing responder falls
// back to a fixed greeting.
func (c *ChatbotServiceImpl) SendWelcome(ctx context.Context, user *domain.User) error {
	text, err := c.responder.Welcome(ctx, user.FirstName)
	source := "assistant"
	if err != nil {
		slog.Warn("assistant welcome failed, using fallback", "user_id", user.ID, "err", err)
		text = assistant.WelcomeFallback
		source = "fallback"
	}
	metrics.ChatbotRepliesTotal.WithLabelValues(source).Inc()

	msg := &domain.ChatbotMessage{
		ID:             uuid.New(),
		ConversationID: addressing.ChatbotConversationID(user.ID.String()),
		UserID:         user.ID,
		SenderID:       domain.AssistantParticipant,
		RecipientID:    user.ID.String(),
		Content:        text,
		CreatedAt:      c.now().UTC(),
	}
	return storeErr(c.store.Chatbot().Create(ctx, msg), nil)
}

func chatbotView(m *domain.ChatbotMessage) dto.MessageView {
	return dto.MessageView{
		ID:             m.ID.String(),
		SenderID:       m.SenderID,
		RecipientID:    m.RecipientID,
		MessageContent: m.Content,
		Timestamp:      m.CreatedAt,
	}
}
