package impl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"encrypto-chat/internal/addressing"
	"encrypto-chat/internal/cryptobox"
	"encrypto-chat/internal/domain"
	"encrypto-chat/internal/dto"
	"encrypto-chat/internal/events"
	"encrypto-chat/internal/observability/metrics"
	"encrypto-chat/internal/observability/middleware"
	"encrypto-chat/internal/store"
)

// keyLookupLimit bounds concurrent key reads while listing messages.
const keyLookupLimit = 8

type MessageServiceImpl struct {
	store   *store.Store
	schemes *cryptobox.Registry
	events  events.Publisher
	now     func() time.Time
}

func NewMessageServiceImpl(st *store.Store, schemes *cryptobox.Registry, pub events.Publisher) *MessageServiceImpl {
	return &MessageServiceImpl{store: st, schemes: schemes, events: pub, now: time.Now}
}

// Send encrypts the content under the recipient's public key and appends it to
// the pair's conversation.
func (m *MessageServiceImpl) Send(ctx context.Context, r dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	result := "failure"
	defer func() {
		metrics.MessagesSentTotal.WithLabelValues(result).Inc()
	}()

	if strings.TrimSpace(r.SenderID) == "" || strings.TrimSpace(r.RecipientID) == "" || r.MessageContent == "" {
		return nil, domain.ErrMissingFields
	}
	senderID, err := parseUserID(r.SenderID)
	if err != nil {
		return nil, err
	}
	recipientID, err := parseUserID(r.RecipientID)
	if err != nil {
		return nil, err
	}

	if _, err := m.store.Users().GetByID(ctx, senderID); err != nil {
		return nil, storeErr(err, domain.ErrUserNotFound)
	}
	kp, err := m.store.Keys().GetByUserID(ctx, recipientID)
	if err != nil {
		return nil, storeErr(err, domain.ErrRecipientKeyMissing)
	}
	scheme, err := m.schemes.Lookup(kp.Scheme)
	if err != nil {
		return nil, fmt.Errorf("recipient key: %w", err)
	}
	ciphertext, err := scheme.Encrypt(kp.PublicKey, []byte(r.MessageContent))
	if errors.Is(err, cryptobox.ErrPlaintextTooLarge) {
		result = "too_long"
		return nil, fmt.Errorf("%w (max %d bytes)", domain.ErrMessageTooLong, scheme.MaxPlaintext())
	}
	if err != nil {
		return nil, fmt.Errorf("encrypt message: %w", err)
	}

	convID := addressing.ConversationID(senderID.String(), recipientID.String())
	a, b := orderedPair(senderID, recipientID)
	now := m.now().UTC()
	msg := &domain.Message{
		ID:             uuid.New(),
		ConversationID: convID,
		SenderID:       senderID,
		RecipientID:    recipientID,
		Scheme:         scheme.Name(),
		Ciphertext:     ciphertext,
		CreatedAt:      now,
	}
	err = m.store.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.Conversations().Touch(ctx, &domain.Conversation{
			ID:           convID,
			ParticipantA: a,
			ParticipantB: b,
			CreatedAt:    now,
			UpdatedAt:    now,
		}); err != nil {
			return err
		}
		return tx.Messages().Create(ctx, msg)
	})
	if err != nil {
		return nil, storeErr(err, nil)
	}
	result = "success"

	publish(ctx, m.events, events.MessageSent{
		MessageID:      msg.ID.String(),
		ConversationID: convID,
		SenderID:       senderID.String(),
		RecipientID:    recipientID.String(),
		At:             now,
	})
	return &dto.SendMessageResponse{MessageID: msg.ID.String(), ConversationID: convID, Timestamp: now}, nil
}

// List returns every message the user sent or received, decrypted, oldest
// first. Messages that cannot be decrypted are skipped.
func (m *MessageServiceImpl) List(ctx context.Context, userID domain.UserID) ([]dto.ConversationMessage, error) {
	msgs, err := m.store.Messages().ListForUser(ctx, userID)
	if err != nil {
		return nil, storeErr(err, nil)
	}
	keys, err := m.recipientKeys(ctx, msgs)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ConversationMessage, 0, len(msgs))
	for _, msg := range msgs {
		plain, reason := m.open(keys[msg.RecipientID], &msg)
		if reason != "" {
			metrics.MessageDecryptFailuresTotal.WithLabelValues(reason).Inc()
			attrs := append([]any{"message_id", msg.ID, "conversation_id", msg.ConversationID, "reason", reason}, middleware.LogAttrs(ctx)...)
			slog.Warn("skipping undecryptable message", attrs...)
			continue
		}
		out = append(out, dto.ConversationMessage{
			ConversationID: msg.ConversationID,
			Message: dto.MessageView{
				ID:             msg.ID.String(),
				SenderID:       msg.SenderID.String(),
				RecipientID:    msg.RecipientID.String(),
				MessageContent: string(plain),
				Timestamp:      msg.CreatedAt,
			},
		})
	}
	return out, nil
}

// recipientKeys loads the key pair of every distinct recipient. A failed
// lookup leaves that recipient out so only its messages are skipped.
func (m *MessageServiceImpl) recipientKeys(ctx context.Context, msgs []domain.Message) (map[uuid.UUID]*domain.UserKeyPair, error) {
	keys := make(map[uuid.UUID]*domain.UserKeyPair)
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(keyLookupLimit)
	seen := make(map[uuid.UUID]struct{})
	for _, msg := range msgs {
		id := msg.RecipientID
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		g.Go(func() error {
			kp, err := m.store.Keys().GetByUserID(gctx, id)
			if err != nil {
				if !errors.Is(err, store.ErrRecordNotFound) {
					slog.Warn("load recipient key failed", "user_id", id, "err", err)
				}
				return gctx.Err()
			}
			mu.Lock()
			keys[id] = kp
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return keys, nil
}

func (m *MessageServiceImpl) open(kp *domain.UserKeyPair, msg *domain.Message) ([]byte, string) {
	if kp == nil {
		return nil, "key_missing"
	}
	scheme, err := m.schemes.Lookup(msg.Scheme)
	if err != nil {
		return nil, "unknown_scheme"
	}
	plain, err := scheme.Decrypt(kp.PrivateKey, msg.Ciphertext)
	if err != nil {
		return nil, "decrypt"
	}
	return plain, ""
}

func (m *MessageServiceImpl) DeleteConversation(ctx context.Context, conversationID string) error {
	conversationID = strings.TrimSpace(conversationID)
	if conversationID == "" {
		return domain.ErrMissingFields
	}
	n, err := m.store.DeleteConversation(ctx, conversationID)
	if err != nil {
		return storeErr(err, domain.ErrConversationMissing)
	}
	attrs := append([]any{"conversation_id", conversationID, "messages_removed", n}, middleware.LogAttrs(ctx)...)
	slog.Info("conversation deleted", attrs...)

	publish(ctx, m.events, events.ConversationDeleted{
		ConversationID:  conversationID,
		MessagesRemoved: n,
		At:              m.now().UTC(),
	})
	return nil
}

// DeleteUserMessages removes every message the user sent or received and
// leaves other users' messages alone.
func (m *MessageServiceImpl) DeleteUserMessages(ctx context.Context, userID domain.UserID) (int64, error) {
	if _, err := m.store.Users().GetByID(ctx, userID); err != nil {
		return 0, storeErr(err, domain.ErrUserNotFound)
	}
	n, err := m.store.Messages().DeleteForUser(ctx, userID)
	if err != nil {
		return 0, storeErr(err, nil)
	}
	return n, nil
}

func orderedPair(x, y uuid.UUID) (uuid.UUID, uuid.UUID) {
	if x.String() <= y.String() {
		return x, y
	}
	return y, x
}
