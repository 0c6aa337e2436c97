package impl

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"encrypto-chat/internal/addressing"
	"encrypto-chat/internal/cryptobox"
	"encrypto-chat/internal/domain"
	"encrypto-chat/internal/dto"
	"encrypto-chat/internal/events"
)

func TestSendAndListHello(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.createUser(t, "Alice", "alice@example.com", "pw-a")
	bob := h.createUser(t, "Bob", "bob@example.com", "pw-b")

	res, err := h.messages.Send(ctx, dto.SendMessageRequest{SenderID: alice.String(), RecipientID: bob.String(), MessageContent: "hello"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	wantConv := addressing.ConversationID(alice.String(), bob.String())
	if res.ConversationID != wantConv {
		t.Fatalf("conversation id = %q, want %q", res.ConversationID, wantConv)
	}

	for _, viewer := range []domain.UserID{alice, bob} {
		got, err := h.messages.List(ctx, viewer)
		if err != nil {
			t.Fatalf("List(%s): %v", viewer, err)
		}
		if len(got) != 1 {
			t.Fatalf("expected 1 message for %s, got %d", viewer, len(got))
		}
		m := got[0]
		if m.ConversationID != wantConv || m.Message.MessageContent != "hello" ||
			m.Message.SenderID != alice.String() || m.Message.RecipientID != bob.String() {
			t.Fatalf("unexpected message: %+v", m)
		}
		if !m.Message.Timestamp.Equal(h.clock.now()) {
			t.Fatalf("timestamp = %v, want %v", m.Message.Timestamp, h.clock.now())
		}
	}

	stored, err := h.st.Messages().ListByConversation(ctx, wantConv)
	if err != nil || len(stored) != 1 {
		t.Fatalf("ListByConversation = %d, %v", len(stored), err)
	}
	if strings.Contains(stored[0].Ciphertext, "hello") || stored[0].Scheme != cryptobox.SchemeSealedBox {
		t.Fatalf("message stored in the clear: %+v", stored[0])
	}

	var sent *events.MessageSent
	for _, ev := range h.pub.events {
		if ms, ok := ev.(events.MessageSent); ok {
			sent = &ms
		}
	}
	if sent == nil || sent.MessageID != res.MessageID || sent.RecipientID != bob.String() {
		t.Fatalf("expected message.sent event, got %v", h.pub.types())
	}
}

func TestListOrdersOldestFirstAcrossConversations(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.createUser(t, "Alice", "alice@example.com", "pw-a")
	bob := h.createUser(t, "Bob", "bob@example.com", "pw-b")
	carol := h.createUser(t, "Carol", "carol@example.com", "pw-c")

	send := func(from, to domain.UserID, text string) {
		t.Helper()
		if _, err := h.messages.Send(ctx, dto.SendMessageRequest{SenderID: from.String(), RecipientID: to.String(), MessageContent: text}); err != nil {
			t.Fatalf("Send %q: %v", text, err)
		}
		h.clock.advance(time.Second)
	}
	send(alice, bob, "one")
	send(carol, alice, "two")
	send(bob, alice, "three")

	got, err := h.messages.List(ctx, alice)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var texts []string
	for _, m := range got {
		texts = append(texts, m.Message.MessageContent)
	}
	if strings.Join(texts, ",") != "one,two,three" {
		t.Fatalf("unexpected order %v", texts)
	}
	if got[0].ConversationID != got[2].ConversationID || got[0].ConversationID == got[1].ConversationID {
		t.Fatalf("unexpected conversation grouping: %+v", got)
	}
}

func TestSendValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.createUser(t, "Alice", "alice@example.com", "pw-a")

	_, err := h.messages.Send(ctx, dto.SendMessageRequest{SenderID: alice.String(), RecipientID: uuid.NewString()})
	wantErr(t, err, domain.ErrMissingFields)

	_, err = h.messages.Send(ctx, dto.SendMessageRequest{SenderID: alice.String(), RecipientID: uuid.NewString(), MessageContent: "hi"})
	wantErr(t, err, domain.ErrRecipientKeyMissing)

	_, err = h.messages.Send(ctx, dto.SendMessageRequest{SenderID: uuid.NewString(), RecipientID: alice.String(), MessageContent: "hi"})
	wantErr(t, err, domain.ErrUserNotFound)

	_, err = h.messages.Send(ctx, dto.SendMessageRequest{SenderID: "nope", RecipientID: alice.String(), MessageContent: "hi"})
	wantErr(t, err, domain.ErrBadRequest)

	stored, err := h.st.Messages().ListForUser(ctx, alice)
	if err != nil || len(stored) != 0 {
		t.Fatalf("nothing should be stored, got %d, %v", len(stored), err)
	}
}

func TestSendRejectsMessageTooLongForRSA(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	rsa := cryptobox.NewRSAOAEP(1024)
	h.schemes.Register(rsa)
	alice := h.createUser(t, "Alice", "alice@example.com", "pw-a")
	bob := h.createUser(t, "Bob", "bob@example.com", "pw-b")

	pub, priv, err := rsa.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	err = h.st.DB.Model(&domain.UserKeyPair{}).Where("user_id = ?", bob).
		Updates(map[string]any{"scheme": rsa.Name(), "public_key": pub, "private_key": priv}).Error
	if err != nil {
		t.Fatalf("swap key: %v", err)
	}

	_, err = h.messages.Send(ctx, dto.SendMessageRequest{SenderID: alice.String(), RecipientID: bob.String(), MessageContent: strings.Repeat("x", rsa.MaxPlaintext()+1)})
	wantErr(t, err, domain.ErrMessageTooLong)

	if _, err := h.messages.Send(ctx, dto.SendMessageRequest{SenderID: alice.String(), RecipientID: bob.String(), MessageContent: "short"}); err != nil {
		t.Fatalf("short message: %v", err)
	}
	got, err := h.messages.List(ctx, bob)
	if err != nil || len(got) != 1 || got[0].Message.MessageContent != "short" {
		t.Fatalf("List = %+v, %v", got, err)
	}
}

func TestListSkipsUndecryptableMessages(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.createUser(t, "Alice", "alice@example.com", "pw-a")
	bob := h.createUser(t, "Bob", "bob@example.com", "pw-b")

	bad, err := h.messages.Send(ctx, dto.SendMessageRequest{SenderID: alice.String(), RecipientID: bob.String(), MessageContent: "garbled"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if _, err := h.messages.Send(ctx, dto.SendMessageRequest{SenderID: bob.String(), RecipientID: alice.String(), MessageContent: "fine"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if err := h.st.DB.Model(&domain.Message{}).Where("id = ?", bad.MessageID).Update("ciphertext", "AAAA").Error; err != nil {
		t.Fatalf("corrupt: %v", err)
	}

	got, err := h.messages.List(ctx, alice)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].Message.MessageContent != "fine" {
		t.Fatalf("expected only the readable message, got %+v", got)
	}
}

func TestListForUserWithoutMessages(t *testing.T) {
	h := newHarness(t)
	got, err := h.messages.List(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", got)
	}
}

func TestDeleteUserMessagesLeavesOthersAlone(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.createUser(t, "Alice", "alice@example.com", "pw-a")
	bob := h.createUser(t, "Bob", "bob@example.com", "pw-b")
	carol := h.createUser(t, "Carol", "carol@example.com", "pw-c")

	for _, r := range []dto.SendMessageRequest{
		{SenderID: alice.String(), RecipientID: bob.String(), MessageContent: "a->b"},
		{SenderID: bob.String(), RecipientID: alice.String(), MessageContent: "b->a"},
		{SenderID: bob.String(), RecipientID: carol.String(), MessageContent: "b->c"},
	} {
		if _, err := h.messages.Send(ctx, r); err != nil {
			t.Fatalf("Send: %v", err)
		}
	}

	n, err := h.messages.DeleteUserMessages(ctx, alice)
	if err != nil || n != 2 {
		t.Fatalf("DeleteUserMessages = %d, %v", n, err)
	}
	got, err := h.messages.List(ctx, carol)
	if err != nil || len(got) != 1 || got[0].Message.MessageContent != "b->c" {
		t.Fatalf("carol's messages changed: %+v, %v", got, err)
	}
	got, err = h.messages.List(ctx, alice)
	if err != nil || len(got) != 0 {
		t.Fatalf("alice should have no messages: %+v, %v", got, err)
	}

	_, err = h.messages.DeleteUserMessages(ctx, uuid.New())
	wantErr(t, err, domain.ErrUserNotFound)
}

func TestDeleteConversation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.createUser(t, "Alice", "alice@example.com", "pw-a")
	bob := h.createUser(t, "Bob", "bob@example.com", "pw-b")

	res, err := h.messages.Send(ctx, dto.SendMessageRequest{SenderID: alice.String(), RecipientID: bob.String(), MessageContent: "hello"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if err := h.messages.DeleteConversation(ctx, res.ConversationID); err != nil {
		t.Fatalf("DeleteConversation: %v", err)
	}
	got, err := h.messages.List(ctx, bob)
	if err != nil || len(got) != 0 {
		t.Fatalf("expected no messages, got %+v, %v", got, err)
	}
	wantErr(t, h.messages.DeleteConversation(ctx, res.ConversationID), domain.ErrConversationMissing)
	wantErr(t, h.messages.DeleteConversation(ctx, " "), domain.ErrBadRequest)
}
