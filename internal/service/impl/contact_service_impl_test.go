package impl

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"encrypto-chat/internal/domain"
	"encrypto-chat/internal/dto"
)

func TestContactsAreSymmetric(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.createUser(t, "Alice", "alice@example.com", "pw-a")
	bob := h.createUser(t, "Bob", "bob@example.com", "pw-b")

	added, err := h.contacts.Add(ctx, alice, dto.AddContactRequest{Email: "bob@example.com"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if added.UserID != bob.String() || added.FirstName != "Bob" {
		t.Fatalf("unexpected contact: %+v", added)
	}

	for owner, want := range map[domain.UserID]domain.UserID{alice: bob, bob: alice} {
		list, err := h.contacts.List(ctx, owner)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(list) != 1 || list[0].UserID != want.String() {
			t.Fatalf("contacts of %s = %+v", owner, list)
		}
	}

	_, err = h.contacts.Add(ctx, bob, dto.AddContactRequest{Email: "alice@example.com"})
	wantErr(t, err, domain.ErrAlreadyContact)

	if err := h.contacts.Remove(ctx, bob, alice); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	list, err := h.contacts.List(ctx, alice)
	if err != nil || len(list) != 0 {
		t.Fatalf("alice still has contacts: %+v, %v", list, err)
	}
	wantErr(t, h.contacts.Remove(ctx, alice, bob), domain.ErrContactNotFound)
}

func TestAddContactRejectsSelfAndStrangers(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.createUser(t, "Alice", "alice@example.com", "pw-a")

	_, err := h.contacts.Add(ctx, alice, dto.AddContactRequest{Email: "alice@example.com"})
	wantErr(t, err, domain.ErrSelfContact)

	_, err = h.contacts.Add(ctx, alice, dto.AddContactRequest{Email: "nobody@example.com"})
	wantErr(t, err, domain.ErrUserNotFound)

	_, err = h.contacts.Add(ctx, alice, dto.AddContactRequest{})
	wantErr(t, err, domain.ErrMissingFields)

	_, err = h.contacts.List(ctx, uuid.New())
	wantErr(t, err, domain.ErrUserNotFound)
}
