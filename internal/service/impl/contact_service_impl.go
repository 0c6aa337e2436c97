package impl

import (
	"context"
	"errors"
	"strings"
	"time"

	"encrypto-chat/internal/domain"
	"encrypto-chat/internal/dto"
	"encrypto-chat/internal/events"
	"encrypto-chat/internal/store"
)

// ContactServiceImpl maintains the symmetric contact relation: adding or
// removing always touches both users.
type ContactServiceImpl struct {
	store  *store.Store
	events events.Publisher
	now    func() time.Time
}

func NewContactServiceImpl(st *store.Store, pub events.Publisher) *ContactServiceImpl {
	return &ContactServiceImpl{store: st, events: pub, now: time.Now}
}

func (c *ContactServiceImpl) Add(ctx context.Context, userID domain.UserID, r dto.AddContactRequest) (*dto.ContactView, error) {
	email := strings.TrimSpace(r.Email)
	if email == "" {
		return nil, domain.ErrMissingFields
	}

	var contact *domain.User
	err := c.store.WithTx(ctx, func(tx *store.Store) error {
		if _, err := tx.Users().GetByID(ctx, userID); err != nil {
			return storeErr(err, domain.ErrUserNotFound)
		}
		var err error
		contact, err = tx.Users().GetByEmail(ctx, email)
		if err != nil {
			return storeErr(err, domain.ErrUserNotFound)
		}
		if contact.ID == userID {
			return domain.ErrSelfContact
		}
		exists, err := tx.Contacts().Exists(ctx, userID, contact.ID)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrAlreadyContact
		}
		return tx.Contacts().AddPair(ctx, userID, contact.ID)
	})
	if errors.Is(err, store.ErrDuplicate) {
		return nil, domain.ErrAlreadyContact
	}
	if err != nil {
		return nil, storeErr(err, nil)
	}

	publish(ctx, c.events, events.ContactChanged{
		Added:     true,
		UserID:    userID.String(),
		ContactID: contact.ID.String(),
		At:        c.now().UTC(),
	})
	v := contactView(contact)
	return &v, nil
}

func (c *ContactServiceImpl) List(ctx context.Context, userID domain.UserID) ([]dto.ContactView, error) {
	if _, err := c.store.Users().GetByID(ctx, userID); err != nil {
		return nil, storeErr(err, domain.ErrUserNotFound)
	}
	ids, err := c.store.Contacts().ListIDs(ctx, userID)
	if err != nil {
		return nil, storeErr(err, nil)
	}
	users, err := c.store.Users().ListByIDs(ctx, ids)
	if err != nil {
		return nil, storeErr(err, nil)
	}
	out := make([]dto.ContactView, 0, len(users))
	for i := range users {
		out = append(out, contactView(&users[i]))
	}
	return out, nil
}

func (c *ContactServiceImpl) Remove(ctx context.Context, userID, contactID domain.UserID) error {
	n, err := c.store.Contacts().RemovePair(ctx, userID, contactID)
	if err != nil {
		return storeErr(err, nil)
	}
	if n == 0 {
		return domain.ErrContactNotFound
	}
	publish(ctx, c.events, events.ContactChanged{
		UserID:    userID.String(),
		ContactID: contactID.String(),
		At:        c.now().UTC(),
	})
	return nil
}

func contactView(u *domain.User) dto.ContactView {
	return dto.ContactView{
		UserID:    u.ID.String(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}
