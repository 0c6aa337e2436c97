package service

import (
	"context"

	"encrypto-chat/internal/domain"
	"encrypto-chat/internal/dto"
)

type ContactService interface {
	Add(ctx context.Context, userID domain.UserID, r dto.AddContactRequest) (*dto.ContactView, error)
	List(ctx context.Context, userID domain.UserID) ([]dto.ContactView, error)
	Remove(ctx context.Context, userID, contactID domain.UserID) error
}
