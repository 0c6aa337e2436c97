package service

import (
	"context"

	"encrypto-chat/internal/domain"
	"encrypto-chat/internal/dto"
)

type UserService interface {
	Create(ctx context.Context, r dto.CreateUserRequest) (*dto.CreateUserResponse, error)
	Get(ctx context.Context, userID domain.UserID) (*dto.UserView, error)
	GetRecord(ctx context.Context, userID domain.UserID) (*domain.UserRecord, error)
	GetIDByEmail(ctx context.Context, email string) (domain.UserID, error)
	UpdateProfile(ctx context.Context, userID domain.UserID, r dto.UpdateProfileRequest) (*dto.UserView, error)
	DeleteByEmail(ctx context.Context, email string) error
}
