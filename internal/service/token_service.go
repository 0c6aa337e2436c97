package service

import (
	"context"

	"encrypto-chat/internal/domain"
	"encrypto-chat/internal/dto"
)

type TokenService interface {
	Issue(ctx context.Context, user *domain.User) (*dto.TokenResponse, error)
	// Subject validates an access token and returns the user id it was issued to.
	Subject(token string) (string, error)
}
