package service

import (
	"context"

	"encrypto-chat/internal/dto"
)

// AuthService runs the two step login: password first, then an emailed code.
type AuthService interface {
	Login(ctx context.Context, r dto.LoginRequest) (*dto.LoginResponse, error)
	IssueChallenge(ctx context.Context, r dto.IssueChallengeRequest) (*dto.IssueChallengeResponse, error)
	VerifyChallenge(ctx context.Context, r dto.VerifyChallengeRequest) (*dto.TokenResponse, error)
}
