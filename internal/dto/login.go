package dto

import "time"

type LoginRequest struct {
	Email         string `json:"email"`
	PlainPassword string `json:"plainPassword"`
}

// LoginResponse confirms the password step. The client continues with
// IssueChallengeRequest for the same user id.
type LoginResponse struct {
	UserID            string    `json:"userId"`
	TwoFactorRequired bool      `json:"twoFactorRequired"`
	ExpiresAt         time.Time `json:"expiresAt"`
}

type IssueChallengeRequest struct {
	UserID string `json:"userId"`
}

type IssueChallengeResponse struct {
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type VerifyChallengeRequest struct {
	UserID        string `json:"userId"`
	SecretAttempt string `json:"secretAttempt"`
}
