package dto

type TokenResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresIn   int64     `json:"expiresIn"` // seconds
	User        *UserView `json:"user,omitempty"`
}
