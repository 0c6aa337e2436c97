package dto

type CreateUserRequest struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	PlainPassword string `json:"plainPassword"`
}

type CreateUserResponse struct {
	UserID string `json:"userId"`
}

// UserView is the redacted profile: no credential, no key material.
type UserView struct {
	ID        string   `json:"id"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Email     string   `json:"email"`
	Contacts  []string `json:"contacts"`
}

// UpdateProfileRequest changes only the fields that are present.
type UpdateProfileRequest struct {
	FirstName     *string `json:"firstName,omitempty"`
	LastName      *string `json:"lastName,omitempty"`
	Email         *string `json:"email,omitempty"`
	PlainPassword *string `json:"plainPassword,omitempty"`
}
