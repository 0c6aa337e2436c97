package dto

type AddContactRequest struct {
	Email string `json:"email"`
}

type ContactView struct {
	UserID    string `json:"userId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}
