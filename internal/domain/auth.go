package domain

// Identity is the verified caller returned by the auth service.
// Downstream services only ever build one from a successful verification response.
type Identity struct {
	ID          *string `json:"id"`
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	FullName    *string `json:"full_name"`
	Address     *string `json:"address"`
	PhoneNumber *string `json:"phone_number"`
}

// UserID returns the identity id, or "" when the auth service sent null.
func (i *Identity) UserID() string {
	if i == nil || i.ID == nil {
		return ""
	}
	return *i.ID
}
