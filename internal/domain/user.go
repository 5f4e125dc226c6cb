package domain

import "time"

// Role separates ordinary shoppers from tenant administrators.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User is an account registered with the auth service for one tenant.
type User struct {
	ID           string
	TenantID     string
	Username     string
	Email        string
	PasswordHash string
	FullName     *string
	Address      *string
	PhoneNumber  *string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity projects the user into the payload returned by token verification.
func (u *User) Identity() Identity {
	id := u.ID
	return Identity{
		ID:          &id,
		Username:    u.Username,
		Email:       u.Email,
		FullName:    u.FullName,
		Address:     u.Address,
		PhoneNumber: u.PhoneNumber,
	}
}
