package domain

import "time"

// User is the domain model for customer and admin accounts.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Roles        []RoleName
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
