package domain

import (
	"strconv"
	"time"
)

// Identity is the authenticated principal decoded from a signed token.
// It is an immutable value carried with a single request; it is never
// persisted server-side.
type Identity struct {
	UserID    int64
	Username  string
	Roles     []RoleName
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// HasRole reports whether the identity carries the given role.
func (i *Identity) HasRole(role RoleName) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// SubjectID returns the stable user identifier as it appears in request
// paths, for ownership comparisons.
func (i *Identity) SubjectID() string {
	return strconv.FormatInt(i.UserID, 10)
}
