package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRoleHint(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRoleHint("admin"))
	assert.Equal(t, RoleUser, ParseRoleHint("user"))
	assert.Equal(t, RoleUser, ParseRoleHint(""))
	assert.Equal(t, RoleUser, ParseRoleHint("superuser"))
	// Hint matching is exact, not case-folded.
	assert.Equal(t, RoleUser, ParseRoleHint("ADMIN"))
}

func TestIdentitySubjectID(t *testing.T) {
	identity := &Identity{UserID: 42}
	assert.Equal(t, "42", identity.SubjectID())
}
