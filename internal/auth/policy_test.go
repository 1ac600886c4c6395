package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quocphungccq1911h/mobi/internal/domain"
)

func adminIdentity() *domain.Identity {
	return &domain.Identity{UserID: 1, Username: "root", Roles: []domain.RoleName{domain.RoleAdmin}}
}

func userIdentity() *domain.Identity {
	return &domain.Identity{UserID: 7, Username: "alice", Roles: []domain.RoleName{domain.RoleUser}}
}

func TestEvaluateIsTotal(t *testing.T) {
	extractor := PathParam("id")
	rules := []Rule{
		Public(),
		AuthenticatedAny(),
		RequireRole(domain.RoleAdmin),
		RequireRoleOrSelf(domain.RoleAdmin, extractor),
	}
	identities := []*domain.Identity{nil, userIdentity(), adminIdentity()}

	for _, rule := range rules {
		for _, identity := range identities {
			first := rule.Evaluate(identity, "7")
			second := rule.Evaluate(identity, "7")

			// Exactly one of allow/deny, and the same answer every time.
			assert.True(t, first == nil || first == ErrUnauthorized || first == ErrForbidden)
			assert.Equal(t, first, second)
		}
	}
}

func TestEvaluatePublic(t *testing.T) {
	rule := Public()
	assert.NoError(t, rule.Evaluate(nil, ""))
	assert.NoError(t, rule.Evaluate(userIdentity(), ""))
}

func TestEvaluateAuthenticatedAny(t *testing.T) {
	rule := AuthenticatedAny()
	assert.ErrorIs(t, rule.Evaluate(nil, ""), ErrUnauthorized)
	assert.NoError(t, rule.Evaluate(userIdentity(), ""))
	assert.NoError(t, rule.Evaluate(adminIdentity(), ""))
}

func TestEvaluateRequireRole(t *testing.T) {
	rule := RequireRole(domain.RoleAdmin)
	assert.ErrorIs(t, rule.Evaluate(nil, ""), ErrUnauthorized)
	assert.ErrorIs(t, rule.Evaluate(userIdentity(), ""), ErrForbidden)
	assert.NoError(t, rule.Evaluate(adminIdentity(), ""))
}

func TestEvaluateRequireRoleOrSelf(t *testing.T) {
	rule := RequireRoleOrSelf(domain.RoleAdmin, PathParam("id"))

	// A non-admin may act on its own subject id only.
	assert.NoError(t, rule.Evaluate(userIdentity(), "7"))
	assert.ErrorIs(t, rule.Evaluate(userIdentity(), "8"), ErrForbidden)

	// An admin may act on anyone.
	assert.NoError(t, rule.Evaluate(adminIdentity(), "7"))
	assert.NoError(t, rule.Evaluate(adminIdentity(), "8"))

	// Unauthenticated stays unauthorized, never forbidden.
	assert.ErrorIs(t, rule.Evaluate(nil, "7"), ErrUnauthorized)
}

func TestEvaluateRequireRoleOrSelfEmptyTarget(t *testing.T) {
	rule := RequireRoleOrSelf(domain.RoleAdmin, PathParam("id"))

	// An empty target never matches an identity.
	assert.ErrorIs(t, rule.Evaluate(userIdentity(), ""), ErrForbidden)
}
