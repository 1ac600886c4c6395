package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/quocphungccq1911h/mobi/internal/domain"
	"github.com/quocphungccq1911h/mobi/pkg/util/errorutil"
)

// Policy outcomes. ErrUnauthorized means no identity was established;
// ErrForbidden means the identity lacks the required role or ownership.
var (
	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("insufficient rights")
)

// SubjectExtractor reads the identifier of the target resource owner from a
// request, typically a path parameter.
type SubjectExtractor func(c *fiber.Ctx) string

// PathParam returns an extractor reading the named path parameter.
func PathParam(name string) SubjectExtractor {
	return func(c *fiber.Ctx) string {
		return c.Params(name)
	}
}

type ruleKind int

const (
	rulePublic ruleKind = iota
	ruleAuthenticatedAny
	ruleRequireRole
	ruleRequireRoleOrSelf
)

// Rule is a declarative access requirement bound to an operation at
// startup. Rules are immutable.
type Rule struct {
	kind      ruleKind
	role      domain.RoleName
	extractor SubjectExtractor
}

// Public allows every request.
func Public() Rule {
	return Rule{kind: rulePublic}
}

// AuthenticatedAny allows any authenticated identity.
func AuthenticatedAny() Rule {
	return Rule{kind: ruleAuthenticatedAny}
}

// RequireRole allows identities holding the given role.
func RequireRole(role domain.RoleName) Rule {
	return Rule{kind: ruleRequireRole, role: role}
}

// RequireRoleOrSelf allows identities holding the role, or any identity
// whose subject id matches the extracted target owner.
func RequireRoleOrSelf(role domain.RoleName, extractor SubjectExtractor) Rule {
	return Rule{kind: ruleRequireRoleOrSelf, role: role, extractor: extractor}
}

// Evaluate decides allow or deny for the identity and the pre-extracted
// target subject. It is pure: every (rule, identity) pair yields exactly
// one of nil, ErrUnauthorized, or ErrForbidden.
func (r Rule) Evaluate(identity *domain.Identity, target string) error {
	if r.kind == rulePublic {
		return nil
	}
	if identity == nil {
		return ErrUnauthorized
	}
	switch r.kind {
	case ruleAuthenticatedAny:
		return nil
	case ruleRequireRole:
		if identity.HasRole(r.role) {
			return nil
		}
		return ErrForbidden
	case ruleRequireRoleOrSelf:
		if identity.HasRole(r.role) {
			return nil
		}
		if target != "" && identity.SubjectID() == target {
			return nil
		}
		return ErrForbidden
	default:
		return ErrForbidden
	}
}

// Guard adapts a rule into route middleware. Denials resolve here; handlers
// only ever observe an already-authorized request.
func Guard(rule Rule) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, _ := IdentityFromContext(c)

		target := ""
		if rule.extractor != nil {
			target = rule.extractor(c)
		}

		switch err := rule.Evaluate(identity, target); err {
		case nil:
			return c.Next()
		case ErrUnauthorized:
			return errorutil.NewUnauthorized("authentication required")
		default:
			return errorutil.NewForbidden("insufficient rights")
		}
	}
}
