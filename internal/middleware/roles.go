package middleware

import (
	"net/http"

	"github.com/shopstack/commerce-core/internal/app/domain/user"
	"github.com/shopstack/commerce-core/internal/errors"
)

// RolePolicy is the declarative required-role set for an operation. An empty
// Required set admits any authenticated identity.
type RolePolicy struct {
	Required []user.Role
}

// Allows reports whether the given role satisfies the policy.
func (p RolePolicy) Allows(role user.Role) bool {
	if len(p.Required) == 0 {
		return true
	}
	for _, r := range p.Required {
		if r == role {
			return true
		}
	}
	return false
}

// RequireRoles gates a handler behind a role policy. It must run after the
// identity guard; a request without a resolved identity is rejected as
// unauthenticated rather than forbidden.
func RequireRoles(policy RolePolicy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFrom(r.Context())
			if !ok {
				RespondError(w, errors.Unauthorized("missing identity"))
				return
			}
			if !policy.Allows(user.Role(id.Role)) {
				RespondError(w, errors.Forbidden("insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
