// Package middleware provides the per-request identity and role guards.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/shopstack/commerce-core/internal/auth"
	"github.com/shopstack/commerce-core/internal/errors"
	"github.com/shopstack/commerce-core/pkg/logger"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the resolved result of a verified token.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

// WithIdentity attaches an identity to the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom extracts the identity attached by the auth middleware.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// AuthMiddleware verifies bearer tokens and resolves them to an identity. It
// is stateless and safe for concurrent use.
type AuthMiddleware struct {
	tokens *auth.TokenManager
	log    *logger.Logger
}

// NewAuthMiddleware creates the identity guard.
func NewAuthMiddleware(tokens *auth.TokenManager, log *logger.Logger) *AuthMiddleware {
	if log == nil {
		log = logger.NewDefault("auth")
	}
	return &AuthMiddleware{tokens: tokens, log: log}
}

// Handler gates the next handler behind token verification. On success the
// resolved identity is attached to the request context.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			RespondError(w, errors.Unauthorized("missing authorization header"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			RespondError(w, errors.Unauthorized("invalid authorization header format"))
			return
		}

		claims, err := m.tokens.Verify(parts[1])
		if err != nil {
			m.log.WithError(err).WithField("path", r.URL.Path).Warn("token verification failed")
			RespondError(w, err)
			return
		}

		id := Identity{UserID: claims.UserID(), Email: claims.Email, Role: claims.Role}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// RespondError writes a ServiceError as a JSON response. Unclassified errors
// surface as a generic server error.
func RespondError(w http.ResponseWriter, err error) {
	svcErr := errors.GetServiceError(err)
	if svcErr == nil {
		svcErr = errors.Internal("internal server error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(svcErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": svcErr.Message,
		"code":  string(svcErr.Code),
	})
}
