// Package accounts orchestrates registration and login.
package accounts

import (
	"context"
	stderrors "errors"
	"net/mail"
	"strings"

	"github.com/shopstack/commerce-core/internal/app/domain/user"
	"github.com/shopstack/commerce-core/internal/app/storage"
	"github.com/shopstack/commerce-core/internal/auth"
	"github.com/shopstack/commerce-core/internal/errors"
	"github.com/shopstack/commerce-core/pkg/logger"
)

const minPasswordLength = 6

// Service handles account registration and credential verification.
type Service struct {
	users  storage.UserStore
	hasher *auth.PasswordHasher
	tokens *auth.TokenManager
	log    *logger.Logger
}

// New constructs an account service.
func New(users storage.UserStore, hasher *auth.PasswordHasher, tokens *auth.TokenManager, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("accounts")
	}
	return &Service{users: users, hasher: hasher, tokens: tokens, log: log}
}

// Register creates a user and returns it with an access token, so the new
// identity is usable immediately. Role defaults to user when not supplied.
func (s *Service) Register(ctx context.Context, email, password string, role user.Role) (user.User, string, error) {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return user.User{}, "", errors.Validation("email must be a valid address")
	}
	if len(password) < minPasswordLength {
		return user.User{}, "", errors.Validation("password must be at least 6 characters")
	}
	if role == "" {
		role = user.RoleUser
	}
	if !role.Valid() {
		return user.User{}, "", errors.Validation("unknown role")
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return user.User{}, "", errors.Internal("hash password", err)
	}

	// Uniqueness is enforced by the store's constraint, not a check-then-insert;
	// concurrent registrations race at the store and exactly one wins.
	created, err := s.users.CreateUser(ctx, user.User{
		Email:        email,
		PasswordHash: hashed,
		Role:         role,
	})
	if err != nil {
		if stderrors.Is(err, storage.ErrDuplicate) {
			return user.User{}, "", errors.Conflict("email already exists")
		}
		return user.User{}, "", errors.Internal("create user", err)
	}

	token, err := s.tokens.Issue(created.ID, created.Email, string(created.Role))
	if err != nil {
		return user.User{}, "", errors.Internal("issue token", err)
	}

	s.log.WithField("user_id", created.ID).Info("user registered")
	return created, token, nil
}

// Login verifies credentials and issues a token. A missing user and a wrong
// password yield the identical error so accounts cannot be enumerated.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return "", errors.Unauthorized("invalid credentials")
		}
		return "", errors.Internal("look up user", err)
	}

	if !s.hasher.Verify(password, u.PasswordHash) {
		return "", errors.Unauthorized("invalid credentials")
	}

	token, err := s.tokens.Issue(u.ID, u.Email, string(u.Role))
	if err != nil {
		return "", errors.Internal("issue token", err)
	}

	s.log.WithField("user_id", u.ID).Info("user logged in")
	return token, nil
}
