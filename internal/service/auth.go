package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/notevault/notevault-go/internal/crypto"
	"github.com/notevault/notevault-go/internal/model"
	"github.com/notevault/notevault-go/internal/repository"
)

// AuthService handles account and session business logic.
type AuthService struct {
	users    UserStore
	revoked  TokenRevoker
	hasher   *crypto.PasswordHasher
	tokens   *crypto.TokenService
	identity IdentityVerifier
	ttl      time.Duration
	now      func() time.Time
}

// NewAuthService creates a new AuthService issuing sessions that last ttl.
func NewAuthService(users UserStore, revoked TokenRevoker, hasher *crypto.PasswordHasher, tokens *crypto.TokenService, ttl time.Duration) *AuthService {
	return &AuthService{
		users:   users,
		revoked: revoked,
		hasher:  hasher,
		tokens:  tokens,
		ttl:     ttl,
		now:     utcNow,
	}
}

// EnableIdentityLogin turns on IdentityLogin backed by v.
func (s *AuthService) EnableIdentityLogin(v IdentityVerifier) {
	s.identity = v
}

// SessionTTL returns the lifetime of issued session tokens.
func (s *AuthService) SessionTTL() time.Duration {
	return s.ttl
}

// Signup creates a new account with a local password.
func (s *AuthService) Signup(ctx context.Context, req model.SignupRequest) (model.UserResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	if name == "" {
		return model.UserResponse{}, ErrNameRequired
	}
	if email == "" {
		return model.UserResponse{}, ErrEmailRequired
	}
	if req.Password == "" {
		return model.UserResponse{}, ErrPasswordRequired
	}

	hash, err := s.hasher.Hash(ctx, req.Password)
	if err != nil {
		if errors.Is(err, crypto.ErrPasswordTooLong) {
			return model.UserResponse{}, newError(ErrValidation, "password must be at most 72 bytes")
		}
		return model.UserResponse{}, err
	}

	now := s.now()
	user := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.UserResponse{}, ErrEmailTaken
		}
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrUserNotFound
		}
		return model.UserResponse{}, err
	}

	return toUserResponse(user), nil
}

// Signin authenticates a user with email and password and issues a session.
func (s *AuthService) Signin(ctx context.Context, req model.SigninRequest) (model.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return model.AuthResponse{}, ErrEmailRequired
	}
	if req.Password == "" {
		return model.AuthResponse{}, ErrPasswordRequired
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.AuthResponse{}, ErrUserNotFound
		}
		return model.AuthResponse{}, err
	}

	if !user.HasPassword() {
		return model.AuthResponse{}, ErrInvalidCredentials
	}

	match, err := s.hasher.Verify(ctx, req.Password, user.PasswordHash)
	if err != nil {
		return model.AuthResponse{}, fmt.Errorf("verifying password for user %s: %w", user.ID, err)
	}
	if !match {
		return model.AuthResponse{}, ErrInvalidCredentials
	}

	return s.issueSession(user, "signed in successfully")
}

// IdentityLogin signs in with an identity-provider credential, creating the
// account on first use. Accounts created this way have no local password.
func (s *AuthService) IdentityLogin(ctx context.Context, req model.IdentityLoginRequest) (model.AuthResponse, error) {
	if s.identity == nil {
		return model.AuthResponse{}, ErrIdentityDisabled
	}
	if req.Credential == "" {
		return model.AuthResponse{}, ErrCredentialRequired
	}

	ident, err := s.identity.VerifyIdentity(ctx, req.Credential)
	if err != nil {
		slog.Warn("identity verification failed", "error", err)
		return model.AuthResponse{}, ErrInvalidIdentity
	}

	email := normalizeEmail(ident.Email)
	if email == "" {
		return model.AuthResponse{}, ErrInvalidIdentity
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		now := s.now()
		user = &model.User{
			ID:        uuid.NewString(),
			Email:     email,
			Name:      strings.TrimSpace(ident.Name),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.users.Create(ctx, user); err != nil {
			if !errors.Is(err, repository.ErrDuplicateEmail) {
				return model.AuthResponse{}, err
			}
			// A concurrent first login created the account.
			user, err = s.users.GetByEmail(ctx, email)
			if err != nil {
				return model.AuthResponse{}, err
			}
		}
	} else if err != nil {
		return model.AuthResponse{}, err
	}

	return s.issueSession(user, "signed in successfully")
}

// Me returns the profile of userID.
func (s *AuthService) Me(ctx context.Context, userID string) (model.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrUserNotFound
		}
		return model.UserResponse{}, err
	}
	return toUserResponse(user), nil
}

// UpdateProfile changes the name and/or email of userID. Empty fields are kept.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req model.UpdateProfileRequest) (model.UserResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	if name == "" && email == "" {
		return model.UserResponse{}, ErrNothingToUpdate
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrUserNotFound
		}
		return model.UserResponse{}, err
	}

	if name != "" {
		user.Name = name
	}
	if email != "" {
		user.Email = email
	}
	user.UpdatedAt = s.now()

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.UserResponse{}, ErrEmailTaken
		}
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrUserNotFound
		}
		return model.UserResponse{}, err
	}

	return toUserResponse(user), nil
}

// DeleteAccount removes userID together with all subjects, notes and
// passwords they own.
func (s *AuthService) DeleteAccount(ctx context.Context, userID string) error {
	err := s.users.Delete(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return ErrUserNotFound
	}
	return err
}

// Logout revokes the session described by claims until it would have expired.
func (s *AuthService) Logout(ctx context.Context, claims *crypto.Claims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}
	return s.revoked.Revoke(ctx, claims.ID, claims.Expiry())
}

func (s *AuthService) issueSession(user *model.User, message string) (model.AuthResponse, error) {
	token, err := s.tokens.Issue(user.ID, s.ttl)
	if err != nil {
		return model.AuthResponse{}, err
	}

	return model.AuthResponse{
		Message: message,
		Token:   token,
		User:    toUserResponse(user),
	}, nil
}

func toUserResponse(user *model.User) model.UserResponse {
	return model.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	}
}

// normalizeEmail trims surrounding whitespace. Case is preserved: addresses are
// stored and matched exactly as entered.
func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}
