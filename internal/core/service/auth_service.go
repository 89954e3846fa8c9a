package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/postboard/feed-api/internal/core/domain"
	"github.com/postboard/feed-api/internal/core/ports"
	"github.com/postboard/feed-api/internal/core/token"
)

// bcryptCost is deliberately above the library default; login latency is the
// price of brute-force resistance.
const bcryptCost = 12

// LoginLimiter throttles repeated login attempts per email.
type LoginLimiter interface {
	Allow(ctx context.Context, email string) (bool, error)
}

// AuthService implements signup and login.
type AuthService struct {
	repo    ports.AuthRepository
	tokens  *token.Service
	limiter LoginLimiter
	log     zerolog.Logger
}

// NewAuthService wires the user store, token signer, and an optional login
// limiter (nil disables throttling).
func NewAuthService(repo ports.AuthRepository, tokens *token.Service, limiter LoginLimiter, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, limiter: limiter, log: log}
}

// Signup hashes the password and creates the user. The plaintext password is
// never persisted; the stored credential is the bcrypt hash only.
func (s *AuthService) Signup(ctx context.Context, email, name, password string) (*domain.User, error) {
	if ve := signupFieldErrors(email, name, password); ve != nil {
		return nil, ve
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Msg("user created")
	return created, nil
}

// Login verifies credentials and issues a bearer token. Unknown email and
// wrong password both surface as ErrInvalidCredentials so the response shape
// never reveals whether an email is registered; the log keeps the distinction
// for diagnostics.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, email)
		if err != nil {
			s.log.Warn().Err(err).Msg("login limiter unavailable, allowing attempt")
		} else if !allowed {
			return "", nil, domain.ErrTooManyLogins
		}
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Debug().Str("email", email).Msg("login rejected: unknown email")
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.log.Debug().Str("user_id", user.ID).Msg("login rejected: wrong password")
		return "", nil, domain.ErrInvalidCredentials
	}

	tok, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return "", nil, err
	}

	return tok, user, nil
}

// signupFieldErrors guards the service against callers that bypass transport
// validation. The handler performs the full format checks.
func signupFieldErrors(email, name, password string) *domain.ValidationError {
	var fields []domain.FieldError
	if email == "" {
		fields = append(fields, domain.FieldError{Field: "email", Message: "email is required"})
	}
	if name == "" {
		fields = append(fields, domain.FieldError{Field: "name", Message: "name is required"})
	}
	if password == "" {
		fields = append(fields, domain.FieldError{Field: "password", Message: "password is required"})
	}
	if fields == nil {
		return nil
	}
	return &domain.ValidationError{Fields: fields}
}
