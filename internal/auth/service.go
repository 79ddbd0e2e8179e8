package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/inkpost/inkpost/internal/platform/httpx"
)

// Service wraps authentication business rules: password-based identity
// proof and stateless bearer tokens.
type Service struct {
	repo   Repository
	tokens *TokenIssuer
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *TokenIssuer) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Signup registers a fresh identity and issues its first token. The
// plaintext password is hashed immediately and never stored or logged.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*SessionResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user, err := s.repo.Create(ctx, &User{
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		AvatarURL:    req.AvatarURL,
	})
	if err != nil {
		return nil, err
	}
	return s.session(user)
}

// Login verifies email/password credentials and issues a new token.
// Unknown email and wrong password yield the same generic failure so the
// response never reveals which case occurred.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*SessionResponse, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", httpx.ErrUnauthorized)
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", httpx.ErrUnauthorized)
	}
	return s.session(user)
}

// Identity verifies a bearer token and resolves the embedded identity
// against the credential store. It is the entry point for the request
// authentication middleware.
func (s *Service) Identity(ctx context.Context, token string) (int64, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return 0, err
	}
	if _, err := s.repo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return 0, fmt.Errorf("%w: unknown identity", httpx.ErrUnauthorized)
		}
		return 0, err
	}
	return userID, nil
}

// Self returns the public view of the authenticated user.
func (s *Service) Self(ctx context.Context, userID int64) (*PublicUser, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown identity", httpx.ErrUnauthorized)
		}
		return nil, err
	}
	view := user.Public()
	return &view, nil
}

func (s *Service) session(user *User) (*SessionResponse, error) {
	token, _, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &SessionResponse{User: user.Public(), Token: token}, nil
}
