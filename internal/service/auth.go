package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"order-management/internal/domain"
	"order-management/internal/repository"
)

// AuthContext identifies the caller of an authenticated request.
type AuthContext struct {
	TokenID int64
	User    *domain.User
}

type AuthServiceInterface interface {
	// Login verifies credentials and issues a bearer token. The returned
	// plaintext has the form "<token-id>|<secret>" and is never stored.
	Login(ctx context.Context, req LoginRequest) (string, *domain.User, error)
	// Authenticate resolves a bearer token to its user.
	Authenticate(ctx context.Context, token string) (*AuthContext, error)
	// Logout revokes the presented token.
	Logout(ctx context.Context, tokenID int64) error
}

type AuthService struct {
	users repository.UserRepositoryInterface
}

func NewAuthService(users repository.UserRepositoryInterface) AuthServiceInterface {
	return &AuthService{users: users}
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (string, *domain.User, error) {
	identifier := req.Email
	if identifier == "" {
		identifier = req.Username
	}

	ve := domain.NewValidationError()
	if identifier == "" {
		ve.Add("email", "The email field is required when username is not present.")
	} else if !validEmail(identifier) {
		ve.Add("email", "The email must be a valid email address.")
	}
	if req.Password == "" {
		ve.Add("password", "The password field is required.")
	}
	if err := ve.Err(); err != nil {
		return "", nil, err
	}

	user, err := s.users.GetByEmail(ctx, identifier)
	if errors.Is(err, domain.ErrNotFound) {
		return "", nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	secret, err := randomSecret()
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}
	tokenID, err := s.users.CreateToken(ctx, user.ID, hashSecret(secret))
	if err != nil {
		return "", nil, err
	}

	return fmt.Sprintf("%d|%s", tokenID, secret), user, nil
}

func (s *AuthService) Authenticate(ctx context.Context, token string) (*AuthContext, error) {
	idPart, secret, ok := strings.Cut(token, "|")
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	tokenID, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	t, err := s.users.GetToken(ctx, tokenID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(t.TokenHash), []byte(hashSecret(secret))) != 1 {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.GetByID(ctx, t.UserID)
	if err != nil {
		return nil, err
	}
	_ = s.users.TouchToken(ctx, tokenID)

	return &AuthContext{TokenID: tokenID, User: user}, nil
}

func (s *AuthService) Logout(ctx context.Context, tokenID int64) error {
	return s.users.DeleteToken(ctx, tokenID)
}

func randomSecret() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func hashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
