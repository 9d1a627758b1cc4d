package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	apperrors "focustrack/internal/errors"
	"focustrack/internal/model"
	"focustrack/internal/repository"
)

const minPasswordLength = 6

// AuthService issues and checks the bearer tokens a client stores after
// login. Tokens carry only the user id as subject.
type AuthService struct {
	users    *repository.UserRepository
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

func NewAuthService(users *repository.UserRepository, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		users:    users,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

type AuthResult struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

func normalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Register creates an account and signs it in. The unique index on email
// decides duplicates.
func (s *AuthService) Register(ctx context.Context, email, password string) (*AuthResult, *apperrors.APIError) {
	email = normalizeEmail(email)
	switch {
	case email == "":
		return nil, apperrors.BadRequest("invalid_email", "email is required")
	case len(password) < minPasswordLength:
		return nil, apperrors.BadRequest("invalid_password", "password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("failed to secure password")
	}

	now := s.now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = s.users.Create(ctx, &user)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apperrors.Conflict("email_exists", "email already registered", nil)
	}
	if err != nil {
		return nil, apperrors.Internal("failed to create user")
	}
	return s.signIn(user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, *apperrors.APIError) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperrors.BadRequest("invalid_credentials", "email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, apperrors.Unauthorized("invalid email or password")
	case err != nil:
		return nil, apperrors.Internal("failed to query user")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, apperrors.Unauthorized("invalid email or password")
	}
	return s.signIn(*user)
}

// Me returns the account behind a token. A token for a deleted account is
// treated like a bad token.
func (s *AuthService) Me(ctx context.Context, userID string) (*model.User, *apperrors.APIError) {
	user, err := s.users.GetByID(ctx, userID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, apperrors.Unauthorized("account no longer exists")
	case err != nil:
		return nil, apperrors.Internal("failed to query user")
	}
	user.PasswordHash = ""
	return user, nil
}

// ParseToken returns the user id of a valid, unexpired HS256 token.
func (s *AuthService) ParseToken(raw string) (string, *apperrors.APIError) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", apperrors.Unauthorized("invalid token")
	}
	if claims.Subject == "" {
		return "", apperrors.Unauthorized("invalid token subject")
	}
	return claims.Subject, nil
}

func (s *AuthService) signIn(user model.User) (*AuthResult, *apperrors.APIError) {
	now := s.now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   user.ID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, apperrors.Internal("failed to sign token")
	}

	user.PasswordHash = ""
	return &AuthResult{Token: signed, User: user}, nil
}
