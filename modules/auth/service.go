package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	domain "github.com/WaleedKhaledKhaled/TasksManager/domain/user"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when login credentials are invalid.
// The same error covers an unknown email and a wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

const bcryptCost = 12

// AuthResult carries the signed token and the identity it represents.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	UserID    string
	Email     string
	Name      string
}

// AuthService handles registration, login and token validation.
type AuthService struct {
	repo *UserRepository
	jwt  *JWTManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo *UserRepository, jwt *JWTManager) *AuthService {
	return &AuthService{
		repo: repo,
		jwt:  jwt,
	}
}

// Register creates a new user account and signs a token for immediate use.
// Emails are normalized to lower case before storage and lookup.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	normalizedEmail := strings.ToLower(strings.TrimSpace(email))

	exists, err := s.repo.EmailExists(ctx, normalizedEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        normalizedEmail,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(passwordHash),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("[auth] User %s registered", user.Email)
	return s.issueToken(user)
}

// Login authenticates a user and returns a fresh token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	normalizedEmail := strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.FindByEmail(ctx, normalizedEmail)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			log.Printf("[auth] Failed login attempt for %s", normalizedEmail)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		log.Printf("[auth] Failed login attempt for %s", normalizedEmail)
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(user)
}

// ValidateToken validates an access token and returns its identity claims.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*domain.Claims, error) {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	return &domain.Claims{
		UserID: claims.UserID,
		Email:  claims.Email,
		Name:   claims.Name,
	}, nil
}

func (s *AuthService) issueToken(user *domain.User) (*AuthResult, error) {
	token, expiresAt, err := s.jwt.GenerateToken(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &AuthResult{
		Token:     token,
		ExpiresAt: expiresAt,
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
	}, nil
}
