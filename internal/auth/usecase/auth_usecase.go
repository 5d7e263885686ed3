package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"campus-facilities/internal/auth/config"
	"campus-facilities/internal/auth/domain/model"
	"campus-facilities/internal/auth/domain/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email is already taken")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrTokenInvalid       = errors.New("token is invalid")
	ErrSessionRevoked     = errors.New("session has been revoked")
	ErrSessionNotFound    = errors.New("session not found")
)

const (
	minPasswordLength = 8
	maxPasswordLength = 128
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// AuthUsecaseInterface defines the contract for authentication use cases.
type AuthUsecaseInterface interface {
	Register(ctx context.Context, req RegisterRequest) (*model.User, string, error)
	Login(ctx context.Context, req LoginRequest) (*model.User, string, error)
	Logout(ctx context.Context, tokenString string) error
	ValidateToken(ctx context.Context, tokenString string) (*repository.Claims, error)
	RefreshToken(ctx context.Context, tokenString string) (string, error)
	GetUserFromToken(ctx context.Context, tokenString string) (*model.User, error)
}

// RegisterRequest represents the registration request.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// LoginRequest represents the login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthUsecase implements the authentication logic. Tokens are JWTs bound
// to a session in the store; a token is honored only while its session
// is still present, so logout revokes it immediately.
type AuthUsecase struct {
	users    repository.UserRepository
	sessions repository.SessionStore
	tokenSvc repository.TokenService
	config   *config.Config
}

// NewAuthUsecase creates a new instance of AuthUsecase.
func NewAuthUsecase(
	users repository.UserRepository,
	sessions repository.SessionStore,
	tokenSvc repository.TokenService,
	cfg *config.Config,
) *AuthUsecase {
	return &AuthUsecase{
		users:    users,
		sessions: sessions,
		tokenSvc: tokenSvc,
		config:   cfg,
	}
}

func (uc *AuthUsecase) validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmailFormat
	}
	return nil
}

func (uc *AuthUsecase) validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("password must be at most %d characters", maxPasswordLength)
	}
	return nil
}

// openSession creates a session for the user and returns a token bound
// to it.
func (uc *AuthUsecase) openSession(ctx context.Context, user *model.User) (string, error) {
	session := &model.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		ExpiresAt: time.Now().Add(uc.config.SessionTTL),
		CreatedAt: time.Now(),
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}

	token, err := uc.tokenSvc.GenerateToken(ctx, user.ID, user.Email, session.ID)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// Register creates a new administrator account and logs it in.
func (uc *AuthUsecase) Register(ctx context.Context, req RegisterRequest) (*model.User, string, error) {
	if err := uc.validateEmail(req.Email); err != nil {
		return nil, "", err
	}
	if err := uc.validatePassword(req.Password); err != nil {
		return nil, "", err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := uc.users.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hashedPassword),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := uc.users.CreateUser(ctx, user); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := uc.openSession(ctx, user)
	if err != nil {
		return nil, "", err
	}

	user.PasswordHash = ""
	return user, token, nil
}

// Login authenticates a user and opens a new session.
func (uc *AuthUsecase) Login(ctx context.Context, req LoginRequest) (*model.User, string, error) {
	if err := uc.validateEmail(req.Email); err != nil {
		return nil, "", err
	}

	user, err := uc.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := uc.openSession(ctx, user)
	if err != nil {
		return nil, "", err
	}

	user.PasswordHash = ""
	return user, token, nil
}

// Logout deletes the token's session, revoking it before expiry.
func (uc *AuthUsecase) Logout(ctx context.Context, tokenString string) error {
	claims, err := uc.tokenSvc.ValidateToken(ctx, tokenString)
	if err != nil {
		return ErrTokenInvalid
	}

	if err := uc.sessions.Delete(ctx, claims.SessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// ValidateToken validates the JWT and checks the session is still live.
func (uc *AuthUsecase) ValidateToken(ctx context.Context, tokenString string) (*repository.Claims, error) {
	claims, err := uc.tokenSvc.ValidateToken(ctx, tokenString)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	if _, err := uc.sessions.Get(ctx, claims.SessionID); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrSessionRevoked
		}
		return nil, fmt.Errorf("failed to check session: %w", err)
	}
	return claims, nil
}

// RefreshToken issues a new token for a still-valid session.
func (uc *AuthUsecase) RefreshToken(ctx context.Context, tokenString string) (string, error) {
	claims, err := uc.ValidateToken(ctx, tokenString)
	if err != nil {
		return "", err
	}

	user, err := uc.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return "", ErrUserNotFound
	}

	newToken, err := uc.tokenSvc.GenerateToken(ctx, user.ID, user.Email, claims.SessionID)
	if err != nil {
		return "", fmt.Errorf("failed to generate new token: %w", err)
	}
	return newToken, nil
}

// GetUserFromToken validates a token and fetches the associated user.
func (uc *AuthUsecase) GetUserFromToken(ctx context.Context, tokenString string) (*model.User, error) {
	claims, err := uc.ValidateToken(ctx, tokenString)
	if err != nil {
		return nil, err
	}

	user, err := uc.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	user.PasswordHash = ""
	return user, nil
}

var _ AuthUsecaseInterface = (*AuthUsecase)(nil)
