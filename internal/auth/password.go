package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/feereceipt/internal/models"
	"github.com/mmynk/feereceipt/internal/storage"
)

const (
	minPasswordLength = 8
	maxUsernameLength = 64
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrUsernameExists     = errors.New("username already registered")
	ErrInvalidUsername    = errors.New("username must be 1 to 64 characters without spaces")
)

// UserStorage is the persistence the authenticator needs.
type UserStorage interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// PasswordAuthenticator implements Authenticator with bcrypt hashes.
type PasswordAuthenticator struct {
	storage UserStorage
	cost    int
}

// Option configures a PasswordAuthenticator.
type Option func(*PasswordAuthenticator)

// WithCost sets the bcrypt cost used for new hashes.
func WithCost(cost int) Option {
	return func(a *PasswordAuthenticator) {
		a.cost = cost
	}
}

// NewPasswordAuthenticator creates a password authenticator over storage.
func NewPasswordAuthenticator(storage UserStorage, opts ...Option) *PasswordAuthenticator {
	a := &PasswordAuthenticator{
		storage: storage,
		cost:    bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ValidateCredential checks the minimum password length.
func (a *PasswordAuthenticator) ValidateCredential(credential string) error {
	if utf8.RuneCountInString(credential) < minPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

// NormalizeUsername trims surrounding whitespace and checks the result.
func NormalizeUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	n := utf8.RuneCountInString(username)
	if n == 0 || n > maxUsernameLength || strings.ContainsAny(username, " \t\r\n") {
		return "", ErrInvalidUsername
	}
	return username, nil
}

// Register creates a new account with a hashed password.
func (a *PasswordAuthenticator) Register(ctx context.Context, username, credential string) (*models.User, error) {
	username, err := NormalizeUsername(username)
	if err != nil {
		return nil, err
	}
	if err := a.ValidateCredential(credential); err != nil {
		return nil, err
	}

	if _, err := a.storage.GetUserByUsername(ctx, username); err == nil {
		return nil, ErrUsernameExists
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(credential), a.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.NewUser(username, string(hashed))
	if err := a.storage.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, ErrUsernameExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Authenticate verifies username and password.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, username, credential string) (*models.User, error) {
	user, err := a.storage.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credential)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
