package auth

import (
	"context"

	"github.com/mmynk/feereceipt/internal/models"
)

// Authenticator registers staff accounts and verifies their credentials.
type Authenticator interface {
	// Register creates an account for username. Returns ErrUsernameExists
	// when the name is taken.
	Register(ctx context.Context, username, credential string) (*models.User, error)

	// Authenticate returns the user whose credential matches.
	Authenticate(ctx context.Context, username, credential string) (*models.User, error)

	// ValidateCredential reports whether credential is acceptable for a new account.
	ValidateCredential(credential string) error
}
