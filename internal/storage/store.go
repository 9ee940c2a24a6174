// Package storage defines persistence for staff accounts and the receipt index.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/feereceipt/internal/models"
)

var (
	// ErrNotFound is returned when a lookup matches nothing.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write collides with a unique key.
	ErrConflict = errors.New("already exists")
)

// Store is the metadata store used by the services.
type Store interface {
	// CreateUser persists a new account. Returns ErrConflict when the
	// username is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByUsername returns ErrNotFound for an unknown name.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// CreateReceipt appends an index entry for a stored PDF.
	// ID and CreatedAt are filled in when empty.
	CreateReceipt(ctx context.Context, meta *models.ReceiptMeta) error

	// ListReceipts returns index entries newest first. A non-empty
	// nameQuery keeps entries whose student name contains it, ignoring case.
	ListReceipts(ctx context.Context, nameQuery string) ([]*models.ReceiptMeta, error)

	// GetReceiptByFilename returns ErrNotFound for an unindexed file.
	GetReceiptByFilename(ctx context.Context, filename string) (*models.ReceiptMeta, error)

	// Close releases any resources held by the store.
	Close() error
}
