// Package category provides persistence for transaction categories.
// A category is scoped to a user and a transaction type; the pair
// (user_id, name, type) is unique.
package category

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jcabanilla/gastos/internal/domain/transaction"
)

// ErrNotFound is returned when a category does not exist or belongs to
// another user.
var ErrNotFound = errors.New("category not found")

// Category is a named grouping of transactions.
type Category struct {
	ID        uuid.UUID        `json:"id"`
	UserID    uuid.UUID        `json:"user_id"`
	Name      string           `json:"name"`
	Type      transaction.Type `json:"type"`
	CreatedAt time.Time        `json:"created_at"`
}

// Repository defines the interface for category persistence.
type Repository interface {
	// GetByNameAndType returns the category matching the unique
	// (user_id, name, type) key, or nil when none exists.
	GetByNameAndType(ctx context.Context, userID uuid.UUID, name string, txType transaction.Type) (*Category, error)

	Create(ctx context.Context, cat *Category) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Category, error)
	Update(ctx context.Context, userID, id uuid.UUID, name string) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
