// Package prefs stores small per-user preferences, currently the last
// category used for each transaction type. It is an explicit, injected
// store rather than a process-wide singleton so the transaction entry
// path can be tested with a fake.
package prefs

import (
	"context"

	"github.com/google/uuid"

	"github.com/jcabanilla/gastos/internal/domain/transaction"
)

// Store defines the last-used-category preference interface.
type Store interface {
	// LastCategory returns the category last used for the given
	// transaction type. The bool is false when no preference exists.
	LastCategory(ctx context.Context, userID uuid.UUID, txType transaction.Type) (uuid.UUID, bool, error)

	SetLastCategory(ctx context.Context, userID uuid.UUID, txType transaction.Type, categoryID uuid.UUID) error
}
