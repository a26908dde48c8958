// Package transaction provides persistence and business logic for
// income and expense records.
package transaction

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type classifies a transaction as money in or money out.
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// ParseType maps a raw string onto a transaction type. Only a
// case-insensitive "income" yields TypeIncome; everything else,
// including the empty string, defaults to TypeExpense.
func ParseType(raw string) Type {
	if strings.EqualFold(strings.TrimSpace(raw), string(TypeIncome)) {
		return TypeIncome
	}
	return TypeExpense
}

// Transaction is a single income or expense record owned by a user.
type Transaction struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	Title      string          `json:"title"`
	Amount     decimal.Decimal `json:"amount"`
	Type       Type            `json:"type"`
	CategoryID *uuid.UUID      `json:"category_id,omitempty"`
	SpentAt    time.Time       `json:"spent_at"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ListItem is a transaction joined with its category name for display
// and export. DisplayAmount is the localized peso rendering of Amount,
// filled in by the service layer.
type ListItem struct {
	Transaction
	CategoryName  *string `json:"category_name,omitempty"`
	DisplayAmount string  `json:"display_amount,omitempty"`
}

// Repository defines the interface for transaction persistence.
type Repository interface {
	Create(ctx context.Context, tx *Transaction) error
	Update(ctx context.Context, tx *Transaction) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]ListItem, error)

	// BulkInsert persists the whole batch in a single database
	// transaction; either every row lands or none do.
	BulkInsert(ctx context.Context, txs []*Transaction) (int, error)
}
