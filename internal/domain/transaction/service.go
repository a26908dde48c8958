package transaction

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/jcabanilla/gastos/pkg/money"
)

// ErrInvalidInput is returned when a transaction fails validation
// before reaching the store.
var ErrInvalidInput = errors.New("invalid transaction")

// PreferenceStore records the last category used per transaction type
// so the entry form can preselect it next time.
type PreferenceStore interface {
	LastCategory(ctx context.Context, userID uuid.UUID, txType Type) (uuid.UUID, bool, error)
	SetLastCategory(ctx context.Context, userID uuid.UUID, txType Type, categoryID uuid.UUID) error
}

// Service handles transaction business logic.
type Service struct {
	repo   Repository
	prefs  PreferenceStore
	logger *slog.Logger
}

// NewService creates a new transaction service.
func NewService(repo Repository, prefs PreferenceStore, logger *slog.Logger) *Service {
	return &Service{repo: repo, prefs: prefs, logger: logger}
}

// Create validates and persists a single transaction, then remembers
// its category as the user's last choice for that type. A preference
// write failure never fails the create.
func (s *Service) Create(ctx context.Context, tx *Transaction) error {
	tx.Title = strings.TrimSpace(tx.Title)
	if tx.Title == "" || tx.SpentAt.IsZero() {
		return ErrInvalidInput
	}

	if err := s.repo.Create(ctx, tx); err != nil {
		return err
	}

	if tx.CategoryID != nil {
		if err := s.prefs.SetLastCategory(ctx, tx.UserID, tx.Type, *tx.CategoryID); err != nil {
			s.logger.Warn("failed to record last category", "user_id", tx.UserID, "error", err)
		}
	}
	return nil
}

// Update rewrites an existing transaction.
func (s *Service) Update(ctx context.Context, tx *Transaction) error {
	tx.Title = strings.TrimSpace(tx.Title)
	if tx.Title == "" || tx.SpentAt.IsZero() {
		return ErrInvalidInput
	}
	return s.repo.Update(ctx, tx)
}

// Delete removes a transaction owned by the user.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.Delete(ctx, userID, id)
}

// List returns the user's transactions with category names and
// formatted peso amounts, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]ListItem, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].DisplayAmount = money.Display(items[i].Amount)
	}
	return items, nil
}

// Export streams the user's transactions as CSV.
func (s *Service) Export(ctx context.Context, userID uuid.UUID, w io.Writer) error {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	return WriteCSV(w, items)
}

// LastCategory returns the user's remembered category for a type.
func (s *Service) LastCategory(ctx context.Context, userID uuid.UUID, txType Type) (uuid.UUID, bool, error) {
	return s.prefs.LastCategory(ctx, userID, txType)
}
