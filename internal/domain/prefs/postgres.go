package prefs

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jcabanilla/gastos/internal/domain/transaction"
	"github.com/jcabanilla/gastos/pkg/db"
)

var _ Store = (*PostgresStore)(nil)

// PostgresStore implements Store using PostgreSQL.
type PostgresStore struct {
	pool db.PgxPool
}

// NewPostgresStore creates a new PostgreSQL preference store.
func NewPostgresStore(pool db.PgxPool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// LastCategory returns the stored preference for (user, type), if any.
func (s *PostgresStore) LastCategory(ctx context.Context, userID uuid.UUID, txType transaction.Type) (uuid.UUID, bool, error) {
	var categoryID uuid.UUID
	err := s.pool.QueryRow(ctx,
		`SELECT category_id FROM user_preferences WHERE user_id = $1 AND tx_type = $2`,
		userID, txType,
	).Scan(&categoryID)

	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to get last category: %w", err)
	}
	return categoryID, true, nil
}

// SetLastCategory upserts the preference for (user, type).
func (s *PostgresStore) SetLastCategory(ctx context.Context, userID uuid.UUID, txType transaction.Type, categoryID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO user_preferences (user_id, tx_type, category_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, tx_type) DO UPDATE SET category_id = EXCLUDED.category_id, updated_at = now()`,
		userID, txType, categoryID,
	)
	if err != nil {
		return fmt.Errorf("failed to set last category: %w", err)
	}
	return nil
}
