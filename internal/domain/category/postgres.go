package category

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jcabanilla/gastos/internal/domain/transaction"
	"github.com/jcabanilla/gastos/pkg/db"
)

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	pool db.PgxPool
}

// NewPostgresRepository creates a new PostgreSQL category repository.
func NewPostgresRepository(pool db.PgxPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// GetByNameAndType looks up a category by its unique key. A miss is
// reported as (nil, nil), not an error.
func (r *PostgresRepository) GetByNameAndType(ctx context.Context, userID uuid.UUID, name string, txType transaction.Type) (*Category, error) {
	query := `
		SELECT id, user_id, name, type, created_at
		FROM categories
		WHERE user_id = $1 AND name = $2 AND type = $3`

	cat := &Category{}
	err := r.pool.QueryRow(ctx, query, userID, name, txType).Scan(
		&cat.ID,
		&cat.UserID,
		&cat.Name,
		&cat.Type,
		&cat.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return cat, nil
}

// Create inserts a new category and fills in its assigned identifier.
func (r *PostgresRepository) Create(ctx context.Context, cat *Category) error {
	query := `
		INSERT INTO categories (id, user_id, name, type)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	if cat.ID == uuid.Nil {
		cat.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query, cat.ID, cat.UserID, cat.Name, cat.Type).Scan(&cat.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// ListByUser returns the user's categories ordered by name.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Category, error) {
	query := `
		SELECT id, user_id, name, type, created_at
		FROM categories
		WHERE user_id = $1
		ORDER BY name`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var cats []Category
	for rows.Next() {
		var cat Category
		if err := rows.Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.Type, &cat.CreatedAt); err != nil {
			return nil, err
		}
		cats = append(cats, cat)
	}

	return cats, rows.Err()
}

// Update renames a category owned by the given user.
func (r *PostgresRepository) Update(ctx context.Context, userID, id uuid.UUID, name string) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE categories SET name = $3 WHERE id = $1 AND user_id = $2`, id, userID, name)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a category owned by the given user. Transactions that
// referenced it keep existing with their category cleared by the
// schema's ON DELETE SET NULL.
func (r *PostgresRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx,
		`DELETE FROM categories WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
