package transaction

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jcabanilla/gastos/pkg/db"
)

// ErrNotFound is returned when a transaction does not exist or belongs
// to another user.
var ErrNotFound = errors.New("transaction not found")

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	pool db.PgxPool
}

// NewPostgresRepository creates a new PostgreSQL transaction repository.
func NewPostgresRepository(pool db.PgxPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a single transaction.
func (r *PostgresRepository) Create(ctx context.Context, tx *Transaction) error {
	query := `
		INSERT INTO transactions (id, user_id, title, amount, type, category_id, spent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query,
		tx.ID,
		tx.UserID,
		tx.Title,
		tx.Amount,
		tx.Type,
		tx.CategoryID,
		tx.SpentAt,
	).Scan(&tx.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields of an existing transaction,
// scoped to its owner.
func (r *PostgresRepository) Update(ctx context.Context, tx *Transaction) error {
	query := `
		UPDATE transactions
		SET title = $3, amount = $4, type = $5, category_id = $6, spent_at = $7
		WHERE id = $1 AND user_id = $2`

	result, err := r.pool.Exec(ctx, query,
		tx.ID,
		tx.UserID,
		tx.Title,
		tx.Amount,
		tx.Type,
		tx.CategoryID,
		tx.SpentAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a transaction owned by the given user.
func (r *PostgresRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByUser returns the user's transactions with category names,
// newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]ListItem, error) {
	query := `
		SELECT t.id, t.user_id, t.title, t.amount, t.type, t.category_id, t.spent_at, t.created_at, c.name
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = $1
		ORDER BY t.created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var items []ListItem
	for rows.Next() {
		var item ListItem
		if err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.Title,
			&item.Amount,
			&item.Type,
			&item.CategoryID,
			&item.SpentAt,
			&item.CreatedAt,
			&item.CategoryName,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// BulkInsert persists the batch inside one database transaction using
// a pipelined batch. A failure on any row rolls back every row.
func (r *PostgresRepository) BulkInsert(ctx context.Context, txs []*Transaction) (int, error) {
	if len(txs) == 0 {
		return 0, nil
	}

	dbTx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin bulk insert: %w", err)
	}
	defer dbTx.Rollback(ctx)

	query := `
		INSERT INTO transactions (id, user_id, title, amount, type, category_id, spent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	batch := &pgx.Batch{}
	for _, tx := range txs {
		if tx.ID == uuid.Nil {
			tx.ID = uuid.New()
		}
		batch.Queue(query, tx.ID, tx.UserID, tx.Title, tx.Amount, tx.Type, tx.CategoryID, tx.SpentAt)
	}

	results := dbTx.SendBatch(ctx, batch)
	for range txs {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return 0, fmt.Errorf("failed to insert transaction batch: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("failed to close transaction batch: %w", err)
	}

	if err := dbTx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction batch: %w", err)
	}

	return len(txs), nil
}
