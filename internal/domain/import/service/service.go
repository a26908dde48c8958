// Package service orchestrates the CSV import pipeline: parse, review,
// and commit. Parsing and normalization are pure and synchronous; the
// commit stage resolves categories and persists the batch.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcabanilla/gastos/internal/domain/auth"
	"github.com/jcabanilla/gastos/internal/domain/category"
	"github.com/jcabanilla/gastos/internal/domain/import/normalizer"
	"github.com/jcabanilla/gastos/internal/domain/import/parser"
	"github.com/jcabanilla/gastos/internal/domain/transaction"
	"github.com/jcabanilla/gastos/pkg/money"
)

var (
	// ErrEmptyFile is returned when the uploaded file has no header or
	// no data rows.
	ErrEmptyFile = errors.New("CSV file is empty")

	// ErrNoValidRows is returned when every data row was rejected or
	// blank. Distinct from partial skipping, which is only a warning.
	ErrNoValidRows = errors.New("no valid rows found")

	// ErrNotAuthenticated aborts a commit before any row is processed.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// CategoryStore is the subset of the category repository the committer
// needs: lookup by unique key and create.
type CategoryStore interface {
	GetByNameAndType(ctx context.Context, userID uuid.UUID, name string, txType transaction.Type) (*category.Category, error)
	Create(ctx context.Context, cat *category.Category) error
}

// TransactionStore persists the reviewed batch in a single operation.
type TransactionStore interface {
	BulkInsert(ctx context.Context, txs []*transaction.Transaction) (int, error)
}

// ProgressFunc receives the running completion percentage after each
// row is prepared during commit.
type ProgressFunc func(percent int)

// PreviewResult holds the normalized rows awaiting user review, plus
// the per-row rejections and blank-line count for the warning banner.
type PreviewResult struct {
	Rows     []normalizer.Row       `json:"rows"`
	Rejected []normalizer.Rejection `json:"rejected,omitempty"`
	Blank    int                    `json:"blank"`
}

// ImportService runs the import pipeline for the current user.
type ImportService struct {
	categories   CategoryStore
	transactions TransactionStore
	authProvider auth.Provider
	logger       *slog.Logger
	tracer       trace.Tracer
}

// NewImportService creates a new import service.
func NewImportService(categories CategoryStore, transactions TransactionStore, authProvider auth.Provider, logger *slog.Logger) *ImportService {
	return &ImportService{
		categories:   categories,
		transactions: transactions,
		authProvider: authProvider,
		logger:       logger,
		tracer:       otel.Tracer("gastos/import"),
	}
}

// Preview parses and normalizes an uploaded file without touching the
// store. The returned rows are what the user confirms before Commit.
func (s *ImportService) Preview(ctx context.Context, fileData []byte) (*PreviewResult, error) {
	records := parser.Parse(string(fileData))
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	result := normalizer.NormalizeAll(records)
	if len(result.Rows) == 0 {
		return nil, ErrNoValidRows
	}

	if n := len(result.Rejected); n > 0 {
		s.logger.Info("import preview skipped invalid rows", "rejected", n, "accepted", len(result.Rows))
	}

	return &PreviewResult{
		Rows:     result.Rows,
		Rejected: result.Rejected,
		Blank:    result.Blank,
	}, nil
}

// Commit resolves each row's category and persists the whole batch as
// one insert. Rows are processed sequentially in input order; category
// resolution is memoized per (name, type) within the commit so a name
// repeated across rows creates at most one category. There is no
// compensating rollback of categories created before a failure.
func (s *ImportService) Commit(ctx context.Context, rows []normalizer.Row, progress ProgressFunc) (int, error) {
	userID, ok := s.authProvider.CurrentUser(ctx)
	if !ok {
		return 0, ErrNotAuthenticated
	}
	if len(rows) == 0 {
		return 0, ErrNoValidRows
	}

	ctx, span := s.tracer.Start(ctx, "import.Commit")
	defer span.End()

	type categoryKey struct {
		name   string
		txType transaction.Type
	}
	resolved := make(map[categoryKey]uuid.UUID)
	categoriesCreated := 0
	total := decimal.Zero

	batch := make([]*transaction.Transaction, 0, len(rows))
	for i, row := range rows {
		var categoryID *uuid.UUID
		if row.Category != "" {
			key := categoryKey{name: row.Category, txType: row.Type}
			id, seen := resolved[key]
			if !seen {
				resolvedID, created, err := s.resolveCategory(ctx, userID, row.Category, row.Type)
				if err != nil {
					importsTotal.WithLabelValues("failed").Inc()
					return 0, fmt.Errorf("failed to resolve category %q: %w", row.Category, err)
				}
				if created {
					categoriesCreated++
				}
				resolved[key] = resolvedID
				id = resolvedID
			}
			cid := id
			categoryID = &cid
		}
		total = total.Add(row.Amount)

		batch = append(batch, &transaction.Transaction{
			UserID:     userID,
			Title:      row.Title,
			Amount:     row.Amount,
			Type:       row.Type,
			CategoryID: categoryID,
			SpentAt:    row.SpentAt,
		})

		if progress != nil {
			progress(int(math.Round(float64(i+1) / float64(len(rows)) * 100)))
		}
	}

	count, err := s.transactions.BulkInsert(ctx, batch)
	if err != nil {
		importsTotal.WithLabelValues("failed").Inc()
		return 0, fmt.Errorf("failed to insert transactions: %w", err)
	}

	importsTotal.WithLabelValues("succeeded").Inc()
	importedRowsTotal.Add(float64(count))
	s.logger.Info("import committed",
		"user_id", userID,
		"rows", count,
		"total", money.Display(total),
		"categories_created", categoriesCreated,
	)

	return count, nil
}

// resolveCategory returns the identifier for (userID, name, txType),
// creating the category when it does not exist yet. The bool reports
// whether a create happened.
func (s *ImportService) resolveCategory(ctx context.Context, userID uuid.UUID, name string, txType transaction.Type) (uuid.UUID, bool, error) {
	existing, err := s.categories.GetByNameAndType(ctx, userID, name, txType)
	if err != nil {
		return uuid.Nil, false, err
	}
	if existing != nil {
		return existing.ID, false, nil
	}

	cat := &category.Category{
		UserID: userID,
		Name:   name,
		Type:   txType,
	}
	if err := s.categories.Create(ctx, cat); err != nil {
		return uuid.Nil, false, err
	}
	return cat.ID, true, nil
}
