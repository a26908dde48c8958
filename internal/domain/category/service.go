package category

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/jcabanilla/gastos/internal/domain/transaction"
)

var (
	// ErrInvalidName is returned when a category name is empty after
	// trimming.
	ErrInvalidName = errors.New("category name is required")

	// ErrDuplicate is returned when a (name, type) pair already exists
	// for the user.
	ErrDuplicate = errors.New("category already exists")
)

// Service handles category business logic.
type Service struct {
	repo Repository
}

// NewService creates a new category service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the user's categories sorted by name.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]Category, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Create adds a category, rejecting duplicates of (name, type).
func (s *Service) Create(ctx context.Context, userID uuid.UUID, name string, txType transaction.Type) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}

	existing, err := s.repo.GetByNameAndType(ctx, userID, name, txType)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicate
	}

	cat := &Category{
		UserID: userID,
		Name:   name,
		Type:   txType,
	}
	if err := s.repo.Create(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

// Rename changes a category's name.
func (s *Service) Rename(ctx context.Context, userID, id uuid.UUID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidName
	}
	return s.repo.Update(ctx, userID, id, name)
}

// Delete removes a category. Transactions that referenced it keep
// their rows and lose the link.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.Delete(ctx, userID, id)
}
