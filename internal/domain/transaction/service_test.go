package transaction

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	created   []*Transaction
	updated   []*Transaction
	deleted   []uuid.UUID
	items     []ListItem
	createErr error
	listErr   error
}

func (m *mockRepo) Create(_ context.Context, tx *Transaction) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, tx)
	return nil
}

func (m *mockRepo) Update(_ context.Context, tx *Transaction) error {
	m.updated = append(m.updated, tx)
	return nil
}

func (m *mockRepo) Delete(_ context.Context, _ uuid.UUID, id uuid.UUID) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockRepo) ListByUser(context.Context, uuid.UUID) ([]ListItem, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.items, nil
}

func (m *mockRepo) BulkInsert(_ context.Context, txs []*Transaction) (int, error) {
	return len(txs), nil
}

type mockPrefs struct {
	last     map[Type]uuid.UUID
	setErr   error
	setCalls int
}

func (m *mockPrefs) LastCategory(_ context.Context, _ uuid.UUID, txType Type) (uuid.UUID, bool, error) {
	id, ok := m.last[txType]
	return id, ok, nil
}

func (m *mockPrefs) SetLastCategory(_ context.Context, _ uuid.UUID, txType Type, categoryID uuid.UUID) error {
	m.setCalls++
	if m.setErr != nil {
		return m.setErr
	}
	if m.last == nil {
		m.last = map[Type]uuid.UUID{}
	}
	m.last[txType] = categoryID
	return nil
}

func newTestService(repo *mockRepo, prefs *mockPrefs) *Service {
	return NewService(repo, prefs, slog.New(slog.DiscardHandler))
}

func validTx() *Transaction {
	return &Transaction{
		UserID:  uuid.New(),
		Title:   gofakeit.ProductName(),
		Amount:  decimal.NewFromFloat(gofakeit.Price(10, 5000)),
		Type:    TypeExpense,
		SpentAt: time.Now(),
	}
}

func TestService_Create_RecordsLastCategory(t *testing.T) {
	repo := &mockRepo{}
	prefs := &mockPrefs{}
	svc := newTestService(repo, prefs)

	catID := uuid.New()
	tx := validTx()
	tx.CategoryID = &catID

	require.NoError(t, svc.Create(context.Background(), tx))

	require.Len(t, repo.created, 1)
	assert.Equal(t, catID, prefs.last[TypeExpense])
}

func TestService_Create_NoCategorySkipsPreference(t *testing.T) {
	repo := &mockRepo{}
	prefs := &mockPrefs{}
	svc := newTestService(repo, prefs)

	require.NoError(t, svc.Create(context.Background(), validTx()))
	assert.Zero(t, prefs.setCalls)
}

func TestService_Create_PreferenceFailureIsNonFatal(t *testing.T) {
	repo := &mockRepo{}
	prefs := &mockPrefs{setErr: errors.New("pref store down")}
	svc := newTestService(repo, prefs)

	catID := uuid.New()
	tx := validTx()
	tx.CategoryID = &catID

	assert.NoError(t, svc.Create(context.Background(), tx))
	assert.Len(t, repo.created, 1)
}

func TestService_Create_Validation(t *testing.T) {
	svc := newTestService(&mockRepo{}, &mockPrefs{})

	tx := validTx()
	tx.Title = "   "
	assert.ErrorIs(t, svc.Create(context.Background(), tx), ErrInvalidInput)

	tx = validTx()
	tx.SpentAt = time.Time{}
	assert.ErrorIs(t, svc.Create(context.Background(), tx), ErrInvalidInput)
}

func TestService_Create_TrimsTitle(t *testing.T) {
	repo := &mockRepo{}
	svc := newTestService(repo, &mockPrefs{})

	tx := validTx()
	tx.Title = "  Coffee  "
	require.NoError(t, svc.Create(context.Background(), tx))
	assert.Equal(t, "Coffee", repo.created[0].Title)
}

func TestService_List_FormatsDisplayAmount(t *testing.T) {
	repo := &mockRepo{items: []ListItem{{
		Transaction: Transaction{
			Title:   "Rent",
			Amount:  decimal.RequireFromString("1234.5"),
			Type:    TypeExpense,
			SpentAt: time.Now(),
		},
	}}}
	svc := newTestService(repo, &mockPrefs{})

	items, err := svc.List(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "₱1,234.50", items[0].DisplayAmount)
}

func TestService_Export_WritesListAsCSV(t *testing.T) {
	food := "Food"
	repo := &mockRepo{items: []ListItem{{
		Transaction: Transaction{
			Title:   "Coffee",
			Amount:  decimal.NewFromInt(120),
			Type:    TypeExpense,
			SpentAt: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		CategoryName: &food,
	}}}
	svc := newTestService(repo, &mockPrefs{})

	var buf strings.Builder
	require.NoError(t, svc.Export(context.Background(), uuid.New(), &buf))
	assert.Contains(t, buf.String(), `"Coffee","120","expense","Food"`)
}

func TestService_Export_ListFailure(t *testing.T) {
	repo := &mockRepo{listErr: errors.New("db down")}
	svc := newTestService(repo, &mockPrefs{})

	err := svc.Export(context.Background(), uuid.New(), io.Discard)
	assert.Error(t, err)
}

func TestService_LastCategory(t *testing.T) {
	catID := uuid.New()
	prefs := &mockPrefs{last: map[Type]uuid.UUID{TypeIncome: catID}}
	svc := newTestService(&mockRepo{}, prefs)

	id, found, err := svc.LastCategory(context.Background(), uuid.New(), TypeIncome)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, catID, id)

	_, found, err = svc.LastCategory(context.Background(), uuid.New(), TypeExpense)
	require.NoError(t, err)
	assert.False(t, found)
}
