package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcabanilla/gastos/internal/domain/auth"
	"github.com/jcabanilla/gastos/internal/domain/category"
	importservice "github.com/jcabanilla/gastos/internal/domain/import/service"
	"github.com/jcabanilla/gastos/internal/domain/transaction"
)

type memoryCategoryStore struct {
	byKey map[string]*category.Category
}

func (m *memoryCategoryStore) GetByNameAndType(_ context.Context, _ uuid.UUID, name string, txType transaction.Type) (*category.Category, error) {
	return m.byKey[name+"|"+string(txType)], nil
}

func (m *memoryCategoryStore) Create(_ context.Context, cat *category.Category) error {
	cat.ID = uuid.New()
	if m.byKey == nil {
		m.byKey = map[string]*category.Category{}
	}
	m.byKey[cat.Name+"|"+string(cat.Type)] = cat
	return nil
}

type memoryTransactionStore struct {
	inserted []*transaction.Transaction
}

func (m *memoryTransactionStore) BulkInsert(_ context.Context, txs []*transaction.Transaction) (int, error) {
	m.inserted = txs
	return len(txs), nil
}

func newTestHandler(txs *memoryTransactionStore) *ImportHandler {
	logger := slog.New(slog.DiscardHandler)
	svc := importservice.NewImportService(&memoryCategoryStore{}, txs, auth.ContextProvider{}, logger)
	return NewImportHandler(svc, logger)
}

func newTestRouter(h *ImportHandler) http.Handler {
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func TestPreview_ReturnsRowsAndRejections(t *testing.T) {
	router := newTestRouter(newTestHandler(&memoryTransactionStore{}))

	csv := "Title,Amount,Type,Category,Date\n" +
		"Coffee,120,expense,Food,2024-01-15\n" +
		"Broken,abc,expense,,2024-01-16\n"

	req := httptest.NewRequest(http.MethodPost, "/import/preview", strings.NewReader(csv))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result importservice.PreviewResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "Coffee", result.Rows[0].Title)
	require.Len(t, result.Rejected, 1)
	assert.Equal(t, "invalid amount", result.Rejected[0].Reason)
}

func TestPreview_EmptyFileIsBadRequest(t *testing.T) {
	router := newTestRouter(newTestHandler(&memoryTransactionStore{}))

	req := httptest.NewRequest(http.MethodPost, "/import/preview", strings.NewReader(""))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "CSV file is empty")
}

func TestCommit_PersistsRows(t *testing.T) {
	txs := &memoryTransactionStore{}
	router := newTestRouter(newTestHandler(txs))

	body, err := json.Marshal(map[string]any{
		"rows": []map[string]any{
			{
				"title":    "Coffee",
				"amount":   decimal.NewFromInt(120),
				"type":     "expense",
				"category": "Food",
				"spent_at": time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			},
		},
	})
	require.NoError(t, err)

	userID := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/import/commit", strings.NewReader(string(body)))
	req = req.WithContext(auth.WithUserID(req.Context(), userID))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"imported": 1}`, rec.Body.String())

	require.Len(t, txs.inserted, 1)
	assert.Equal(t, userID, txs.inserted[0].UserID)
}

func TestCommit_Unauthenticated(t *testing.T) {
	router := newTestRouter(newTestHandler(&memoryTransactionStore{}))

	body := `{"rows":[{"title":"Coffee","amount":"120","type":"expense","spent_at":"2024-01-15T00:00:00Z"}]}`
	req := httptest.NewRequest(http.MethodPost, "/import/commit", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCommit_EmptyRowsIsBadRequest(t *testing.T) {
	router := newTestRouter(newTestHandler(&memoryTransactionStore{}))

	req := httptest.NewRequest(http.MethodPost, "/import/commit", strings.NewReader(`{"rows":[]}`))
	req = req.WithContext(auth.WithUserID(req.Context(), uuid.New()))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCommit_MalformedBody(t *testing.T) {
	router := newTestRouter(newTestHandler(&memoryTransactionStore{}))

	req := httptest.NewRequest(http.MethodPost, "/import/commit", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
