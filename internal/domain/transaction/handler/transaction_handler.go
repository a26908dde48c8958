package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jcabanilla/gastos/internal/domain/auth"
	"github.com/jcabanilla/gastos/internal/domain/transaction"
	"github.com/jcabanilla/gastos/internal/web"
)

// TransactionHandler exposes transaction CRUD, CSV export, and the
// last-used-category lookup over HTTP.
type TransactionHandler struct {
	svc    *transaction.Service
	logger *slog.Logger
}

// NewTransactionHandler creates a new transaction handler.
func NewTransactionHandler(svc *transaction.Service, logger *slog.Logger) *TransactionHandler {
	return &TransactionHandler{svc: svc, logger: logger}
}

// Register mounts the transaction routes.
func (h *TransactionHandler) Register(r chi.Router) {
	r.Get("/transactions", h.List)
	r.Post("/transactions", h.Create)
	r.Put("/transactions/{id}", h.Update)
	r.Delete("/transactions/{id}", h.Delete)
	r.Get("/transactions/export", h.Export)
	r.Get("/preferences/last-category", h.LastCategory)
}

type transactionRequest struct {
	Title      string          `json:"title"`
	Amount     decimal.Decimal `json:"amount"`
	Type       string          `json:"type"`
	CategoryID *uuid.UUID      `json:"category_id"`
	SpentAt    time.Time       `json:"spent_at"`
}

func (req *transactionRequest) toModel(userID uuid.UUID) *transaction.Transaction {
	return &transaction.Transaction{
		UserID:     userID,
		Title:      req.Title,
		Amount:     req.Amount,
		Type:       transaction.ParseType(req.Type),
		CategoryID: req.CategoryID,
		SpentAt:    req.SpentAt,
	}
}

// List returns the user's transactions with category names.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		web.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	items, err := h.svc.List(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list transactions", "error", err)
		web.Error(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}
	web.JSON(w, http.StatusOK, items)
}

// Create adds a single transaction.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		web.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx := req.toModel(userID)
	if err := h.svc.Create(r.Context(), tx); err != nil {
		if errors.Is(err, transaction.ErrInvalidInput) {
			web.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to create transaction", "error", err)
		web.Error(w, http.StatusInternalServerError, "failed to create transaction")
		return
	}
	web.JSON(w, http.StatusCreated, tx)
}

// Update rewrites an existing transaction.
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		web.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		web.Error(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx := req.toModel(userID)
	tx.ID = id
	if err := h.svc.Update(r.Context(), tx); err != nil {
		switch {
		case errors.Is(err, transaction.ErrInvalidInput):
			web.Error(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, transaction.ErrNotFound):
			web.Error(w, http.StatusNotFound, "transaction not found")
		default:
			h.logger.Error("failed to update transaction", "error", err)
			web.Error(w, http.StatusInternalServerError, "failed to update transaction")
		}
		return
	}
	web.JSON(w, http.StatusOK, tx)
}

// Delete removes a transaction.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		web.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		web.Error(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	if err := h.svc.Delete(r.Context(), userID, id); err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			web.Error(w, http.StatusNotFound, "transaction not found")
			return
		}
		h.logger.Error("failed to delete transaction", "error", err)
		web.Error(w, http.StatusInternalServerError, "failed to delete transaction")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Export streams the user's transactions as a CSV download.
func (h *TransactionHandler) Export(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		web.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)
	if err := h.svc.Export(r.Context(), userID, w); err != nil {
		// Headers may already be out; just log.
		h.logger.Error("failed to export transactions", "error", err)
	}
}

type lastCategoryResponse struct {
	CategoryID *uuid.UUID `json:"category_id"`
}

// LastCategory returns the category the user last assigned for the
// given transaction type, if any.
func (h *TransactionHandler) LastCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		web.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	txType := transaction.ParseType(r.URL.Query().Get("type"))
	id, found, err := h.svc.LastCategory(r.Context(), userID, txType)
	if err != nil {
		h.logger.Error("failed to load last category", "error", err)
		web.Error(w, http.StatusInternalServerError, "failed to load last category")
		return
	}

	resp := lastCategoryResponse{}
	if found {
		resp.CategoryID = &id
	}
	web.JSON(w, http.StatusOK, resp)
}
