package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jcabanilla/gastos/internal/domain/auth"
	"github.com/jcabanilla/gastos/internal/domain/category"
	"github.com/jcabanilla/gastos/internal/domain/transaction"
	"github.com/jcabanilla/gastos/internal/web"
)

// CategoryHandler exposes category CRUD over HTTP.
type CategoryHandler struct {
	svc    *category.Service
	logger *slog.Logger
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(svc *category.Service, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{svc: svc, logger: logger}
}

// Register mounts the category routes.
func (h *CategoryHandler) Register(r chi.Router) {
	r.Get("/categories", h.List)
	r.Post("/categories", h.Create)
	r.Put("/categories/{id}", h.Rename)
	r.Delete("/categories/{id}", h.Delete)
}

// List returns the user's categories.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		web.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	cats, err := h.svc.List(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list categories", "error", err)
		web.Error(w, http.StatusInternalServerError, "failed to list categories")
		return
	}
	web.JSON(w, http.StatusOK, cats)
}

type createCategoryRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Create adds a new category.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		web.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cat, err := h.svc.Create(r.Context(), userID, req.Name, transaction.ParseType(req.Type))
	if err != nil {
		switch {
		case errors.Is(err, category.ErrInvalidName):
			web.Error(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, category.ErrDuplicate):
			web.Error(w, http.StatusConflict, err.Error())
		default:
			h.logger.Error("failed to create category", "error", err)
			web.Error(w, http.StatusInternalServerError, "failed to create category")
		}
		return
	}
	web.JSON(w, http.StatusCreated, cat)
}

type renameCategoryRequest struct {
	Name string `json:"name"`
}

// Rename updates a category's name.
func (h *CategoryHandler) Rename(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		web.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		web.Error(w, http.StatusBadRequest, "invalid category id")
		return
	}

	var req renameCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.Rename(r.Context(), userID, id, req.Name); err != nil {
		switch {
		case errors.Is(err, category.ErrInvalidName):
			web.Error(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, category.ErrNotFound):
			web.Error(w, http.StatusNotFound, "category not found")
		default:
			h.logger.Error("failed to rename category", "error", err)
			web.Error(w, http.StatusInternalServerError, "failed to rename category")
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete removes a category.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		web.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		web.Error(w, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := h.svc.Delete(r.Context(), userID, id); err != nil {
		if errors.Is(err, category.ErrNotFound) {
			web.Error(w, http.StatusNotFound, "category not found")
			return
		}
		h.logger.Error("failed to delete category", "error", err)
		web.Error(w, http.StatusInternalServerError, "failed to delete category")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
