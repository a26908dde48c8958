package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jcabanilla/gastos/internal/domain/import/normalizer"
	importservice "github.com/jcabanilla/gastos/internal/domain/import/service"
	"github.com/jcabanilla/gastos/internal/web"
)

// maxUploadBytes caps the CSV body size. Bank exports are small; a
// multi-megabyte upload is almost certainly the wrong file.
const maxUploadBytes = 10 << 20

// ImportHandler exposes the CSV import pipeline over HTTP.
type ImportHandler struct {
	importSvc *importservice.ImportService
	logger    *slog.Logger
}

// NewImportHandler creates a new import handler.
func NewImportHandler(importSvc *importservice.ImportService, logger *slog.Logger) *ImportHandler {
	return &ImportHandler{
		importSvc: importSvc,
		logger:    logger,
	}
}

// Register mounts the import routes.
func (h *ImportHandler) Register(r chi.Router) {
	r.Post("/import/preview", h.Preview)
	r.Post("/import/commit", h.Commit)
}

// Preview accepts the raw CSV file in the request body and returns the
// normalized rows for review, without writing anything.
func (h *ImportHandler) Preview(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		web.Error(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	result, err := h.importSvc.Preview(r.Context(), body)
	if err != nil {
		switch {
		case errors.Is(err, importservice.ErrEmptyFile), errors.Is(err, importservice.ErrNoValidRows):
			web.Error(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("import preview failed", "error", err)
			web.Error(w, http.StatusInternalServerError, "failed to preview import")
		}
		return
	}

	web.JSON(w, http.StatusOK, result)
}

type commitRequest struct {
	Rows []normalizer.Row `json:"rows"`
}

type commitResponse struct {
	Imported int `json:"imported"`
}

// Commit persists the rows the user confirmed in the preview step.
func (h *ImportHandler) Commit(w http.ResponseWriter, r *http.Request) {
	var req commitRequest
	if err := decodeJSON(r, &req); err != nil {
		web.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	count, err := h.importSvc.Commit(r.Context(), req.Rows, nil)
	if err != nil {
		switch {
		case errors.Is(err, importservice.ErrNotAuthenticated):
			web.Error(w, http.StatusUnauthorized, err.Error())
		case errors.Is(err, importservice.ErrNoValidRows):
			web.Error(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("import commit failed", "error", err)
			web.Error(w, http.StatusInternalServerError, "failed to commit import")
		}
		return
	}

	web.JSON(w, http.StatusOK, commitResponse{Imported: count})
}

func decodeJSON(r *http.Request, v any) error {
	defer func() { _ = r.Body.Close() }()
	return json.NewDecoder(io.LimitReader(r.Body, maxUploadBytes)).Decode(v)
}
