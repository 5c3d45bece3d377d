package backup

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stockmaster-pro/stockmaster/internal/platform/httpx"
)

// maxDocumentSize caps uploaded restore documents.
const maxDocumentSize = 32 << 20

// Handler serves the backup endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers backup routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/export", h.export)
	r.Post("/restore", h.restore)
	r.Post("/reset", h.reset)
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	doc := h.service.Export(r.Context())
	w.Header().Set("Content-Disposition",
		`attachment; filename="stockmaster_db_`+doc.BackupDate.Format("2006-01-02")+`.json"`)
	httpx.JSON(w, http.StatusOK, doc)
}

func (h *Handler) restore(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentSize))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	if err := h.service.Restore(r.Context(), data); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			httpx.ProblemFields(w, http.StatusBadRequest, "Invalid Backup Document", verr.Fields)
			return
		}
		h.logger.Error("restore snapshot", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Reset(r.Context()); err != nil {
		h.logger.Error("reset state", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
