package insights

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stockmaster-pro/stockmaster/internal/platform/httpx"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.analyze)
}

func (h *Handler) analyze(w http.ResponseWriter, r *http.Request) {
	text, err := h.service.Analyze(r.Context())
	if err != nil {
		if errors.Is(err, ErrSuperseded) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"insights": text})
}
