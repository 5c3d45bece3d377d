package settings

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stockmaster-pro/stockmaster/internal/platform/httpx"
)

// Handler serves the store configuration endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers settings routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.get)
	r.Put("/", h.update)
	r.Post("/verify-pin", h.verifyPIN)
	r.Post("/pin", h.updatePIN)
}

type pinForm struct {
	PIN string `json:"pin"`
}

type pinUpdateForm struct {
	CurrentPIN string `json:"currentPin"`
	NewPIN     string `json:"newPin"`
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.service.Get(r.Context()))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var cfg StoreConfig
	if err := httpx.DecodeJSON(r, &cfg); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	out, err := h.service.Update(r.Context(), cfg)
	if err != nil {
		h.logger.Error("update settings", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) verifyPIN(w http.ResponseWriter, r *http.Request) {
	var form pinForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"valid": h.service.VerifyPIN(r.Context(), form.PIN)})
}

func (h *Handler) updatePIN(w http.ResponseWriter, r *http.Request) {
	var form pinUpdateForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	if err := h.service.UpdatePIN(r.Context(), form.CurrentPIN, form.NewPIN); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
