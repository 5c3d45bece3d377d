package ledger

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/stockmaster-pro/stockmaster/internal/platform/httpx"
)

var validate = validator.New()

// Handler serves the order ledger endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers order routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.upsert)
	r.Get("/{id}", h.get)
	r.Post("/{id}/payments", h.applyPayment)
}

// PaymentForm is the payment application payload. Allocations switches
// the distribution to manual mode; amount is ignored then.
type PaymentForm struct {
	Amount      float64            `json:"amount"`
	Allocations map[string]float64 `json:"allocations,omitempty"`
	Method      string             `json:"method" validate:"required"`
	Reference   string             `json:"reference"`
	Note        string             `json:"note"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list orders", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, orders)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, o)
}

func (h *Handler) upsert(w http.ResponseWriter, r *http.Request) {
	var o Order
	if err := httpx.DecodeJSON(r, &o); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	user := r.Header.Get("X-User")
	stored, err := h.service.Upsert(r.Context(), o, user)
	if err != nil {
		h.logger.Error("upsert order", slog.Any("error", err), slog.String("order_id", o.ID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, stored)
}

func (h *Handler) applyPayment(w http.ResponseWriter, r *http.Request) {
	var form PaymentForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	if err := validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	o, err := h.service.ApplyPayment(r.Context(), chi.URLParam(r, "id"), PaymentInput{
		Amount:      form.Amount,
		Allocations: form.Allocations,
		Method:      PaymentMethod(form.Method),
		Reference:   form.Reference,
		Note:        form.Note,
	})
	if err != nil {
		h.logger.Error("apply payment", slog.Any("error", err), slog.String("order_id", chi.URLParam(r, "id")))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, o)
}
