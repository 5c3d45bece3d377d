package delivery

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/stockmaster-pro/stockmaster/internal/platform/httpx"
)

var validate = validator.New()

// Handler serves the delivery endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers delivery routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.generate)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
}

type generateForm struct {
	OrderID string `json:"orderId" validate:"required"`
}

type updateForm struct {
	Carrier          *string    `json:"carrier"`
	TrackingNumber   *string    `json:"trackingNumber"`
	Status           *Status    `json:"status"`
	EstimatedArrival *time.Time `json:"estimatedArrival"`
	ActualArrival    *time.Time `json:"actualArrival"`
	ShippedDate      *time.Time `json:"shippedDate"`
	Notes            *string    `json:"notes"`
}

type deliveryView struct {
	Delivery
	Late bool `json:"late"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	deliveries, err := h.service.List(r.Context(), Status(r.URL.Query().Get("status")))
	if err != nil {
		h.logger.Error("list deliveries", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	now := time.Now().UTC()
	views := make([]deliveryView, len(deliveries))
	for i, d := range deliveries {
		views[i] = deliveryView{Delivery: d, Late: d.Late(now)}
	}
	httpx.JSON(w, http.StatusOK, views)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, d)
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	var form generateForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	if err := validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	d, err := h.service.GenerateForOrder(r.Context(), form.OrderID)
	if err != nil {
		h.logger.Error("generate delivery", slog.Any("error", err), slog.String("order_id", form.OrderID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, d)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var form updateForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	d, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), UpdateInput{
		Carrier:          form.Carrier,
		TrackingNumber:   form.TrackingNumber,
		Status:           form.Status,
		EstimatedArrival: form.EstimatedArrival,
		ActualArrival:    form.ActualArrival,
		ShippedDate:      form.ShippedDate,
		Notes:            form.Notes,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, d)
}
