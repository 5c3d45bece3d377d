package catalog

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/stockmaster-pro/stockmaster/internal/platform/httpx"
)

var validate = validator.New()

// Handler serves the inventory endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers inventory routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/stats", h.stats)
	r.Get("/low-stock", h.lowStock)
	r.Post("/import", h.bulkImport)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.remove)
	r.Post("/{id}/quantity", h.setQuantity)
}

// ProductForm is the create/update payload.
type ProductForm struct {
	SKU          string  `json:"sku"`
	Name         string  `json:"name" validate:"required"`
	Category     string  `json:"category"`
	Quantity     int     `json:"quantity" validate:"gte=0"`
	MinThreshold int     `json:"minThreshold" validate:"gte=0"`
	Price        float64 `json:"price" validate:"gte=0"`
	Supplier     string  `json:"supplier"`
	User         string  `json:"user"`
}

type quantityForm struct {
	Quantity int    `json:"quantity" validate:"gte=0"`
	User     string `json:"user"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := Query{
		Search:    r.URL.Query().Get("search"),
		Category:  r.URL.Query().Get("category"),
		SortBy:    SortKey(r.URL.Query().Get("sort")),
		Ascending: r.URL.Query().Get("order") != "desc",
	}
	products, err := h.service.List(r.Context(), q)
	if err != nil {
		h.logger.Error("list products", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, products)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var form ProductForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	if err := validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	p, err := h.service.Create(r.Context(), Product{
		SKU:          form.SKU,
		Name:         form.Name,
		Category:     form.Category,
		Quantity:     form.Quantity,
		MinThreshold: form.MinThreshold,
		Price:        form.Price,
		Supplier:     form.Supplier,
	}, form.User)
	if err != nil {
		h.logger.Error("create product", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var form ProductForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	if err := validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	p, err := h.service.Update(r.Context(), Product{
		ID:           chi.URLParam(r, "id"),
		SKU:          form.SKU,
		Name:         form.Name,
		Category:     form.Category,
		MinThreshold: form.MinThreshold,
		Price:        form.Price,
		Supplier:     form.Supplier,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setQuantity(w http.ResponseWriter, r *http.Request) {
	var form quantityForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	if err := validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	p, err := h.service.SetQuantity(r.Context(), chi.URLParam(r, "id"), form.Quantity, form.User)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) bulkImport(w http.ResponseWriter, r *http.Request) {
	var products []Product
	if err := httpx.DecodeJSON(r, &products); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	if err := h.service.BulkImport(r.Context(), products); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int{"imported": len(products)})
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.ComputeStats(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, st)
}

func (h *Handler) lowStock(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.LowStock(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, products)
}
