package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/stockmaster-pro/stockmaster/internal/backup"
	"github.com/stockmaster-pro/stockmaster/internal/catalog"
	"github.com/stockmaster-pro/stockmaster/internal/clients"
	"github.com/stockmaster-pro/stockmaster/internal/delivery"
	"github.com/stockmaster-pro/stockmaster/internal/insights"
	"github.com/stockmaster-pro/stockmaster/internal/ledger"
	"github.com/stockmaster-pro/stockmaster/internal/movement"
	"github.com/stockmaster-pro/stockmaster/internal/observability"
	"github.com/stockmaster-pro/stockmaster/internal/settings"
	"github.com/stockmaster-pro/stockmaster/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	CatalogHandler  *catalog.Handler
	MovementHandler *movement.Handler
	ClientsHandler  *clients.Handler
	LedgerHandler   *ledger.Handler
	DeliveryHandler *delivery.Handler
	SettingsHandler *settings.Handler
	InsightsHandler *insights.Handler
	BackupHandler   *backup.Handler
	JobHandler      *jobs.Handler
	Metrics         *observability.Metrics
}

// NewRouter constructs the chi.Router with StockMaster defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/v1", func(r chi.Router) {
		r.Route("/inventory", params.CatalogHandler.MountRoutes)
		r.Route("/transactions", params.MovementHandler.MountRoutes)
		r.Route("/clients", params.ClientsHandler.MountRoutes)
		r.Route("/orders", params.LedgerHandler.MountRoutes)
		r.Route("/deliveries", params.DeliveryHandler.MountRoutes)
		r.Route("/settings", params.SettingsHandler.MountRoutes)
		if params.InsightsHandler != nil {
			r.Route("/insights", params.InsightsHandler.MountRoutes)
		}
		r.Route("/backup", params.BackupHandler.MountRoutes)
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
