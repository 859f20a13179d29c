package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/edusupply/console-api/internal/auth"
	"github.com/edusupply/console-api/internal/catalog/categories"
	"github.com/edusupply/console-api/internal/catalog/products"
	"github.com/edusupply/console-api/internal/invoices"
	salesreporthttp "github.com/edusupply/console-api/internal/salesreport/http"
	"github.com/edusupply/console-api/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger   *slog.Logger
	Config   *Config
	Verifier *auth.Verifier

	CategoriesHandler  *categories.Handler
	ProductsHandler    *products.Handler
	InvoicesHandler    *invoices.Handler
	SalesReportHandler *salesreporthttp.Handler
	JobHandler         *jobs.Handler
}

// NewRouter constructs the chi.Router with console defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:   params.Logger,
		Config:   params.Config,
		Verifier: params.Verifier,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/categories", func(r chi.Router) {
		if params.CategoriesHandler != nil {
			params.CategoriesHandler.MountRoutes(r)
		}
		if params.SalesReportHandler != nil {
			params.SalesReportHandler.MountRoutes(r)
		}
	})
	if params.ProductsHandler != nil {
		r.Route("/products", params.ProductsHandler.MountRoutes)
	}
	if params.InvoicesHandler != nil {
		r.Route("/invoices", params.InvoicesHandler.MountRoutes)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	return r
}
