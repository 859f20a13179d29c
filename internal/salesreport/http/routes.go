package salesreporthttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

// MountRoutes registers sales report endpoints. Paths are relative so the
// router can nest them under the categories subtree.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(10, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)

	r.Get("/{id}/sales", h.handleReport)
	r.Group(func(gr chi.Router) {
		gr.Use(limiter)
		gr.Get("/{id}/sales/export.csv", h.handleCSV)
	})
}
