package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/itchan-dev/routelab/frontend/internal/setup"
	mw "github.com/itchan-dev/routelab/shared/middleware"
	"github.com/itchan-dev/routelab/shared/middleware/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter creates the chi router serving every page of the site.
func SetupRouter(deps *setup.Dependencies) http.Handler {
	r := chi.NewRouter()
	h := deps.Handler

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	// streamed pages swap boundaries in with an inline script
	r.Use(mw.PageHeaders(deps.Public.Server.HTTPS, mw.PageCSP))

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", h.HomeGetHandler)

	r.Route("/test1", func(r chi.Router) {
		r.Get("/", h.Test1GetHandler)
		r.Get("/{pageId}", h.Test1PageGetHandler)
	})
	r.Route("/test3", func(r chi.Router) {
		r.Get("/", h.Test3GetHandler)
		r.Get("/{pageId}", h.Test3PageGetHandler)
	})
	r.Route("/test4", func(r chi.Router) {
		r.Get("/", h.Test4GetHandler)
		r.Get("/{pageId}", h.Test4PageGetHandler)
	})

	r.NotFound(h.NotFoundHandler)

	return r
}
