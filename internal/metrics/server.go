package metrics

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Serve exposes /metrics on addr for the lifetime of the run. Long archive
// runs are observable this way; failure to bind is warned, not fatal.
func Serve(addr string) {
	r := chi.NewRouter()
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	go func() {
		slog.Info("metrics endpoint listening", "addr", addr)
		if err := http.ListenAndServe(addr, r); err != nil {
			slog.Warn("metrics endpoint failed", "addr", addr, "error", err)
		}
	}()
}
