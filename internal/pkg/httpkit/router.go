package httpkit

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Service describes the service a router is built for.
type Service struct {
	// Name is the machine name, e.g. "order-service".
	Name string
	// Title is used in the welcome banner, e.g. "Order Service".
	Title  string
	Logger *slog.Logger

	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter returns a chi router with the middleware stack every service
// shares and the banner and health routes mounted. Trailing slashes are
// stripped, so "/orders/" and "/orders" reach the same handler.
func NewRouter(svc Service) *chi.Mux {
	logger := svc.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(otelhttp.NewMiddleware(svc.Name,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	))
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(RateLimit(svc.RateLimitRPS, svc.RateLimitBurst))

	r.Get("/", Welcome(svc.Title))
	r.Get("/health", Health(svc.Name))
	return r
}

// Welcome serves the banner at "/".
func Welcome(title string) http.HandlerFunc {
	body := map[string]string{"message": "Welcome to the " + title + "!"}
	return func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, body)
	}
}

// Health reports that the process is up.
func Health(service string) http.HandlerFunc {
	body := map[string]string{"status": "ok", "service": service}
	return func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, body)
	}
}
