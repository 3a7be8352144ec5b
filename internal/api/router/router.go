package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wellnessflow/booking-api/internal/bookings"
	httpmiddleware "github.com/wellnessflow/booking-api/internal/http/middleware"
	"github.com/wellnessflow/booking-api/internal/therapies"
	"github.com/wellnessflow/booking-api/internal/whatsapp"
	"github.com/wellnessflow/booking-api/pkg/logging"
)

// Config carries the handlers and middleware settings for the router.
type Config struct {
	Logger             *logging.Logger
	CORSAllowedOrigins []string
	BookingsHandler    *bookings.Handler
	TherapiesHandler   *therapies.Handler
	WhatsAppHandler    *whatsapp.Handler
}

// New assembles the HTTP routes.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/bookings", func(r chi.Router) {
		r.Post("/", cfg.BookingsHandler.Create)
		r.Get("/", cfg.BookingsHandler.List)
		r.Get("/{id}", cfg.BookingsHandler.Get)
		r.Put("/{id}", cfg.BookingsHandler.Update)
		r.Delete("/{id}", cfg.BookingsHandler.Delete)
	})

	r.Route("/terapias", func(r chi.Router) {
		r.Post("/", cfg.TherapiesHandler.Create)
		r.Get("/", cfg.TherapiesHandler.List)
		r.Get("/{id}", cfg.TherapiesHandler.Get)
		r.Put("/{id}", cfg.TherapiesHandler.Update)
		r.Delete("/{id}", cfg.TherapiesHandler.Delete)
	})

	if cfg.WhatsAppHandler != nil {
		r.Post("/webhooks/whatsapp", cfg.WhatsAppHandler.InboundMessage)
	}

	return r
}
