package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/markethub/payout-service/internal/auth"
	"github.com/markethub/payout-service/internal/domain/ports"
	"github.com/markethub/payout-service/internal/middleware"
	"github.com/markethub/payout-service/pkg/observability"
)

// RouterConfig carries the wiring for the HTTP API
type RouterConfig struct {
	Commands       ports.PayoutCommandService
	Queries        ports.PayoutQueryService
	JWTManager     *auth.JWTManager
	Logger         *zap.Logger
	AllowedOrigins []string
}

// NewRouter builds the API router. Every /api route requires a valid bearer
// token; role checks happen in the service layer so unauthorized calls get a
// domain error instead of a routing 404.
func NewRouter(cfg RouterConfig) http.Handler {
	provider := NewProviderHandler(cfg.Commands, cfg.Queries)
	admin := NewAdminHandler(cfg.Commands, cfg.Queries)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(observability.Middleware(func(req *http.Request) string {
		if ctx := chi.RouteContext(req.Context()); ctx != nil {
			if pattern := ctx.RoutePattern(); pattern != "" {
				return pattern
			}
		}
		return req.URL.Path
	}))

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Authenticate(cfg.JWTManager, cfg.Logger))

		r.Route("/provider", func(r chi.Router) {
			r.Route("/payouts", func(r chi.Router) {
				r.Post("/", provider.RequestPayout)
				r.Get("/", provider.ListPayouts)
				r.Get("/{id}", provider.GetPayout)
				r.Post("/{id}/cancel", provider.CancelPayout)
			})
			r.Get("/earnings", provider.GetEarningsSummary)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Route("/payouts", func(r chi.Router) {
				r.Get("/", admin.ListPayouts)
				r.Get("/export", admin.ExportPayouts)
				r.Get("/{id}", admin.GetPayout)
				r.Post("/{id}/approve", admin.ApprovePayout)
				r.Post("/{id}/reject", admin.RejectPayout)
				r.Post("/{id}/process", admin.ProcessPayout)
				r.Post("/{id}/pay", admin.MarkPayoutPaid)
				r.Post("/{id}/fail", admin.MarkPayoutFailed)
			})
			r.Get("/ledger", admin.GetLedgerSummary)
		})
	})

	return r
}
