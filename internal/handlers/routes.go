package handlers

import (
	"net/http"
	"time"

	"estatehub/internal/auth"
	"estatehub/internal/logger"
	"estatehub/internal/metrics"
	"estatehub/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterConfig struct {
	Tokens         *auth.TokenIssuer
	Metrics        *metrics.Metrics
	RequestTimeout time.Duration
	AuthRateLimit  float64
	AuthRateBurst  int
}

// Routes собирает роутер API
func (h *Handler) Routes(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(logger.Middleware(h.log))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}
	r.Use(middleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	r.Use(auth.Middleware(cfg.Tokens))

	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler())
	}

	limiter := newIPRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", h.PingHandler)

		r.Group(func(r chi.Router) {
			r.Use(limiter.Middleware)
			r.Post("/auth/register", h.RegisterHandler)
			r.Post("/auth/login", h.LoginHandler)
		})

		// доступно без входа
		r.Get("/properties", h.ListPropertiesHandler)
		r.Get("/properties/{propertyId}", h.GetPropertyHandler)
		r.Get("/properties/{propertyId}/favorite", h.GetFavoriteHandler)
		r.Get("/tenders", h.ListTendersHandler)
		r.Get("/tenders/{tenderId}", h.GetTenderHandler)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireUser)

			r.Get("/me", h.MeHandler)
			r.Put("/me", h.UpdateMeHandler)

			// объявления
			r.Post("/properties", h.CreatePropertyHandler)
			r.Get("/properties/my", h.GetUserPropertiesHandler)
			r.Post("/properties/images/presign", h.PresignImageHandler)
			r.Delete("/properties/{propertyId}", h.DeletePropertyHandler)
			r.Put("/properties/{propertyId}/favorite", h.ToggleFavoriteHandler)
			r.Get("/favorites", h.ListFavoritesHandler)

			// предложения
			r.Put("/tenders/{tenderId}/bid", h.SubmitBidHandler)
			r.Get("/bids/my", h.GetUserBidsHandler)

			// уведомления
			r.Get("/notifications", h.ListNotificationsHandler)
			r.Get("/notifications/unread_count", h.UnreadCountHandler)
			r.Put("/notifications/read_all", h.MarkAllNotificationsReadHandler)
			r.Put("/notifications/{notificationId}/read", h.MarkNotificationReadHandler)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(models.RoleAdmin))
			r.Post("/tenders", h.CreateTenderHandler)
			r.Put("/tenders/{tenderId}/award", h.AwardTenderHandler)
			r.Put("/bids/{bidId}/status", h.UpdateBidStatusHandler)
		})
	})

	return r
}
