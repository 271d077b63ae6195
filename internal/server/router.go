package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"samovar/internal/infrastructure/metrics"
	messagectrl "samovar/internal/message/controller"
	"samovar/internal/notification"
	"samovar/internal/order"
)

type RouterConfig struct {
	Orders        *order.Module
	Messages      *messagectrl.MessageController
	Notifications *notification.Controller
	CronSecret    string
	Metrics       *metrics.ServerMetrics
}

func NewRouter(cfg RouterConfig, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(Instrument(cfg.Metrics, logger))

	cronAuth := RequireCronSecret(cfg.CronSecret, logger)

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", cfg.Orders.Orders.Create)
		r.Get("/", cfg.Orders.Orders.List)

		r.With(cronAuth).Post("/auto-transition", cfg.Orders.Sweep.AutoTransition)
		r.Get("/auto-transition", cfg.Orders.Sweep.AutoTransitionStatus)
		r.With(cronAuth).Post("/cleanup", cfg.Orders.Sweep.Cleanup)
		r.Get("/cleanup", cfg.Orders.Sweep.CleanupStatus)

		r.Get("/{orderID}", cfg.Orders.Orders.Get)
		r.Patch("/{orderID}/status", cfg.Orders.Orders.UpdateStatus)
	})

	r.Post("/messages", cfg.Messages.Create)

	r.Route("/admin/notifications", func(r chi.Router) {
		r.Get("/stream", cfg.Notifications.Stream)
		r.Get("/{sessionID}", cfg.Notifications.Active)
		r.Post("/{sessionID}/mute", cfg.Notifications.Mute)
		r.Delete("/{sessionID}/{notificationID}", cfg.Notifications.Dismiss)
	})

	r.Handle("/metrics", metrics.Handler())

	return r
}
