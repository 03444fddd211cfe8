package routers

import (
	"log/slog"

	"nwaevents/internal/transport/httpServer/handlers"
	myMiddleware "nwaevents/internal/transport/httpServer/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	log              *slog.Logger
	eventHandler     *handlers.EventHandler
	syncHandler      *handlers.SyncHandler
	importHandler    *handlers.ImportHandler
	subscribeHandler *handlers.SubscribeHandler
	authHandler      *handlers.AuthHandler
	syncSecret       string
	jwtSecret        string
}

func NewRouter(
	log *slog.Logger,
	eventHandler *handlers.EventHandler,
	syncHandler *handlers.SyncHandler,
	importHandler *handlers.ImportHandler,
	subscribeHandler *handlers.SubscribeHandler,
	authHandler *handlers.AuthHandler,
	syncSecret string,
	jwtSecret string,
) *Router {
	return &Router{
		log:              log,
		eventHandler:     eventHandler,
		syncHandler:      syncHandler,
		importHandler:    importHandler,
		subscribeHandler: subscribeHandler,
		authHandler:      authHandler,
		syncSecret:       syncSecret,
		jwtSecret:        jwtSecret,
	}
}

func (r *Router) Mount(mux *chi.Mux) {

	mux.Use(cors.AllowAll().Handler)
	mux.Use(myMiddleware.NewLogger(r.log))
	mux.Use(middleware.Heartbeat("/ping"))

	mux.Handle("/metrics", promhttp.Handler())

	mux.Route("/api", func(mux chi.Router) {
		mux.Route("/v1", func(mux chi.Router) {
			mux.Route("/events", func(mux chi.Router) {
				mux.Get("/", r.eventHandler.GetEvents)
				mux.Post("/", r.eventHandler.CreateEvent)

				// Moderation actions need an admin session.
				mux.Group(func(mux chi.Router) {
					mux.Use(myMiddleware.AdminAuth(r.jwtSecret))
					mux.Put("/{eventId}", r.eventHandler.ChangeEvent)
					mux.Patch("/{eventId}/status", r.eventHandler.UpdateStatus)
					mux.Delete("/{eventId}", r.eventHandler.DeleteEvent)
				})
			})

			mux.Group(func(mux chi.Router) {
				mux.Use(myMiddleware.SyncAuth(r.syncSecret))
				mux.Post("/sync/{source}", r.syncHandler.PostSync)
			})

			mux.Post("/import-url", r.importHandler.ImportURL)
			mux.Post("/subscribe", r.subscribeHandler.Subscribe)
			mux.Post("/auth/login", r.authHandler.Login)
		})
	})
}
