package router

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sakhi-junction/internal/config"
	"sakhi-junction/internal/handler"
	"sakhi-junction/internal/middleware"
	"sakhi-junction/internal/model"
	"sakhi-junction/internal/websocket"
)

type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Post         *handler.PostHandler
	HealthData   *handler.HealthDataHandler
	Chat         *handler.ChatHandler
	Chatbot      *handler.ChatbotHandler
	Notification *handler.NotificationHandler
}

func New(
	cfg *config.Config,
	authMiddleware *middleware.AuthMiddleware,
	h Handlers,
	postLookup middleware.ResourceLookup,
	hub *websocket.Hub,
	verifier websocket.TokenVerifier,
	dbHealth func(context.Context) error,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := dbHealth(req.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("db unavailable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/ws", websocket.ServeWS(hub, verifier))

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", h.Auth.Register)
			auth.Post("/login", h.Auth.Login)
			auth.With(authMiddleware.RequireAuth).Get("/me", h.Auth.Me)
		})

		api.With(authMiddleware.RequireAuth).Get("/users/profile", h.User.Profile)
		api.With(authMiddleware.RequireAuth, authMiddleware.RequireRoles(model.RoleAdmin)).
			Post("/users/{id}/verify", h.User.VerifyEmail)

		api.Route("/posts", func(posts chi.Router) {
			posts.With(authMiddleware.OptionalAuth).Get("/", h.Post.List)
			posts.With(authMiddleware.OptionalAuth).Get("/trending", h.Post.Trending)
			posts.With(authMiddleware.OptionalAuth).Get("/{id}", h.Post.Get)
			posts.With(authMiddleware.RequireAuth, authMiddleware.RequireVerifiedEmail).Post("/", h.Post.Create)
			posts.With(authMiddleware.RequireAuth, authMiddleware.RequireOwnership(postLookup)).Put("/{id}", h.Post.Update)
			posts.With(authMiddleware.RequireAuth, authMiddleware.RequireOwnership(postLookup)).Delete("/{id}", h.Post.Delete)
			posts.With(authMiddleware.RequireAuth).Post("/{id}/like", h.Post.ToggleLike)
			posts.With(authMiddleware.OptionalAuth).Get("/{id}/comments", h.Post.ListComments)
			posts.With(authMiddleware.RequireAuth).Post("/{id}/comments", h.Post.AddComment)
			posts.With(authMiddleware.RequireAuth).Post("/{id}/share", h.Post.Share)
		})

		api.Route("/health-data", func(tracker chi.Router) {
			tracker.Use(authMiddleware.RequireAuth)
			tracker.Get("/", h.HealthData.Get)
			tracker.Post("/", h.HealthData.Update)
			tracker.Delete("/", h.HealthData.Delete)
		})

		api.Route("/chat", func(chat chi.Router) {
			chat.Use(authMiddleware.RequireAuth)
			chat.Get("/messages", h.Chat.History)
			chat.Post("/messages", h.Chat.Send)
		})

		api.With(authMiddleware.OptionalAuth).Post("/chatbot", h.Chatbot.Ask)

		api.Route("/notifications", func(notifications chi.Router) {
			notifications.Use(authMiddleware.RequireAuth)
			notifications.Get("/", h.Notification.List)
			notifications.Post("/{id}/read", h.Notification.MarkRead)
		})
	})

	return r
}
