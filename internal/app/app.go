package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sakhi-junction/internal/config"
	"sakhi-junction/internal/database"
	"sakhi-junction/internal/event"
	"sakhi-junction/internal/handler"
	"sakhi-junction/internal/logger"
	"sakhi-junction/internal/middleware"
	"sakhi-junction/internal/repository"
	"sakhi-junction/internal/router"
	"sakhi-junction/internal/service"
	"sakhi-junction/internal/websocket"
)

type App struct {
	server       *http.Server
	db           *database.DB
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Setup(cfg.LogFormat)

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	postRepo := repository.NewPostRepository(pool)
	healthRepo := repository.NewHealthRepository(pool)
	chatRepo := repository.NewChatRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	slog.Info("database ready")

	var mailer service.Mailer = service.NoopMailer{}
	if cfg.SMTPHost != "" {
		mailer = service.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	}

	bus := event.NewBus()
	hub := websocket.NewHub(bus)
	go hub.Run()

	authService, err := service.NewAuthService(cfg.JWTSecret, cfg.TokenTTL, userRepo, mailer, bus)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize auth service: %w", err)
	}
	authMiddleware := middleware.NewAuthMiddleware(authService, userRepo, cfg.UserLookupTimeout)

	trendingWindow := time.Duration(cfg.TrendingWindowDays) * 24 * time.Hour
	postService := service.NewPostService(postRepo, notificationRepo, bus, trendingWindow)
	healthService := service.NewHealthService(healthRepo)
	chatService := service.NewChatService(chatRepo, bus, cfg.ChatHistoryLimit)
	chatbotService := service.NewChatbotService()

	appRouter := router.New(cfg, authMiddleware, router.Handlers{
		Auth:         handler.NewAuthHandler(authService, cfg.TokenTTL),
		User:         handler.NewUserHandler(authService, userRepo),
		Post:         handler.NewPostHandler(postService),
		HealthData:   handler.NewHealthDataHandler(healthService),
		Chat:         handler.NewChatHandler(chatService),
		Chatbot:      handler.NewChatbotHandler(chatbotService),
		Notification: handler.NewNotificationHandler(notificationRepo),
	}, postService.Lookup, hub, authService, db.Health)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		db:     db,
		cleanupFuncs: []func(){
			db.Close,
		},
	}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	slog.Info("server stopped")
	return nil
}
