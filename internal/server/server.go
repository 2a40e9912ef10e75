package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"wonder-electronics/internal/config"
	"wonder-electronics/internal/events"
	custommiddleware "wonder-electronics/internal/middleware"
	"wonder-electronics/internal/repository"
	"wonder-electronics/internal/service"
	"wonder-electronics/internal/store"
	"wonder-electronics/internal/transport"
	"wonder-electronics/internal/ws"
)

type Server struct {
	*http.Server
	config  *config.Config
	logger  *zap.Logger
	store   store.Store
	hubStop context.CancelFunc
}

// NewServer wires the whole application: store, repositories, services,
// handlers and the websocket hub.
func NewServer(cfg *config.Config, logger *zap.Logger, st store.Store, redisClient *redis.Client) *Server {
	router := chi.NewRouter()

	// Basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env != "production"))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.MetricsMiddleware())

	if redisClient != nil {
		router.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.RequestsPerMinute,
			Window:            time.Minute,
			KeyPrefix:         "wonder:ratelimit",
		}, logger))
	}

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Prometheus scrape endpoint
	router.Handle("/metrics", promhttp.Handler())

	// Event bus and websocket hub
	bus := events.NewBus()
	hub := ws.NewHub(bus, logger)
	hubCtx, hubStop := context.WithCancel(context.Background())
	go hub.Run(hubCtx)
	router.Get("/ws", ws.ServeWS(hub, logger))

	// Repositories
	productRepo := repository.NewProductRepository(st, bus)
	categoryRepo := repository.NewCategoryRepository(st, bus)
	userRepo := repository.NewUserRepository(st, bus, service.DefaultAdminSeed())
	orderRepo := repository.NewOrderRepository(st, bus)
	resetRepo := repository.NewResetRequestRepository(st, bus)
	slideRepo := repository.NewSlideRepository(st, bus)
	chatRepo := repository.NewChatRepository(st, bus)
	settingsRepo := repository.NewSettingsRepository(st, bus)
	cartRepo := repository.NewCartRepository(st, bus)
	refreshTokenRepo := repository.NewRefreshTokenRepository(st)

	// Services
	userService := service.NewUserService(
		userRepo,
		refreshTokenRepo,
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshExpiry)*24*time.Hour,
	)
	currencyService := service.NewCurrencyService(settingsRepo)
	catalogService := service.NewCatalogService(productRepo, categoryRepo)
	cartService := service.NewCartService(cartRepo, productRepo, settingsRepo)
	orderService := service.NewOrderService(orderRepo, productRepo, cartRepo, settingsRepo, logger)
	resetService := service.NewResetService(resetRepo, userRepo, service.NewOTPManager(), logger)
	chatService := service.NewChatService(chatRepo)
	siteService := service.NewSiteService(settingsRepo, slideRepo)

	// Route middleware
	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)
	optionalAuth := custommiddleware.OptionalAuthMiddleware(cfg.JWT.Secret, logger)
	adminMiddleware := custommiddleware.RequireAdmin(logger)

	// Handlers
	transport.NewUserHandler(userService, logger).RegisterRoutes(router, authMiddleware, adminMiddleware)
	transport.NewCatalogHandler(catalogService, currencyService, settingsRepo, logger).RegisterRoutes(router, optionalAuth, authMiddleware, adminMiddleware)
	transport.NewCartHandler(cartService, logger).RegisterRoutes(router, optionalAuth)
	transport.NewOrderHandler(orderService, currencyService, logger).RegisterRoutes(router, authMiddleware, adminMiddleware)
	transport.NewResetHandler(resetService, cfg.Server.Env != "production", logger).RegisterRoutes(router, authMiddleware, adminMiddleware)
	transport.NewSiteHandler(siteService, logger).RegisterRoutes(router, authMiddleware, adminMiddleware)
	transport.NewChatHandler(chatService, logger).RegisterRoutes(router, optionalAuth, authMiddleware, adminMiddleware)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config:  cfg,
		logger:  logger,
		store:   st,
		hubStop: hubStop,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	s.hubStop()

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Error("Failed to close store", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
