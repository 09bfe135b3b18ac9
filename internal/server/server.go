package server

import (
	"fmt"
	"net/http"
	"time"

	"item-detail/internal/config"
	custommiddleware "item-detail/internal/middleware"
	"item-detail/internal/repository"
	"item-detail/internal/service"
	"item-detail/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, repo repository.ItemRepository) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.Server.Env != "production"))

	// Rate limiting only when configured
	var redisClient *redis.Client
	if cfg.RateLimit.RequestsPerMinute > 0 {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.RateLimit.RedisHost, cfg.RateLimit.RedisPort),
			Password: cfg.RateLimit.RedisPassword,
		})
		router.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.RequestsPerMinute,
			Window:            time.Minute,
			KeyPrefix:         "ratelimit:items",
		}, logger))
	}

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Initialize services
	itemService := service.NewItemService(repo)

	// Initialize handlers
	itemHandler := transport.NewItemHandler(itemService, logger)
	itemHandler.RegisterRoutes(router)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		redis:  redisClient,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
