package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/avatarctic/cached-catalog/go/configs"
	"github.com/avatarctic/cached-catalog/go/internal/application/services"
	"github.com/avatarctic/cached-catalog/go/internal/core/domain/product"
	"github.com/avatarctic/cached-catalog/go/internal/core/ports"
	"github.com/avatarctic/cached-catalog/go/internal/infrastructure/catalog"
	"github.com/avatarctic/cached-catalog/go/internal/infrastructure/health"
	"github.com/avatarctic/cached-catalog/go/internal/infrastructure/httpserver"
	"github.com/avatarctic/cached-catalog/go/internal/infrastructure/memcache"
	"github.com/avatarctic/cached-catalog/go/internal/infrastructure/redis"
	"github.com/avatarctic/cached-catalog/go/internal/infrastructure/repositories"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Setup logger
	logger := logrus.New()
	if cfg.Log.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}

	logger.Info("Starting cached catalog server...")

	generator := catalog.NewGenerator(cfg.Catalog.Size, logger)
	productCache := memcache.New[[]product.Product]("products", memcache.Options{
		Absolute: cfg.Cache.AbsoluteExpiration,
		Sliding:  cfg.Cache.SlidingExpiration,
	}, logger)
	productService := services.NewProductService(productCache, generator, logger)

	hcSlice := []ports.HealthChecker{health.NewGeneratorHealthChecker(generator)}

	var rateLimiterService ports.RateLimiterService
	if cfg.RateLimit.Enabled {
		redisClient, err := redis.NewRedisClient(&cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to Redis:", err)
		}
		defer redisClient.Close()

		logger.Info("Connected to Redis successfully")

		rateLimiterConfig := &services.RateLimiterConfig{
			DefaultRequestsPerMinute: cfg.RateLimit.DefaultRequestsPerMinute,
			BurstMultiplier:          cfg.RateLimit.BurstMultiplier,
			Window:                   cfg.RateLimit.Window,
			KeyPrefix:                cfg.RateLimit.KeyPrefix,
		}
		rateLimiterService = services.NewRateLimiterService(repositories.NewRateLimitRedisRepository(redisClient), rateLimiterConfig, logger)
		hcSlice = append(hcSlice, health.NewRedisHealthChecker(redisClient))
	}

	// Create server configuration
	serverConfig := &httpserver.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		TLSCertFile:    cfg.Server.TLSCertFile,
		TLSKeyFile:     cfg.Server.TLSKeyFile,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Environment:    cfg.Server.Environment,
	}

	server := httpserver.NewServer(serverConfig, logger, httpserver.ServerDeps{
		ProductService:     productService,
		RateLimiterService: rateLimiterService,
		HealthCheckers:     hcSlice,
	})

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server:", err)
		}
	}()

	logger.WithFields(logrus.Fields{
		"addr":         server.Addr(),
		"absolute_ttl": cfg.Cache.AbsoluteExpiration.String(),
		"sliding_ttl":  cfg.Cache.SlidingExpiration.String(),
		"rate_limit":   cfg.RateLimit.Enabled,
	}).Info("Server started")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
