package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"todoify/backend/internal/cache"
	"todoify/backend/internal/config"
	"todoify/backend/internal/database"
	"todoify/backend/internal/handlers"
	"todoify/backend/internal/middleware"
	"todoify/backend/internal/monitoring"
	"todoify/backend/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logLevel := logger.Warn
	if !cfg.IsProduction() {
		logLevel = logger.Info
	}

	pool, err := database.NewDatabasePool(&database.PoolConfig{
		DSN:             cfg.GetDatabaseDSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		LogLevel:        logLevel,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := pool.Migrate(); err != nil {
		log.Fatalf("failed to ensure schema: %v", err)
	}

	todoService, cacheClient := buildTodoService(cfg)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit)
	router := buildRouter(cfg, pool, todoService, rateLimiter)

	srv := &http.Server{
		Addr:         cfg.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}

	rateLimiter.Stop()
	if cacheClient != nil {
		cacheClient.Close()
	}
	if err := pool.Close(); err != nil {
		log.Printf("database close error: %v", err)
	}
}

// buildTodoService wires the optional read-through cache around the
// plain service. Without CACHE_ENABLED the plain service is used and
// no cache client exists.
func buildTodoService(cfg *config.Config) (services.TodoService, cache.Cache) {
	base := services.NewTodoService()
	if !cfg.Cache.Enabled {
		return base, nil
	}

	var cacheClient cache.Cache
	redisCache := cache.NewRedisCache(&cache.RedisConfig{
		Addr:         cfg.Cache.Addr,
		Password:     cfg.Cache.Password,
		DB:           cfg.Cache.DB,
		PoolSize:     cfg.Cache.PoolSize,
		MinIdleConns: cfg.Cache.MinIdleConns,
		DialTimeout:  cfg.Cache.DialTimeout,
		ReadTimeout:  cfg.Cache.ReadTimeout,
		WriteTimeout: cfg.Cache.WriteTimeout,
	})
	if err := redisCache.Health(); err != nil {
		log.Printf("redis unavailable (%v), using in-process cache", err)
		redisCache.Close()
		cacheClient = cache.NewMemoryCache()
	} else {
		cacheClient = redisCache
	}

	return services.NewCachedTodoService(base, cacheClient, cfg.Cache.ListTTL, cfg.Cache.EntryTTL), cacheClient
}

func buildRouter(cfg *config.Config, pool *database.DatabasePool, todoService services.TodoService, rateLimiter *middleware.RateLimiter) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RecoveryWithLog())
	router.Use(middleware.RequestID())
	router.Use(monitoring.MetricsMiddleware())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, middleware.RequestIDHeader)
	router.Use(cors.New(corsConfig))

	if cfg.RateLimit.Enabled {
		router.Use(rateLimiter.Middleware())
	}

	healthHandler := handlers.NewHealthHandler(monitoring.StartTime())
	todoHandler := handlers.NewTodoHandler(pool.DB, todoService)

	api := router.Group("/api")
	api.GET("/health", healthHandler.Health)
	api.GET("/metrics", monitoring.MetricsHandler())
	api.GET("/todos", todoHandler.ListTodos)
	api.POST("/todos", todoHandler.CreateTodo)
	api.PATCH("/todos/:id", todoHandler.ToggleTodo)
	api.DELETE("/todos/:id", todoHandler.DeleteTodo)

	// The client bundle is served from StaticDir; anything that is not
	// an API route falls back to the application shell.
	staticDir := cfg.Server.StaticDir
	router.StaticFile("/app.js", filepath.Join(staticDir, "app.js"))
	router.StaticFile("/style.css", filepath.Join(staticDir, "style.css"))
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.File(filepath.Join(staticDir, "index.html"))
	})

	return router
}
