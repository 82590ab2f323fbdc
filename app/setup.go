package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/todo-api/api"
	"github.com/sahilchouksey/todo-api/config"
	"github.com/sahilchouksey/todo-api/database"
	"github.com/sahilchouksey/todo-api/router"
	"github.com/sahilchouksey/todo-api/telemetry"
	"github.com/sahilchouksey/todo-api/utils/cache"
	"github.com/sahilchouksey/todo-api/utils/middleware"
)

const shutdownTimeout = 10 * time.Second

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	// Tracing is a no-op unless OTEL_ENDPOINT is set
	shutdownTracing, err := telemetry.Setup(context.Background(), telemetry.Config{
		ServiceName: getEnv.SERVICE_NAME,
		Endpoint:    getEnv.OTEL_ENDPOINT,
		Enabled:     getEnv.OTEL_ENABLED,
	})
	if err != nil {
		log.Warnf("Tracing disabled: %v", err)
	}

	// Initialize GORM database connection
	store, err := database.StartGORM(getEnv)
	if err != nil {
		print("Check DATABASE_URL and whether the database is reachable\n")
		return err
	}

	// The schema is normally created by cmd/migrate
	if getEnv.AUTO_MIGRATE {
		if err := store.Init(); err != nil {
			print("Failed to initialize database tables\n")
			_ = store.Close()
			return err
		}
	}

	// Rate limiter counters go to Redis when it is configured
	var limiterStorage fiber.Storage
	if getEnv.REDIS_URL != "" && getEnv.RATE_LIMIT_REQUESTS > 0 {
		redisStorage, err := cache.NewRedisStorage(getEnv.REDIS_URL)
		if err != nil {
			log.Warnf("Failed to connect to Redis: %v. Rate limiting falls back to in-memory counters.", err)
		} else {
			limiterStorage = redisStorage
		}
	}

	// Defer closing everything opened above
	defer func() {
		if limiterStorage != nil {
			_ = limiterStorage.Close()
		}
		if err := store.Close(); err != nil {
			log.Errorf("Failed to close database: %v", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if shutdownTracing != nil {
			_ = shutdownTracing(ctx)
		}
	}()

	server := NewServer(getEnv, store, limiterStorage)

	// Stop on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Run()
	}()

	select {
	case err := <-serveErr:
		return err
	case sig := <-quit:
		log.Infof("Received %s", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return err
	}
	if err := <-serveErr; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// NewServer builds the API server with middleware and routes attached.
// limiterStorage may be nil.
func NewServer(getEnv *config.EnvironmentVariable, store database.Storage, limiterStorage fiber.Storage) *api.APIServer {
	// Init API
	server := api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	app := server.GetEngine()

	// Attach Middleware
	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    getEnv.ALLOWED_ORIGINS,
		RateLimitRequests: getEnv.RATE_LIMIT_REQUESTS,
		RateLimitWindow:   getEnv.RATE_LIMIT_WINDOW,
		RateLimitStorage:  limiterStorage,
		DisableRequestLog: getEnv.GO_ENV == "test",
	})
	app.Use(middleware.Tracing())

	// Setup Routes
	router.SetupRoutes(app, store)

	return server
}
