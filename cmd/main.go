package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	_ "movieflix-backend/docs"
	"movieflix-backend/internal/audit"
	"movieflix-backend/internal/auth"
	"movieflix-backend/internal/config"
	"movieflix-backend/internal/database"
	"movieflix-backend/internal/handlers"
	"movieflix-backend/internal/metrics"
	"movieflix-backend/internal/middleware"
	"movieflix-backend/internal/ratelimit"
	"movieflix-backend/internal/repository"
	"movieflix-backend/internal/routes"
	"movieflix-backend/internal/services"
	"movieflix-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	fiberSwagger "github.com/swaggo/fiber-swagger"
)

// @title MovieFlix API
// @version 1.0
// @description Movie and TV catalog with personal watchlists and an audited admin console
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@example.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:5000
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const auditStreamMaxLen = 10000

func main() {
	// Load environment variables
	loadEnvFile()

	// Load configuration
	cfg := config.Load()

	// Setup logger
	log := setupLogger()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Errorf("Error closing database connection: %v", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(registry)

	movieRepo := repository.NewMovieRepository(db)
	genreRepo := repository.NewGenreRepository(db)
	userRepo := repository.NewUserRepository(db)
	watchlistRepo := repository.NewWatchlistRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	var redisClient *redis.Client
	var sinks []audit.Sink
	if cfg.HasAuditSink("db") {
		sinks = append(sinks, audit.NewDBSink(auditRepo))
	}
	if cfg.HasAuditSink("redis") {
		redisClient, err = database.ConnectRedis(cfg.Redis)
		if err != nil {
			log.Warnf("Redis unavailable, audit stream disabled: %v", err)
		} else {
			sinks = append(sinks, audit.NewRedisStreamSink(redisClient, cfg.Audit.StreamName, auditStreamMaxLen))
			defer func() {
				if err := redisClient.Close(); err != nil {
					log.Errorf("Error closing redis connection: %v", err)
				}
			}()
		}
	}
	if cfg.HasAuditSink("log") {
		sinks = append(sinks, audit.NewLogSink(log))
	}
	recorder := audit.NewRecorder(log, collector, cfg.Audit.Timeout, sinks...)
	defer recorder.Close()

	minioService, err := services.NewMinIOService(&cfg.MinIO, log)
	if err != nil {
		log.Fatalf("Failed to initialize MinIO service: %v", err)
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	hasher := auth.NewHasher(cfg.Auth.BcryptCost)
	gate := auth.NewGate(tokens, userRepo)

	movieService := services.NewMovieService(movieRepo, genreRepo, minioService, recorder, collector, log)
	authService := services.NewAuthService(userRepo, tokens, hasher, minioService, log)
	watchlistService := services.NewWatchlistService(watchlistRepo, movieRepo, collector, log)
	adminService := services.NewAdminService(userRepo, movieRepo, auditRepo, recorder, log)

	adminLimiter := ratelimit.NewSlidingWindow(ratelimit.Config{
		Limit:           cfg.Admin.RateLimit,
		Window:          cfg.Admin.RateWindow,
		CleanupInterval: 5 * time.Minute,
	})
	defer adminLimiter.Stop()
	loginThrottle := ratelimit.NewLoginThrottle(cfg.Auth.LoginPerMinute, cfg.Auth.LoginBurst, 10*time.Minute)
	defer loginThrottle.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "MovieFlix API",
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		IdleTimeout:           120 * time.Second,
		DisableStartupMessage: false,
		ErrorHandler:          customErrorHandler(log),
	})

	setupMiddleware(app, cfg.Server.AllowOrigins)

	app.Get("/health", healthCheckHandler(db, redisClient))
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler(registry)))

	// Swagger documentation
	app.Get("/swagger/*", fiberSwagger.WrapHandler)

	// Setup API routes
	routes.Setup(app, routes.Handlers{
		Movie:     handlers.NewMovieHandler(movieService, log),
		Auth:      handlers.NewAuthHandler(authService, log),
		Watchlist: handlers.NewWatchlistHandler(watchlistService, log),
		Admin:     handlers.NewAdminHandler(adminService, log),
		Upload:    handlers.NewUploadHandler(minioService, log),
	}, routes.Guards{
		User:       middleware.Protect(gate, false, log),
		Admin:      middleware.Protect(gate, true, log),
		AdminLimit: middleware.AdminRateLimit(adminLimiter, collector, log),
		LoginLimit: middleware.LoginThrottle(loginThrottle, collector),
	})

	// Graceful shutdown
	go gracefulShutdown(app, log)

	log.Infof("MovieFlix API starting on port %s", cfg.Server.Port)
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start HTTP server: %v", err)
	}
}

func setupLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
	})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)

	if os.Getenv("GO_ENV") == "dev" || os.Getenv("GO_ENV") == "development" {
		log.SetLevel(logrus.DebugLevel)
	}

	return log
}

func setupMiddleware(app *fiber.App, allowOrigins string) {
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	// Logger middleware
	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${error}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))

	// CORS middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS, PATCH",
		ExposeHeaders:    "X-RateLimit-Limit, X-RateLimit-Remaining, Retry-After",
		AllowCredentials: false,
		MaxAge:           86400, // 24 hours
	}))
}

func healthCheckHandler(db *database.Database, rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbStatus := "healthy"
		if err := db.HealthCheck(); err != nil {
			dbStatus = "unhealthy"
		}

		body := fiber.Map{
			"status":    "ok",
			"service":   "movieflix-backend",
			"version":   "1.0.0",
			"database":  dbStatus,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}
		if rdb != nil {
			redisStatus := "healthy"
			if err := rdb.Ping(c.UserContext()).Err(); err != nil {
				redisStatus = "unhealthy"
			}
			body["redis"] = redisStatus
		}

		return c.JSON(body)
	}
}

// customErrorHandler catches errors that escape handlers: unknown routes,
// body limits and panics recovered by the recover middleware.
func customErrorHandler(log *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			message = e.Message
		}

		entry := log.WithError(err).WithFields(logrus.Fields{
			"method": c.Method(),
			"path":   c.Path(),
			"status": code,
		})
		if code >= fiber.StatusInternalServerError {
			entry.Error("Request error")
		} else {
			entry.Debug("Request error")
		}

		return utils.ErrorResponse(c, code, message)
	}
}

func gracefulShutdown(app *fiber.App, log *logrus.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		log.Errorf("Error during shutdown: %v", err)
	}

	log.Info("Server shutdown complete")
}

func loadEnvFile() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{})
	log.SetOutput(os.Stdout)

	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "dev"
	}

	execDir, err := os.Getwd()
	if err != nil {
		log.Warnf("Could not get working directory: %v", err)
		return
	}

	envFile := filepath.Join(execDir, "envs", ".env."+env)
	if err := godotenv.Load(envFile); err != nil {
		log.Warnf("Could not load environment file %s: %v", envFile, err)

		defaultEnvFile := filepath.Join(execDir, "envs", ".env")
		if err := godotenv.Load(defaultEnvFile); err != nil {
			log.Warnf("Could not load default environment file: %v", err)
		} else {
			log.Infof("Environment loaded from default file %s", defaultEnvFile)
		}
	} else {
		log.Infof("Environment loaded from file %s", envFile)
	}
}
