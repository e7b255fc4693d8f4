package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sanctuarysound/api/internal/auth"
	"github.com/sanctuarysound/api/internal/client"
	"github.com/sanctuarysound/api/internal/config"
	"github.com/sanctuarysound/api/internal/handler"
	"github.com/sanctuarysound/api/internal/logging"
	"github.com/sanctuarysound/api/internal/middleware"
	"github.com/sanctuarysound/api/internal/service"
	ws "github.com/sanctuarysound/api/internal/websocket"
	"github.com/sanctuarysound/api/internal/worker"
	"github.com/sanctuarysound/api/pkg/response"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logging.New(cfg.Server.LogLevel, cfg.Server.Env)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warn("redis not available, async jobs will fail", zap.Error(err))
	}

	asynqClient := asynq.NewClient(redisOpt)
	defer asynqClient.Close()

	validate, err := handler.NewValidator()
	if err != nil {
		log.Fatal("failed to register validations", zap.Error(err))
	}

	hub := ws.NewHub(log)
	go hub.Run(ctx)

	// Snapshot archive is optional; imports still parse without it.
	var archive client.ArchiveStore
	if cfg.R2.Configured() {
		r2Client, err := client.NewR2Client(&cfg.R2)
		if err != nil {
			log.Warn("R2 client not initialized", zap.Error(err))
		} else {
			archive = r2Client
		}
	} else {
		log.Info("R2 storage not configured, snapshot archive disabled")
	}

	var verifier auth.TokenVerifier
	if cfg.Zitadel.Issuer != "" {
		jwksVerifier, err := auth.NewJWKSVerifier(&cfg.Zitadel)
		if err != nil {
			log.Warn("JWKS verifier not initialized", zap.Error(err))
		} else {
			defer jwksVerifier.Close()
			verifier = jwksVerifier
		}
	}
	authenticator := auth.NewAuthenticator(verifier, cfg.JWT.Secret)

	// Services
	recommendations := service.NewRecommendationService(
		cfg.Engine.Tuning(),
		service.NewRedisJobStore(redisClient),
		service.NewRedisGenerations(redisClient),
		asynqClient,
		log,
	)
	analyses := service.NewAnalysisService(cfg.Engine.Tolerances())
	snapshots := service.NewSnapshotService(archive, log)

	// Handlers
	recommendationHandler := handler.NewRecommendationHandler(recommendations, validate)
	analysisHandler := handler.NewAnalysisHandler(analyses, validate)
	snapshotHandler := handler.NewSnapshotHandler(snapshots)
	authHandler := handler.NewAuthHandler(authenticator)

	var apiAuthMiddleware fiber.Handler
	if cfg.Gateway.Enabled {
		// Behind Traefik: ForwardAuth already verified the token
		log.Info("gateway mode enabled, using header-based auth")
		apiAuthMiddleware = middleware.GatewayAuthMiddleware()
	} else {
		apiAuthMiddleware = middleware.NewAuthMiddleware(authenticator).Authenticate()
	}
	rateLimiter := middleware.NewRateLimiter(redisClient, log)

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    4 * 1024 * 1024,
	})

	app.Use(recover.New())
	logFormat := "[${time}] ${status} - ${latency} ${method} ${path}\n"
	if strings.EqualFold(cfg.Server.LogLevel, "debug") {
		logFormat = "[${time}] ${status} - ${latency} ${method} ${path} ${queryParams} ${reqHeaders}\n"
	}
	app.Use(logger.New(logger.Config{
		Format: logFormat,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"timestamp": time.Now().Unix(),
		})
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"services": fiber.Map{
				"redis":   redisClient.Ping(c.UserContext()).Err() == nil,
				"archive": archive != nil,
				"auth":    authenticator.Configured(),
			},
		})
	})

	// ForwardAuth verification endpoint (internal, called by Traefik)
	app.Get("/auth/verify", authHandler.Verify)

	api := app.Group("/api", apiAuthMiddleware)

	api.Get("/consoles", analysisHandler.Consoles)

	recs := api.Group("/recommendations")
	recs.Post("/generate", rateLimiter.RecommendLimit(cfg.RateLimit.RecommendPerHour), recommendationHandler.Generate)
	recs.Post("/jobs", rateLimiter.RecommendLimit(cfg.RateLimit.RecommendPerHour), recommendationHandler.StartJob)
	recs.Get("/status/:jobId", recommendationHandler.Status)
	recs.Get("/result/:jobId", recommendationHandler.Result)

	api.Post("/analysis", rateLimiter.AnalyzeLimit(cfg.RateLimit.AnalyzePerHour), analysisHandler.Analyze)
	api.Post("/inference", rateLimiter.AnalyzeLimit(cfg.RateLimit.AnalyzePerHour), analysisHandler.Infer)
	api.Post("/snapshots/import", rateLimiter.ImportLimit(cfg.RateLimit.ImportPerHour), snapshotHandler.Import)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/jobs/:jobId", websocket.New(func(c *websocket.Conn) {
		hub.HandleConnection(c, c.Params("jobId"))
	}))

	srv := newWorkerServer(cfg, redisOpt, log)
	mux := asynq.NewServeMux()
	mux.HandleFunc(service.TaskTypeRecommend, worker.NewRecommendWorker(recommendations, hub, log).ProcessTask)
	go func() {
		if err := srv.Run(mux); err != nil {
			log.Error("asynq worker stopped", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		log.Info("shutting down server")
		srv.Shutdown()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("server shutdown error", zap.Error(err))
		}
	}()

	addr := ":" + cfg.Server.Port
	log.Info("server starting", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Error("server error", zap.Error(err))
		os.Exit(1)
	}
}

func newWorkerServer(cfg *config.Config, redisOpt asynq.RedisClientOpt, log *zap.Logger) *asynq.Server {
	asynqLogLevel := asynq.InfoLevel
	switch strings.ToLower(cfg.Server.LogLevel) {
	case "debug":
		asynqLogLevel = asynq.DebugLevel
	case "warn":
		asynqLogLevel = asynq.WarnLevel
	case "error":
		asynqLogLevel = asynq.ErrorLevel
	}

	return asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: cfg.Worker.Concurrency,
		Queues: map[string]int{
			service.QueueRecommend: 1,
		},
		Logger:   log.Named("asynq").Sugar(),
		LogLevel: asynqLogLevel,
	})
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return response.Error(c, code, response.CodeServiceError, message, nil)
}
