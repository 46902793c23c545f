package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sony/gobreaker"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"github.com/seu-repo/voice-concierge/internal/adapter/cache"
	"github.com/seu-repo/voice-concierge/internal/adapter/etheos"
	"github.com/seu-repo/voice-concierge/internal/adapter/google"
	"github.com/seu-repo/voice-concierge/internal/adapter/http/fiber/handlers"
	"github.com/seu-repo/voice-concierge/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/voice-concierge/internal/adapter/polly"
	"github.com/seu-repo/voice-concierge/internal/adapter/queue"
	"github.com/seu-repo/voice-concierge/internal/adapter/storage/postgres"
	"github.com/seu-repo/voice-concierge/internal/adapter/vault"
	wsAdapter "github.com/seu-repo/voice-concierge/internal/adapter/websocket"
	"github.com/seu-repo/voice-concierge/internal/domain"
	"github.com/seu-repo/voice-concierge/internal/observability/telemetry"
	"github.com/seu-repo/voice-concierge/internal/ports"
	"github.com/seu-repo/voice-concierge/internal/service/auth"
	"github.com/seu-repo/voice-concierge/internal/service/device"
	"github.com/seu-repo/voice-concierge/internal/service/health"
	"github.com/seu-repo/voice-concierge/internal/service/language"
	"github.com/seu-repo/voice-concierge/internal/service/scene"
	"github.com/seu-repo/voice-concierge/internal/service/translation"
	"github.com/seu-repo/voice-concierge/internal/service/voice"
	"github.com/seu-repo/voice-concierge/pkg/config"
)

var issueToken = flag.String("issue-room-token", "", "Print a room token for the given room and exit")

func main() {
	flag.Parse()

	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	// 2. Initialize Logger
	logger, err := newLogger(cfg.Logging)
	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}
	defer logger.Sync()

	if *issueToken != "" {
		if cfg.JWT.Secret == "" {
			logger.Fatal("jwt.secret is required to issue room tokens")
		}
		token, err := auth.NewRoomTokenService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL, nil, logger).Issue(*issueToken)
		if err != nil {
			logger.Fatal("Failed to issue room token", zap.Error(err))
		}
		fmt.Println(token)
		return
	}

	logger.Info("Starting voice concierge",
		zap.String("service", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	// 3. Initialize OpenTelemetry (Distributed Tracing)
	if cfg.OpenTelemetry.Enabled {
		tracerProvider, err := telemetry.InitTracer(cfg.OpenTelemetry.ServiceName, cfg.App.Version, cfg.OpenTelemetry.Endpoint, cfg.OpenTelemetry.SampleRatio)
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := tracerProvider.Shutdown(context.Background()); err != nil {
				logger.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()
	}

	healthService := health.NewService(cfg.App.Version, logger)

	// 4. Gateway credentials from Vault, when configured
	if cfg.Vault.Address != "" {
		secrets, err := vault.NewSecretManager(cfg.Vault.Address, cfg.Vault.Token)
		if err != nil {
			logger.Fatal("Failed to create Vault client", zap.Error(err))
		}
		user, pass, err := secrets.GatewayCredentials(cfg.Vault.GatewayPath)
		if err != nil {
			logger.Fatal("Failed to read gateway credentials from Vault", zap.Error(err))
		}
		cfg.Etheos.Username, cfg.Etheos.Password = user, pass
		logger.Info("Gateway credentials loaded from Vault", zap.String("path", cfg.Vault.GatewayPath))
	}

	// 5. Initialize Cache (Redis, in-memory fallback)
	var appCache ports.Cache
	if cfg.Redis.URL != "" {
		redisCache, err := cache.NewRedisCache(cfg.Redis.URL, logger)
		if err != nil {
			logger.Warn("Redis unavailable, using in-memory cache", zap.Error(err))
		} else {
			appCache = redisCache
		}
	}
	if appCache == nil {
		appCache = cache.NewLocalCache(cfg.Cache.CleanupInterval, logger)
	}
	defer appCache.Close()
	healthService.RegisterPing("cache", false, func(ctx context.Context) error { return appCache.Ping() })

	// 6. Initialize Message Queue (NATS, optional)
	var messageQueue queue.MessageQueue
	if cfg.NATS.URL != "" {
		natsQueue, err := queue.NewNATSQueue(cfg.NATS.URL, queue.NATSOptions{
			MaxReconnects: cfg.NATS.MaxReconnects,
			ReconnectWait: cfg.NATS.ReconnectWait,
		}, logger)
		if err != nil {
			logger.Warn("NATS unavailable, status channel and scene events disabled", zap.Error(err))
		} else {
			messageQueue = natsQueue
			defer natsQueue.Close()
			healthService.RegisterPing("nats", true, func(ctx context.Context) error { return natsQueue.Ping() })
		}
	}

	// 7. Initialize History Database
	var history ports.CommandRepository
	if cfg.Pipeline.RecordHistory {
		db, err := postgres.NewConnection(postgres.ConnectionConfig{
			Driver:       cfg.Database.Driver,
			URL:          cfg.Database.URL,
			MaxOpenConns: cfg.Database.MaxOpenConns,
			MaxIdleConns: cfg.Database.MaxIdleConns,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer postgres.Close(db)

		if cfg.Database.AutoMigrate {
			if err := postgres.RunMigrations(db); err != nil {
				logger.Fatal("Failed to run migrations", zap.Error(err))
			}
		}
		history = postgres.NewCommandRepository(db, logger)
		healthService.RegisterPing("database", false, pingDB(db))
	}

	// 8. Device Gateway
	breaker := breakerSettings(cfg.CircuitBreaker)
	tokens := etheos.NewTokenManager(etheos.TokenManagerConfig{
		AuthURL:  cfg.Etheos.AuthURL,
		Username: cfg.Etheos.Username,
		Password: cfg.Etheos.Password,
		Timeout:  cfg.Etheos.Timeout,
	}, nil, logger)
	gateway := etheos.NewClient(etheos.ClientConfig{
		APIURL:    cfg.Etheos.APIURL,
		HotelCode: cfg.Etheos.HotelCode,
		Timeout:   cfg.Etheos.Timeout,
		Breaker:   breaker,
	}, tokens, nil, logger)

	deviceService := device.NewService(gateway, device.NewSimulator(cfg.Etheos.SimulatorLatency, logger), logger)

	var statusRelay *device.StatusRelay
	statusHub := wsAdapter.NewHub(logger)
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go statusHub.Run(hubCtx)

	if messageQueue != nil {
		statusRelay = device.NewStatusRelay(messageQueue, appCache, cfg.NATS.StatusSubject, cfg.Cache.DeviceStatusTTL, logger)
		statusRelay.OnStatus(func(status domain.DeviceStatus, payload []byte) {
			statusHub.Publish(status.RoomID, payload)
		})
		if err := statusRelay.Start(); err != nil {
			logger.Fatal("Failed to start device status relay", zap.Error(err))
		}
	}

	// 9. Scenes
	scenes := scene.PredefinedScenes()
	if cfg.Scenes.CatalogPath != "" {
		scenes, err = scene.LoadCatalog(cfg.Scenes.CatalogPath)
		if err != nil {
			logger.Fatal("Failed to load scene catalog", zap.String("path", cfg.Scenes.CatalogPath), zap.Error(err))
		}
		logger.Info("Scene catalog loaded", zap.String("path", cfg.Scenes.CatalogPath), zap.Int("scenes", len(scenes)))
	}
	sceneService := scene.NewService(scenes, deviceService, messageQueue, scene.Options{
		DefaultRoom:  cfg.Etheos.DefaultRoom,
		EventSubject: cfg.NATS.SceneSubject,
	}, logger)

	// 10. Speech, Translation and Intent Providers
	googleCfg := google.Config{
		APIKey:          cfg.Google.APIKey,
		ProjectID:       cfg.Google.ProjectID,
		DialogflowToken: cfg.Google.DialogflowToken,
		SpeechURL:       cfg.Google.SpeechURL,
		TranslateURL:    cfg.Google.TranslateURL,
		TTSURL:          cfg.Google.TTSURL,
		DialogflowURL:   cfg.Google.DialogflowURL,
		SampleRate:      cfg.Google.SampleRate,
		Timeout:         cfg.Google.Timeout,
		Breaker:         breaker,
	}

	var synthesizer ports.SynthesisProvider
	switch cfg.Synthesis.Provider {
	case "polly":
		synthesizer = polly.NewSynthesizer(polly.Config{
			Region:  cfg.Polly.Region,
			Engine:  cfg.Polly.Engine,
			Timeout: cfg.Polly.Timeout,
		}, logger)
	case "google", "":
		synthesizer = google.NewSynthesizer(googleCfg, logger)
	default:
		logger.Fatal("Unknown synthesis provider", zap.String("provider", cfg.Synthesis.Provider))
	}

	// 11. Voice Pipeline
	assistant := voice.NewVoiceAssistant(voice.Dependencies{
		Recognizer:  google.NewRecognizer(googleCfg, logger),
		Languages:   language.NewResolver(logger),
		Translator:  translation.NewResolver(google.NewTranslator(googleCfg, logger), appCache, cfg.Cache.TranslationTTL, logger),
		Intents:     google.NewIntentDetector(googleCfg, logger),
		Devices:     deviceService,
		Scenes:      sceneService,
		Synthesizer: synthesizer,
		History:     history,
	}, voice.Options{
		AlternativeLanguages: cfg.Pipeline.AlternativeLanguages,
		StageTimeout:         cfg.Pipeline.StageTimeout,
		DefaultRoom:          cfg.Etheos.DefaultRoom,
	}, logger)

	// 12. Initialize Fiber HTTP Server
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		ServerHeader:          cfg.App.Name,
		DisableStartupMessage: true,
		ReadTimeout:           cfg.HTTP.ReadTimeout,
		WriteTimeout:          cfg.HTTP.WriteTimeout,
		IdleTimeout:           cfg.HTTP.IdleTimeout,
		BodyLimit:             cfg.HTTP.BodyLimit,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	// Global Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New())
	app.Use(middleware.NewCORS(cfg.HTTP.AllowedOrigins))

	// Health Check Endpoints
	health.NewFiberHandler(healthService).RegisterRoutes(app)

	// Metrics endpoint for Prometheus
	if cfg.Prometheus.Enabled {
		metricsHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
		app.Get(cfg.Prometheus.Path, func(c *fiber.Ctx) error {
			metricsHandler(c.Context())
			return nil
		})
	}

	// Room tokens guard the API when a secret is configured
	guard := func(c *fiber.Ctx) error { return c.Next() }
	if cfg.JWT.Secret != "" {
		guard = middleware.RoomAuthRequired(auth.NewRoomTokenService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL, appCache, logger))
	} else {
		logger.Warn("jwt.secret not set, API is open to any caller")
	}

	// API v1 Routes
	v1 := app.Group("/api/v1", limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
	}))

	voiceHandler := handlers.NewVoiceHandler(assistant, history, logger)
	v1.Post("/voice/command", guard, voiceHandler.ProcessCommand)
	v1.Post("/voice/text", guard, voiceHandler.ProcessText)
	v1.Get("/voice/history", guard, voiceHandler.GetHistory)

	sceneHandler := handlers.NewSceneHandler(sceneService, logger)
	v1.Get("/scenes", sceneHandler.List)
	v1.Post("/scenes/:id/execute", guard, sceneHandler.Execute)

	var statusReader handlers.StatusReader
	if statusRelay != nil {
		statusReader = statusRelay
	}
	deviceHandler := handlers.NewDeviceHandler(deviceService, statusReader, logger)
	v1.Get("/rooms/:room/devices", guard, deviceHandler.List)
	v1.Post("/rooms/:room/devices/control", guard, deviceHandler.Control)
	v1.Get("/rooms/:room/devices/:device/status", guard, deviceHandler.Status)

	v1.Post("/speak", guard, handlers.NewSpeakHandler(synthesizer, logger).Speak)

	// WebSocket routes
	voiceStream := wsAdapter.NewVoiceStreamHandler(assistant, logger)
	app.Use("/ws", wsAdapter.UpgradeOnly)
	app.Get("/ws/voice", guard, websocket.New(voiceStream.HandleVoiceStream))
	app.Get("/ws/rooms/:room/status", guard, websocket.New(func(c *websocket.Conn) {
		statusHub.Serve(c, c.Params("room"))
	}))

	// 13. Start HTTP Server
	go func() {
		logger.Info("Starting HTTP Server", zap.Int("port", cfg.HTTP.Port))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			logger.Fatal("HTTP Server failed", zap.Error(err))
		}
	}()

	// 14. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	}
	if cfg.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}
	return zapCfg.Build()
}

// breakerSettings trips after FailureThreshold consecutive failures.
func breakerSettings(cfg config.CircuitBreakerConfig) gobreaker.Settings {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	return gobreaker.Settings{
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
	}
}

func pingDB(db *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
