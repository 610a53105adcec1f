package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/md-rashed-zaman/gymdesk/libs/config"
	"github.com/md-rashed-zaman/gymdesk/libs/db"
	"github.com/md-rashed-zaman/gymdesk/libs/httpx"
	"github.com/md-rashed-zaman/gymdesk/libs/kafkax"
	otelx "github.com/md-rashed-zaman/gymdesk/libs/otel"
	"github.com/md-rashed-zaman/gymdesk/libs/runtime"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/accounts"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/appointments"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/audit"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/catalog"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/handlers"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/outbox"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/plancache"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/session"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/storage"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/stripesync"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/trainers"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	if err := config.LoadDotenv(); err != nil {
		slog.Error("dotenv load failed", "err", err)
		os.Exit(1)
	}
	cfg, err := loadSettings()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	logger := runtime.NewLogger(cfg.Service)
	slog.SetDefault(logger)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(cfg.Service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	pool, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("db connection failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := storage.Migrate(ctx, pool); err != nil {
		logger.Error("db migration failed", "err", err)
		os.Exit(1)
	}

	readyChecks := []runtime.ReadyCheck{{Name: "db", Check: db.ReadyCheck(pool)}}

	var (
		rdb     *redis.Client
		limiter httpx.Limiter
	)
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer func() { _ = rdb.Close() }()
		readyChecks = append(readyChecks, runtime.ReadyCheck{Name: "redis", Check: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
		limiter = httpx.NewRedisLimiter(rdb, cfg.RateLimitPerMinute, time.Minute, "gym:rl")
		logger.Info("rate limiting enabled (redis)", "per_minute", cfg.RateLimitPerMinute, "redis_addr", cfg.RedisAddr)
	} else {
		limiter = httpx.NewMemoryLimiter(cfg.RateLimitPerMinute, time.Minute)
		logger.Info("rate limiting enabled (in-memory)", "per_minute", cfg.RateLimitPerMinute)
	}
	if cfg.KafkaBrokers != "" {
		readyChecks = append(readyChecks, runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(cfg.KafkaBrokers)})
	}

	planRepo := storage.NewPlanRepository(pool)
	adminRepo := storage.NewAdminRepository(pool)
	outboxRepo := outbox.NewRepository()

	outboxPublisher := outbox.NewPublisher(pool, outboxRepo, logger, outbox.PublisherConfig{
		Brokers:   cfg.KafkaBrokers,
		PollEvery: 2 * time.Second,
		BatchSize: 50,
	})
	go outboxPublisher.Run(ctx)

	syncer := stripesync.New(stripesync.Config{SecretKey: cfg.StripeSecretKey, Currency: cfg.StripeCurrency}, planRepo, logger)
	if syncer.Enabled() {
		logger.Info("stripe catalog sync enabled", "currency", cfg.StripeCurrency)
	}

	catalogDeps := catalog.Deps{
		Plans:      planRepo,
		Promotions: storage.NewPromotionRepository(pool),
		Events:     storage.NewEventRepository(pool),
		Syncer:     syncer,
		Recorder:   audit.NewRecorder(pool, outboxRepo),
		Logger:     logger,
	}
	if rdb != nil {
		catalogDeps.Cache = plancache.New(rdb, cfg.PlanCacheTTL, logger)
	}
	catalogSvc := catalog.NewService(catalogDeps)

	routes := handlers.Routes{
		Guard:        session.NewGuard(cfg.JWTSecret, adminRepo),
		Appointments: handlers.NewAppointmentHandler(appointments.NewService(planRepo, storage.NewAppointmentRepository(pool), logger), logger),
		Auth: handlers.NewAuthHandler(accounts.NewService(adminRepo, accounts.Config{
			JWTSecret:       cfg.JWTSecret,
			TokenTTL:        cfg.JWTTTL,
			RegistrationKey: cfg.RegistrationKey,
		}, logger), logger),
		Pricing:  handlers.NewPricingHandler(catalogSvc, logger),
		Trainers: handlers.NewTrainerHandler(trainers.NewService(storage.NewTrainerRepository(pool), logger), logger),
	}
	if cfg.RateLimitPerMinute > 0 {
		routes.PublicWriteLimit = httpx.RateLimit(limiter, logger, cfg.RateLimitFailOpen)
	}

	mux := runtime.NewBaseMux(readyChecks...)
	routes.Register(mux)

	handler := httpx.Chain(mux,
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowCredentials: cfg.CORSCredentials,
			MaxAge:           10 * time.Minute,
		}),
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithRecover(logger),
		httpx.WithBodyLimit(int64(cfg.BodyLimitBytes)),
		httpx.WithTimeout(cfg.RequestTimeout),
	)
	handler = otelhttp.NewHandler(handler, "gym")
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	if cfg.GRPCPort != "" {
		if err := startHealthServer(ctx, logger, cfg.GRPCPort, cfg.Service); err != nil {
			logger.Error("grpc server init failed", "err", err)
		}
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}
