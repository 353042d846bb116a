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

	"go-ats-backend/config"
	_ "go-ats-backend/docs" // Important for Swagger
	v1 "go-ats-backend/internal/delivery/http/v1"
	"go-ats-backend/internal/domain"
	"go-ats-backend/internal/repository/postgres"
	"go-ats-backend/internal/scoring"
	"go-ats-backend/internal/taxonomy"
	"go-ats-backend/internal/usage"
	"go-ats-backend/internal/usecase"
	"go-ats-backend/pkg/database"
	"go-ats-backend/pkg/logger"
	"go-ats-backend/pkg/redis"
	"go-ats-backend/pkg/security"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
)

// @title           ATS Check API
// @version         1.0
// @description     Scores structured resumes for ATS compatibility.
// @host            localhost:8080
// @BasePath        /v1
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Loggers
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting ATS check backend", "port", cfg.Port, "usage_store", cfg.UsageStore)

	env := "development"
	if cfg.Production {
		env = "production"
	}
	secLogger := security.InitSecurityLogger("ats-check-api", env)
	defer func() { _ = secLogger.Sync() }()

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Optional Database
	var dbPool *pgxpool.Pool
	var historyRepo domain.ScoreHistoryRepository
	if cfg.DBUrl != "" {
		dbPool, err = database.NewPostgresConnection(rootCtx, cfg.DBUrl, database.DefaultPoolConfig)
		if err != nil {
			logger.Log.Error("Failed to connect to database, history disabled", "error", err)
		} else {
			defer dbPool.Close()
			historyRepo = postgres.NewScoreHistoryRepository(dbPool)
			if cfg.SecurityLogToDB {
				secLogger.SetPersistFunc(security.NewSecurityEventRepository(dbPool).PersistEvent)
			}
		}
	}

	// 4. Usage stores
	memStore := usage.NewMemoryStore()
	memStore.StartJanitor(rootCtx, 10*time.Minute, domain.UsageWindow, nil)

	var redisClient *goredis.Client
	var usageStore domain.UsageStore = memStore
	var rateStore domain.UsageStore
	if cfg.UsageStore == config.UsageStoreRedis {
		redisClient, err = redis.Connect(rootCtx, redis.Config{
			URL:      cfg.UpstashRedisURL,
			Password: cfg.UpstashRedisPassword,
		})
		if err != nil {
			logger.Log.Warn("Redis unavailable, using in-memory usage store", "error", err)
		} else {
			defer redisClient.Close()
			usageStore = usage.NewRedisStore(redisClient)
			rateStore = usageStore
		}
	}

	limiter := usage.NewLimiter(usageStore, cfg.ATSFreeTierLimit, domain.UsageWindow,
		usage.WithKeyPrefix("ats:usage:"),
		usage.WithFallback(memStore),
		usage.WithLogger(logger.Log),
	)

	// 5. Role taxonomy
	roles, err := taxonomy.Load(cfg.RoleTaxonomyPath)
	if err != nil {
		logger.Log.Error("Failed to load role taxonomy", "path", cfg.RoleTaxonomyPath, "error", err)
		os.Exit(1)
	}

	// 6. Setup UseCases
	atsUC := usecase.NewATSCheckUsecase(scoring.NewEngine(), limiter, roles, historyRepo)

	probes := map[string]usecase.HealthProbe{"redis": nil, "database": nil}
	if redisClient != nil {
		probes["redis"] = func(ctx context.Context) error { return redis.HealthCheck(ctx, redisClient) }
	}
	if dbPool != nil {
		probes["database"] = dbPool.Ping
	}
	healthUC := usecase.NewHealthUsecase(probes)

	// 7. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		ATSUC:          atsUC,
		HealthUC:       healthUC,
		SecurityLogger: secLogger,
		RateLimitStore: rateStore,
		Config:         cfg,
		Context:        rootCtx,
	})

	// 8. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
			stop()
		}
	}()

	// Graceful Shutdown
	<-rootCtx.Done()
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
