package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nimeshabuddhika/fraud-prediction-api/pkg"
	"github.com/nimeshabuddhika/fraud-prediction-api/pkg/cache"
	"github.com/nimeshabuddhika/fraud-prediction-api/pkg/classifier"
	"github.com/nimeshabuddhika/fraud-prediction-api/pkg/database"
	middleware "github.com/nimeshabuddhika/fraud-prediction-api/pkg/middlewares"
	"github.com/nimeshabuddhika/fraud-prediction-api/pkg/repositories"
	"github.com/nimeshabuddhika/fraud-prediction-api/pkg/utils"
	"github.com/nimeshabuddhika/fraud-prediction-api/services/fraud-api/configs"
	_ "github.com/nimeshabuddhika/fraud-prediction-api/services/fraud-api/docs"
	"github.com/nimeshabuddhika/fraud-prediction-api/services/fraud-api/internal/handlers"
	"github.com/nimeshabuddhika/fraud-prediction-api/services/fraud-api/internal/observability"
	"github.com/nimeshabuddhika/fraud-prediction-api/services/fraud-api/internal/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// NewApp loads configuration from the environment and builds the server.
func NewApp(ctx context.Context, logger *zap.Logger) (*http.Server, func(), error) {
	cfg, err := configs.Load(logger)
	if err != nil {
		return nil, nil, err
	}
	router, cleanup, err := Build(ctx, logger, cfg)
	if err != nil {
		return nil, nil, err
	}
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv, cleanup, nil
}

// Build wires storage, the classifier, services and handlers into a gin engine.
// The returned cleanup releases everything Build opened.
func Build(ctx context.Context, logger *zap.Logger, cfg *configs.Config) (*gin.Engine, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	repo, closeStore, err := newRepository(ctx, logger, cfg)
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, closeStore)

	predictor := classifier.Load(ctx, logger, classifier.LoadConfig{
		Source:          cfg.ModelSource,
		Path:            cfg.ModelPath,
		Columns:         cfg.Columns(),
		RemoteAddr:      cfg.MlServiceAddr,
		RateLimitPerSec: cfg.MlRateLimitPerSec,
		Burst:           cfg.MlRequestBurst,
		MaxThrottleWait: cfg.MlRequestMaxThrottleWait,
		RequestTimeout:  cfg.MlRequestTimeout,
	})
	if predictor.Loaded() {
		observability.ModelLoaded.Set(1)
	} else {
		observability.ModelLoaded.Set(0)
	}

	publisher, err := services.NewFraudEventPublisher(ctx, logger, cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	closers = append(closers, publisher.Close)

	var predictMiddlewares []gin.HandlerFunc
	if cfg.PredictRateLimit > 0 {
		limiter, closeRedis, err := newPredictLimiter(ctx, logger, cfg)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		if closeRedis != nil {
			closers = append(closers, closeRedis)
		}
		predictMiddlewares = append(predictMiddlewares, middleware.RateLimit(logger, limiter))
	}

	predictionService := services.NewPredictionService(logger, predictor, repo, publisher)
	queryService := services.NewQueryService(logger, repo, cfg.MaxPerPage)

	baseHandler := handlers.NewBaseHandler(logger, predictionService)
	predictionHandler := handlers.NewPredictionHandler(logger, predictionService)
	fraudHandler := handlers.NewFraudHandler(logger, queryService, cfg.DefaultPerPage)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceID())

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/")
	api.Use(middleware.Metrics())
	baseHandler.RegisterRoutes(api)
	predictionHandler.RegisterRoutes(api, predictMiddlewares...)
	fraudHandler.RegisterRoutes(api)

	return r, cleanup, nil
}

func newRepository(ctx context.Context, logger *zap.Logger, cfg *configs.Config) (repositories.FlaggedTransactionRepository, func(), error) {
	if cfg.IsPostgres() {
		if err := database.RunMigrations(logger, pkg.DriverPostgres, cfg.PrimaryDbAddr); err != nil {
			return nil, nil, err
		}
		db, disconnect, err := database.New(ctx, logger, database.Config{
			PrimaryDSN:  cfg.PrimaryDbAddr,
			ReplicaDSNs: []string{cfg.ReplicaDbAddr},
			MaxConns:    cfg.MaxDbCons,
			MinConns:    cfg.MinDbCons,
		})
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewPostgresFlaggedRepository(logger, db), disconnect, nil
	}

	db, closeDB, err := database.NewSQLite(ctx, logger, database.SQLiteConfig{Path: cfg.SqlitePath})
	if err != nil {
		return nil, nil, err
	}
	if err := database.RunMigrations(logger, pkg.DriverSQLite, cfg.SqlitePath); err != nil {
		closeDB()
		return nil, nil, err
	}
	return repositories.NewSQLiteFlaggedRepository(logger, db), closeDB, nil
}

// newPredictLimiter shares the budget through Redis when REDIS_ADDR is set, else limits per process.
func newPredictLimiter(ctx context.Context, logger *zap.Logger, cfg *configs.Config) (*pkg.DistributedLimiter, func(), error) {
	if utils.IsEmpty(cfg.RedisAddr) {
		logger.Warn("predict_rate_limit_local_only")
		return pkg.NewDistributedLimiter(nil, "fraud_api:predict", cfg.PredictRateLimit, cfg.PredictRateBurst, 2*time.Second, logger), nil, nil
	}
	client, closeRedis, err := cache.New(ctx, logger, cache.Config{Addr: cfg.RedisAddr})
	if err != nil {
		return nil, nil, err
	}
	return pkg.NewDistributedLimiter(client, "fraud_api:predict", cfg.PredictRateLimit, cfg.PredictRateBurst, 2*time.Second, logger), closeRedis, nil
}
