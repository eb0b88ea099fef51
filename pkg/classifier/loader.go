package classifier

import (
	"context"
	"fmt"
	"time"

	"github.com/nimeshabuddhika/fraud-prediction-api/pkg"
	"github.com/nimeshabuddhika/fraud-prediction-api/pkg/utils"
	"go.uber.org/zap"
)

// LoadConfig selects and configures the model source.
type LoadConfig struct {
	Source          string
	Path            string
	Columns         []string
	RemoteAddr      string
	RateLimitPerSec int
	Burst           int
	MaxThrottleWait time.Duration
	RequestTimeout  time.Duration
}

// Load loads the model once at startup. It never fails: on any error the returned
// Predictor is degraded and the cause is logged and kept in LoadError.
func Load(ctx context.Context, logger *zap.Logger, cfg LoadConfig) *Predictor {
	model, err := loadModel(ctx, cfg)
	if err != nil {
		logger.Error("model_load_failed", zap.String("source", cfg.Source), zap.Error(err))
		return Unavailable(logger, err)
	}
	predictor, err := NewPredictor(logger, model, cfg.Columns)
	if err != nil {
		logger.Error("model_schema_mismatch", zap.Strings("columns", cfg.Columns), zap.Strings("model_features", model.Info().Features), zap.Error(err))
		return Unavailable(logger, err)
	}
	info := model.Info()
	logger.Info("model_loaded",
		zap.String("source", info.Source),
		zap.String("name", info.Name),
		zap.String("version", info.Version),
		zap.Strings("columns", predictor.Columns()))
	return predictor
}

func loadModel(ctx context.Context, cfg LoadConfig) (Classifier, error) {
	switch cfg.Source {
	case pkg.ModelSourceFile, "":
		return LoadArtifact(cfg.Path)
	case pkg.ModelSourceRemote:
		client := utils.NewHTTPClient(utils.WithClientTimeout(cfg.RequestTimeout))
		return LoadRemote(ctx, RemoteConfig{
			Addr:            cfg.RemoteAddr,
			Client:          client,
			RateLimitPerSec: cfg.RateLimitPerSec,
			Burst:           cfg.Burst,
			MaxThrottleWait: cfg.MaxThrottleWait,
		})
	default:
		return nil, fmt.Errorf("unsupported model source %q", cfg.Source)
	}
}
