package configs

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/nimeshabuddhika/fraud-prediction-api/pkg"
	"github.com/nimeshabuddhika/fraud-prediction-api/pkg/classifier"
	"github.com/nimeshabuddhika/fraud-prediction-api/pkg/utils"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	Port string `mapstructure:"PORT" validate:"required"`

	// Storage
	DbDriver      string `mapstructure:"DB_DRIVER" validate:"oneof=sqlite postgres"`
	SqlitePath    string `mapstructure:"SQLITE_PATH" validate:"required_if=DbDriver sqlite"`
	PrimaryDbAddr string `mapstructure:"PRIMARY_DB_ADDR" validate:"required_if=DbDriver postgres"`
	ReplicaDbAddr string `mapstructure:"REPLICA_DB_ADDR"`
	MaxDbCons     int32  `mapstructure:"MAX_DB_CONNECTIONS" validate:"min=1"`
	MinDbCons     int32  `mapstructure:"MIN_DB_CONNECTIONS" validate:"min=1,ltefield=MaxDbCons"`

	// Model
	ModelSource              string        `mapstructure:"MODEL_SOURCE" validate:"oneof=file remote"`
	ModelPath                string        `mapstructure:"MODEL_PATH" validate:"required_if=ModelSource file"`
	ModelColumns             string        `mapstructure:"MODEL_COLUMNS" validate:"required"`
	MlServiceAddr            string        `mapstructure:"FRAUD_ML_SERVICE_ADDR" validate:"required_if=ModelSource remote"`
	MlRateLimitPerSec        int           `mapstructure:"ML_RATE_LIMIT_PER_SEC" validate:"min=0"`
	MlRequestBurst           int           `mapstructure:"ML_REQUEST_BURST" validate:"min=1"`
	MlRequestMaxThrottleWait time.Duration `mapstructure:"ML_REQUEST_MAX_THROTTLE_WAIT"`
	MlRequestTimeout         time.Duration `mapstructure:"ML_REQUEST_TIMEOUT" validate:"gt=0"`

	// Rate limiting of /predict, disabled when PREDICT_RATE_LIMIT is 0
	RedisAddr        string `mapstructure:"REDIS_ADDR"`
	PredictRateLimit int    `mapstructure:"PREDICT_RATE_LIMIT" validate:"min=0"`
	PredictRateBurst int    `mapstructure:"PREDICT_RATE_BURST" validate:"min=1"`

	// Flagged events, disabled when KAFKA_BROKERS is empty
	KafkaBrokers        string        `mapstructure:"KAFKA_BROKERS"`
	KafkaFraudTopic     string        `mapstructure:"KAFKA_FRAUD_TOPIC" validate:"required_with=KafkaBrokers"`
	KafkaPartition      uint32        `mapstructure:"KAFKA_PARTITION" validate:"min=1"`
	KafkaFraudRetention time.Duration `mapstructure:"KAFKA_FRAUD_RETENTION"`

	// Pagination
	DefaultPerPage int64 `mapstructure:"DEFAULT_PER_PAGE" validate:"min=1,ltefield=MaxPerPage"`
	MaxPerPage     int64 `mapstructure:"MAX_PER_PAGE" validate:"min=1"`
}

// Columns returns MODEL_COLUMNS split on commas.
func (c *Config) Columns() []string {
	parts := strings.Split(c.ModelColumns, ",")
	cols := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); !utils.IsEmpty(p) {
			cols = append(cols, p)
		}
	}
	return cols
}

// IsPostgres reports whether flagged records live in postgres.
func (c *Config) IsPostgres() bool {
	return c.DbDriver == pkg.DriverPostgres
}

func Load(logger *zap.Logger) (*Config, error) {
	viper.SetEnvPrefix("app")
	viper.AutomaticEnv()

	viper.SetDefault("PORT", "5000")
	viper.SetDefault("DB_DRIVER", pkg.DriverSQLite)
	viper.SetDefault("SQLITE_PATH", "fraud_predictions.db")
	viper.SetDefault("MAX_DB_CONNECTIONS", "10")
	viper.SetDefault("MIN_DB_CONNECTIONS", "2")
	viper.SetDefault("MODEL_SOURCE", pkg.ModelSourceFile)
	viper.SetDefault("MODEL_PATH", "model/fraud_model.json")
	viper.SetDefault("MODEL_COLUMNS", strings.Join(classifier.DefaultColumns, ","))
	viper.SetDefault("ML_RATE_LIMIT_PER_SEC", "50")
	viper.SetDefault("ML_REQUEST_BURST", "10")
	viper.SetDefault("ML_REQUEST_MAX_THROTTLE_WAIT", "200ms")
	viper.SetDefault("ML_REQUEST_TIMEOUT", "2s")
	viper.SetDefault("PREDICT_RATE_LIMIT", "0")
	viper.SetDefault("PREDICT_RATE_BURST", "20")
	viper.SetDefault("KAFKA_FRAUD_TOPIC", "fraud.flagged")
	viper.SetDefault("KAFKA_PARTITION", "3")
	viper.SetDefault("KAFKA_FRAUD_RETENTION", "168h")
	viper.SetDefault("DEFAULT_PER_PAGE", "20")
	viper.SetDefault("MAX_PER_PAGE", "100")

	if gin.ReleaseMode == gin.Mode() {
		viper.SetConfigName("config.prod")
	} else if gin.TestMode == gin.Mode() {
		viper.SetConfigName("config.test")
	} else {
		logger.Warn("running in development mode")
		viper.SetConfigName("config.dev")
	}
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./services/fraud-api/configs")
	viper.AddConfigPath("./configs")
	_ = viper.ReadInConfig() // optional

	var cfg Config
	if err := utils.ParseStructEnv(&cfg); err != nil {
		return nil, err
	}
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, utils.FormatConfigErrors(logger, err, cfg)
	}
	if err := classifier.ValidateColumns(cfg.Columns()); err != nil {
		return nil, err
	}
	return &cfg, nil
}
