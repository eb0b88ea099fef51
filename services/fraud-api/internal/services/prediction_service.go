package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/nimeshabuddhika/fraud-prediction-api/pkg"
	"github.com/nimeshabuddhika/fraud-prediction-api/pkg/classifier"
	"github.com/nimeshabuddhika/fraud-prediction-api/pkg/features"
	"github.com/nimeshabuddhika/fraud-prediction-api/pkg/models"
	"github.com/nimeshabuddhika/fraud-prediction-api/pkg/repositories"
	"github.com/nimeshabuddhika/fraud-prediction-api/services/fraud-api/internal/observability"
	"github.com/nimeshabuddhika/fraud-prediction-api/services/fraud-api/internal/views"
	"go.uber.org/zap"
)

// Predictor is the part of classifier.Predictor the service depends on.
type Predictor interface {
	Loaded() bool
	Info() classifier.ModelInfo
	Predict(ctx context.Context, tx models.AugmentedTransaction) (classifier.Prediction, error)
}

// PredictionResult is the outcome of one scored transaction. RecordID is 0 unless the transaction was flagged.
type PredictionResult struct {
	Verdict  pkg.Verdict
	Score    float64
	RecordID int64
}

type PredictionService interface {
	Predict(ctx context.Context, body []byte) (PredictionResult, error)
	ModelLoaded() bool
	ModelInfo() classifier.ModelInfo
}

type PredictionServiceImpl struct {
	logger    *zap.Logger
	predictor Predictor
	repo      repositories.FlaggedTransactionRepository
	publisher FraudEventPublisher
	now       func() time.Time
}

func NewPredictionService(logger *zap.Logger, predictor Predictor, repo repositories.FlaggedTransactionRepository, publisher FraudEventPublisher) PredictionService {
	if publisher == nil {
		publisher = NoopFraudEventPublisher{}
	}
	return &PredictionServiceImpl{
		logger:    logger,
		predictor: predictor,
		repo:      repo,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *PredictionServiceImpl) ModelLoaded() bool {
	return s.predictor.Loaded()
}

func (s *PredictionServiceImpl) ModelInfo() classifier.ModelInfo {
	return s.predictor.Info()
}

// Predict validates the raw body, scores it and records positive verdicts.
// A flagged transaction that cannot be stored fails the request.
func (s *PredictionServiceImpl) Predict(ctx context.Context, body []byte) (PredictionResult, error) {
	traceID := pkg.TraceIDFromContext(ctx)
	if !s.predictor.Loaded() {
		observability.PredictionFailures.WithLabelValues(observability.ReasonModelUnavailable).Inc()
		return PredictionResult{}, pkg.NewAppError(pkg.ErrModelUnavailableCode, "Model not loaded", pkg.ErrModelNotLoaded)
	}

	tx, err := ParseTransaction(body)
	if err != nil {
		observability.PredictionFailures.WithLabelValues(observability.ReasonInvalidInput).Inc()
		return PredictionResult{}, err
	}
	augmented := features.Derive(tx)

	start := time.Now()
	prediction, err := s.predictor.Predict(ctx, augmented)
	observability.InferenceLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		reason := observability.ReasonPrediction
		if pkg.HasCode(err, pkg.ErrModelUnavailableCode) {
			reason = observability.ReasonModelUnavailable
		}
		observability.PredictionFailures.WithLabelValues(reason).Inc()
		return PredictionResult{}, err
	}

	result := PredictionResult{Verdict: prediction.Verdict, Score: prediction.Score}
	if prediction.Verdict.IsFraud() {
		record := tx.ToFlagged()
		record.FlaggedAt = s.now()
		id, err := s.repo.Create(ctx, record)
		if err != nil {
			observability.PredictionFailures.WithLabelValues(observability.ReasonStorage).Inc()
			return PredictionResult{}, err
		}
		result.RecordID = id
		observability.FlaggedPersisted.Inc()
		s.logger.Info("flagged_transaction_persisted", zap.String(pkg.TraceId, traceID), zap.Int64(pkg.RecordId, id))
		s.publish(ctx, traceID, id, record, prediction.Score)
	}

	observability.Predictions.WithLabelValues(prediction.Verdict.String()).Inc()
	s.logger.Info("prediction_completed",
		zap.String(pkg.TraceId, traceID),
		zap.String("verdict", prediction.Verdict.String()),
		zap.Float64("score", prediction.Score),
		zap.Float64("error_bal_src", augmented.ErrorBalSrc),
		zap.Float64("error_bal_dst", augmented.ErrorBalDst))
	return result, nil
}

func (s *PredictionServiceImpl) publish(ctx context.Context, traceID string, id int64, record models.FlaggedTransaction, score float64) {
	info := s.predictor.Info()
	event := views.FraudFlaggedEvent{
		RecordID:     id,
		TraceID:      traceID,
		Transaction:  record.Transaction(),
		Score:        score,
		ModelName:    info.Name,
		ModelVersion: info.Version,
		FlaggedAt:    record.FlaggedAt,
	}
	if err := s.publisher.PublishFlagged(ctx, event); err != nil {
		s.logger.Warn("fraud_event_publish_failed", zap.String(pkg.TraceId, traceID), zap.Int64(pkg.RecordId, id), zap.Error(err))
	}
}

// ParseTransaction decodes a /predict body. The body must hold exactly one JSON object;
// unknown fields are ignored and absent or null fields stay nil.
func ParseTransaction(body []byte) (models.Transaction, error) {
	var tx models.Transaction
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return tx, pkg.NewAppError(pkg.ErrInvalidInputCode, "Invalid input", pkg.ErrEmptyRequestBody)
	}
	if trimmed[0] != '{' {
		return tx, pkg.NewAppError(pkg.ErrInvalidInputCode, "Invalid input", pkg.ErrNotJSONObject)
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if err := dec.Decode(&tx); err != nil {
		return models.Transaction{}, pkg.NewAppError(pkg.ErrInvalidInputCode, "Invalid input", describeDecodeError(err))
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return models.Transaction{}, pkg.NewAppError(pkg.ErrInvalidInputCode, "Invalid input", errors.New("unexpected data after JSON object"))
	}
	return tx, nil
}

func describeDecodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Errorf("field %q must be %s, got %s", typeErr.Field, typeErr.Type, typeErr.Value)
	}
	return fmt.Errorf("malformed JSON: %w", err)
}
