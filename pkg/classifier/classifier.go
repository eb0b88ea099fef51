// Package classifier wraps the pre-trained fraud model behind a typed, panic-safe adapter.
package classifier

import (
	"context"
	"fmt"

	"github.com/nimeshabuddhika/fraud-prediction-api/pkg"
	"github.com/nimeshabuddhika/fraud-prediction-api/pkg/models"
	"go.uber.org/zap"
)

// ModelInfo describes a loaded model.
type ModelInfo struct {
	Name     string   `json:"name"`
	Version  string   `json:"version"`
	Source   string   `json:"source"`
	Features []string `json:"features"`
}

// Prediction is the classifier output for one row.
type Prediction struct {
	Verdict pkg.Verdict
	Score   float64
}

// Classifier is the opaque trained model. Implementations must be safe for concurrent use.
type Classifier interface {
	Predict(ctx context.Context, row Row) (Prediction, error)
	Info() ModelInfo
}

// Predictor adapts augmented transactions to the classifier's tabular input.
// A Predictor without a model is in degraded mode: it reports not loaded and rejects every prediction.
type Predictor struct {
	model   Classifier
	columns []string
	logger  *zap.Logger
	loadErr error
}

// NewPredictor validates the serving column order against the model schema.
func NewPredictor(logger *zap.Logger, model Classifier, columns []string) (*Predictor, error) {
	if model == nil {
		return nil, pkg.ErrModelNotLoaded
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := ValidateColumns(columns); err != nil {
		return nil, err
	}
	if err := MatchColumns(columns, model.Info().Features); err != nil {
		return nil, err
	}
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Predictor{model: model, columns: cols, logger: logger}, nil
}

// Unavailable returns a degraded Predictor remembering why loading failed.
func Unavailable(logger *zap.Logger, loadErr error) *Predictor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Predictor{logger: logger, loadErr: loadErr}
}

// Loaded reports whether a model is available for inference.
func (p *Predictor) Loaded() bool {
	return p != nil && p.model != nil
}

// LoadError returns the startup failure of a degraded Predictor.
func (p *Predictor) LoadError() error {
	if p == nil {
		return pkg.ErrModelNotLoaded
	}
	return p.loadErr
}

// Info returns the loaded model metadata, zero value when degraded.
func (p *Predictor) Info() ModelInfo {
	if !p.Loaded() {
		return ModelInfo{}
	}
	return p.model.Info()
}

// Columns returns the serving column order.
func (p *Predictor) Columns() []string {
	if p == nil {
		return nil
	}
	return p.columns
}

// Predict scores tx. Any classifier failure, including a panic, surfaces as a PREDICTION_ERROR AppError.
func (p *Predictor) Predict(ctx context.Context, tx models.AugmentedTransaction) (res Prediction, err error) {
	if !p.Loaded() {
		return Prediction{}, pkg.NewAppError(pkg.ErrModelUnavailableCode, "Model not loaded", pkg.ErrModelNotLoaded)
	}
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("classifier_panic", zap.Any("panic", r))
			res = Prediction{}
			err = pkg.NewAppError(pkg.ErrPredictionCode, fmt.Sprintf("Prediction error: %v", r), fmt.Errorf("classifier panic: %v", r))
		}
	}()

	row := BuildRow(p.columns, tx)
	res, err = p.model.Predict(ctx, row)
	if err != nil {
		return Prediction{}, pkg.NewAppError(pkg.ErrPredictionCode, "Prediction error: "+err.Error(), err)
	}
	if res.Verdict != pkg.VerdictLegitimate && res.Verdict != pkg.VerdictFraud {
		return Prediction{}, pkg.NewAppError(pkg.ErrPredictionCode, fmt.Sprintf("Prediction error: verdict %d is not binary", res.Verdict), nil)
	}
	return res, nil
}
