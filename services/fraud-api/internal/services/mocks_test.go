package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/nimeshabuddhika/fraud-prediction-api/pkg"
	"github.com/nimeshabuddhika/fraud-prediction-api/pkg/classifier"
	"github.com/nimeshabuddhika/fraud-prediction-api/pkg/database"
	"github.com/nimeshabuddhika/fraud-prediction-api/pkg/models"
	"github.com/nimeshabuddhika/fraud-prediction-api/pkg/repositories"
	"github.com/nimeshabuddhika/fraud-prediction-api/services/fraud-api/internal/views"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockPredictor struct {
	loaded    bool
	info      classifier.ModelInfo
	PredictFn func(ctx context.Context, tx models.AugmentedTransaction) (classifier.Prediction, error)
}

func (m *mockPredictor) Loaded() bool               { return m.loaded }
func (m *mockPredictor) Info() classifier.ModelInfo { return m.info }
func (m *mockPredictor) Predict(ctx context.Context, tx models.AugmentedTransaction) (classifier.Prediction, error) {
	return m.PredictFn(ctx, tx)
}

func verdictPredictor(v pkg.Verdict) *mockPredictor {
	return &mockPredictor{
		loaded: true,
		info:   classifier.ModelInfo{Name: "mock", Version: "1"},
		PredictFn: func(context.Context, models.AugmentedTransaction) (classifier.Prediction, error) {
			return classifier.Prediction{Verdict: v, Score: float64(v)}, nil
		},
	}
}

type mockRepo struct {
	CreateFn   func(ctx context.Context, rec models.FlaggedTransaction) (int64, error)
	CountFn    func(ctx context.Context) (int64, error)
	FindPageFn func(ctx context.Context, limit, offset int64) ([]models.FlaggedTransaction, error)
}

func (m *mockRepo) Create(ctx context.Context, rec models.FlaggedTransaction) (int64, error) {
	return m.CreateFn(ctx, rec)
}
func (m *mockRepo) Count(ctx context.Context) (int64, error) { return m.CountFn(ctx) }
func (m *mockRepo) FindPage(ctx context.Context, limit, offset int64) ([]models.FlaggedTransaction, error) {
	return m.FindPageFn(ctx, limit, offset)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []views.FraudFlaggedEvent
	err    error
}

func (p *recordingPublisher) PublishFlagged(_ context.Context, e views.FraudFlaggedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() {}

func (p *recordingPublisher) Events() []views.FraudFlaggedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]views.FraudFlaggedEvent(nil), p.events...)
}

func newSQLiteRepo(t *testing.T) repositories.FlaggedTransactionRepository {
	t.Helper()
	logger := zap.NewNop()
	path := filepath.Join(t.TempDir(), "flagged.db")
	require.NoError(t, database.RunMigrations(logger, pkg.DriverSQLite, path))
	db, closer, err := database.NewSQLite(context.Background(), logger, database.SQLiteConfig{Path: path})
	require.NoError(t, err)
	t.Cleanup(closer)
	return repositories.NewSQLiteFlaggedRepository(logger, db)
}
