package services

import (
	"context"
	"errors"
	"testing"

	"github.com/nimeshabuddhika/fraud-prediction-api/pkg"
	"github.com/nimeshabuddhika/fraud-prediction-api/pkg/classifier"
	"github.com/nimeshabuddhika/fraud-prediction-api/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const fraudulentTransferBody = `{"time_ind":1,"transac_type":"TRANSFER","amount":181.0,"src_bal":181.0,"src_new_bal":0.0,"dst_bal":0.0,"dst_new_bal":0.0}`

func TestParseTransaction(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "empty object", body: `{}`},
		{name: "full transaction", body: fraudulentTransferBody},
		{name: "unknown fields ignored", body: `{"amount": 10, "merchant": "x"}`},
		{name: "null field", body: `{"amount": null}`},
		{name: "surrounding whitespace", body: "  \n{}\n"},
		{name: "no body", body: ``, wantErr: true},
		{name: "whitespace only", body: "   ", wantErr: true},
		{name: "null", body: `null`, wantErr: true},
		{name: "array", body: `[{"amount": 1}]`, wantErr: true},
		{name: "scalar", body: `42`, wantErr: true},
		{name: "string", body: `"amount"`, wantErr: true},
		{name: "malformed", body: `{"amount": }`, wantErr: true},
		{name: "wrong type", body: `{"amount": "ten"}`, wantErr: true},
		{name: "fractional time_ind", body: `{"time_ind": 1.5}`, wantErr: true},
		{name: "trailing data", body: `{} {}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTransaction([]byte(tt.body))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, pkg.HasCode(err, pkg.ErrInvalidInputCode))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestParseTransaction_Fields(t *testing.T) {
	tx, err := ParseTransaction([]byte(fraudulentTransferBody))
	require.NoError(t, err)
	assert.Equal(t, int64(1), *tx.TimeInd)
	assert.Equal(t, "TRANSFER", *tx.TransacType)
	assert.Equal(t, 181.0, *tx.Amount)

	tx, err = ParseTransaction([]byte(`{"amount": null}`))
	require.NoError(t, err)
	assert.Nil(t, tx.Amount)
}

func TestPredict_ModelUnavailableBeforeValidation(t *testing.T) {
	svc := NewPredictionService(zap.NewNop(), &mockPredictor{}, &mockRepo{}, nil)

	_, err := svc.Predict(context.Background(), nil)
	assert.True(t, pkg.HasCode(err, pkg.ErrModelUnavailableCode))
	assert.False(t, svc.ModelLoaded())
}

func TestPredict_InvalidBody(t *testing.T) {
	svc := NewPredictionService(zap.NewNop(), verdictPredictor(pkg.VerdictFraud), &mockRepo{}, nil)

	_, err := svc.Predict(context.Background(), []byte(`[1,2]`))
	assert.True(t, pkg.HasCode(err, pkg.ErrInvalidInputCode))
}

func TestPredict_LegitimateNeverInserts(t *testing.T) {
	repo := &mockRepo{CreateFn: func(context.Context, models.FlaggedTransaction) (int64, error) {
		t.Fatal("legitimate transaction must not be stored")
		return 0, nil
	}}
	pub := &recordingPublisher{}
	svc := NewPredictionService(zap.NewNop(), verdictPredictor(pkg.VerdictLegitimate), repo, pub)

	res, err := svc.Predict(context.Background(), []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, pkg.VerdictLegitimate, res.Verdict)
	assert.Zero(t, res.RecordID)
	assert.Empty(t, pub.Events())
}

func TestPredict_FraudInsertsRawFieldsAndPublishes(t *testing.T) {
	var stored models.FlaggedTransaction
	repo := &mockRepo{CreateFn: func(_ context.Context, rec models.FlaggedTransaction) (int64, error) {
		stored = rec
		return 7, nil
	}}
	var derived models.AugmentedTransaction
	predictor := verdictPredictor(pkg.VerdictFraud)
	predictor.PredictFn = func(_ context.Context, tx models.AugmentedTransaction) (classifier.Prediction, error) {
		derived = tx
		return classifier.Prediction{Verdict: pkg.VerdictFraud, Score: 0.97}, nil
	}
	pub := &recordingPublisher{}
	svc := NewPredictionService(zap.NewNop(), predictor, repo, pub)

	ctx := pkg.WithTraceID(context.Background(), "trace-1")
	res, err := svc.Predict(ctx, []byte(fraudulentTransferBody))
	require.NoError(t, err)

	assert.Equal(t, pkg.VerdictFraud, res.Verdict)
	assert.Equal(t, int64(7), res.RecordID)
	assert.Equal(t, 0.0, derived.ErrorBalSrc)
	assert.Equal(t, 181.0, derived.ErrorBalDst)

	assert.Equal(t, "TRANSFER", *stored.TransacType)
	assert.Equal(t, 181.0, *stored.SrcBal)
	assert.False(t, stored.FlaggedAt.IsZero())

	events := pub.Events()
	require.Len(t, events, 1)
	assert.Equal(t, int64(7), events[0].RecordID)
	assert.Equal(t, "trace-1", events[0].TraceID)
	assert.Equal(t, 0.97, events[0].Score)
	assert.Equal(t, "mock", events[0].ModelName)
}

func TestPredict_StorageFailureFailsClosed(t *testing.T) {
	repo := &mockRepo{CreateFn: func(context.Context, models.FlaggedTransaction) (int64, error) {
		return 0, pkg.NewAppError(pkg.ErrStorageCode, "database error: disk full", pkg.SqlError)
	}}
	pub := &recordingPublisher{}
	svc := NewPredictionService(zap.NewNop(), verdictPredictor(pkg.VerdictFraud), repo, pub)

	res, err := svc.Predict(context.Background(), []byte(`{}`))
	assert.True(t, pkg.HasCode(err, pkg.ErrStorageCode))
	assert.Equal(t, PredictionResult{}, res)
	assert.Empty(t, pub.Events())
}

func TestPredict_PredictionError(t *testing.T) {
	predictor := verdictPredictor(pkg.VerdictFraud)
	predictor.PredictFn = func(context.Context, models.AugmentedTransaction) (classifier.Prediction, error) {
		return classifier.Prediction{}, pkg.NewAppError(pkg.ErrPredictionCode, "Prediction error: boom", errors.New("boom"))
	}
	svc := NewPredictionService(zap.NewNop(), predictor, &mockRepo{}, nil)

	_, err := svc.Predict(context.Background(), []byte(`{}`))
	assert.True(t, pkg.HasCode(err, pkg.ErrPredictionCode))
	assert.Contains(t, err.Error(), "boom")
}

func TestPredict_PublishFailureIgnored(t *testing.T) {
	repo := &mockRepo{CreateFn: func(context.Context, models.FlaggedTransaction) (int64, error) { return 1, nil }}
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewPredictionService(zap.NewNop(), verdictPredictor(pkg.VerdictFraud), repo, pub)

	res, err := svc.Predict(context.Background(), []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, pkg.VerdictFraud, res.Verdict)
}

func TestPredict_PositivePredictionsAppendInOrder(t *testing.T) {
	repo := newSQLiteRepo(t)
	svc := NewPredictionService(zap.NewNop(), verdictPredictor(pkg.VerdictFraud), repo, nil)
	ctx := context.Background()

	before, err := repo.Count(ctx)
	require.NoError(t, err)

	var ids []int64
	for _, body := range []string{`{"amount": 1}`, `{"amount": 2}`, `{"amount": 3}`} {
		res, err := svc.Predict(ctx, []byte(body))
		require.NoError(t, err)
		ids = append(ids, res.RecordID)
	}

	after, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, before+3, after)

	records, err := repo.FindPage(ctx, 3, 0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []int64{ids[2], ids[1], ids[0]}, []int64{records[0].ID, records[1].ID, records[2].ID})
	assert.Equal(t, 3.0, *records[0].Amount)
}
