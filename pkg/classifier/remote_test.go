package classifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nimeshabuddhika/fraud-prediction-api/pkg"
	"github.com/nimeshabuddhika/fraud-prediction-api/pkg/features"
	"github.com/nimeshabuddhika/fraud-prediction-api/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newModelServer(t *testing.T, schema SchemaResponse, predict func(req PredictRequest) (int, PredictResponse)) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/schema", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(schema)
	})
	mux.HandleFunc("/predict", func(w http.ResponseWriter, r *http.Request) {
		var req PredictRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		status, resp := predict(req)
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRemoteModel_Predict(t *testing.T) {
	received := make(chan PredictRequest, 1)
	srv := newModelServer(t,
		SchemaResponse{Name: "remote-xgb", Version: "7", Features: DefaultColumns},
		func(req PredictRequest) (int, PredictResponse) {
			received <- req
			return http.StatusOK, PredictResponse{Score: 0.93, IsFraud: true, Threshold: 0.5}
		})

	model, err := LoadRemote(context.Background(), RemoteConfig{Addr: srv.URL + "/"})
	require.NoError(t, err)
	assert.Equal(t, "remote-xgb", model.Info().Name)
	assert.Equal(t, pkg.ModelSourceRemote, model.Info().Source)

	res, err := model.Predict(context.Background(), BuildRow(DefaultColumns, features.Derive(fraudulentTransfer())))
	require.NoError(t, err)

	assert.Equal(t, pkg.VerdictFraud, res.Verdict)
	assert.Equal(t, 0.93, res.Score)
	got := <-received
	assert.Equal(t, DefaultColumns, got.Columns)
	assert.Equal(t, "TRANSFER", got.Values[1])
}

func TestRemoteModel_ServerError(t *testing.T) {
	srv := newModelServer(t,
		SchemaResponse{Features: DefaultColumns},
		func(req PredictRequest) (int, PredictResponse) {
			return http.StatusInternalServerError, PredictResponse{}
		})
	model, err := LoadRemote(context.Background(), RemoteConfig{Addr: srv.URL})
	require.NoError(t, err)

	p, err := NewPredictor(zap.NewNop(), model, DefaultColumns)
	require.NoError(t, err)

	_, err = p.Predict(context.Background(), features.Derive(models.Transaction{}))
	assert.True(t, pkg.HasCode(err, pkg.ErrPredictionCode))
	assert.Contains(t, err.Error(), "500")
}

func TestLoadRemote_InvalidSchema(t *testing.T) {
	srv := newModelServer(t,
		SchemaResponse{Features: []string{"amount", "velocity"}},
		func(req PredictRequest) (int, PredictResponse) { return http.StatusOK, PredictResponse{} })

	_, err := LoadRemote(context.Background(), RemoteConfig{Addr: srv.URL})
	assert.ErrorIs(t, err, ErrInvalidColumns)
}

func TestLoadRemote_EmptyAddr(t *testing.T) {
	_, err := LoadRemote(context.Background(), RemoteConfig{})
	assert.Error(t, err)
}

func TestRemoteModel_ThrottleFailsFast(t *testing.T) {
	var calls atomic.Int32
	srv := newModelServer(t,
		SchemaResponse{Features: DefaultColumns},
		func(req PredictRequest) (int, PredictResponse) {
			calls.Add(1)
			return http.StatusOK, PredictResponse{}
		})
	model, err := LoadRemote(context.Background(), RemoteConfig{
		Addr:            srv.URL,
		RateLimitPerSec: 1,
		Burst:           1,
		MaxThrottleWait: 10 * time.Millisecond,
	})
	require.NoError(t, err)
	row := BuildRow(DefaultColumns, features.Derive(models.Transaction{}))

	_, err = model.Predict(context.Background(), row)
	require.NoError(t, err)

	_, err = model.Predict(context.Background(), row)
	assert.ErrorIs(t, err, ErrThrottled)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRemoteModel_OversizedResponse(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/schema", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(SchemaResponse{Features: DefaultColumns})
	})
	mux.HandleFunc("/predict", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"score":0.9,"is_fraud":true,"pad":"` + strings.Repeat("x", maxModelResponseBytes) + `"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	model, err := LoadRemote(context.Background(), RemoteConfig{Addr: srv.URL})
	require.NoError(t, err)

	_, err = model.Predict(context.Background(), BuildRow(DefaultColumns, features.Derive(models.Transaction{})))
	assert.ErrorContains(t, err, "decode model server response")
}
