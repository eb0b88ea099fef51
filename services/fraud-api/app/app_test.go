package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nimeshabuddhika/fraud-prediction-api/pkg"
	"github.com/nimeshabuddhika/fraud-prediction-api/pkg/classifier"
	"github.com/nimeshabuddhika/fraud-prediction-api/services/fraud-api/configs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) *configs.Config {
	t.Helper()
	return &configs.Config{
		Port:             "0",
		DbDriver:         pkg.DriverSQLite,
		SqlitePath:       filepath.Join(t.TempDir(), "data", "fraud.db"),
		ModelSource:      pkg.ModelSourceFile,
		ModelPath:        "../../../model/fraud_model.json",
		ModelColumns:     strings.Join(classifier.DefaultColumns, ","),
		MlRequestBurst:   1,
		MlRequestTimeout: time.Second,
		PredictRateBurst: 1,
		KafkaPartition:   1,
		DefaultPerPage:   20,
		MaxPerPage:       100,
	}
}

func build(t *testing.T, cfg *configs.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r, cleanup, err := Build(context.Background(), zap.NewNop(), cfg)
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return r
}

func serve(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBuild_Routes(t *testing.T) {
	r := build(t, testConfig(t))

	w := serve(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"model_loaded":true`)
	assert.NotEmpty(t, w.Header().Get(pkg.HeaderTraceId))

	w = serve(r, http.MethodPost, "/predict", `{"transac_type":"TRANSFER","amount":181,"src_bal":181,"src_new_bal":0,"dst_bal":0,"dst_new_bal":0}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"is_fraud":1}`, w.Body.String())

	w = serve(r, http.MethodGet, "/frauds", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_records":1`)

	w = serve(r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "fraud_api_predictions_total")
	assert.Contains(t, w.Body.String(), "fraud_api_http_requests_total")

	w = serve(r, http.MethodGet, "/swagger/doc.json", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/predict")
}

func TestBuild_SwaggerDocumentsEveryAPIRoute(t *testing.T) {
	r := build(t, testConfig(t))

	w := serve(r, http.MethodGet, "/swagger/doc.json", "")
	require.Equal(t, http.StatusOK, w.Code)
	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))

	documented := 0
	for _, route := range r.Routes() {
		if strings.HasPrefix(route.Path, "/swagger") || route.Path == "/metrics" {
			continue
		}
		ops, ok := doc.Paths[route.Path]
		require.True(t, ok, "route %s %s not documented", route.Method, route.Path)
		assert.Contains(t, ops, strings.ToLower(route.Method), route.Path)
		documented++
	}
	assert.Len(t, doc.Paths, documented)
}

func TestBuild_DegradedWhenModelMissing(t *testing.T) {
	cfg := testConfig(t)
	cfg.ModelPath = filepath.Join(t.TempDir(), "missing.json")
	r := build(t, cfg)

	w := serve(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","model_loaded":false}`, w.Body.String())

	w = serve(r, http.MethodPost, "/predict", `{}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), pkg.ErrModelUnavailableCode.Code)
}

func TestBuild_PredictRateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.PredictRateLimit = 1
	cfg.PredictRateBurst = 1
	r := build(t, cfg)

	w := serve(r, http.MethodPost, "/predict", `{}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, http.MethodPost, "/predict", `{}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), pkg.ErrRateLimitedCode.Code)

	// health is never limited
	w = serve(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBuild_UnreachablePostgres(t *testing.T) {
	cfg := testConfig(t)
	cfg.DbDriver = pkg.DriverPostgres
	cfg.PrimaryDbAddr = "user:pass@127.0.0.1:1/fraud?sslmode=disable&connect_timeout=1"

	gin.SetMode(gin.TestMode)
	_, _, err := Build(context.Background(), zap.NewNop(), cfg)
	assert.Error(t, err)
}
