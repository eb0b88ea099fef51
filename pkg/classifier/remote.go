package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nimeshabuddhika/fraud-prediction-api/pkg"
	"golang.org/x/time/rate"
)

var ErrThrottled = errors.New("model server throttled: wait exceeds limit")

// SchemaResponse is returned by GET {addr}/schema on the model server.
type SchemaResponse struct {
	Name     string   `json:"name"`
	Version  string   `json:"version"`
	Features []string `json:"features"`
}

// PredictRequest is sent to POST {addr}/predict.
type PredictRequest struct {
	Columns []string `json:"columns"`
	Values  []any    `json:"values"`
}

type PredictResponse struct {
	Score     float64 `json:"score"`
	IsFraud   bool    `json:"isFraud"`
	Threshold float64 `json:"threshold"`
}

// RemoteConfig configures the HTTP model server client.
type RemoteConfig struct {
	Addr            string
	Client          *http.Client
	RateLimitPerSec int
	Burst           int
	MaxThrottleWait time.Duration // if the wait for a token is longer than this, fail fast
}

// RemoteModel scores rows on an external model server.
type RemoteModel struct {
	addr    string
	client  *http.Client
	limiter *rate.Limiter
	maxWait time.Duration
	info    ModelInfo
}

// LoadRemote fetches and validates the model server schema.
func LoadRemote(ctx context.Context, cfg RemoteConfig) (*RemoteModel, error) {
	if cfg.Addr == "" {
		return nil, errors.New("model server address is empty")
	}
	client := cfg.Client
	if client == nil {
		client = http.DefaultClient
	}
	var limiter *rate.Limiter
	if cfg.RateLimitPerSec > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitPerSec), burst)
	}

	m := &RemoteModel{
		addr:    strings.TrimRight(cfg.Addr, "/"),
		client:  client,
		limiter: limiter,
		maxWait: cfg.MaxThrottleWait,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.addr+"/schema", nil)
	if err != nil {
		return nil, err
	}
	var schema SchemaResponse
	if err := m.do(req, &schema); err != nil {
		return nil, fmt.Errorf("fetch model schema: %w", err)
	}
	if err := ValidateColumns(schema.Features); err != nil {
		return nil, fmt.Errorf("model server schema: %w", err)
	}
	m.info = ModelInfo{
		Name:     schema.Name,
		Version:  schema.Version,
		Source:   pkg.ModelSourceRemote,
		Features: schema.Features,
	}
	return m, nil
}

func (m *RemoteModel) Info() ModelInfo { return m.info }

func (m *RemoteModel) Predict(ctx context.Context, row Row) (Prediction, error) {
	if err := m.throttle(ctx); err != nil {
		return Prediction{}, err
	}

	body, err := json.Marshal(PredictRequest{Columns: row.Columns, Values: row.Values})
	if err != nil {
		return Prediction{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.addr+"/predict", bytes.NewReader(body))
	if err != nil {
		return Prediction{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	var resp PredictResponse
	if err := m.do(req, &resp); err != nil {
		return Prediction{}, err
	}
	verdict := pkg.VerdictLegitimate
	if resp.IsFraud {
		verdict = pkg.VerdictFraud
	}
	return Prediction{Verdict: verdict, Score: resp.Score}, nil
}

// throttle waits for a limiter token unless the wait would exceed maxWait.
func (m *RemoteModel) throttle(ctx context.Context) error {
	if m.limiter == nil {
		return nil
	}
	r := m.limiter.Reserve()
	if !r.OK() {
		return ErrThrottled
	}
	delay := r.Delay()
	if delay == 0 {
		return nil
	}
	if delay > m.maxWait {
		r.Cancel()
		return ErrThrottled
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// maxModelResponseBytes bounds a decoded model server response.
const maxModelResponseBytes = 1 << 20

func (m *RemoteModel) do(req *http.Request, out any) error {
	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("model server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxModelResponseBytes)).Decode(out); err != nil {
		return fmt.Errorf("decode model server response: %w", err)
	}
	return nil
}
