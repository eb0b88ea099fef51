package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nimeshabuddhika/fraud-prediction-api/pkg"
	"github.com/nimeshabuddhika/fraud-prediction-api/pkg/models"
	"github.com/nimeshabuddhika/fraud-prediction-api/pkg/utils"
)

type Health struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
	Model       *struct {
		Name    string `json:"name"`
		Version string `json:"version"`
		Source  string `json:"source"`
	} `json:"model,omitempty"`
}

type Verdict struct {
	IsFraud int `json:"is_fraud"`
}

type Pagination struct {
	CurrentPage  int64 `json:"current_page"`
	PerPage      int64 `json:"per_page"`
	TotalRecords int64 `json:"total_records"`
	TotalPages   int64 `json:"total_pages"`
	HasNext      bool  `json:"has_next"`
	HasPrev      bool  `json:"has_prev"`
}

type FraudPage struct {
	FraudulentTransactions []models.FlaggedTransaction `json:"fraudulent_transactions"`
	Pagination             Pagination                  `json:"pagination"`
}

// APIError is a non-2xx answer from the fraud API.
type APIError struct {
	Status  int
	Code    string
	Message string
	TraceID string
}

func (e *APIError) Error() string {
	if utils.IsEmpty(e.Code) {
		return fmt.Sprintf("api returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api returned %d %s: %s", e.Status, e.Code, e.Message)
}

// Client calls the fraud prediction API.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    utils.NewHTTPClient(utils.WithClientTimeout(timeout), utils.WithResponseHeaderTimeout(timeout)),
	}
}

func (c *Client) Health(ctx context.Context) (Health, error) {
	var out Health
	err := c.do(ctx, http.MethodGet, "/health", nil, &out)
	return out, err
}

func (c *Client) Predict(ctx context.Context, tx models.Transaction) (Verdict, error) {
	var out Verdict
	body, err := json.Marshal(tx)
	if err != nil {
		return out, err
	}
	err = c.do(ctx, http.MethodPost, "/predict", body, &out)
	return out, err
}

func (c *Client) Frauds(ctx context.Context, page, perPage int64) (FraudPage, error) {
	var out FraudPage
	q := url.Values{}
	q.Set("page", strconv.FormatInt(page, 10))
	q.Set("per_page", strconv.FormatInt(perPage, 10))
	err := c.do(ctx, http.MethodGet, "/frauds?"+q.Encode(), nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, TraceID: resp.Header.Get(pkg.HeaderTraceId), Message: strings.TrimSpace(string(raw))}
		var errBody pkg.ErrorResponse
		if json.Unmarshal(raw, &errBody) == nil && !utils.IsEmpty(errBody.Error) {
			apiErr.Code, apiErr.Message = errBody.Code, errBody.Error
		}
		return apiErr
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
