package views

import (
	"time"

	"github.com/nimeshabuddhika/fraud-prediction-api/pkg/models"
)

// PredictResponse is the /predict verdict.
type PredictResponse struct {
	IsFraud int `json:"is_fraud" example:"1"`
}

type ModelView struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Source  string `json:"source"`
}

type HealthResponse struct {
	Status      string     `json:"status" example:"healthy"`
	ModelLoaded bool       `json:"model_loaded"`
	Model       *ModelView `json:"model,omitempty"`
}

// FraudListQuery binds /frauds query parameters. Nil means the parameter was not sent.
type FraudListQuery struct {
	Page    *int64 `form:"page" binding:"omitempty,min=1"`
	PerPage *int64 `form:"per_page" binding:"omitempty,min=1"`
}

type Pagination struct {
	CurrentPage  int64 `json:"current_page"`
	PerPage      int64 `json:"per_page"`
	TotalRecords int64 `json:"total_records"`
	TotalPages   int64 `json:"total_pages"`
	HasNext      bool  `json:"has_next"`
	HasPrev      bool  `json:"has_prev"`
}

type FraudListResponse struct {
	FraudulentTransactions []models.FlaggedTransaction `json:"fraudulent_transactions"`
	Pagination             Pagination                  `json:"pagination"`
}

// FraudFlaggedEvent is published after a flagged transaction is persisted.
type FraudFlaggedEvent struct {
	RecordID     int64              `json:"record_id"`
	TraceID      string             `json:"trace_id"`
	Transaction  models.Transaction `json:"transaction"`
	Score        float64            `json:"score"`
	ModelName    string             `json:"model_name"`
	ModelVersion string             `json:"model_version"`
	FlaggedAt    time.Time          `json:"flagged_at"`
}
