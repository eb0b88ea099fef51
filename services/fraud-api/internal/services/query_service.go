package services

import (
	"context"
	"math"

	"github.com/nimeshabuddhika/fraud-prediction-api/pkg"
	"github.com/nimeshabuddhika/fraud-prediction-api/pkg/models"
	"github.com/nimeshabuddhika/fraud-prediction-api/pkg/repositories"
	"github.com/nimeshabuddhika/fraud-prediction-api/services/fraud-api/internal/views"
	"go.uber.org/zap"
)

type QueryService interface {
	ListFlagged(ctx context.Context, page, perPage int64) (views.FraudListResponse, error)
}

type QueryServiceImpl struct {
	logger     *zap.Logger
	repo       repositories.FlaggedTransactionRepository
	maxPerPage int64
}

func NewQueryService(logger *zap.Logger, repo repositories.FlaggedTransactionRepository, maxPerPage int64) QueryService {
	return &QueryServiceImpl{logger: logger, repo: repo, maxPerPage: maxPerPage}
}

// ListFlagged returns one page of flagged transactions, most recent first.
// perPage above the configured maximum is clamped and the clamped value is reported.
func (s *QueryServiceImpl) ListFlagged(ctx context.Context, page, perPage int64) (views.FraudListResponse, error) {
	if page < 1 {
		return views.FraudListResponse{}, pkg.NewAppError(pkg.ErrInvalidInputCode, "page must be a positive integer", nil)
	}
	if perPage < 1 {
		return views.FraudListResponse{}, pkg.NewAppError(pkg.ErrInvalidInputCode, "per_page must be a positive integer", nil)
	}
	if s.maxPerPage > 0 && perPage > s.maxPerPage {
		perPage = s.maxPerPage
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return views.FraudListResponse{}, err
	}

	records := make([]models.FlaggedTransaction, 0)
	// offset past MaxInt64 is past every record
	if page-1 <= math.MaxInt64/perPage {
		offset := (page - 1) * perPage
		if offset < total {
			records, err = s.repo.FindPage(ctx, perPage, offset)
			if err != nil {
				return views.FraudListResponse{}, err
			}
		}
	}

	totalPages := total / perPage
	if total%perPage != 0 {
		totalPages++
	}
	s.logger.Debug("flagged_page_listed",
		zap.String(pkg.TraceId, pkg.TraceIDFromContext(ctx)),
		zap.Int64("page", page),
		zap.Int64("per_page", perPage),
		zap.Int("returned", len(records)))

	return views.FraudListResponse{
		FraudulentTransactions: records,
		Pagination: views.Pagination{
			CurrentPage:  page,
			PerPage:      perPage,
			TotalRecords: total,
			TotalPages:   totalPages,
			HasNext:      page < totalPages,
			HasPrev:      page > 1,
		},
	}, nil
}
