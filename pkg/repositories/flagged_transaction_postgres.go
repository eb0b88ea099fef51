package repositories

import (
	"context"
	"time"

	"github.com/nimeshabuddhika/fraud-prediction-api/pkg"
	"github.com/nimeshabuddhika/fraud-prediction-api/pkg/database"
	"github.com/nimeshabuddhika/fraud-prediction-api/pkg/models"
	"go.uber.org/zap"
)

type PostgresFlaggedRepository struct {
	logger *zap.Logger
	db     *database.DB
}

func NewPostgresFlaggedRepository(logger *zap.Logger, db *database.DB) FlaggedTransactionRepository {
	return &PostgresFlaggedRepository{logger: logger, db: db}
}

func (r *PostgresFlaggedRepository) Create(ctx context.Context, record models.FlaggedTransaction) (int64, error) {
	if record.FlaggedAt.IsZero() {
		record.FlaggedAt = time.Now().UTC()
	}
	var id int64
	err := r.db.QueryRowPrimary(ctx, `
		INSERT INTO flagged_transactions (`+insertFlaggedColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		record.TimeInd,
		record.TransacType,
		record.Amount,
		record.SrcBal,
		record.SrcNewBal,
		record.DstBal,
		record.DstNewBal,
		record.FlaggedAt,
	).Scan(&id)
	if err != nil {
		return 0, pkg.HandleSQLError(pkg.TraceIDFromContext(ctx), r.logger, err)
	}
	return id, nil
}

func (r *PostgresFlaggedRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM flagged_transactions`).Scan(&total); err != nil {
		return 0, pkg.HandleSQLError(pkg.TraceIDFromContext(ctx), r.logger, err)
	}
	return total, nil
}

func (r *PostgresFlaggedRepository) FindPage(ctx context.Context, limit, offset int64) ([]models.FlaggedTransaction, error) {
	rows, err := r.db.Query(ctx, `SELECT `+selectFlaggedColumns+`
		FROM flagged_transactions
		ORDER BY id DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, pkg.HandleSQLError(pkg.TraceIDFromContext(ctx), r.logger, err)
	}
	defer rows.Close()

	records := make([]models.FlaggedTransaction, 0)
	for rows.Next() {
		rec, err := scanFlagged(rows)
		if err != nil {
			return nil, pkg.HandleSQLError(pkg.TraceIDFromContext(ctx), r.logger, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, pkg.HandleSQLError(pkg.TraceIDFromContext(ctx), r.logger, err)
	}
	return records, nil
}
