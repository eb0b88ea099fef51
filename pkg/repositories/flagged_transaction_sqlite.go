package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/nimeshabuddhika/fraud-prediction-api/pkg"
	"github.com/nimeshabuddhika/fraud-prediction-api/pkg/models"
	"go.uber.org/zap"
)

type SQLiteFlaggedRepository struct {
	logger *zap.Logger
	db     *sql.DB
}

func NewSQLiteFlaggedRepository(logger *zap.Logger, db *sql.DB) FlaggedTransactionRepository {
	return &SQLiteFlaggedRepository{logger: logger, db: db}
}

func (r *SQLiteFlaggedRepository) Create(ctx context.Context, record models.FlaggedTransaction) (int64, error) {
	if record.FlaggedAt.IsZero() {
		record.FlaggedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO flagged_transactions (`+insertFlaggedColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.TimeInd,
		record.TransacType,
		record.Amount,
		record.SrcBal,
		record.SrcNewBal,
		record.DstBal,
		record.DstNewBal,
		record.FlaggedAt,
	)
	if err != nil {
		return 0, pkg.HandleSQLiteError(pkg.TraceIDFromContext(ctx), r.logger, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, pkg.HandleSQLiteError(pkg.TraceIDFromContext(ctx), r.logger, err)
	}
	return id, nil
}

func (r *SQLiteFlaggedRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM flagged_transactions`).Scan(&total); err != nil {
		return 0, pkg.HandleSQLiteError(pkg.TraceIDFromContext(ctx), r.logger, err)
	}
	return total, nil
}

func (r *SQLiteFlaggedRepository) FindPage(ctx context.Context, limit, offset int64) ([]models.FlaggedTransaction, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+selectFlaggedColumns+`
		FROM flagged_transactions
		ORDER BY id DESC
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, pkg.HandleSQLiteError(pkg.TraceIDFromContext(ctx), r.logger, err)
	}
	defer rows.Close()

	records := make([]models.FlaggedTransaction, 0)
	for rows.Next() {
		rec, err := scanFlagged(rows)
		if err != nil {
			return nil, pkg.HandleSQLiteError(pkg.TraceIDFromContext(ctx), r.logger, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, pkg.HandleSQLiteError(pkg.TraceIDFromContext(ctx), r.logger, err)
	}
	return records, nil
}
