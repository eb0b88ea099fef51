package repositories

import (
	"context"

	"github.com/nimeshabuddhika/fraud-prediction-api/pkg/models"
)

// FlaggedTransactionRepository persists transactions the classifier flagged as fraud.
// Every method is a single atomic statement; errors are pkg.AppError with the storage code.
type FlaggedTransactionRepository interface {
	// Create appends one record and returns the id assigned by the database.
	Create(ctx context.Context, record models.FlaggedTransaction) (int64, error)
	// Count returns the number of persisted records.
	Count(ctx context.Context) (int64, error)
	// FindPage returns at most limit records, most recent first, after skipping offset.
	FindPage(ctx context.Context, limit, offset int64) ([]models.FlaggedTransaction, error)
}

const (
	insertFlaggedColumns = `time_ind, transac_type, amount, src_bal, src_new_bal, dst_bal, dst_new_bal, flagged_at`
	selectFlaggedColumns = `id, time_ind, transac_type, amount, src_bal, src_new_bal, dst_bal, dst_new_bal, flagged_at`
)

type scanner interface {
	Scan(dest ...any) error
}

func scanFlagged(row scanner) (models.FlaggedTransaction, error) {
	var rec models.FlaggedTransaction
	err := row.Scan(
		&rec.ID,
		&rec.TimeInd,
		&rec.TransacType,
		&rec.Amount,
		&rec.SrcBal,
		&rec.SrcNewBal,
		&rec.DstBal,
		&rec.DstNewBal,
		&rec.FlaggedAt,
	)
	return rec, err
}
