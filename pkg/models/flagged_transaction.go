package models

import "time"

// FlaggedTransaction maps to table `flagged_transactions`.
// ID is assigned by the database and orders records by insertion.
type FlaggedTransaction struct {
	ID          int64     `json:"id"`
	TimeInd     *int64    `json:"time_ind"`
	TransacType *string   `json:"transac_type"`
	Amount      *float64  `json:"amount"`
	SrcBal      *float64  `json:"src_bal"`
	SrcNewBal   *float64  `json:"src_new_bal"`
	DstBal      *float64  `json:"dst_bal"`
	DstNewBal   *float64  `json:"dst_new_bal"`
	FlaggedAt   time.Time `json:"flagged_at"`
}

// Transaction returns the raw fields of the record.
func (f FlaggedTransaction) Transaction() Transaction {
	return Transaction{
		TimeInd:     f.TimeInd,
		TransacType: f.TransacType,
		Amount:      f.Amount,
		SrcBal:      f.SrcBal,
		SrcNewBal:   f.SrcNewBal,
		DstBal:      f.DstBal,
		DstNewBal:   f.DstNewBal,
	}
}
