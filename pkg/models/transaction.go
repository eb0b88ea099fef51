package models

// Transaction is the raw transaction submitted for scoring.
// Every field is optional; nil means the caller did not send it.
type Transaction struct {
	TimeInd     *int64   `json:"time_ind"`
	TransacType *string  `json:"transac_type"`
	Amount      *float64 `json:"amount"`
	SrcBal      *float64 `json:"src_bal"`
	SrcNewBal   *float64 `json:"src_new_bal"`
	DstBal      *float64 `json:"dst_bal"`
	DstNewBal   *float64 `json:"dst_new_bal"`
}

// AugmentedTransaction is a Transaction plus the balance residuals the classifier was trained on.
// It lives for a single request and is never persisted.
type AugmentedTransaction struct {
	Transaction
	ErrorBalSrc float64 `json:"error_bal_src"`
	ErrorBalDst float64 `json:"error_bal_dst"`
}

// ToFlagged copies the raw fields into a record ready for insertion.
func (t Transaction) ToFlagged() FlaggedTransaction {
	return FlaggedTransaction{
		TimeInd:     t.TimeInd,
		TransacType: t.TransacType,
		Amount:      t.Amount,
		SrcBal:      t.SrcBal,
		SrcNewBal:   t.SrcNewBal,
		DstBal:      t.DstBal,
		DstNewBal:   t.DstNewBal,
	}
}

// ValueOrZero returns *f, or 0 when the field is absent.
func ValueOrZero(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// Ptr returns a pointer to v. Handy for building transactions in code and tests.
func Ptr[T any](v T) *T {
	return &v
}
