// Package features turns raw transactions into the augmented rows the fraud model scores.
package features

import (
	"github.com/nimeshabuddhika/fraud-prediction-api/pkg/models"
	"github.com/shopspring/decimal"
)

// Derive computes the balance residuals of tx. Absent numeric fields count as 0.
//
//	error_bal_src = src_bal - amount - src_new_bal
//	error_bal_dst = dst_bal + amount - dst_new_bal
//
// The arithmetic runs on the shortest decimal form of each input so that balances
// which reconcile on paper produce an exact zero residual.
func Derive(tx models.Transaction) models.AugmentedTransaction {
	amount := toDecimal(tx.Amount)

	errSrc := toDecimal(tx.SrcBal).Sub(amount).Sub(toDecimal(tx.SrcNewBal))
	errDst := toDecimal(tx.DstBal).Add(amount).Sub(toDecimal(tx.DstNewBal))

	return models.AugmentedTransaction{
		Transaction: tx,
		ErrorBalSrc: errSrc.InexactFloat64(),
		ErrorBalDst: errDst.InexactFloat64(),
	}
}

func toDecimal(f *float64) decimal.Decimal {
	if f == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*f)
}
