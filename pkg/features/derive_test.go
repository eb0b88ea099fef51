package features

import (
	"testing"

	"github.com/nimeshabuddhika/fraud-prediction-api/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestDerive_EmptyTransaction(t *testing.T) {
	aug := Derive(models.Transaction{})

	assert.Equal(t, 0.0, aug.ErrorBalSrc)
	assert.Equal(t, 0.0, aug.ErrorBalDst)
}

func TestDerive_ReconciledSourceIsExactlyZero(t *testing.T) {
	tx := models.Transaction{
		SrcBal:    models.Ptr(170136.0),
		Amount:    models.Ptr(9839.64),
		SrcNewBal: models.Ptr(160296.36),
	}

	aug := Derive(tx)

	assert.Equal(t, 0.0, aug.ErrorBalSrc)
	assert.Equal(t, 9839.64, aug.ErrorBalDst)
}

func TestDerive_FraudulentTransfer(t *testing.T) {
	tx := models.Transaction{
		TimeInd:     models.Ptr(int64(1)),
		TransacType: models.Ptr("TRANSFER"),
		Amount:      models.Ptr(181.0),
		SrcBal:      models.Ptr(181.0),
		SrcNewBal:   models.Ptr(0.0),
		DstBal:      models.Ptr(0.0),
		DstNewBal:   models.Ptr(0.0),
	}

	aug := Derive(tx)

	assert.Equal(t, 0.0, aug.ErrorBalSrc)
	assert.Equal(t, 181.0, aug.ErrorBalDst)
	assert.Equal(t, tx, aug.Transaction, "raw fields must be carried through untouched")
}

func TestDerive_PartialFieldsDefaultToZero(t *testing.T) {
	tests := []struct {
		name    string
		tx      models.Transaction
		wantSrc float64
		wantDst float64
	}{
		{name: "amount only", tx: models.Transaction{Amount: models.Ptr(50.0)}, wantSrc: -50, wantDst: 50},
		{name: "source balances only", tx: models.Transaction{SrcBal: models.Ptr(100.0), SrcNewBal: models.Ptr(40.0)}, wantSrc: 60, wantDst: 0},
		{name: "destination balances only", tx: models.Transaction{DstBal: models.Ptr(10.0), DstNewBal: models.Ptr(25.5)}, wantSrc: 0, wantDst: -15.5},
		{name: "type and time only", tx: models.Transaction{TransacType: models.Ptr("PAYMENT"), TimeInd: models.Ptr(int64(744))}, wantSrc: 0, wantDst: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			aug := Derive(tt.tx)
			assert.Equal(t, tt.wantSrc, aug.ErrorBalSrc)
			assert.Equal(t, tt.wantDst, aug.ErrorBalDst)
		})
	}
}

func TestDerive_Deterministic(t *testing.T) {
	tx := models.Transaction{
		Amount:    models.Ptr(50000.0),
		SrcBal:    models.Ptr(50000.0),
		SrcNewBal: models.Ptr(0.0),
		DstBal:    models.Ptr(25000.0),
		DstNewBal: models.Ptr(0.0),
	}

	first := Derive(tx)
	second := Derive(tx)

	assert.Equal(t, first, second)
	assert.Equal(t, 75000.0, first.ErrorBalDst)
}
