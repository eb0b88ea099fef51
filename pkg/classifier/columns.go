package classifier

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nimeshabuddhika/fraud-prediction-api/pkg/models"
)

// Column names of the tabular row the classifier was trained on.
const (
	ColTimeInd     = "time_ind"
	ColTransacType = "transac_type"
	ColAmount      = "amount"
	ColSrcBal      = "src_bal"
	ColSrcNewBal   = "src_new_bal"
	ColDstBal      = "dst_bal"
	ColDstNewBal   = "dst_new_bal"
	ColErrorBalSrc = "error_bal_src"
	ColErrorBalDst = "error_bal_dst"
)

// DefaultColumns is the training schema order: raw fields followed by the derived residuals.
var DefaultColumns = []string{
	ColTimeInd, ColTransacType, ColAmount,
	ColSrcBal, ColSrcNewBal, ColDstBal, ColDstNewBal,
	ColErrorBalSrc, ColErrorBalDst,
}

var categoricalColumns = map[string]bool{
	ColTransacType: true,
}

var ErrInvalidColumns = errors.New("invalid model columns")

// IsCategorical reports whether the column carries a string category rather than a number.
func IsCategorical(col string) bool {
	return categoricalColumns[col]
}

func isKnownColumn(col string) bool {
	for _, c := range DefaultColumns {
		if c == col {
			return true
		}
	}
	return false
}

// ValidateColumns checks that cols is a permutation of DefaultColumns.
func ValidateColumns(cols []string) error {
	if len(cols) == 0 {
		return fmt.Errorf("%w: column list is empty", ErrInvalidColumns)
	}
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		if !isKnownColumn(c) {
			return fmt.Errorf("%w: unknown column %q", ErrInvalidColumns, c)
		}
		if seen[c] {
			return fmt.Errorf("%w: duplicate column %q", ErrInvalidColumns, c)
		}
		seen[c] = true
	}
	var missing []string
	for _, c := range DefaultColumns {
		if !seen[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing columns %s", ErrInvalidColumns, strings.Join(missing, ","))
	}
	return nil
}

// MatchColumns checks that the serving order equals the order the model declares.
func MatchColumns(serving, model []string) error {
	if len(serving) != len(model) {
		return fmt.Errorf("%w: serving has %d columns, model expects %d", ErrInvalidColumns, len(serving), len(model))
	}
	for i := range serving {
		if serving[i] != model[i] {
			return fmt.Errorf("%w: column %d is %q, model expects %q", ErrInvalidColumns, i, serving[i], model[i])
		}
	}
	return nil
}

// Row is a single-row table handed to a Classifier. Values[i] belongs to Columns[i];
// numeric columns hold float64 and categorical columns hold string.
type Row struct {
	Columns []string `json:"columns"`
	Values  []any    `json:"values"`
}

// Float returns the numeric value of col.
func (r Row) Float(col string) (float64, error) {
	v, err := r.value(col)
	if err != nil {
		return 0, err
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("column %q: expected number, got %T", col, v)
	}
	return f, nil
}

// String returns the categorical value of col.
func (r Row) String(col string) (string, error) {
	v, err := r.value(col)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("column %q: expected string, got %T", col, v)
	}
	return s, nil
}

func (r Row) value(col string) (any, error) {
	if len(r.Columns) != len(r.Values) {
		return nil, fmt.Errorf("row has %d columns but %d values", len(r.Columns), len(r.Values))
	}
	for i, c := range r.Columns {
		if c == col {
			return r.Values[i], nil
		}
	}
	return nil, fmt.Errorf("column %q not present in row", col)
}

// BuildRow lays out tx in the given column order. Absent raw fields become 0 or "".
func BuildRow(columns []string, tx models.AugmentedTransaction) Row {
	values := make([]any, len(columns))
	for i, c := range columns {
		values[i] = columnValue(c, tx)
	}
	return Row{Columns: columns, Values: values}
}

func columnValue(col string, tx models.AugmentedTransaction) any {
	switch col {
	case ColTimeInd:
		if tx.TimeInd == nil {
			return 0.0
		}
		return float64(*tx.TimeInd)
	case ColTransacType:
		if tx.TransacType == nil {
			return ""
		}
		return *tx.TransacType
	case ColAmount:
		return models.ValueOrZero(tx.Amount)
	case ColSrcBal:
		return models.ValueOrZero(tx.SrcBal)
	case ColSrcNewBal:
		return models.ValueOrZero(tx.SrcNewBal)
	case ColDstBal:
		return models.ValueOrZero(tx.DstBal)
	case ColDstNewBal:
		return models.ValueOrZero(tx.DstNewBal)
	case ColErrorBalSrc:
		return tx.ErrorBalSrc
	case ColErrorBalDst:
		return tx.ErrorBalDst
	default:
		return nil
	}
}
