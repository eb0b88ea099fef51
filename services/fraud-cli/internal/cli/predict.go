package cli

import (
	"fmt"

	"github.com/nimeshabuddhika/fraud-prediction-api/pkg/features"
	"github.com/nimeshabuddhika/fraud-prediction-api/pkg/models"
	"github.com/nimeshabuddhika/fraud-prediction-api/pkg/utils"
	"github.com/nimeshabuddhika/fraud-prediction-api/services/fraud-cli/internal/client"
	"github.com/spf13/cobra"
)

func predictCmd(newClient func() *client.Client) *cobra.Command {
	var (
		example     string
		timeInd     int64
		transacType string
		amount      float64
		srcBal      float64
		srcNewBal   float64
		dstBal      float64
		dstNewBal   float64
	)
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Score a transaction",
		Long:  "Score a transaction built from flags, optionally starting from a predefined example. Fields without a flag are omitted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var tx models.Transaction
			if !utils.IsEmpty(example) {
				ex, err := FindExample(example)
				if err != nil {
					return err
				}
				tx = ex.Transaction.toModel()
			}

			flags := cmd.Flags()
			if flags.Changed("time-ind") {
				tx.TimeInd = models.Ptr(timeInd)
			}
			if flags.Changed("type") {
				tx.TransacType = models.Ptr(transacType)
			}
			for name, field := range map[string]struct {
				dst **float64
				val float64
			}{
				"amount":      {&tx.Amount, amount},
				"src-bal":     {&tx.SrcBal, srcBal},
				"src-new-bal": {&tx.SrcNewBal, srcNewBal},
				"dst-bal":     {&tx.DstBal, dstBal},
				"dst-new-bal": {&tx.DstNewBal, dstNewBal},
			} {
				if flags.Changed(name) {
					*field.dst = models.Ptr(field.val)
				}
			}

			verdict, err := newClient().Predict(cmd.Context(), tx)
			if err != nil {
				return err
			}
			aug := features.Derive(tx)
			out := cmd.OutOrStdout()
			if verdict.IsFraud == 1 {
				fmt.Fprintln(out, "verdict: FRAUD (is_fraud=1)")
			} else {
				fmt.Fprintln(out, "verdict: legitimate (is_fraud=0)")
			}
			fmt.Fprintf(out, "error_bal_src: %.2f\n", aug.ErrorBalSrc)
			fmt.Fprintf(out, "error_bal_dst: %.2f\n", aug.ErrorBalDst)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&example, "example", "", "start from a predefined example, see 'fraudctl examples'")
	f.Int64Var(&timeInd, "time-ind", 0, "time step")
	f.StringVar(&transacType, "type", "", "transaction type, e.g. PAYMENT, TRANSFER, CASH_OUT")
	f.Float64Var(&amount, "amount", 0, "amount")
	f.Float64Var(&srcBal, "src-bal", 0, "source balance before")
	f.Float64Var(&srcNewBal, "src-new-bal", 0, "source balance after")
	f.Float64Var(&dstBal, "dst-bal", 0, "destination balance before")
	f.Float64Var(&dstNewBal, "dst-new-bal", 0, "destination balance after")
	return cmd
}
