package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/nimeshabuddhika/fraud-prediction-api/services/fraud-cli/internal/client"
	"github.com/spf13/cobra"
)

func fraudsCmd(newClient func() *client.Client) *cobra.Command {
	var page, perPage int64
	cmd := &cobra.Command{
		Use:   "frauds",
		Short: "List flagged transactions, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := newClient().Frauds(cmd.Context(), page, perPage)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			p := result.Pagination
			fmt.Fprintf(out, "page %d/%d, %d flagged transactions\n", p.CurrentPage, p.TotalPages, p.TotalRecords)
			if len(result.FraudulentTransactions) == 0 {
				fmt.Fprintln(out, "no flagged transactions on this page")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTIME\tTYPE\tAMOUNT\tSRC_BAL\tSRC_NEW_BAL\tDST_BAL\tDST_NEW_BAL")
			for _, r := range result.FraudulentTransactions {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					r.ID, intCell(r.TimeInd), strCell(r.TransacType),
					floatCell(r.Amount), floatCell(r.SrcBal), floatCell(r.SrcNewBal),
					floatCell(r.DstBal), floatCell(r.DstNewBal))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if p.HasNext {
				fmt.Fprintf(out, "next: fraudctl frauds --page %d --per-page %d\n", p.CurrentPage+1, p.PerPage)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&page, "page", 1, "page number")
	cmd.Flags().Int64Var(&perPage, "per-page", 20, "records per page")
	return cmd
}

func intCell(v *int64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatInt(*v, 10)
}

func strCell(v *string) string {
	if v == nil {
		return "-"
	}
	return *v
}

func floatCell(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
