package cli

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/nimeshabuddhika/fraud-prediction-api/pkg/models"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

//go:embed examples.yaml
var examplesYAML []byte

type Example struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	Transaction exampleTransaction `yaml:"transaction"`
}

type exampleTransaction struct {
	TimeInd     *int64   `yaml:"time_ind"`
	TransacType *string  `yaml:"transac_type"`
	Amount      *float64 `yaml:"amount"`
	SrcBal      *float64 `yaml:"src_bal"`
	SrcNewBal   *float64 `yaml:"src_new_bal"`
	DstBal      *float64 `yaml:"dst_bal"`
	DstNewBal   *float64 `yaml:"dst_new_bal"`
}

func (e exampleTransaction) toModel() models.Transaction {
	return models.Transaction{
		TimeInd:     e.TimeInd,
		TransacType: e.TransacType,
		Amount:      e.Amount,
		SrcBal:      e.SrcBal,
		SrcNewBal:   e.SrcNewBal,
		DstBal:      e.DstBal,
		DstNewBal:   e.DstNewBal,
	}
}

// LoadExamples parses the embedded example transactions.
func LoadExamples() ([]Example, error) {
	var examples []Example
	if err := yaml.Unmarshal(examplesYAML, &examples); err != nil {
		return nil, fmt.Errorf("parse examples: %w", err)
	}
	return examples, nil
}

// FindExample matches name case-insensitively.
func FindExample(name string) (Example, error) {
	examples, err := LoadExamples()
	if err != nil {
		return Example{}, err
	}
	names := make([]string, 0, len(examples))
	for _, ex := range examples {
		if strings.EqualFold(ex.Name, name) {
			return ex, nil
		}
		names = append(names, ex.Name)
	}
	return Example{}, fmt.Errorf("unknown example %q, available: %s", name, strings.Join(names, ", "))
}

func examplesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "examples",
		Short: "List predefined example transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			examples, err := LoadExamples()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, ex := range examples {
				fmt.Fprintf(out, "%s\n  %s\n", ex.Name, ex.Description)
			}
			return nil
		},
	}
}
