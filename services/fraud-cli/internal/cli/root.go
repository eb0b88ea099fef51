package cli

import (
	"time"

	"github.com/nimeshabuddhika/fraud-prediction-api/services/fraud-cli/internal/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultAPIURL = "http://localhost:5000"

// NewRootCmd builds the fraudctl command tree. Settings resolve from flags, then
// API_BASE_URL / API_TIMEOUT, then defaults.
func NewRootCmd(version string) *cobra.Command {
	v := viper.New()
	root := &cobra.Command{
		Use:           "fraudctl",
		Short:         "Manual test client for the fraud prediction API",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("api-url", defaultAPIURL, "fraud API base URL")
	root.PersistentFlags().Duration("timeout", 5*time.Second, "per request timeout")
	_ = v.BindPFlag("api_url", root.PersistentFlags().Lookup("api-url"))
	_ = v.BindPFlag("timeout", root.PersistentFlags().Lookup("timeout"))
	_ = v.BindEnv("api_url", "API_BASE_URL")
	_ = v.BindEnv("timeout", "API_TIMEOUT")

	newClient := func() *client.Client {
		return client.New(v.GetString("api_url"), v.GetDuration("timeout"))
	}

	root.AddCommand(healthCmd(newClient))
	root.AddCommand(predictCmd(newClient))
	root.AddCommand(fraudsCmd(newClient))
	root.AddCommand(examplesCmd())
	return root
}
