package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/nimeshabuddhika/fraud-prediction-api/pkg/utils"
	"github.com/nimeshabuddhika/fraud-prediction-api/services/fraud-cli/internal/client"
	"github.com/spf13/cobra"
)

const (
	healthBaseDelay = 200 * time.Millisecond
	healthMaxDelay  = 5 * time.Second
)

func healthCmd(newClient func() *client.Client) *cobra.Command {
	var wait time.Duration
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check API health and model status",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := waitHealthy(cmd.Context(), newClient(), wait)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "status: %s\n", h.Status)
			fmt.Fprintf(out, "model_loaded: %t\n", h.ModelLoaded)
			if h.Model != nil {
				fmt.Fprintf(out, "model: %s %s (%s)\n", h.Model.Name, h.Model.Version, h.Model.Source)
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&wait, "wait", 0, "keep polling until the API is healthy or this much time has passed")
	return cmd
}

// waitHealthy polls /health with jittered exponential backoff until it answers or wait elapses.
func waitHealthy(ctx context.Context, c *client.Client, wait time.Duration) (client.Health, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	deadline := time.Now().Add(wait)
	for attempt := 1; ; attempt++ {
		h, err := c.Health(ctx)
		if err == nil || wait <= 0 {
			return h, err
		}
		delay := utils.CalculateExponentialBackoffWithJitter(attempt, healthBaseDelay, healthMaxDelay)
		if time.Now().Add(delay).After(deadline) {
			return h, fmt.Errorf("api not healthy after %s: %w", wait, err)
		}
		select {
		case <-ctx.Done():
			return h, ctx.Err()
		case <-time.After(delay):
		}
	}
}
