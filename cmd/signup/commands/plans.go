package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/lusoconnect/onboarding/internal/client"
	"github.com/lusoconnect/onboarding/internal/pricing"
	"github.com/lusoconnect/onboarding/internal/terminal"
)

// Plans returns the command that prints membership prices.
func Plans() *cobra.Command {
	var server, cycle string
	var offline bool

	cmd := &cobra.Command{
		Use:   "plans",
		Short: "Show membership plans and prices",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := pricing.ParseCycle(cycle)
			if err != nil {
				return err
			}
			offers, err := listOffers(cmd.Context(), server, c, offline)
			if err != nil {
				return err
			}
			terminal.NewRenderer(cmd.OutOrStdout(), nil).Offers(c, offers)
			return nil
		},
	}

	cmd.Flags().StringVarP(&server, "server", "s", defaultServer, "Onboarding API base URL")
	cmd.Flags().StringVar(&cycle, "cycle", string(pricing.CycleMonthly), "Billing cycle (monthly or annual)")
	cmd.Flags().BoolVar(&offline, "offline", false, "Use the built-in price list instead of asking the server")

	return cmd
}

func listOffers(ctx context.Context, server string, cycle pricing.Cycle, offline bool) ([]pricing.Offer, error) {
	if offline {
		return pricing.NewResolver(pricing.Overrides{}).Catalog(cycle)
	}
	c, err := client.New(server, client.WithTimeout(5*time.Second))
	if err != nil {
		return nil, err
	}
	return c.Plans(ctx, cycle)
}
