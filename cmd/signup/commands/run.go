package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/lusoconnect/onboarding/internal/client"
	"github.com/lusoconnect/onboarding/internal/pricing"
	"github.com/lusoconnect/onboarding/internal/terminal"
	"github.com/lusoconnect/onboarding/internal/wizard"
)

// newPrompter builds the interactive prompter; tests replace it.
var newPrompter = func(prices *pricing.Resolver) terminal.Prompter {
	return terminal.NewForms(prices)
}

type runOptions struct {
	server      string
	initialStep string
	timeout     time.Duration
}

// Run returns the command that walks the registration wizard.
func Run() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Register as a new member",
		Long: `Walk the eight registration steps interactively and submit the
finished registration to the onboarding API.

Answers are kept in memory only. A failed submission can be retried from the
last step; quitting discards everything.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWizard(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.server, "server", "s", defaultServer, "Onboarding API base URL")
	cmd.Flags().StringVar(&opts.initialStep, "initial-step", "welcome", "Step to start at (welcome, personal, heritage, interests, location, community, membership, complete)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Timeout for the registration request")

	return cmd
}

func runWizard(ctx context.Context, out io.Writer, opts runOptions) error {
	step, err := wizard.ParseStep(opts.initialStep)
	if err != nil {
		return err
	}
	sink, err := client.New(opts.server, client.WithTimeout(opts.timeout))
	if err != nil {
		return err
	}
	ctrl, err := wizard.Open(sink, wizard.WithInitialStep(step))
	if err != nil {
		return err
	}

	prices := pricing.NewResolver(pricing.Overrides{})
	driver := terminal.NewDriver(ctrl, newPrompter(prices), terminal.NewRenderer(out, prices))
	if _, err := driver.Run(ctx); err != nil {
		if errors.Is(err, terminal.ErrAborted) {
			fmt.Fprintln(out, "Registration cancelled. Nothing was saved.")
			return nil
		}
		return err
	}
	return nil
}
