package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bizpulse/bizpulse/internal/insights"
)

func newGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Trigger insight generation and wait for results",
		Long: `Trigger asynchronous insight generation on the backend and poll until
insights appear or the polling budget runs out. Requires a connected
accounting data source.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			return runGenerate(cmd.Context(), app)
		},
	}
}

func runGenerate(ctx context.Context, app *app) error {
	err := app.poller.Start(ctx)
	if errors.Is(err, insights.ErrConnectionRequired) {
		fmt.Println("Your accounting data source is not connected.")
		if connect, cerr := app.client.GetXeroConnectURL(ctx); cerr == nil {
			fmt.Printf("Connect Xero here: %s\n", connect.AuthorizationURL)
		}
		return err
	}
	if err != nil {
		return err
	}

	fmt.Println("Generating insights...")
	outcome := app.poller.Wait()
	app.registry.PollCycles.WithLabelValues(string(outcome)).Inc()
	app.registry.SetDataQuality(string(app.poller.Quality()))

	switch outcome {
	case insights.OutcomeCompleted:
		snap := app.manager.Snapshot()
		count := 0
		if snap != nil {
			count = len(snap.Insights)
		}
		fmt.Printf("Done: %d insights generated. Data quality: %s\n", count, app.poller.Quality())
		return nil
	case insights.OutcomeTimedOut:
		fmt.Println("Generation is taking longer than expected; check back shortly.")
		return nil
	case insights.OutcomeCanceled:
		fmt.Println("Generation canceled.")
		return nil
	default:
		return fmt.Errorf("generation ended with outcome %q", outcome)
	}
}
