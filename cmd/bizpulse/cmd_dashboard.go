package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bizpulse/bizpulse/internal/insights"
	"github.com/bizpulse/bizpulse/internal/score"
)

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the business health dashboard",
		Long:  "Fetch the current insight snapshot and render the health score, attention buckets and upcoming commitments.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			return runDashboard(cmd.Context(), app)
		},
	}
}

func runDashboard(ctx context.Context, app *app) error {
	if err := app.manager.Fetch(ctx); err != nil {
		return err
	}
	snap := app.manager.Snapshot()

	if snap == nil || len(snap.Insights) == 0 {
		fmt.Println("No insights yet. Run 'bizpulse generate' to get started.")
		return nil
	}

	value := score.HeuristicScoreFromSnapshot(snap)
	app.registry.SetHealthScore(value)
	quality := insights.Classify(snap)
	app.registry.SetDataQuality(string(quality))

	fmt.Println("YOUR BUSINESS TODAY")
	fmt.Printf("Last updated: %s   Data quality: %s\n\n", formatDate(snap.CalculatedAt), quality)

	fmt.Printf("BUSINESS HEALTH SCORE  %d/100  [%s]\n", value, score.HealthStatus(value))
	fmt.Println(score.HealthNarrative(value))
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, b := range score.Breakdown(snap) {
		fmt.Fprintf(w, "%s\t%d\t%s\n", b.Name, b.Score, trendArrow(b.Trend))
	}
	w.Flush()
	fmt.Println()

	if watch := app.manager.Watch(); len(watch) > 0 {
		fmt.Println("WHAT NEEDS YOUR ATTENTION")
		for _, i := range watch {
			fmt.Printf("  %s\n    %s\n", insightLine(i), i.Summary)
		}
		fmt.Println()
	}

	if ok := app.manager.OK(); len(ok) > 0 {
		fmt.Println("ALSO WORTH KNOWING")
		for _, i := range ok {
			fmt.Printf("  %s\n", insightLine(i))
		}
		fmt.Println()
	}

	if uc := snap.UpcomingCommitments; uc != nil && len(uc.LargeUpcomingBills) > 0 {
		fmt.Println("COMING UP")
		bills := uc.LargeUpcomingBills
		if len(bills) > 3 {
			bills = bills[:3]
		}
		for _, bill := range bills {
			label := bill.Label
			if label == "" {
				label = "Payment"
			}
			fmt.Printf("  %s due %s: $%.2f\n", label, bill.DueDate.Format("Jan 2"), bill.Amount)
		}
		fmt.Println()
	}

	if resolved := app.manager.Resolved(); len(resolved) > 0 {
		fmt.Println("RESOLVED")
		for _, i := range resolved {
			fmt.Printf("  ✓ %s (%s)\n", i.Title, i.GeneratedAt.Format("Jan 2"))
		}
		fmt.Println()
	}

	if s, err := app.settings.Get(ctx); err == nil && s != nil && s.XeroIntegration.IsConnected {
		fmt.Printf("Connected to Xero · Read-only · Synced %s\n", formatDate(snap.CalculatedAt))
	}
	return nil
}
