package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bizpulse/bizpulse/internal/score"
)

func newHealthScoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "healthscore",
		Short: "Show the detailed scorecard breakdown",
		Long:  "Fetch the latest full scorecard snapshot and render categories, key drivers and what to fix first.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			return runHealthScore(cmd.Context(), app)
		},
	}
}

func runHealthScore(ctx context.Context, app *app) error {
	data, err := app.client.GetHealthScore(ctx)
	if err != nil {
		return err
	}

	summary := score.Aggregate(data)
	if summary == nil {
		fmt.Println("No health score data available yet.")
		return nil
	}
	app.registry.SetHealthScore(int(summary.FinalScore))

	fmt.Printf("BUSINESS HEALTH SCORE  %.0f/100  grade %s [%s]  %s confidence\n",
		summary.FinalScore, summary.Grade, summary.GradeLabel, summary.Confidence)
	fmt.Println(summary.GradeDescription)
	fmt.Println()

	fmt.Println("CATEGORY BREAKDOWN")
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, cat := range summary.Categories {
		fmt.Fprintf(w, "%s\t%s\t%.0f/%.0f\t%.0f%%\t%s\n",
			cat.CategoryID, cat.Name, cat.PointsAwarded, cat.MaxPoints, cat.Percent, trendArrow(cat.Trend))
	}
	w.Flush()
	fmt.Println()

	if len(summary.KeyNegative) > 0 || len(summary.KeyPositive) > 0 {
		fmt.Println("KEY DRIVERS")
		for _, d := range summary.KeyNegative {
			fmt.Printf("  ↓ %s (%.0f pts)\n", d.Label, d.ImpactPoints)
		}
		for _, d := range summary.KeyPositive {
			fmt.Printf("  ↑ %s (%.0f pts)\n", d.Label, d.ImpactPoints)
		}
		fmt.Println()
	}

	if len(summary.Warnings) > 0 {
		fmt.Printf("Data quality: %s\n\n", summary.Warnings[0])
	}

	if len(summary.FixFirst) > 0 {
		fmt.Println("WHAT TO FIX FIRST")
		for _, d := range summary.FixFirst {
			fmt.Printf("  %s\n    %s\n    Action: %s\n", d.Label, d.WhyItMatters, d.RecommendedAction)
		}
	}
	return nil
}
