package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bizpulse/bizpulse/internal/api"
	"github.com/bizpulse/bizpulse/internal/insights"
)

func newInsightsCmd() *cobra.Command {
	insightsCmd := &cobra.Command{
		Use:   "insights",
		Short: "List and manage generated insights",
	}

	var (
		page     int
		severity string
		status   string
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List insights with severity and status filters",
		Long: `List insights. Severity filters page server-side; status filters the
fetched page client-side, so reported totals follow severity only.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			return runInsightsList(cmd.Context(), app, page, api.Severity(severity), insights.StatusFilter(status))
		},
	}
	listCmd.Flags().IntVar(&page, "page", 1, "page number")
	listCmd.Flags().StringVar(&severity, "severity", "all", "severity filter (all|high|medium|low)")
	listCmd.Flags().StringVar(&status, "status", "all", "status filter (all|active|resolved)")

	resolveCmd := &cobra.Command{
		Use:   "resolve <insight-id>",
		Short: "Mark an insight resolved (terminal)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.manager.Fetch(cmd.Context()); err != nil {
				return err
			}
			if err := app.manager.Resolve(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("Insight marked as resolved")
			return nil
		},
	}

	ackCmd := &cobra.Command{
		Use:   "ack <insight-id>",
		Short: "Acknowledge an insight",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.manager.Fetch(cmd.Context()); err != nil {
				return err
			}
			if err := app.manager.Acknowledge(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("Insight acknowledged")
			return nil
		},
	}

	var (
		helpful bool
		comment string
	)
	feedbackCmd := &cobra.Command{
		Use:   "feedback <insight-id>",
		Short: "Send helpfulness feedback for an insight",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.manager.Fetch(cmd.Context()); err != nil {
				return err
			}
			if err := app.manager.Feedback(cmd.Context(), args[0], helpful, comment); err != nil {
				return err
			}
			fmt.Println("Thank you for your feedback!")
			return nil
		},
	}
	feedbackCmd.Flags().BoolVar(&helpful, "helpful", true, "whether the insight was helpful")
	feedbackCmd.Flags().StringVar(&comment, "comment", "", "optional comment")

	insightsCmd.AddCommand(listCmd, resolveCmd, ackCmd, feedbackCmd)
	return insightsCmd
}

func runInsightsList(ctx context.Context, app *app, page int, severity api.Severity, status insights.StatusFilter) error {
	app.manager.SetStatusFilter(status)
	if err := app.manager.Query(ctx, page, severity); err != nil {
		return err
	}

	filtered := app.manager.Filtered()
	if pg := app.manager.Pagination(); pg != nil {
		fmt.Printf("%d insights total · page %d of %d\n\n", pg.Total, pg.Page, pg.TotalPages)
	}
	if len(filtered) == 0 {
		fmt.Println("No insights found.")
		return nil
	}
	for _, i := range filtered {
		fmt.Println(insightLine(i))
	}
	return nil
}
