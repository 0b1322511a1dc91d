package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// runMenu is the interactive entry point when bizpulse runs on a TTY.
func runMenu(ctx context.Context, app *app) error {
	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Println()
		fmt.Println("BizPulse - business health insights")
		fmt.Println("  1. Dashboard")
		fmt.Println("  2. All insights")
		fmt.Println("  3. Generate insights")
		fmt.Println("  4. Health score details")
		fmt.Println("  0. Exit")
		fmt.Print("> ")

		line, err := reader.ReadString('\n')
		if err != nil {
			return nil
		}

		switch strings.TrimSpace(line) {
		case "1":
			err = runDashboard(ctx, app)
		case "2":
			err = runInsightsList(ctx, app, 1, "all", "all")
		case "3":
			err = runGenerate(ctx, app)
		case "4":
			err = runHealthScore(ctx, app)
		case "0", "q", "exit":
			return nil
		default:
			continue
		}
		if err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}
}
