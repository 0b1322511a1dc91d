package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bizpulse/bizpulse/internal/api"
)

// AI provider settings are a sibling feature riding the same HTTP client
// contract as the core insight surface.
func newProviderCmd() *cobra.Command {
	providerCmd := &cobra.Command{
		Use:   "provider",
		Short: "Manage the generation backend's AI provider settings",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the current provider settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			s, err := app.client.GetAIProvider(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("provider: %s\nmodel: %s\ntemperature: %.2f\ntop_p: %.2f\n",
				s.Provider, s.Model, s.Temperature, s.TopP)
			return nil
		},
	}

	var (
		provider    string
		model       string
		apiKey      string
		temperature float64
		topP        float64
	)
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Replace the provider settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			s := api.AIProviderSettings{
				Provider:    provider,
				Model:       model,
				APIKey:      apiKey,
				Temperature: temperature,
				TopP:        topP,
			}
			if err := app.client.PutAIProvider(cmd.Context(), s); err != nil {
				return err
			}
			fmt.Println("Provider settings updated")
			return nil
		},
	}
	setCmd.Flags().StringVar(&provider, "provider", "", "provider name")
	setCmd.Flags().StringVar(&model, "model", "", "model identifier")
	setCmd.Flags().StringVar(&apiKey, "api-key", "", "provider API key")
	setCmd.Flags().Float64Var(&temperature, "temperature", 0.7, "sampling temperature")
	setCmd.Flags().Float64Var(&topP, "top-p", 1.0, "nucleus sampling top_p")
	_ = setCmd.MarkFlagRequired("provider")
	_ = setCmd.MarkFlagRequired("model")

	testCmd := &cobra.Command{
		Use:   "test",
		Short: "Test provider connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			res, err := app.client.TestAIProvider(cmd.Context())
			if err != nil {
				return err
			}
			if res.Success {
				fmt.Printf("Provider OK: %s\n", res.Message)
			} else {
				fmt.Printf("Provider test failed: %s\n", res.Message)
			}
			return nil
		},
	}

	providerCmd.AddCommand(showCmd, setCmd, testCmd)
	return providerCmd
}
