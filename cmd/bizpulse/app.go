package main

import (
	"github.com/bizpulse/bizpulse/internal/api"
	"github.com/bizpulse/bizpulse/internal/config"
	"github.com/bizpulse/bizpulse/internal/insights"
	"github.com/bizpulse/bizpulse/internal/metrics"
	"github.com/bizpulse/bizpulse/internal/settings"
)

// app wires the client, stores and poller together for the CLI commands.
type app struct {
	cfg      config.Config
	client   *api.Client
	manager  *insights.Manager
	settings *settings.Store
	poller   *insights.Poller
	registry *metrics.Registry
}

func newApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	applyLogLevel(cfg.Log.Level)

	registry := metrics.NewRegistry()

	client := api.NewClient(api.Config{
		BaseURL:         cfg.API.BaseURL,
		AuthToken:       cfg.API.AuthToken,
		RequestTimeout:  cfg.API.RequestTimeout.Std(),
		RateLimitRPS:    cfg.API.RateLimitRPS,
		RateLimitBurst:  cfg.API.RateLimitBurst,
		BreakerFailures: cfg.API.BreakerFailures,
		BreakerTimeout:  cfg.API.BreakerTimeout.Std(),
	})
	client.SetMetricsCallback(registry.ObserveAPIRequest)

	manager := insights.NewManager(client)
	manager.SetMetricsCallback(registry.ObserveMutation)

	settingsStore := settings.NewStore(client, cfg.Cache.SettingsTTL.Std())
	settingsStore.SetObserver(registry.ObserveCache)

	poller := insights.NewPoller(client, settingsStore, manager.Adopt, insights.PollerConfig{
		Interval: cfg.Polling.Interval.Std(),
		Timeout:  cfg.Polling.Timeout.Std(),
	})

	return &app{
		cfg:      cfg,
		client:   client,
		manager:  manager,
		settings: settingsStore,
		poller:   poller,
		registry: registry,
	}, nil
}
