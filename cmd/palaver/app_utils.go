package main

import (
	"github.com/sbellin/palaver/src/app"
	"github.com/sbellin/palaver/src/config"
)

// buildApp loads configuration, applies CLI overrides, and assembles the
// application.
func buildApp(cli *CLI) (*app.App, error) {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return nil, err
	}
	if cli.APIKey != "" {
		cfg.Agent.APIKey = cli.APIKey
	}
	if cli.BaseURL != "" {
		cfg.Agent.BaseURL = cli.BaseURL
	}
	if cli.LogLevel != "" {
		cfg.LogLevel = cli.LogLevel
	}

	return app.New(cfg, app.Options{
		Logger: createLogger(cfg.LogLevel),
	})
}
