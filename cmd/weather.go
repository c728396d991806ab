package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vento0/vento/internal/app"
	"github.com/vento0/vento/internal/config"
	"github.com/vento0/vento/internal/mcpserver"
	"github.com/vento0/vento/internal/weather"
)

// runWeatherServer starts the weather tool server on stdio. A missing
// API key does not prevent startup; each affected tool call reports it.
func runWeatherServer() error {
	logger := initLogger()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client, err := weather.NewClient(weather.Config{
		APIKey:  cfg.WeatherAPIKey,
		BaseURL: cfg.WeatherBaseURL,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("creating weather client: %w", err)
	}

	srv, err := mcpserver.New(mcpserver.Config{
		Name:     "vento-weather",
		Version:  app.Version,
		Registry: weather.Registry(client, logger),
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("creating weather MCP server: %w", err)
	}

	logger.Info("weather MCP server ready", "version", app.Version, "transport", "stdio")
	if err := srv.Run(ctx, &mcpsdk.StdioTransport{}); err != nil {
		return fmt.Errorf("weather MCP server: %w", err)
	}
	logger.Info("weather MCP server shut down")
	return nil
}
