package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vento0/vento/internal/app"
	"github.com/vento0/vento/internal/mcpserver"
	"github.com/vento0/vento/internal/planner"
)

// runTravelServer starts the travel tool server on stdio. The planner is
// pure, so no configuration or credential is involved.
func runTravelServer() error {
	logger := initLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv, err := mcpserver.New(mcpserver.Config{
		Name:     "vento-travel",
		Version:  app.Version,
		Registry: planner.Registry(logger),
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("creating travel MCP server: %w", err)
	}

	logger.Info("travel MCP server ready", "version", app.Version, "transport", "stdio")
	if err := srv.Run(ctx, &mcpsdk.StdioTransport{}); err != nil {
		return fmt.Errorf("travel MCP server: %w", err)
	}
	logger.Info("travel MCP server shut down")
	return nil
}
