// Package cmd contains the command line entry points: the interactive
// chat, both MCP tool servers, and version/help output.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/vento0/vento/internal/log"
)

// Execute routes the process to a subcommand. With no arguments the
// interactive chat starts.
func Execute() error {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version", "--version", "-v":
			printVersion()
			return nil
		case "help", "--help", "-h":
			printHelp()
			return nil
		case "cli":
			return runCLI()
		case "weather-mcp":
			return runWeatherServer()
		case "travel-mcp":
			return runTravelServer()
		default:
			printHelp()
			return fmt.Errorf("unknown command %q", os.Args[1])
		}
	}
	return runCLI()
}

// initLogger builds the process logger. MCP subcommands reserve stdout
// for JSON-RPC, so everything logs to stderr.
func initLogger() log.Logger {
	cfg := log.Config{Level: slog.LevelInfo}
	if os.Getenv("DEBUG") != "" {
		cfg.Level = slog.LevelDebug
		cfg.AddSource = true
	}

	logger := log.New(cfg)
	slog.SetDefault(logger)
	return logger
}

func printHelp() {
	fmt.Print(`vento - weather-aware trip planning assistant

Usage:
  vento [command]

Commands:
  cli          Start the interactive chat (default)
  weather-mcp  Run the weather tool server on stdio
  travel-mcp   Run the travel tool server on stdio
  version      Print version information
  help         Print this help

Environment:
  GEMINI_API_KEY   credential for the default gemini provider
  WEATHERAPI_KEY   credential for WeatherAPI.com (weather tools degrade without it)
  VENTO_PROVIDER   AI provider override (gemini, ollama, openai)
  VENTO_MODEL_NAME model override
  DEBUG            enable debug logging
`)
}
