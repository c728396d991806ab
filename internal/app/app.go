// Package app wires the application together: the Genkit instance for the
// configured AI provider, the MCP host that spawns both tool servers, and
// the agent that orchestrates them.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/mcp"
	"github.com/firebase/genkit/go/plugins/ollama"

	"github.com/vento0/vento/internal/agent"
	"github.com/vento0/vento/internal/config"
	"github.com/vento0/vento/internal/log"
)

// Version is the application version reported by the version subcommand
// and announced to MCP peers.
const Version = "0.1.0"

// MCP server names as registered with the host.
const (
	weatherServerName = "weather"
	travelServerName  = "travel"
)

// App is the application container. Build it with Setup; call Close to
// release the MCP server processes.
type App struct {
	Config *config.Config
	Genkit *genkit.Genkit
	Agent  *agent.Agent
	Tools  []ai.ToolRef

	logger       log.Logger
	host         *mcp.MCPHost
	serverNames  []string
	ollamaPlugin *ollama.Ollama
}

// Close disconnects the MCP tool servers. Safe to call after a failed
// Setup; only what was initialized is released.
func (a *App) Close() error {
	if a.host == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var firstErr error
	for _, name := range a.serverNames {
		if err := a.host.Disconnect(ctx, name); err != nil {
			a.logger.Warn("disconnecting tool server", "server", name, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("disconnecting %s: %w", name, err)
			}
		}
	}
	a.host = nil
	a.serverNames = nil
	return firstErr
}

// Rebind switches the provider/model binding and rebuilds the agent.
// A model change within the same provider reuses the running Genkit
// instance and tool servers; a provider change tears the stack down and
// reinitializes it.
func (a *App) Rebind(ctx context.Context, provider, model string) error {
	next := *a.Config
	next.Provider = provider
	next.ModelName = model
	if err := next.Validate(); err != nil {
		return err
	}

	if provider == a.Config.Provider {
		a.Config.ModelName = model
		// Ollama models are not auto-discovered; each one needs explicit
		// registration before first use.
		if a.ollamaPlugin != nil {
			a.ollamaPlugin.DefineModel(a.Genkit, ollama.ModelDefinition{
				Name: model,
				Type: "chat",
			}, nil)
		}
		return a.buildAgent()
	}

	if err := a.Close(); err != nil {
		a.logger.Warn("closing tool servers during rebind", "error", err)
	}
	a.Config.Provider = provider
	a.Config.ModelName = model

	if err := a.initProvider(ctx); err != nil {
		return err
	}
	if err := a.connectToolServers(ctx); err != nil {
		return err
	}
	return a.buildAgent()
}
