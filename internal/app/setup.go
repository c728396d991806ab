package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/compat_oai/openai"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/firebase/genkit/go/plugins/mcp"
	"github.com/firebase/genkit/go/plugins/ollama"
	"google.golang.org/genai"

	"github.com/vento0/vento/internal/agent"
	"github.com/vento0/vento/internal/config"
	"github.com/vento0/vento/internal/log"
)

// Setup creates and initializes the application. On failure everything
// already initialized is released before returning.
func Setup(ctx context.Context, cfg *config.Config, logger log.Logger) (_ *App, retErr error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	a := &App{
		Config: cfg,
		logger: logger.With("component", "app"),
	}

	defer func() {
		if retErr != nil {
			if err := a.Close(); err != nil {
				a.logger.Warn("cleanup during setup failure", "error", err)
			}
		}
	}()

	if err := a.initProvider(ctx); err != nil {
		return nil, err
	}
	if err := a.connectToolServers(ctx); err != nil {
		return nil, err
	}
	if err := a.buildAgent(); err != nil {
		return nil, err
	}

	return a, nil
}

// initProvider initializes Genkit with the configured AI provider plugin.
// Supports gemini (default), ollama, and openai.
func (a *App) initProvider(ctx context.Context) error {
	cfg := a.Config
	a.ollamaPlugin = nil

	switch cfg.Provider {
	case config.ProviderOllama:
		plugin := &ollama.Ollama{ServerAddress: cfg.OllamaHost}
		g := genkit.Init(ctx, genkit.WithPlugins(plugin))
		if g == nil {
			return errors.New("initializing genkit with ollama provider")
		}
		// Ollama has no model auto-discovery.
		plugin.DefineModel(g, ollama.ModelDefinition{
			Name: cfg.ModelName,
			Type: "chat",
		}, nil)
		a.Genkit = g
		a.ollamaPlugin = plugin
		a.logger.Info("initialized genkit with ollama provider",
			"model", cfg.ModelName, "host", cfg.OllamaHost)

	case config.ProviderOpenAI:
		g := genkit.Init(ctx, genkit.WithPlugins(&openai.OpenAI{}))
		if g == nil {
			return errors.New("initializing genkit with openai provider")
		}
		a.Genkit = g
		a.logger.Info("initialized genkit with openai provider", "model", cfg.ModelName)

	default: // gemini
		g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
		if g == nil {
			return errors.New("initializing genkit with gemini provider")
		}
		a.Genkit = g
		a.logger.Info("initialized genkit with gemini provider", "model", cfg.ModelName)
	}

	return nil
}

// connectToolServers spawns the weather and travel MCP servers and
// imports their tools. By default both run as subcommands of this binary.
func (a *App) connectToolServers(ctx context.Context) error {
	weatherCmd, weatherArgs, err := resolveLauncher(a.Config.WeatherServer)
	if err != nil {
		return fmt.Errorf("resolving weather server command: %w", err)
	}
	travelCmd, travelArgs, err := resolveLauncher(a.Config.TravelServer)
	if err != nil {
		return fmt.Errorf("resolving travel server command: %w", err)
	}

	// The weather server reads its credential from the environment; an
	// absent key still starts the server and degrades per call.
	var weatherEnv []string
	if a.Config.WeatherAPIKey != "" {
		weatherEnv = []string{"WEATHERAPI_KEY=" + a.Config.WeatherAPIKey}
	}

	host, err := mcp.NewMCPHost(a.Genkit, mcp.MCPHostOptions{
		Name:    "vento",
		Version: Version,
		MCPServers: []mcp.MCPServerConfig{
			{
				Name: weatherServerName,
				Config: mcp.MCPClientOptions{
					Name: weatherServerName,
					Stdio: &mcp.StdioConfig{
						Command: weatherCmd,
						Args:    weatherArgs,
						Env:     weatherEnv,
					},
				},
			},
			{
				Name: travelServerName,
				Config: mcp.MCPClientOptions{
					Name: travelServerName,
					Stdio: &mcp.StdioConfig{
						Command: travelCmd,
						Args:    travelArgs,
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("creating MCP host: %w", err)
	}
	a.host = host
	a.serverNames = []string{weatherServerName, travelServerName}

	tools, err := host.GetActiveTools(ctx, a.Genkit)
	if err != nil {
		return fmt.Errorf("importing MCP tools: %w", err)
	}
	if len(tools) == 0 {
		return errors.New("tool servers exposed no tools")
	}

	refs := make([]ai.ToolRef, len(tools))
	names := make([]string, len(tools))
	for i, t := range tools {
		refs[i] = t
		names[i] = t.Name()
	}
	a.Tools = refs
	a.logger.Info("imported MCP tools", "count", len(refs), "tools", names)
	return nil
}

// buildAgent constructs the agent from the current binding and tool set.
func (a *App) buildAgent() error {
	// Generation config is provider-specific; only googleai models take
	// the genai payload.
	var genConfig any
	if a.Config.Provider == config.ProviderGemini {
		genConfig = &genai.GenerateContentConfig{
			Temperature: genai.Ptr(a.Config.Temperature),
		}
	}

	ag, err := agent.New(agent.Config{
		Genkit:           a.Genkit,
		Logger:           a.logger,
		Tools:            a.Tools,
		ModelName:        a.Config.FullModelName(),
		MaxTurns:         a.Config.MaxTurns,
		GenerationConfig: genConfig,
	})
	if err != nil {
		return fmt.Errorf("creating agent: %w", err)
	}
	a.Agent = ag
	return nil
}

// resolveLauncher turns a tool server launch config into a command line.
// An empty command means this binary itself, with Args as the subcommand.
func resolveLauncher(cfg config.MCPServerConfig) (string, []string, error) {
	if cfg.Command != "" {
		return cfg.Command, cfg.Args, nil
	}
	if len(cfg.Args) == 0 {
		return "", nil, errors.New("no command and no subcommand configured")
	}
	exe, err := os.Executable()
	if err != nil {
		return "", nil, fmt.Errorf("locating own executable: %w", err)
	}
	return exe, cfg.Args, nil
}
