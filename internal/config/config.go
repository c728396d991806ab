// Package config provides application configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (~/.vento/config.yaml)
//  3. Default values
//
// Main configuration categories:
//   - AI: provider and model selection, agentic loop bounds
//   - Weather: WeatherAPI.com credential and base URL
//   - Typing: pacing of the simulated-typing output stream
//   - MCP: commands used to launch the two tool servers
//
// Security: the weather API key is never logged; MarshalJSON masks it.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	// ErrInvalidProvider indicates the AI provider is not supported.
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrInvalidModelName indicates the model name is invalid.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidMaxTurns indicates the agentic loop bound is out of range.
	ErrInvalidMaxTurns = errors.New("invalid max turns")

	// ErrInvalidTemperature indicates the temperature value is out of range.
	ErrInvalidTemperature = errors.New("invalid temperature")

	// ErrInvalidWeatherBaseURL indicates the weather API base URL is empty.
	ErrInvalidWeatherBaseURL = errors.New("invalid weather base URL")

	// ErrInvalidPreviewLimit indicates the tool-result preview limit is not positive.
	ErrInvalidPreviewLimit = errors.New("invalid preview limit")

	// ErrInvalidDelay indicates a typing delay is negative.
	ErrInvalidDelay = errors.New("invalid typing delay")
)

// AI provider identifiers used in Config.Provider.
const (
	ProviderGemini   = "gemini"
	ProviderOllama   = "ollama"
	ProviderOpenAI   = "openai"
	ProviderGoogleAI = "googleai"
)

// DefaultWeatherBaseURL is the WeatherAPI.com v1 endpoint root.
const DefaultWeatherBaseURL = "http://api.weatherapi.com/v1"

// TypingConfig controls the pacing of simulated-typing output.
// Zero delays disable pacing entirely; tests rely on that.
type TypingConfig struct {
	ArgDelayMs    int `mapstructure:"arg_delay_ms" json:"arg_delay_ms"`       // per-character delay for tool-call arguments
	ResultDelayMs int `mapstructure:"result_delay_ms" json:"result_delay_ms"` // per-character delay for short tool results
	AnswerDelayMs int `mapstructure:"answer_delay_ms" json:"answer_delay_ms"` // per-character delay for the final answer
	PreviewLimit  int `mapstructure:"preview_limit" json:"preview_limit"`     // inline tool-result length threshold
}

// ArgDelay returns the tool-argument typing delay as a duration.
func (t TypingConfig) ArgDelay() time.Duration { return time.Duration(t.ArgDelayMs) * time.Millisecond }

// ResultDelay returns the tool-result typing delay as a duration.
func (t TypingConfig) ResultDelay() time.Duration {
	return time.Duration(t.ResultDelayMs) * time.Millisecond
}

// AnswerDelay returns the final-answer typing delay as a duration.
func (t TypingConfig) AnswerDelay() time.Duration {
	return time.Duration(t.AnswerDelayMs) * time.Millisecond
}

// MCPServerConfig names the command used to launch one stdio tool server.
// An empty Command means "this binary" with Args as the subcommand.
type MCPServerConfig struct {
	Command string   `mapstructure:"command" json:"command"`
	Args    []string `mapstructure:"args" json:"args"`
}

// Config stores application configuration.
// SECURITY: sensitive fields are explicitly masked in MarshalJSON().
type Config struct {
	// AI provider and model configuration
	Provider  string `mapstructure:"provider" json:"provider"`     // "gemini" (default), "ollama", "openai"
	ModelName string `mapstructure:"model_name" json:"model_name"` // e.g. "gemini-2.5-flash", "llama3.3", "gpt-4o"
	Language  string `mapstructure:"language" json:"language"`
	MaxTurns  int    `mapstructure:"max_turns" json:"max_turns"`

	// Temperature: 0.0 (deterministic) to 2.0 (creative)
	Temperature float32 `mapstructure:"temperature" json:"temperature"`

	// Ollama configuration (only used when provider is "ollama")
	OllamaHost string `mapstructure:"ollama_host" json:"ollama_host"`

	// Weather provider configuration
	WeatherAPIKey  string `mapstructure:"weather_api_key" json:"weather_api_key"` // SENSITIVE: masked in MarshalJSON
	WeatherBaseURL string `mapstructure:"weather_base_url" json:"weather_base_url"`

	// Output pacing
	Typing TypingConfig `mapstructure:"typing" json:"typing"`

	// Tool server launch configuration
	WeatherServer MCPServerConfig `mapstructure:"weather_server" json:"weather_server"`
	TravelServer  MCPServerConfig `mapstructure:"travel_server" json:"travel_server"`
}

// Load loads configuration.
// Priority: environment variables > configuration file > default values.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".vento")
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".") // also support current directory

	setDefaults()
	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is not an error; defaults apply.
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_paths", []string{configDir, "."})
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults() {
	viper.SetDefault("provider", ProviderGemini)
	viper.SetDefault("model_name", "gemini-2.5-flash")
	viper.SetDefault("language", "auto")
	viper.SetDefault("max_turns", 5)
	viper.SetDefault("temperature", 0.7)

	viper.SetDefault("ollama_host", "http://localhost:11434")

	viper.SetDefault("weather_base_url", DefaultWeatherBaseURL)

	// Typing defaults match the original product behavior: 5ms argument
	// typing, 10ms result/answer typing, 200-character inline preview.
	viper.SetDefault("typing.arg_delay_ms", 5)
	viper.SetDefault("typing.result_delay_ms", 10)
	viper.SetDefault("typing.answer_delay_ms", 10)
	viper.SetDefault("typing.preview_limit", 200)

	// Empty command means self-exec with the given subcommand.
	viper.SetDefault("weather_server.args", []string{"weather-mcp"})
	viper.SetDefault("travel_server.args", []string{"travel-mcp"})
}

// bindEnvVariables binds environment variables explicitly.
//
//	WEATHERAPI_KEY     - WeatherAPI.com credential (absence degrades weather tools, not startup)
//	VENTO_PROVIDER     - AI provider override
//	VENTO_MODEL_NAME   - model override
//	VENTO_OLLAMA_HOST  - ollama server override
//
// GEMINI_API_KEY and OPENAI_API_KEY are read directly by the Genkit
// provider plugins, not via Viper.
func bindEnvVariables() {
	mustBind := func(key, envVar string) {
		if err := viper.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("weather_api_key", "WEATHERAPI_KEY")
	mustBind("provider", "VENTO_PROVIDER")
	mustBind("model_name", "VENTO_MODEL_NAME")
	mustBind("ollama_host", "VENTO_OLLAMA_HOST")
}

// Validate checks configuration invariants (fail-fast at startup).
// The weather API key is deliberately NOT required here: its absence must
// degrade each weather tool call with an explanatory error, not prevent
// the process from starting.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGemini, ProviderOllama, ProviderOpenAI:
	default:
		return fmt.Errorf("%w: %q (want gemini, ollama, or openai)", ErrInvalidProvider, c.Provider)
	}

	if strings.TrimSpace(c.ModelName) == "" {
		return fmt.Errorf("%w: model name is empty", ErrInvalidModelName)
	}

	if c.MaxTurns < 1 || c.MaxTurns > 25 {
		return fmt.Errorf("%w: %d (want 1-25)", ErrInvalidMaxTurns, c.MaxTurns)
	}

	if c.Temperature < 0.0 || c.Temperature > 2.0 {
		return fmt.Errorf("%w: %.2f (want 0.0-2.0)", ErrInvalidTemperature, c.Temperature)
	}

	if strings.TrimSpace(c.WeatherBaseURL) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidWeatherBaseURL)
	}

	if c.Typing.PreviewLimit < 1 {
		return fmt.Errorf("%w: %d (want >= 1)", ErrInvalidPreviewLimit, c.Typing.PreviewLimit)
	}
	if c.Typing.ArgDelayMs < 0 || c.Typing.ResultDelayMs < 0 || c.Typing.AnswerDelayMs < 0 {
		return fmt.Errorf("%w: delays must be >= 0", ErrInvalidDelay)
	}

	return nil
}

// FullModelName returns the provider-qualified model name for Genkit.
// Examples: "googleai/gemini-2.5-flash", "ollama/llama3.3", "openai/gpt-4o".
// If ModelName already contains a "/", it is returned as-is.
func (c *Config) FullModelName() string {
	if strings.Contains(c.ModelName, "/") {
		return c.ModelName
	}
	switch c.Provider {
	case ProviderOllama:
		return ProviderOllama + "/" + c.ModelName
	case ProviderOpenAI:
		return ProviderOpenAI + "/" + c.ModelName
	default:
		return ProviderGoogleAI + "/" + c.ModelName
	}
}

// maskedValue is the placeholder for masked sensitive data.
const maskedValue = "████████"

// maskSecret masks a secret string for safe logging. Secrets of 8 chars or
// fewer are fully masked to prevent substring matching; longer secrets show
// the first and last 2 characters for debug utility.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return maskedValue
	}
	return s[:2] + "<" + maskedValue + ">" + s[len(s)-2:]
}

// MarshalJSON implements json.Marshaler with explicit sensitive field masking.
func (c Config) MarshalJSON() ([]byte, error) {
	type alias Config
	a := alias(c)
	a.WeatherAPIKey = maskSecret(a.WeatherAPIKey)
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// String implements Stringer to prevent accidental printing of secrets.
func (c Config) String() string {
	data, err := c.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("Config{error: %v}", err)
	}
	return string(data)
}
