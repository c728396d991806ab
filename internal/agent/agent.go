// Package agent runs the LLM orchestration loop and turns each exchange
// into an ordered transcript of tool calls, tool results, and the final
// answer.
//
// The agent is stateless: conversation history lives with the caller and
// is passed into Execute, which returns the updated history alongside the
// transcript. All configuration is captured immutably at construction, so
// an Agent is safe for concurrent use.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/vento0/vento/internal/log"
)

// ErrExecutionFailed indicates the orchestration loop failed. Callers log
// the wrapped detail and show the user a generic notice.
var ErrExecutionFailed = errors.New("execution failed")

// fallbackAnswer is shown when the model produces neither text nor tool
// requests.
const fallbackAnswer = "I'm sorry, I couldn't generate a response. Please try rephrasing your question."

// systemPrompt frames the assistant for weather and trip planning.
const systemPrompt = `You are a weather and trip-planning assistant. ` +
	`Use the weather tools to get real conditions and forecasts, and the travel tools ` +
	`to suggest activities, restaurants, itineraries, and tips based on that weather. ` +
	`Get the weather first when a request depends on it. Answer in the user's language.`

// Config contains the required parameters for the agent.
type Config struct {
	Genkit *genkit.Genkit
	Logger log.Logger
	Tools  []ai.ToolRef // Imported MCP tools, already registered with Genkit

	ModelName string // Provider-qualified model name (e.g. "googleai/gemini-2.5-flash")
	MaxTurns  int    // Maximum agentic loop turns

	// RateLimiter caps outbound LLM requests (nil = use default).
	RateLimiter *rate.Limiter

	// GenerationConfig is passed through to the model provider as-is,
	// e.g. *genai.GenerateContentConfig for googleai models. Nil omits it.
	GenerationConfig any
}

func (cfg Config) validate() error {
	if cfg.Genkit == nil {
		return errors.New("genkit instance is required")
	}
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	if len(cfg.Tools) == 0 {
		return errors.New("at least one tool is required")
	}
	if cfg.ModelName == "" {
		return errors.New("model name is required")
	}
	return nil
}

// Agent drives the agentic loop for one configured model.
type Agent struct {
	g           *genkit.Genkit
	logger      log.Logger
	modelName   string
	maxTurns    int
	rateLimiter *rate.Limiter
	genConfig   any

	// Cached at construction
	toolRefs  []ai.ToolRef
	toolNames string
}

// New creates an agent from the given configuration.
func New(cfg Config) (*Agent, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	maxTurns := cfg.MaxTurns
	if maxTurns <= 0 {
		maxTurns = 5
	}

	// Default: 10 requests/sec sustained, burst of 30.
	rl := cfg.RateLimiter
	if rl == nil {
		rl = rate.NewLimiter(10, 30)
	}

	names := make([]string, len(cfg.Tools))
	for i, t := range cfg.Tools {
		names[i] = t.Name()
	}

	a := &Agent{
		g:           cfg.Genkit,
		logger:      cfg.Logger.With("component", "agent"),
		modelName:   cfg.ModelName,
		maxTurns:    maxTurns,
		rateLimiter: rl,
		genConfig:   cfg.GenerationConfig,
		toolRefs:    cfg.Tools,
		toolNames:   strings.Join(names, ", "),
	}

	a.logger.Info("agent initialized",
		"model", a.modelName,
		"tools", len(a.toolRefs),
		"maxTurns", a.maxTurns,
	)

	return a, nil
}

// ModelName returns the provider-qualified model the agent is bound to.
func (a *Agent) ModelName() string { return a.modelName }

// Execute runs one exchange: the user message plus prior history go to the
// model, tools run inside the loop, and the generated messages become an
// ordered transcript. Returns the turn record and the updated history for
// the session to carry forward.
//
// The history slice is never mutated; Genkit requires message copies it
// can own, and the caller keeps the originals.
func (a *Agent) Execute(ctx context.Context, history []*ai.Message, userMessage string) (*Turn, []*ai.Message, error) {
	if err := a.rateLimiter.Wait(ctx); err != nil {
		return nil, nil, fmt.Errorf("%w: rate limit wait: %w", ErrExecutionFailed, err)
	}

	messages := deepCopyMessages(history)
	messages = append(messages, ai.NewUserMessage(ai.NewTextPart(userMessage)))
	inputLen := len(messages)

	a.logger.Debug("executing agent",
		"model", a.modelName,
		"tools", a.toolNames,
		"historyLength", len(history),
		"queryLength", len(userMessage),
	)

	opts := []ai.GenerateOption{
		ai.WithSystem(systemPrompt),
		ai.WithMessages(messages...),
		ai.WithTools(a.toolRefs...),
		ai.WithMaxTurns(a.maxTurns),
		ai.WithModelName(a.modelName),
	}
	if a.genConfig != nil {
		opts = append(opts, ai.WithConfig(a.genConfig))
	}

	resp, err := genkit.Generate(ctx, a.g, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrExecutionFailed, err)
	}

	// Everything past the input is what this turn generated: the model's
	// tool requests, the tool responses, and the final model message.
	full := resp.History()
	var generated []*ai.Message
	if len(full) > inputLen {
		generated = full[inputLen:]
	}

	events := transcriptEvents(generated)
	used := toolNames(events)

	answer := strings.TrimSpace(resp.Text())
	if answer == "" && len(used) == 0 {
		a.logger.Warn("model returned empty response with no tool requests")
		answer = fallbackAnswer
	}
	events = append(events, Event{Kind: KindFinalAnswer, Text: answer})

	turn := &Turn{
		ID:          uuid.New(),
		Timestamp:   time.Now(),
		UserMessage: userMessage,
		Events:      events,
		FinalAnswer: answer,
		ToolsUsed:   used,
	}

	a.logger.Debug("agent turn complete",
		"turn_id", turn.ID,
		"chain", summarize(events),
		"answerLength", len(answer),
	)

	// The session history keeps only the user/answer pair; intermediate
	// tool traffic stays in the transcript.
	updated := make([]*ai.Message, 0, len(history)+2)
	updated = append(updated, history...)
	updated = append(updated,
		ai.NewUserMessage(ai.NewTextPart(userMessage)),
		ai.NewModelMessage(ai.NewTextPart(answer)),
	)

	return turn, updated, nil
}

// deepCopyMessages creates independent copies of Message and Part structs.
// Genkit's renderMessages() modifies msg.Content in-place, so shared
// message objects race under concurrent executions.
func deepCopyMessages(msgs []*ai.Message) []*ai.Message {
	if msgs == nil {
		return nil
	}
	copied := make([]*ai.Message, len(msgs))
	for i, msg := range msgs {
		parts := make([]*ai.Part, len(msg.Content))
		for j, part := range msg.Content {
			parts[j] = deepCopyPart(part)
		}
		copied[i] = &ai.Message{
			Role:     msg.Role,
			Content:  parts,
			Metadata: shallowCopyMap(msg.Metadata),
		}
	}
	return copied
}

// deepCopyPart copies one part. ToolRequest.Input and ToolResponse.Output
// are copied by reference: Genkit only mutates the Content slice, not the
// tool payloads.
func deepCopyPart(p *ai.Part) *ai.Part {
	if p == nil {
		return nil
	}
	cp := &ai.Part{
		Kind:        p.Kind,
		ContentType: p.ContentType,
		Text:        p.Text,
		Custom:      shallowCopyMap(p.Custom),
		Metadata:    shallowCopyMap(p.Metadata),
	}
	if p.ToolRequest != nil {
		cp.ToolRequest = &ai.ToolRequest{
			Input: p.ToolRequest.Input,
			Name:  p.ToolRequest.Name,
			Ref:   p.ToolRequest.Ref,
		}
	}
	if p.ToolResponse != nil {
		cp.ToolResponse = &ai.ToolResponse{
			Name:   p.ToolResponse.Name,
			Output: p.ToolResponse.Output,
			Ref:    p.ToolResponse.Ref,
		}
	}
	return cp
}

func shallowCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	cp := make(map[string]any, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}
