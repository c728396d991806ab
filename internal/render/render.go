// Package render turns an agent transcript into paced console output:
// tool calls with their arguments typed out character by character, tool
// results inlined or collapsed to a preview, and the final answer streamed
// last.
//
// Pacing is injected configuration. Zero delays disable sleeping entirely,
// which is how tests run the renderer at full speed; the rendering and the
// pacing are otherwise the same code path.
package render

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vento0/vento/internal/agent"
	"github.com/vento0/vento/internal/log"
)

// DefaultPreviewLimit is the inline length threshold for tool results.
const DefaultPreviewLimit = 200

// Pacing holds the per-character typing delays for each output phase.
// A zero delay disables pacing for that phase.
type Pacing struct {
	ArgDelay    time.Duration // tool-call argument JSON
	ResultDelay time.Duration // short tool results
	AnswerDelay time.Duration // final answer
}

// DefaultPacing matches the interactive product behavior.
func DefaultPacing() Pacing {
	return Pacing{
		ArgDelay:    5 * time.Millisecond,
		ResultDelay: 10 * time.Millisecond,
		AnswerDelay: 10 * time.Millisecond,
	}
}

// Sink receives rendered output. Print receives small chunks (down to one
// character under pacing); Artifact receives the full text of a collapsed
// tool result, named after the tool.
type Sink interface {
	Print(s string) error
	Artifact(name, content string) error
}

// Config holds renderer construction parameters.
type Config struct {
	Sink   Sink
	Logger log.Logger
	Pacing Pacing

	// PreviewLimit caps inline tool results; longer results show the
	// first PreviewLimit characters plus "..." and go to an Artifact in
	// full. Zero means DefaultPreviewLimit.
	PreviewLimit int
}

// Renderer renders agent turns to a sink.
type Renderer struct {
	sink         Sink
	logger       log.Logger
	pacing       Pacing
	previewLimit int
}

// New creates a renderer.
func New(cfg Config) (*Renderer, error) {
	if cfg.Sink == nil {
		return nil, errors.New("sink is required")
	}
	if cfg.Logger == nil {
		return nil, errors.New("logger is required")
	}
	limit := cfg.PreviewLimit
	if limit <= 0 {
		limit = DefaultPreviewLimit
	}
	return &Renderer{
		sink:         cfg.Sink,
		logger:       cfg.Logger.With("component", "render"),
		pacing:       cfg.Pacing,
		previewLimit: limit,
	}, nil
}

// Render walks the turn's transcript in order: each tool call, its
// result, then the final answer. Rendering is cancellable at every
// character; on cancellation the error is returned and the caller must
// treat the turn as not rendered.
func (r *Renderer) Render(ctx context.Context, turn *agent.Turn) error {
	if turn == nil {
		return errors.New("nil turn")
	}

	sawFinal := false
	for _, e := range turn.Events {
		if sawFinal {
			return fmt.Errorf("malformed transcript: event after final answer")
		}
		switch e.Kind {
		case agent.KindToolCall:
			if err := r.renderToolCall(ctx, e); err != nil {
				return err
			}
		case agent.KindToolResult:
			if err := r.renderToolResult(ctx, e); err != nil {
				return err
			}
		case agent.KindFinalAnswer:
			sawFinal = true
			if err := r.renderFinalAnswer(ctx, e); err != nil {
				return err
			}
		default:
			return fmt.Errorf("malformed transcript: unknown event kind %v", e.Kind)
		}
	}
	if !sawFinal {
		return fmt.Errorf("malformed transcript: no final answer")
	}
	return nil
}

func (r *Renderer) renderToolCall(ctx context.Context, e agent.Event) error {
	if err := r.print(fmt.Sprintf("\n🔧 **Calling tool: `%s`**\n\n```json\n", e.Tool)); err != nil {
		return err
	}
	if err := r.typeOut(ctx, agent.FormatArgs(e.Args), r.pacing.ArgDelay); err != nil {
		return err
	}
	return r.print("\n```\n\n")
}

func (r *Renderer) renderToolResult(ctx context.Context, e agent.Event) error {
	if err := r.print(fmt.Sprintf("📦 **Response from `%s`:**\n\n", e.Tool)); err != nil {
		return err
	}

	runes := []rune(e.Text)
	if len(runes) > r.previewLimit {
		preview := string(runes[:r.previewLimit]) + "..."
		if err := r.print(fmt.Sprintf("```\n%s\n```\n\n", preview)); err != nil {
			return err
		}
		if err := r.sink.Artifact("tool_response_"+e.Tool, e.Text); err != nil {
			return fmt.Errorf("writing artifact: %w", err)
		}
		r.logger.Debug("collapsed tool result", "tool", e.Tool, "chars", len(runes))
		return nil
	}

	if err := r.typeOut(ctx, e.Text, r.pacing.ResultDelay); err != nil {
		return err
	}
	return r.print("\n\n")
}

func (r *Renderer) renderFinalAnswer(ctx context.Context, e agent.Event) error {
	if err := r.typeOut(ctx, e.Text, r.pacing.AnswerDelay); err != nil {
		return err
	}
	return r.print("\n")
}

func (r *Renderer) print(s string) error {
	if err := r.sink.Print(s); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// typeOut streams text to the sink one character at a time, sleeping
// delay between characters. With a zero delay the whole text goes out in
// one write; cancellation is still checked.
func (r *Renderer) typeOut(ctx context.Context, text string, delay time.Duration) error {
	if delay <= 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		return r.print(text)
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	for _, ch := range text {
		if err := r.print(string(ch)); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
		timer.Reset(delay)
	}
	return nil
}
