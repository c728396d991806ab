package render

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/vento0/vento/internal/agent"
	"github.com/vento0/vento/internal/log"
)

// bufferSink captures rendered output and artifacts for assertions.
type bufferSink struct {
	out       strings.Builder
	artifacts map[string]string

	printErr error
	onPrint  func()
}

func newBufferSink() *bufferSink {
	return &bufferSink{artifacts: make(map[string]string)}
}

func (s *bufferSink) Print(text string) error {
	if s.printErr != nil {
		return s.printErr
	}
	s.out.WriteString(text)
	if s.onPrint != nil {
		s.onPrint()
	}
	return nil
}

func (s *bufferSink) Artifact(name, content string) error {
	s.artifacts[name] = content
	return nil
}

func newTestRenderer(t *testing.T, sink Sink, pacing Pacing) *Renderer {
	t.Helper()
	r, err := New(Config{Sink: sink, Logger: log.NewNop(), Pacing: pacing})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return r
}

func answerTurn(answer string) *agent.Turn {
	return &agent.Turn{
		Events:      []agent.Event{{Kind: agent.KindFinalAnswer, Text: answer}},
		FinalAnswer: answer,
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New(Config{Logger: log.NewNop()}); err == nil {
		t.Error("New() without a sink succeeded")
	}
	if _, err := New(Config{Sink: newBufferSink()}); err == nil {
		t.Error("New() without a logger succeeded")
	}
}

func TestRenderTextOnlyTurn(t *testing.T) {
	sink := newBufferSink()
	r := newTestRenderer(t, sink, Pacing{})

	if err := r.Render(context.Background(), answerTurn("Hi! Ask me about the weather.")); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got := sink.out.String(); got != "Hi! Ask me about the weather.\n" {
		t.Errorf("output = %q, want the answer plus a newline", got)
	}
}

func TestRenderToolCallSequence(t *testing.T) {
	sink := newBufferSink()
	r := newTestRenderer(t, sink, Pacing{})

	turn := &agent.Turn{
		Events: []agent.Event{
			{Kind: agent.KindToolCall, Tool: "get_forecast", Args: map[string]any{"q": "Milano", "days": 2}},
			{Kind: agent.KindToolResult, Tool: "get_forecast", Text: "**Weather Forecast - Milan, Italy**"},
			{Kind: agent.KindFinalAnswer, Text: "Expect rain on Sunday."},
		},
		FinalAnswer: "Expect rain on Sunday.",
	}
	if err := r.Render(context.Background(), turn); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	out := sink.out.String()
	wantInOrder := []string{
		"🔧 **Calling tool: `get_forecast`**",
		"```json",
		"\"q\": \"Milano\"",
		"📦 **Response from `get_forecast`:**",
		"**Weather Forecast - Milan, Italy**",
		"Expect rain on Sunday.",
	}
	pos := 0
	for _, want := range wantInOrder {
		idx := strings.Index(out[pos:], want)
		if idx < 0 {
			t.Fatalf("output missing %q after position %d:\n%s", want, pos, out)
		}
		pos += idx + len(want)
	}

	if len(sink.artifacts) != 0 {
		t.Errorf("short result produced artifacts: %v", sink.artifacts)
	}
}

func TestRenderLongResultCollapses(t *testing.T) {
	sink := newBufferSink()
	r := newTestRenderer(t, sink, Pacing{})

	full := strings.Repeat("0123456789", 45)
	turn := &agent.Turn{
		Events: []agent.Event{
			{Kind: agent.KindToolCall, Tool: "get_forecast", Args: map[string]any{"q": "Roma"}},
			{Kind: agent.KindToolResult, Tool: "get_forecast", Text: full},
			{Kind: agent.KindFinalAnswer, Text: "Done."},
		},
		FinalAnswer: "Done.",
	}
	if err := r.Render(context.Background(), turn); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	out := sink.out.String()
	wantPreview := full[:200] + "..."
	if !strings.Contains(out, wantPreview) {
		t.Error("output missing the 200-character preview")
	}
	if strings.Contains(out, full) {
		t.Error("full result was rendered inline despite exceeding the preview limit")
	}
	if got := sink.artifacts["tool_response_get_forecast"]; got != full {
		t.Errorf("artifact content length = %d, want the full %d-character result", len(got), len(full))
	}
}

func TestRenderPreviewLimitCountsCharacters(t *testing.T) {
	sink := newBufferSink()
	r, err := New(Config{Sink: sink, Logger: log.NewNop(), PreviewLimit: 5})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	turn := &agent.Turn{
		Events: []agent.Event{
			{Kind: agent.KindToolResult, Tool: "search_location", Text: "è città di môda"},
			{Kind: agent.KindFinalAnswer, Text: "ok"},
		},
		FinalAnswer: "ok",
	}
	if err := r.Render(context.Background(), turn); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(sink.out.String(), "è cit...") {
		t.Errorf("output = %q, want a 5-character preview", sink.out.String())
	}
}

func TestRenderMalformedTranscript(t *testing.T) {
	r := newTestRenderer(t, newBufferSink(), Pacing{})

	noFinal := &agent.Turn{
		Events: []agent.Event{{Kind: agent.KindToolCall, Tool: "get_forecast"}},
	}
	if err := r.Render(context.Background(), noFinal); err == nil {
		t.Error("Render() accepted a transcript without a final answer")
	}

	trailing := &agent.Turn{
		Events: []agent.Event{
			{Kind: agent.KindFinalAnswer, Text: "done"},
			{Kind: agent.KindToolCall, Tool: "get_forecast"},
		},
	}
	if err := r.Render(context.Background(), trailing); err == nil {
		t.Error("Render() accepted an event after the final answer")
	}

	if err := r.Render(context.Background(), nil); err == nil {
		t.Error("Render() accepted a nil turn")
	}
}

func TestRenderSinkError(t *testing.T) {
	sink := newBufferSink()
	sink.printErr = errors.New("broken pipe")
	r := newTestRenderer(t, sink, Pacing{})

	err := r.Render(context.Background(), answerTurn("hello"))
	if err == nil || !strings.Contains(err.Error(), "broken pipe") {
		t.Errorf("Render() error = %v, want the sink failure", err)
	}
}

func TestRenderCancellation(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := newBufferSink()
	sink.onPrint = cancel

	r := newTestRenderer(t, sink, Pacing{AnswerDelay: time.Millisecond})

	err := r.Render(ctx, answerTurn("a long answer that should never finish typing"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Render() error = %v, want context.Canceled", err)
	}
	if got := sink.out.String(); got != "a" {
		t.Errorf("output = %q, want rendering stopped after the first character", got)
	}
}

func TestRenderCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := newBufferSink()
	r := newTestRenderer(t, sink, Pacing{})

	if err := r.Render(ctx, answerTurn("never shown")); !errors.Is(err, context.Canceled) {
		t.Errorf("Render() error = %v, want context.Canceled", err)
	}
	if sink.out.Len() != 0 {
		t.Errorf("output = %q, want nothing rendered", sink.out.String())
	}
}
