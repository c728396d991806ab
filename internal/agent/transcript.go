package agent

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/google/uuid"
)

// EventKind discriminates the transcript event variants.
type EventKind int

const (
	// KindToolCall is the model requesting a tool invocation.
	KindToolCall EventKind = iota
	// KindToolResult is the outcome of a tool invocation.
	KindToolResult
	// KindFinalAnswer is the model's closing text for the turn.
	KindFinalAnswer
)

// String returns the kind name for logging.
func (k EventKind) String() string {
	switch k {
	case KindToolCall:
		return "tool_call"
	case KindToolResult:
		return "tool_result"
	case KindFinalAnswer:
		return "final_answer"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one entry in a turn's ordered transcript. Which fields are set
// depends on Kind: tool calls carry Tool and Args, tool results carry
// Tool, Text and IsError, the final answer carries Text only.
type Event struct {
	Kind    EventKind
	Tool    string
	Args    map[string]any
	Text    string
	IsError bool
}

// Turn is the complete record of one user exchange: the ordered transcript
// plus the metadata the session journal persists.
type Turn struct {
	ID          uuid.UUID
	Timestamp   time.Time
	UserMessage string
	Events      []Event
	FinalAnswer string

	// ToolsUsed lists tool names in invocation order, one entry per call.
	ToolsUsed []string
}

// transcriptEvents walks the messages generated during one agentic loop
// and produces the ordered tool-call and tool-result events. Model
// messages contribute tool requests; tool messages contribute the matching
// responses, so each result follows its call in transcript order.
func transcriptEvents(messages []*ai.Message) []Event {
	var events []Event
	for _, msg := range messages {
		switch msg.Role {
		case ai.RoleModel:
			for _, part := range msg.Content {
				if part.ToolRequest == nil {
					continue
				}
				events = append(events, Event{
					Kind: KindToolCall,
					Tool: part.ToolRequest.Name,
					Args: argsMap(part.ToolRequest.Input),
				})
			}
		case ai.RoleTool:
			for _, part := range msg.Content {
				if part.ToolResponse == nil {
					continue
				}
				events = append(events, Event{
					Kind: KindToolResult,
					Tool: part.ToolResponse.Name,
					Text: outputText(part.ToolResponse.Output),
				})
			}
		}
	}
	return events
}

// argsMap normalizes a tool request input into a map for display. Inputs
// are JSON objects in practice; anything else is wrapped.
func argsMap(input any) map[string]any {
	if input == nil {
		return map[string]any{}
	}
	if m, ok := input.(map[string]any); ok {
		return m
	}
	return map[string]any{"input": input}
}

// outputText renders a tool response output as text. MCP tools return
// plain strings through the Genkit bridge; structured outputs fall back
// to compact JSON.
func outputText(output any) string {
	switch v := output.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}

// FormatArgs renders tool-call arguments as indented JSON for display.
// Keys are sorted by the JSON encoder, so the output is deterministic.
func FormatArgs(args map[string]any) string {
	if len(args) == 0 {
		return "{}"
	}
	data, err := json.MarshalIndent(args, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", args)
	}
	return string(data)
}

// toolNames extracts the invocation-ordered tool names from a transcript.
func toolNames(events []Event) []string {
	var names []string
	for _, e := range events {
		if e.Kind == KindToolCall {
			names = append(names, e.Tool)
		}
	}
	return names
}

// summarize renders a short log line for a transcript.
func summarize(events []Event) string {
	parts := make([]string, 0, len(events))
	for _, e := range events {
		switch e.Kind {
		case KindToolCall:
			parts = append(parts, e.Tool)
		case KindToolResult:
			parts = append(parts, fmt.Sprintf("%s(%d chars)", e.Tool, len(e.Text)))
		}
	}
	return strings.Join(parts, " -> ")
}
