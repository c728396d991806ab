// Package session holds per-conversation state: the model binding, the
// LLM message history, and the append-only journal of completed turns.
//
// All state is owned by a Session value and guarded by its mutex; nothing
// in this package is global. Accessors copy slices out, so callers can
// iterate without holding any lock.
package session

import (
	"sync"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/google/uuid"

	"github.com/vento0/vento/internal/agent"
)

// Journal is the append-only record of completed turns. Turns are copied
// on append and on read; the journal's own entries are never handed out
// by reference and never mutated.
type Journal struct {
	mu    sync.RWMutex
	turns []agent.Turn
}

// Append records a completed turn.
func (j *Journal) Append(t *agent.Turn) {
	if t == nil {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.turns = append(j.turns, copyTurn(t))
}

// Turns returns a copy of all recorded turns in completion order.
func (j *Journal) Turns() []agent.Turn {
	j.mu.RLock()
	defer j.mu.RUnlock()
	out := make([]agent.Turn, len(j.turns))
	for i := range j.turns {
		out[i] = copyTurn(&j.turns[i])
	}
	return out
}

// Len returns the number of recorded turns.
func (j *Journal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.turns)
}

func copyTurn(t *agent.Turn) agent.Turn {
	cp := *t
	cp.Events = make([]agent.Event, len(t.Events))
	copy(cp.Events, t.Events)
	cp.ToolsUsed = make([]string, len(t.ToolsUsed))
	copy(cp.ToolsUsed, t.ToolsUsed)
	return cp
}

// Session is one interactive conversation.
type Session struct {
	id        uuid.UUID
	createdAt time.Time
	journal   *Journal

	mu       sync.RWMutex
	provider string
	model    string
	history  []*ai.Message
}

// New creates a session bound to the given provider and model.
func New(provider, model string) *Session {
	return &Session{
		id:        uuid.New(),
		createdAt: time.Now(),
		journal:   &Journal{},
		provider:  provider,
		model:     model,
	}
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// CreatedAt returns the session creation time.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// Journal returns the session's turn journal.
func (s *Session) Journal() *Journal { return s.journal }

// Provider returns the current AI provider.
func (s *Session) Provider() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.provider
}

// Model returns the current model name.
func (s *Session) Model() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model
}

// UpdateSettings swaps the provider/model binding. The journal and the
// message history are untouched: changing models mid-conversation keeps
// the conversation.
func (s *Session) UpdateSettings(provider, model string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.provider = provider
	s.model = model
}

// History returns a copy of the LLM message history slice. The messages
// themselves are shared and treated as immutable once recorded.
func (s *Session) History() []*ai.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*ai.Message, len(s.history))
	copy(out, s.history)
	return out
}

// SetHistory replaces the LLM message history with the slice returned by
// the agent after a completed turn.
func (s *Session) SetHistory(messages []*ai.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = messages
}

// ClearHistory drops the LLM message history. The journal keeps its
// record; only the model's conversational context is reset.
func (s *Session) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}
