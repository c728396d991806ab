// Package toolkit provides the tool registry and dispatcher shared by the
// vento tool servers.
//
// A Registry holds an ordered, immutable-after-construction set of ToolSpec
// entries. Invoke validates and defaults raw arguments against the matching
// spec before the handler runs; every failure mode (unknown tool, missing
// argument, type mismatch, range violation, handler error, handler panic)
// becomes a Result with IsError set rather than a fault that crosses the
// dispatcher boundary.
package toolkit

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/vento0/vento/internal/log"
)

// Type identifies the declared type of a tool parameter.
type Type string

// Parameter types supported by the dispatcher.
const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeInteger Type = "integer"
	TypeArray   Type = "array" // array of strings
	TypeEnum    Type = "enum"  // string restricted to an allowed set
)

// ParameterSpec describes a single tool parameter.
//
// Invariant: when Required is false, a default must be resolvable, either
// the explicit Default or the type's zero value ("", 0, empty list).
type ParameterSpec struct {
	Name        string
	Type        Type
	Description string
	Required    bool
	Default     any
	Enum        []string // allowed values; TypeEnum only
	Minimum     *float64 // inclusive lower bound; numeric types only
	Maximum     *float64 // inclusive upper bound; numeric types only
}

// Args holds validated, typed arguments keyed by parameter name.
// Value types after validation: string, int, float64, []string.
type Args map[string]any

// String returns the named string argument ("" when absent).
func (a Args) String(name string) string {
	v, _ := a[name].(string)
	return v
}

// Int returns the named integer argument (0 when absent).
func (a Args) Int(name string) int {
	v, _ := a[name].(int)
	return v
}

// Float returns the named number argument (0 when absent).
func (a Args) Float(name string) float64 {
	switch v := a[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

// Strings returns the named array argument (nil when absent).
func (a Args) Strings(name string) []string {
	v, _ := a[name].([]string)
	return v
}

// Handler executes a tool call with validated arguments and returns the
// text payload shown to the model. A returned error becomes an error
// Result; it is never propagated as a fault.
type Handler func(ctx context.Context, args Args) (string, error)

// ToolSpec declares one tool: its name, the description the LLM uses for
// tool choice, the parameter schema, and the handler.
type ToolSpec struct {
	Name        string
	Description string
	Params      []ParameterSpec
	Handler     Handler
}

// Result is the outcome of one dispatch. Text carries either the handler's
// payload or a human-readable error message when IsError is set.
type Result struct {
	Tool    string
	Text    string
	IsError bool
}

// Registry manages an ordered set of tools for one tool server.
// Registration order is preserved and used for tool listing, so the LLM
// sees a stable presentation. Safe for concurrent Invoke after
// construction; Register is not safe to call concurrently.
type Registry struct {
	logger log.Logger
	specs  []ToolSpec
	byName map[string]int // name -> index into specs
}

// NewRegistry creates an empty tool registry.
func NewRegistry(logger log.Logger) *Registry {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Registry{
		logger: logger,
		byName: make(map[string]int),
	}
}

// Register adds a tool to the registry, validating the spec.
func (r *Registry) Register(spec ToolSpec) error {
	if spec.Name == "" {
		return fmt.Errorf("tool name is required")
	}
	if spec.Handler == nil {
		return fmt.Errorf("tool %q: handler is required", spec.Name)
	}
	if _, exists := r.byName[spec.Name]; exists {
		return fmt.Errorf("tool %q: already registered", spec.Name)
	}
	seen := make(map[string]bool, len(spec.Params))
	for _, p := range spec.Params {
		if p.Name == "" {
			return fmt.Errorf("tool %q: parameter name is required", spec.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("tool %q: duplicate parameter %q", spec.Name, p.Name)
		}
		seen[p.Name] = true
		switch p.Type {
		case TypeString, TypeNumber, TypeInteger, TypeArray:
		case TypeEnum:
			if len(p.Enum) == 0 {
				return fmt.Errorf("tool %q: enum parameter %q has no allowed values", spec.Name, p.Name)
			}
		default:
			return fmt.Errorf("tool %q: parameter %q has unknown type %q", spec.Name, p.Name, p.Type)
		}
	}

	r.byName[spec.Name] = len(r.specs)
	r.specs = append(r.specs, spec)
	return nil
}

// MustRegister is Register that panics on error. Intended for static tool
// tables built at process start, where a bad spec is a programming error.
func (r *Registry) MustRegister(spec ToolSpec) {
	if err := r.Register(spec); err != nil {
		panic(fmt.Sprintf("BUG: registering tool: %v", err))
	}
}

// List returns all tool specs in registration order.
// The returned slice is a copy; the specs themselves are shared and must
// be treated as read-only.
func (r *Registry) List() []ToolSpec {
	out := make([]ToolSpec, len(r.specs))
	copy(out, r.specs)
	return out
}

// Names returns all tool names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.specs))
	for i, s := range r.specs {
		names[i] = s.Name
	}
	return names
}

// Invoke validates raw arguments against the named tool's spec and runs
// its handler. It never panics and never returns a Go error: all failures
// are Results with IsError set, so the model can read the message and
// decide how to proceed.
func (r *Registry) Invoke(ctx context.Context, name string, raw map[string]any) (res Result) {
	res.Tool = name

	// A panicking handler must not take down the tool server.
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("tool handler panic", "tool", name, "panic", rec)
			res = Result{Tool: name, Text: fmt.Sprintf("internal error in tool %q", name), IsError: true}
		}
	}()

	idx, ok := r.byName[name]
	if !ok {
		res.Text = fmt.Sprintf("unknown tool: %s", name)
		res.IsError = true
		return res
	}
	spec := r.specs[idx]

	args, err := validateArgs(spec, raw)
	if err != nil {
		r.logger.Debug("tool argument validation failed", "tool", name, "error", err)
		res.Text = err.Error()
		res.IsError = true
		return res
	}

	text, err := spec.Handler(ctx, args)
	if err != nil {
		r.logger.Warn("tool call failed", "tool", name, "error", err)
		res.Text = err.Error()
		res.IsError = true
		return res
	}

	res.Text = text
	return res
}

// validateArgs checks raw arguments against the parameter specs, applying
// defaults and coercions. Arguments not declared in the spec are ignored.
func validateArgs(spec ToolSpec, raw map[string]any) (Args, error) {
	args := make(Args, len(spec.Params))

	for _, p := range spec.Params {
		v, present := raw[p.Name]
		if !present || v == nil {
			if p.Required {
				return nil, fmt.Errorf("missing required argument: %s", p.Name)
			}
			args[p.Name] = defaultValue(p)
			continue
		}

		typed, err := coerce(p, v)
		if err != nil {
			return nil, err
		}
		if err := checkConstraints(p, typed); err != nil {
			return nil, err
		}
		args[p.Name] = typed
	}

	return args, nil
}

// defaultValue resolves the value of an absent optional parameter:
// the explicit default when declared, otherwise the type's zero value.
func defaultValue(p ParameterSpec) any {
	if p.Default != nil {
		// Defaults are authored in Go code; coerce so handlers always see
		// the canonical type (e.g. an int default for an integer param).
		if typed, err := coerce(p, p.Default); err == nil {
			return typed
		}
	}
	switch p.Type {
	case TypeInteger:
		return 0
	case TypeNumber:
		return float64(0)
	case TypeArray:
		return []string(nil)
	default:
		return ""
	}
}

// coerce converts a raw argument into the parameter's canonical Go type.
// Defensive coercions cover the representations LLMs actually emit: JSON
// numbers arrive as float64, and integers are sometimes string-encoded
// (e.g. "3" for a day count).
func coerce(p ParameterSpec, v any) (any, error) {
	switch p.Type {
	case TypeString, TypeEnum:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("argument %s: expected string, got %T", p.Name, v)
		}
		return s, nil

	case TypeInteger:
		switch n := v.(type) {
		case int:
			return n, nil
		case int64:
			return int(n), nil
		case float64:
			if n != float64(int(n)) {
				return nil, fmt.Errorf("argument %s: expected integer, got %v", p.Name, n)
			}
			return int(n), nil
		case string:
			i, err := strconv.Atoi(strings.TrimSpace(n))
			if err != nil {
				return nil, fmt.Errorf("argument %s: expected integer, got %q", p.Name, n)
			}
			return i, nil
		default:
			return nil, fmt.Errorf("argument %s: expected integer, got %T", p.Name, v)
		}

	case TypeNumber:
		switch n := v.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
			if err != nil {
				return nil, fmt.Errorf("argument %s: expected number, got %q", p.Name, n)
			}
			return f, nil
		default:
			return nil, fmt.Errorf("argument %s: expected number, got %T", p.Name, v)
		}

	case TypeArray:
		switch a := v.(type) {
		case []string:
			return a, nil
		case []any:
			out := make([]string, 0, len(a))
			for _, item := range a {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("argument %s: expected array of strings, got element %T", p.Name, item)
				}
				out = append(out, s)
			}
			return out, nil
		default:
			return nil, fmt.Errorf("argument %s: expected array, got %T", p.Name, v)
		}
	}

	return nil, fmt.Errorf("argument %s: unknown parameter type %q", p.Name, p.Type)
}

// checkConstraints enforces enum membership and numeric ranges on an
// already-coerced value.
func checkConstraints(p ParameterSpec, v any) error {
	if p.Type == TypeEnum {
		s := v.(string)
		for _, allowed := range p.Enum {
			if s == allowed {
				return nil
			}
		}
		return fmt.Errorf("argument %s: %q is not one of [%s]", p.Name, s, strings.Join(p.Enum, ", "))
	}

	var n float64
	switch t := v.(type) {
	case int:
		n = float64(t)
	case float64:
		n = t
	default:
		return nil
	}

	if p.Minimum != nil && n < *p.Minimum {
		return fmt.Errorf("argument %s: %v is below the minimum %v", p.Name, v, *p.Minimum)
	}
	if p.Maximum != nil && n > *p.Maximum {
		return fmt.Errorf("argument %s: %v is above the maximum %v", p.Name, v, *p.Maximum)
	}
	return nil
}
