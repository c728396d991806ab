package toolkit

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/vento0/vento/internal/log"
)

func f64(v float64) *float64 { return &v }

// newTestRegistry builds a registry with one tool exercising every
// parameter type.
func newTestRegistry(t *testing.T) *Registry {
	t.Helper()

	r := NewRegistry(log.NewNop())
	err := r.Register(ToolSpec{
		Name:        "forecast",
		Description: "Multi-day forecast for a location",
		Params: []ParameterSpec{
			{Name: "location", Type: TypeString, Required: true},
			{Name: "days", Type: TypeInteger, Default: 3, Minimum: f64(1), Maximum: f64(14)},
			{Name: "aqi", Type: TypeEnum, Enum: []string{"yes", "no"}, Default: "no"},
			{Name: "ratio", Type: TypeNumber},
			{Name: "tags", Type: TypeArray},
		},
		Handler: func(_ context.Context, args Args) (string, error) {
			return args.String("location"), nil
		},
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	return r
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry(log.NewNop())

	handler := func(_ context.Context, _ Args) (string, error) { return "", nil }

	tests := []struct {
		name    string
		spec    ToolSpec
		wantErr string
	}{
		{
			name:    "missing name",
			spec:    ToolSpec{Handler: handler},
			wantErr: "name is required",
		},
		{
			name:    "missing handler",
			spec:    ToolSpec{Name: "a"},
			wantErr: "handler is required",
		},
		{
			name: "enum without values",
			spec: ToolSpec{
				Name:    "b",
				Params:  []ParameterSpec{{Name: "p", Type: TypeEnum}},
				Handler: handler,
			},
			wantErr: "no allowed values",
		},
		{
			name: "duplicate parameter",
			spec: ToolSpec{
				Name: "c",
				Params: []ParameterSpec{
					{Name: "p", Type: TypeString},
					{Name: "p", Type: TypeString},
				},
				Handler: handler,
			},
			wantErr: "duplicate parameter",
		},
		{
			name: "unknown type",
			spec: ToolSpec{
				Name:    "d",
				Params:  []ParameterSpec{{Name: "p", Type: "boolean"}},
				Handler: handler,
			},
			wantErr: "unknown type",
		},
		{
			name:    "valid",
			spec:    ToolSpec{Name: "e", Handler: handler},
			wantErr: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.Register(tt.spec)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Register() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Register() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestRegistryRegisterDuplicateName(t *testing.T) {
	r := newTestRegistry(t)

	err := r.Register(ToolSpec{
		Name:    "forecast",
		Handler: func(_ context.Context, _ Args) (string, error) { return "", nil },
	})
	if err == nil || !strings.Contains(err.Error(), "already registered") {
		t.Fatalf("Register() error = %v, want already registered", err)
	}
}

func TestRegistryListOrder(t *testing.T) {
	r := NewRegistry(log.NewNop())
	handler := func(_ context.Context, _ Args) (string, error) { return "", nil }

	// Registration order must survive into List and Names, whatever the
	// lexical order of the names.
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := r.Register(ToolSpec{Name: name, Handler: handler}); err != nil {
			t.Fatalf("Register(%q) error = %v", name, err)
		}
	}

	want := []string{"zeta", "alpha", "mid"}
	got := r.Names()
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	specs := r.List()
	for i := range want {
		if specs[i].Name != want[i] {
			t.Errorf("List()[%d].Name = %q, want %q", i, specs[i].Name, want[i])
		}
	}
}

func TestInvokeUnknownTool(t *testing.T) {
	r := newTestRegistry(t)

	res := r.Invoke(context.Background(), "nope", nil)
	if !res.IsError {
		t.Fatal("Invoke() IsError = false, want true")
	}
	if res.Text != "unknown tool: nope" {
		t.Errorf("Invoke() Text = %q, want %q", res.Text, "unknown tool: nope")
	}
	if res.Tool != "nope" {
		t.Errorf("Invoke() Tool = %q, want %q", res.Tool, "nope")
	}
}

func TestInvokeMissingRequired(t *testing.T) {
	r := newTestRegistry(t)

	res := r.Invoke(context.Background(), "forecast", map[string]any{"days": 2})
	if !res.IsError {
		t.Fatal("Invoke() IsError = false, want true")
	}
	if !strings.Contains(res.Text, "location") {
		t.Errorf("Invoke() Text = %q, want mention of the missing argument", res.Text)
	}
}

func TestInvokeValidation(t *testing.T) {
	tests := []struct {
		name    string
		raw     map[string]any
		wantErr string // empty means success
	}{
		{
			name: "all explicit",
			raw:  map[string]any{"location": "Milano", "days": 5, "aqi": "yes"},
		},
		{
			name: "integer from JSON float",
			raw:  map[string]any{"location": "Milano", "days": float64(7)},
		},
		{
			name: "integer from string",
			raw:  map[string]any{"location": "Milano", "days": "3"},
		},
		{
			name:    "integer from fractional float",
			raw:     map[string]any{"location": "Milano", "days": 2.5},
			wantErr: "expected integer",
		},
		{
			name:    "integer from garbage string",
			raw:     map[string]any{"location": "Milano", "days": "soon"},
			wantErr: "expected integer",
		},
		{
			name:    "below minimum",
			raw:     map[string]any{"location": "Milano", "days": 0},
			wantErr: "below the minimum",
		},
		{
			name:    "above maximum",
			raw:     map[string]any{"location": "Milano", "days": 15},
			wantErr: "above the maximum",
		},
		{
			name:    "enum violation",
			raw:     map[string]any{"location": "Milano", "aqi": "maybe"},
			wantErr: "is not one of",
		},
		{
			name: "number from int",
			raw:  map[string]any{"location": "Milano", "ratio": 2},
		},
		{
			name: "array of any",
			raw:  map[string]any{"location": "Milano", "tags": []any{"a", "b"}},
		},
		{
			name:    "array with non-string element",
			raw:     map[string]any{"location": "Milano", "tags": []any{"a", 1}},
			wantErr: "array of strings",
		},
		{
			name: "extra arguments ignored",
			raw:  map[string]any{"location": "Milano", "units": "metric"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRegistry(t)
			res := r.Invoke(context.Background(), "forecast", tt.raw)
			if tt.wantErr == "" {
				if res.IsError {
					t.Fatalf("Invoke() unexpected error result: %q", res.Text)
				}
				return
			}
			if !res.IsError {
				t.Fatalf("Invoke() IsError = false, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(res.Text, tt.wantErr) {
				t.Errorf("Invoke() Text = %q, want containing %q", res.Text, tt.wantErr)
			}
		})
	}
}

func TestInvokeDefaults(t *testing.T) {
	r := NewRegistry(log.NewNop())

	var got Args
	err := r.Register(ToolSpec{
		Name: "probe",
		Params: []ParameterSpec{
			{Name: "q", Type: TypeString, Required: true},
			{Name: "days", Type: TypeInteger, Default: 3},
			{Name: "alerts", Type: TypeEnum, Enum: []string{"yes", "no"}, Default: "yes"},
			{Name: "lang", Type: TypeString},
		},
		Handler: func(_ context.Context, args Args) (string, error) {
			got = args
			return "ok", nil
		},
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	res := r.Invoke(context.Background(), "probe", map[string]any{"q": "Roma"})
	if res.IsError {
		t.Fatalf("Invoke() unexpected error result: %q", res.Text)
	}

	if got.Int("days") != 3 {
		t.Errorf("days = %d, want default 3", got.Int("days"))
	}
	if got.String("alerts") != "yes" {
		t.Errorf("alerts = %q, want default %q", got.String("alerts"), "yes")
	}
	if got.String("lang") != "" {
		t.Errorf("lang = %q, want zero value", got.String("lang"))
	}
}

func TestInvokeHandlerError(t *testing.T) {
	r := NewRegistry(log.NewNop())

	if err := r.Register(ToolSpec{
		Name: "failing",
		Handler: func(_ context.Context, _ Args) (string, error) {
			return "", errors.New("upstream unavailable")
		},
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	res := r.Invoke(context.Background(), "failing", nil)
	if !res.IsError {
		t.Fatal("Invoke() IsError = false, want true")
	}
	if res.Text != "upstream unavailable" {
		t.Errorf("Invoke() Text = %q, want handler error message", res.Text)
	}
}

func TestInvokeHandlerPanic(t *testing.T) {
	r := NewRegistry(log.NewNop())

	if err := r.Register(ToolSpec{
		Name: "broken",
		Handler: func(_ context.Context, _ Args) (string, error) {
			panic("boom")
		},
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	res := r.Invoke(context.Background(), "broken", nil)
	if !res.IsError {
		t.Fatal("Invoke() IsError = false, want true")
	}
	if !strings.Contains(res.Text, "internal error") {
		t.Errorf("Invoke() Text = %q, want internal error message", res.Text)
	}
}

func TestToolSpecSchema(t *testing.T) {
	r := newTestRegistry(t)
	spec := r.List()[0]

	schema := spec.Schema()
	if schema.Type != "object" {
		t.Fatalf("Schema().Type = %q, want object", schema.Type)
	}

	if len(schema.Required) != 1 || schema.Required[0] != "location" {
		t.Errorf("Schema().Required = %v, want [location]", schema.Required)
	}

	days, ok := schema.Properties["days"]
	if !ok {
		t.Fatal("Schema() missing property days")
	}
	if len(days.Types) != 2 || days.Types[0] != "integer" || days.Types[1] != "string" {
		t.Errorf("days.Types = %v, want [integer string]", days.Types)
	}
	if days.Minimum == nil || *days.Minimum != 1 {
		t.Errorf("days.Minimum = %v, want 1", days.Minimum)
	}
	if days.Maximum == nil || *days.Maximum != 14 {
		t.Errorf("days.Maximum = %v, want 14", days.Maximum)
	}
	var defaultDays int
	if err := json.Unmarshal(days.Default, &defaultDays); err != nil || defaultDays != 3 {
		t.Errorf("days.Default = %s, want 3 (unmarshal err %v)", days.Default, err)
	}

	aqi := schema.Properties["aqi"]
	if aqi == nil || aqi.Type != "string" || len(aqi.Enum) != 2 {
		t.Fatalf("aqi schema = %+v, want string with 2 enum values", aqi)
	}

	tags := schema.Properties["tags"]
	if tags == nil || tags.Type != "array" || tags.Items == nil || tags.Items.Type != "string" {
		t.Fatalf("tags schema = %+v, want array of strings", tags)
	}
}
