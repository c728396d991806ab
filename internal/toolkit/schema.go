package toolkit

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// Schema builds the JSON Schema for the tool's input object, suitable for
// mcp.Tool.InputSchema. Enum parameters are published as strings with an
// enum constraint; array parameters as arrays of strings.
func (s ToolSpec) Schema() *jsonschema.Schema {
	properties := make(map[string]*jsonschema.Schema, len(s.Params))
	var required []string

	for _, p := range s.Params {
		properties[p.Name] = p.schema()
		if p.Required {
			required = append(required, p.Name)
		}
	}

	return &jsonschema.Schema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

func (p ParameterSpec) schema() *jsonschema.Schema {
	out := &jsonschema.Schema{Description: p.Description}

	switch p.Type {
	case TypeEnum:
		out.Type = "string"
		out.Enum = make([]any, len(p.Enum))
		for i, v := range p.Enum {
			out.Enum[i] = v
		}
	case TypeArray:
		out.Type = "array"
		out.Items = &jsonschema.Schema{Type: "string"}
	case TypeInteger:
		// Day counts and the like also arrive string-encoded from some
		// models; the dispatcher coerces, so the schema admits both.
		out.Types = []string{"integer", "string"}
		out.Minimum = p.Minimum
		out.Maximum = p.Maximum
	case TypeNumber:
		out.Type = "number"
		out.Minimum = p.Minimum
		out.Maximum = p.Maximum
	default:
		out.Type = "string"
	}

	if p.Default != nil {
		raw, err := json.Marshal(p.Default)
		if err != nil {
			panic(fmt.Sprintf("BUG: marshaling default for parameter %q: %v", p.Name, err))
		}
		out.Default = json.RawMessage(raw)
	}

	return out
}
