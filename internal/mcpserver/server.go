// Package mcpserver exposes a toolkit.Registry over the Model Context
// Protocol using the official SDK.
//
// The MCP layer stays thin: argument validation, defaults, and error
// shaping all live in the registry. Handlers receive the raw argument map
// and forward it to Registry.Invoke, so every tool behaves identically
// whether called over MCP or in-process.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vento0/vento/internal/log"
	"github.com/vento0/vento/internal/toolkit"
)

// Config holds MCP server configuration.
type Config struct {
	Name     string
	Version  string
	Registry *toolkit.Registry
	Logger   log.Logger
}

// Server wraps the SDK server around a tool registry.
type Server struct {
	mcpServer *mcp.Server
	registry  *toolkit.Registry
	logger    log.Logger
	name      string
	version   string
}

// New creates an MCP server publishing every tool in the registry.
func New(cfg Config) (*Server, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("server name is required")
	}
	if cfg.Version == "" {
		return nil, fmt.Errorf("server version is required")
	}
	if cfg.Registry == nil {
		return nil, fmt.Errorf("tool registry is required")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	s := &Server{
		mcpServer: mcpServer,
		registry:  cfg.Registry,
		logger:    cfg.Logger.With("component", "mcpserver", "server", cfg.Name),
		name:      cfg.Name,
		version:   cfg.Version,
	}
	s.registerTools()

	return s, nil
}

// registerTools publishes each registry spec as an MCP tool. The input
// schema comes from the spec; the handler passes the raw argument map
// straight to the dispatcher. Tools go through the low-level AddTool
// because the generic variant validates arguments against the schema
// itself and rejects bad calls as protocol errors, while a validation
// failure must come back as an error payload the model can read.
func (s *Server) registerTools() {
	for _, spec := range s.registry.List() {
		tool := &mcp.Tool{
			Name:        spec.Name,
			Description: spec.Description,
			InputSchema: spec.Schema(),
		}

		name := spec.Name
		s.mcpServer.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			raw := map[string]any{}
			if len(req.Params.Arguments) > 0 {
				if err := json.Unmarshal(req.Params.Arguments, &raw); err != nil {
					return nil, fmt.Errorf("decoding arguments for %s: %w", name, err)
				}
			}

			res := s.registry.Invoke(ctx, name, raw)
			if res.IsError {
				s.logger.Debug("tool call returned error", "tool", name, "error", res.Text)
			}
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: res.Text}},
				IsError: res.IsError,
			}, nil
		})
	}

	s.logger.Debug("tools registered", "count", len(s.registry.List()))
}

// Run starts the MCP server on the given transport. This is a blocking
// call that handles all protocol communication until the context ends or
// the transport closes.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	s.logger.Info("MCP server starting", "name", s.name, "version", s.version)
	if err := s.mcpServer.Run(ctx, transport); err != nil {
		return fmt.Errorf("running MCP server %s: %w", s.name, err)
	}
	return nil
}

// Connect attaches the server to a transport without blocking. Used by
// tests with in-memory transports.
func (s *Server) Connect(ctx context.Context, transport mcp.Transport) (*mcp.ServerSession, error) {
	session, err := s.mcpServer.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("connecting MCP server %s: %w", s.name, err)
	}
	return session, nil
}
