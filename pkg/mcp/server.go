package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"
	"github.com/urmzd/eyecare/pkg/db"
	"github.com/urmzd/eyecare/pkg/device"
	"github.com/urmzd/eyecare/pkg/device/schema"
)

// CommandHistory reads the command audit log.
type CommandHistory interface {
	Recent(ctx context.Context, lampID string, limit int) ([]db.CommandEntry, error)
}

// Server wraps the MCP server with lamp control tools
type Server struct {
	mcpServer  *server.MCPServer
	controller device.Controller
	validator  *schema.Validator
	history    CommandHistory
}

// NewServer creates a new MCP server for lamp control. history may be nil.
func NewServer(controller device.Controller, validator *schema.Validator, history CommandHistory) *Server {
	if validator == nil {
		validator = schema.NewValidator()
	}
	s := &Server{
		controller: controller,
		validator:  validator,
		history:    history,
	}

	s.mcpServer = server.NewMCPServer(
		"eyecare",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	// Register all tools
	s.registerTools()

	return s
}

// ServeStdio starts the MCP server using stdio transport
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
