package mcp

import "github.com/mark3labs/mcp-go/mcp"

// registerTools registers all MCP tools with the server
func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("get_health",
			mcp.WithDescription("Check whether the eyecare service can reach at least one lamp"),
		),
		s.handleGetHealth,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("list_lamps",
			mcp.WithDescription("List all configured lamps with their cached state"),
		),
		s.handleListLamps,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("get_lamp",
			mcp.WithDescription("Get detailed information about a lamp"),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("Lamp id"),
			),
		),
		s.handleGetLamp,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("get_lamp_state",
			mcp.WithDescription("Get the cached power and brightness of a lamp"),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("Lamp id"),
			),
		),
		s.handleGetLampState,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("turn_on",
			mcp.WithDescription("Turn a lamp on, optionally setting brightness first"),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("Lamp id"),
			),
			mcp.WithNumber("brightness",
				mcp.Description("Brightness level 0-255 (optional)"),
				mcp.Min(0),
				mcp.Max(255),
			),
		),
		s.handleTurnOn,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("turn_off",
			mcp.WithDescription("Turn a lamp off"),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("Lamp id"),
			),
		),
		s.handleTurnOff,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("refresh",
			mcp.WithDescription("Poll a lamp now and update its cached state"),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("Lamp id"),
			),
		),
		s.handleRefresh,
	)

	if s.history != nil {
		s.mcpServer.AddTool(
			mcp.NewTool("get_history",
				mcp.WithDescription("List the most recent command outcomes of a lamp"),
				mcp.WithString("id",
					mcp.Required(),
					mcp.Description("Lamp id"),
				),
				mcp.WithNumber("limit",
					mcp.Description("Maximum number of entries (default 50)"),
				),
			),
			s.handleGetHistory,
		)
	}
}
