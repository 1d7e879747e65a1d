package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/urmzd/eyecare/pkg/device"
	"github.com/urmzd/eyecare/pkg/device/schema"
	"github.com/urmzd/eyecare/pkg/lamp"
)

func (s *Server) handleGetHealth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	controllerStatus := "disconnected"
	if s.controller.IsConnected() {
		controllerStatus = "connected"
	}

	status := "healthy"
	if controllerStatus != "connected" {
		status = "unhealthy"
	}

	out := GetHealthOutput{
		Status:     status,
		Controller: controllerStatus,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}

	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleListLamps(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lamps, err := s.controller.ListDevices(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list lamps: %s", err)), nil
	}

	infos := make([]LampInfo, 0, len(lamps))
	for i := range lamps {
		infos = append(infos, s.withState(ctx, &lamps[i]))
	}

	out := ListLampsOutput{
		Lamps: infos,
		Count: len(infos),
	}

	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleGetLamp(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requiredString(request, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	d, err := s.controller.GetDevice(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lamp not found: %s", err)), nil
	}

	out := GetLampOutput{Lamp: s.withState(ctx, d)}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleGetLampState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requiredString(request, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	state, err := s.controller.GetDeviceState(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get lamp state: %s", err)), nil
	}

	out := GetLampStateOutput{
		LampID: id,
		State:  state,
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleTurnOn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requiredString(request, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := map[string]any{}
	if b, ok := request.GetArguments()["brightness"]; ok && b != nil {
		req["brightness"] = b
	}

	if err := s.validator.Validate(schema.TurnOnSchema, req); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("validation error: %s", err)), nil
	}

	var brightness *uint8
	if bf, ok := req["brightness"].(float64); ok {
		level := uint8(bf)
		brightness = &level
	}

	return s.command(id, lamp.CommandTurnOn, func() (device.DeviceState, error) {
		return s.controller.TurnOn(ctx, id, brightness)
	})
}

func (s *Server) handleTurnOff(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requiredString(request, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return s.command(id, lamp.CommandTurnOff, func() (device.DeviceState, error) {
		return s.controller.TurnOff(ctx, id)
	})
}

func (s *Server) handleRefresh(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requiredString(request, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return s.command(id, lamp.CommandRefresh, func() (device.DeviceState, error) {
		return s.controller.Refresh(ctx, id)
	})
}

func (s *Server) handleGetHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requiredString(request, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	limit := 0
	if l, ok := request.GetArguments()["limit"].(float64); ok && l > 0 {
		limit = int(l)
	}

	if _, err := s.controller.GetDevice(ctx, id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lamp not found: %s", err)), nil
	}

	entries, err := s.history.Recent(ctx, id, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read history: %s", err)), nil
	}

	out := GetHistoryOutput{
		LampID:  id,
		Entries: entries,
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

// --- helpers ---

func (s *Server) command(id, command string, run func() (device.DeviceState, error)) (*mcp.CallToolResult, error) {
	state, err := run()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to %s lamp: %s", command, err)), nil
	}

	out := CommandOutput{
		LampID:  id,
		Command: command,
		Success: state.Success,
		State:   state,
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) withState(ctx context.Context, d *device.Device) LampInfo {
	info := DeviceToInfo(d)
	if state, err := s.controller.GetDeviceState(ctx, d.ID); err == nil {
		info.State = &state
	}
	return info
}

func requiredString(request mcp.CallToolRequest, key string) (string, error) {
	args := request.GetArguments()
	v, ok := args[key]
	if !ok || v == nil {
		return "", fmt.Errorf("required parameter %q is missing", key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("parameter %q must be a non-empty string", key)
	}
	return s, nil
}

func formatJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to marshal response: %s"}`, err)
	}
	return string(b)
}
