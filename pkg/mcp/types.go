package mcp

import (
	"github.com/urmzd/eyecare/pkg/db"
	"github.com/urmzd/eyecare/pkg/device"
)

// --- Health Tool ---

// GetHealthOutput is the output for the get_health tool
type GetHealthOutput struct {
	Status     string `json:"status" jsonschema:"description=Overall health status (healthy or unhealthy)"`
	Controller string `json:"controller" jsonschema:"description=Whether at least one lamp is available"`
	Timestamp  string `json:"timestamp" jsonschema:"description=ISO8601 timestamp"`
}

// --- List Lamps Tool ---

// ListLampsOutput is the output for the list_lamps tool
type ListLampsOutput struct {
	Lamps []LampInfo `json:"lamps" jsonschema:"description=Configured lamps"`
	Count int        `json:"count" jsonschema:"description=Total number of lamps"`
}

// LampInfo represents a lamp in tool outputs
type LampInfo struct {
	ID         string              `json:"id" jsonschema:"description=Lamp identifier"`
	Name       string              `json:"name" jsonschema:"description=User-friendly lamp name"`
	Host       string              `json:"host" jsonschema:"description=Network address of the lamp"`
	Driver     string              `json:"driver" jsonschema:"description=Client driver"`
	Connected  bool                `json:"connected" jsonschema:"description=Whether the handshake succeeded"`
	Attributes map[string]string   `json:"attributes,omitempty" jsonschema:"description=Model and firmware/hardware versions"`
	State      *device.DeviceState `json:"state,omitempty" jsonschema:"description=Cached lamp state"`
}

// --- Get Lamp Tool ---

// GetLampInput is the input for the get_lamp tool
type GetLampInput struct {
	ID string `json:"id" jsonschema:"required,description=Lamp id"`
}

// GetLampOutput is the output for the get_lamp tool
type GetLampOutput struct {
	Lamp LampInfo `json:"lamp" jsonschema:"description=Lamp information"`
}

// --- Get Lamp State Tool ---

// GetLampStateOutput is the output for the get_lamp_state tool
type GetLampStateOutput struct {
	LampID string             `json:"lamp_id" jsonschema:"description=Lamp identifier"`
	State  device.DeviceState `json:"state" jsonschema:"description=Cached lamp state"`
}

// --- Command Tools ---

// TurnOnInput is the input for the turn_on tool
type TurnOnInput struct {
	ID         string `json:"id" jsonschema:"required,description=Lamp id"`
	Brightness *int   `json:"brightness,omitempty" jsonschema:"description=Brightness level 0-255 (optional)"`
}

// CommandOutput is the output for the turn_on, turn_off and refresh tools
type CommandOutput struct {
	LampID  string             `json:"lamp_id" jsonschema:"description=Lamp identifier"`
	Command string             `json:"command" jsonschema:"description=Command that was run"`
	Success bool               `json:"success" jsonschema:"description=Whether the lamp confirmed the command"`
	State   device.DeviceState `json:"state" jsonschema:"description=Lamp state after the command"`
}

// --- History Tool ---

// GetHistoryOutput is the output for the get_history tool
type GetHistoryOutput struct {
	LampID  string            `json:"lamp_id" jsonschema:"description=Lamp identifier"`
	Entries []db.CommandEntry `json:"entries" jsonschema:"description=Recent command outcomes, newest first"`
}

// --- Helper conversions ---

// DeviceToInfo converts a device.Device to LampInfo
func DeviceToInfo(d *device.Device) LampInfo {
	info := LampInfo{
		ID:        d.ID,
		Name:      d.Name,
		Host:      d.Host,
		Driver:    d.Driver,
		Connected: d.Connected,
	}
	if d.Connected {
		info.Attributes = d.Attributes()
	}
	return info
}
