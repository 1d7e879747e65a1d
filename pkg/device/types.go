package device

import "time"

// Device describes a configured lamp and the static information captured
// from its connection handshake.
type Device struct {
	ID              string `json:"id"`                         // Unique identifier (configured id or host)
	Name            string `json:"name"`                       // User-friendly name
	Type            string `json:"type"`                       // Device type (light)
	Protocol        string `json:"protocol"`                   // Protocol (wifi)
	Host            string `json:"host"`                       // Network address of the lamp
	Driver          string `json:"driver"`                     // Client driver used to reach the lamp
	Model           string `json:"model,omitempty"`            // Device model, empty until connected
	FirmwareVersion string `json:"firmware_version,omitempty"` // Firmware version, empty until connected
	HardwareVersion string `json:"hardware_version,omitempty"` // Hardware version, empty until connected
	Connected       bool   `json:"connected"`                  // Whether the handshake succeeded
}

// DeviceState is the cached state of a lamp as seen by the host.
// On and Brightness are nil while the state is unknown.
type DeviceState struct {
	Available  bool      `json:"available"`
	On         *bool     `json:"on,omitempty"`
	Brightness *uint8    `json:"brightness,omitempty"` // 0-255
	Success    bool      `json:"success"`              // Outcome of the command that produced this state
	UpdatedAt  time.Time `json:"updated_at"`
}

// StateEvent is published whenever a lamp's cached state changes.
type StateEvent struct {
	Type      string      `json:"type"` // Event type (state_changed, lamp_connected)
	Device    Device      `json:"device"`
	State     DeviceState `json:"state"`
	Timestamp time.Time   `json:"timestamp"`
}

// Event types
const (
	EventStateChanged  = "state_changed"
	EventLampConnected = "lamp_connected"
)

// Protocol constants
const (
	ProtocolWiFi = "wifi"
)

// Device type constants
const (
	DeviceTypeLight = "light"
)

// Attribute keys exposed alongside the lamp state.
const (
	AttrModel           = "model"
	AttrFirmwareVersion = "fw_ver"
	AttrHardwareVersion = "hw_ver"
)

// Attributes returns the static state attributes of the device.
func (d Device) Attributes() map[string]string {
	return map[string]string{
		AttrModel:           d.Model,
		AttrFirmwareVersion: d.FirmwareVersion,
		AttrHardwareVersion: d.HardwareVersion,
	}
}
