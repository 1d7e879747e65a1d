package mqtt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/urmzd/eyecare/pkg/device"
)

// Home Assistant discovery prefix.
const discoveryPrefix = "homeassistant"

// Availability payloads.
const (
	payloadOnline  = "online"
	payloadOffline = "offline"
)

// discoveryMsg is a Home Assistant MQTT discovery payload.
type discoveryMsg struct {
	Topic   string // e.g. "homeassistant/light/eyecare_desk/light/config"
	Payload []byte // JSON, empty means delete
}

// haDevice is the "device" block in HA discovery.
type haDevice struct {
	Identifiers  []string `json:"identifiers"`
	Manufacturer string   `json:"manufacturer,omitempty"`
	Model        string   `json:"model,omitempty"`
	Name         string   `json:"name"`
	SWVersion    string   `json:"sw_version,omitempty"`
	HWVersion    string   `json:"hw_version,omitempty"`
}

type haAvailability struct {
	Topic string `json:"topic"`
}

// haLight is the discovery payload of a JSON schema light.
type haLight struct {
	Name                string           `json:"name"`
	UniqueID            string           `json:"unique_id"`
	Schema              string           `json:"schema"`
	StateTopic          string           `json:"state_topic"`
	CommandTopic        string           `json:"command_topic"`
	Availability        []haAvailability `json:"availability"`
	AvailabilityMode    string           `json:"availability_mode"`
	Brightness          bool             `json:"brightness"`
	BrightnessScale     int              `json:"brightness_scale"`
	SupportedColorModes []string         `json:"supported_color_modes"`
	Device              haDevice         `json:"device"`
}

// lampState is the retained state payload of a lamp.
type lampState struct {
	State      string `json:"state"`
	Brightness *uint8 `json:"brightness,omitempty"`
}

// deviceIdentifier returns the unique identifier for HA device registry.
func deviceIdentifier(dev device.Device) string {
	return "eyecare_" + deviceTopicName(dev)
}

// deviceTopicName returns the topic name for a lamp, sanitized for MQTT.
func deviceTopicName(dev device.Device) string {
	name := strings.ToLower(dev.ID)
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			return r
		}
		return '_'
	}, name)
}

func stateTopic(prefix string, dev device.Device) string {
	return prefix + "/" + deviceTopicName(dev)
}

func commandTopic(prefix string, dev device.Device) string {
	return stateTopic(prefix, dev) + "/set"
}

func availabilityTopic(prefix string, dev device.Device) string {
	return stateTopic(prefix, dev) + "/availability"
}

func bridgeStateTopic(prefix string) string {
	return prefix + "/bridge/state"
}

// buildDiscovery generates the HA discovery message of a lamp.
func buildDiscovery(dev device.Device, prefix string) discoveryMsg {
	nodeID := deviceIdentifier(dev)

	payload := haLight{
		Name:         dev.Name,
		UniqueID:     nodeID + "_light",
		Schema:       "json",
		StateTopic:   stateTopic(prefix, dev),
		CommandTopic: commandTopic(prefix, dev),
		Availability: []haAvailability{
			{Topic: bridgeStateTopic(prefix)},
			{Topic: availabilityTopic(prefix, dev)},
		},
		AvailabilityMode:    "all",
		Brightness:          true,
		BrightnessScale:     255,
		SupportedColorModes: []string{"brightness"},
		Device: haDevice{
			Identifiers:  []string{nodeID},
			Manufacturer: "Philips",
			Model:        dev.Model,
			Name:         dev.Name,
			SWVersion:    dev.FirmwareVersion,
			HWVersion:    dev.HardwareVersion,
		},
	}

	return discoveryMsg{
		Topic:   fmt.Sprintf("%s/light/%s/light/config", discoveryPrefix, nodeID),
		Payload: mustJSON(payload),
	}
}

// statePayload renders the retained state of a lamp. Unknown power is
// reported as OFF.
func statePayload(state device.DeviceState) []byte {
	s := lampState{State: "OFF", Brightness: state.Brightness}
	if state.On != nil && *state.On {
		s.State = "ON"
	}
	return mustJSON(s)
}

func availabilityPayload(state device.DeviceState) string {
	if state.Available {
		return payloadOnline
	}
	return payloadOffline
}

func mustJSON(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		return []byte("{}")
	}
	return data
}
