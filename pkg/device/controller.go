package device

import "context"

// Controller defines the interface the outer surfaces (REST, MCP, MQTT)
// use to reach configured lamps. Command methods never return device
// communication errors: a failed command is reported through
// DeviceState.Success and leaves the cached state untouched.
type Controller interface {
	// ListDevices returns all configured lamps
	ListDevices(ctx context.Context) ([]Device, error)

	// GetDevice returns a single lamp by ID
	GetDevice(ctx context.Context, id string) (*Device, error)

	// GetDeviceState returns the cached state of a lamp
	GetDeviceState(ctx context.Context, id string) (DeviceState, error)

	// TurnOn switches the lamp on, optionally setting brightness (0-255) first
	TurnOn(ctx context.Context, id string, brightness *uint8) (DeviceState, error)

	// TurnOff switches the lamp off
	TurnOff(ctx context.Context, id string) (DeviceState, error)

	// Refresh polls the lamp and updates the cached state
	Refresh(ctx context.Context, id string) (DeviceState, error)

	// IsConnected returns true if at least one lamp is available
	IsConnected() bool

	// Close releases every lamp and subscriber
	Close()
}

// EventSubscriber defines the interface for subscribing to lamp state events
type EventSubscriber interface {
	// Subscribe returns a channel that receives state events
	Subscribe() chan StateEvent

	// Unsubscribe removes a subscription
	Unsubscribe(ch chan StateEvent)
}
