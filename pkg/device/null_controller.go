package device

import "context"

// NullController is a no-op controller used when no lamps are configured.
// It allows the API to run in limited mode.
type NullController struct{}

// NewNullController creates a new NullController.
func NewNullController() *NullController {
	return &NullController{}
}

func (c *NullController) ListDevices(ctx context.Context) ([]Device, error) {
	return []Device{}, nil
}

func (c *NullController) GetDevice(ctx context.Context, id string) (*Device, error) {
	return nil, ErrNotFound
}

func (c *NullController) GetDeviceState(ctx context.Context, id string) (DeviceState, error) {
	return DeviceState{}, ErrNotConnected
}

func (c *NullController) TurnOn(ctx context.Context, id string, brightness *uint8) (DeviceState, error) {
	return DeviceState{}, ErrNotConnected
}

func (c *NullController) TurnOff(ctx context.Context, id string) (DeviceState, error) {
	return DeviceState{}, ErrNotConnected
}

func (c *NullController) Refresh(ctx context.Context, id string) (DeviceState, error) {
	return DeviceState{}, ErrNotConnected
}

func (c *NullController) IsConnected() bool {
	return false
}

func (c *NullController) Close() {}

// NullEventSubscriber is a no-op event subscriber used with NullController.
type NullEventSubscriber struct{}

// NewNullEventSubscriber creates a new NullEventSubscriber.
func NewNullEventSubscriber() *NullEventSubscriber {
	return &NullEventSubscriber{}
}

func (s *NullEventSubscriber) Subscribe() chan StateEvent {
	ch := make(chan StateEvent)
	// Channel is never sent to; callers should check IsConnected() on the controller
	return ch
}

func (s *NullEventSubscriber) Unsubscribe(ch chan StateEvent) {
	close(ch)
}
