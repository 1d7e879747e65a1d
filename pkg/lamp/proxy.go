package lamp

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/urmzd/eyecare/pkg/device"
)

// Proxy caches the state of one lamp and applies command results to that
// cache only when the lamp confirms them.
//
// A Proxy is not safe for concurrent use. The owner must serialize calls.
type Proxy struct {
	name   string
	client Client
	exec   *Executor
	logger zerolog.Logger
	info   Info

	power      *bool
	brightness *uint8
	updatedAt  time.Time
}

// New performs the connection handshake and returns a proxy for the lamp.
// The handshake result is kept for the lifetime of the proxy. If the lamp
// cannot be reached the error wraps device.ErrNotReady and no proxy is made.
func New(ctx context.Context, name string, client Client, exec *Executor) (*Proxy, error) {
	info, err := dispatch(ctx, exec.timeout, client.Info)
	if err != nil {
		return nil, fmt.Errorf("%w: handshake: %w", device.ErrNotReady, err)
	}

	exec.logger.Info().
		Str("model", info.Model).
		Str("fw_ver", info.FirmwareVersion).
		Str("hw_ver", info.HardwareVersion).
		Msg("Lamp initialized")

	return &Proxy{
		name:   name,
		client: client,
		exec:   exec,
		logger: exec.logger,
		info:   info,
	}, nil
}

// Name returns the display name of the lamp.
func (p *Proxy) Name() string {
	return p.name
}

// Info returns the static information captured at construction.
func (p *Proxy) Info() Info {
	return p.info
}

// Attributes returns the static state attributes of the lamp.
func (p *Proxy) Attributes() map[string]string {
	return map[string]string{
		device.AttrModel:           p.info.Model,
		device.AttrFirmwareVersion: p.info.FirmwareVersion,
		device.AttrHardwareVersion: p.info.HardwareVersion,
	}
}

// Available reports whether the power state is known.
func (p *Proxy) Available() bool {
	return p.power != nil
}

// IsOn reports the cached power state; false while unknown.
func (p *Proxy) IsOn() bool {
	return p.power != nil && *p.power
}

// Brightness returns the cached brightness on the 0-255 scale and whether
// it is known.
func (p *Proxy) Brightness() (uint8, bool) {
	if p.brightness == nil {
		return 0, false
	}
	return *p.brightness, true
}

// TurnOn sets the brightness when one is given and then switches the lamp
// on. A failed brightness change does not prevent the power-on attempt.
// It reports whether the lamp confirmed the power-on.
func (p *Proxy) TurnOn(ctx context.Context, brightness *uint8) bool {
	if brightness != nil {
		level := *brightness
		percent := ToPercent(level)

		p.logger.Debug().
			Uint8("brightness", level).
			Int("percent", percent).
			Msg("Setting brightness")

		ok := p.exec.Try(ctx, "Setting brightness failed", func() (Response, error) {
			return p.client.SetBrightness(percent)
		})
		if ok {
			p.setBrightness(level)
		}
	}

	if !p.exec.Try(ctx, "Turning the lamp on failed", p.client.On) {
		return false
	}
	p.setPower(true)
	return true
}

// TurnOff switches the lamp off and reports whether the lamp confirmed it.
func (p *Proxy) TurnOff(ctx context.Context) bool {
	if !p.exec.Try(ctx, "Turning the lamp off failed", p.client.Off) {
		return false
	}
	p.setPower(false)
	return true
}

// Refresh reads the lamp status and replaces the cached power and
// brightness. On failure the cache is left as it was.
func (p *Proxy) Refresh(ctx context.Context) bool {
	status, err := dispatch(ctx, p.exec.timeout, p.client.Status)
	if err != nil {
		p.logger.Error().Err(err).Msg("Fetching lamp state failed")
		return false
	}

	p.logger.Debug().
		Bool("is_on", status.IsOn).
		Int("brightness_percent", status.Brightness).
		Msg("Got new state")

	p.setPower(status.IsOn)
	p.setBrightness(ToExternal(status.Brightness))
	return true
}

// Snapshot returns the cached state.
func (p *Proxy) Snapshot() device.DeviceState {
	s := device.DeviceState{
		Available: p.Available(),
		UpdatedAt: p.updatedAt,
	}
	if p.power != nil {
		on := *p.power
		s.On = &on
	}
	if p.brightness != nil {
		b := *p.brightness
		s.Brightness = &b
	}
	return s
}

// Close releases the client if it holds resources.
func (p *Proxy) Close() error {
	if c, ok := p.client.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (p *Proxy) setPower(on bool) {
	p.power = &on
	p.updatedAt = time.Now()
}

func (p *Proxy) setBrightness(level uint8) {
	p.brightness = &level
	p.updatedAt = time.Now()
}
