package lamp

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// Operation names accepted by Simulated.Fail.
const (
	OpInfo          = "info"
	OpOn            = "on"
	OpOff           = "off"
	OpSetBrightness = "set_brightness"
	OpStatus        = "status"
)

// ErrUnreachable is returned by a simulated lamp that was told to fail.
var ErrUnreachable = errors.New("lamp unreachable")

// Simulated is an in-memory Eyecare lamp. It answers like the real lamp and
// can be told to fail individual operations.
type Simulated struct {
	mu         sync.Mutex
	host       string
	info       Info
	on         bool
	brightness int
	delay      time.Duration
	failures   map[string]error
	responses  map[string]Response
}

// NewSimulated creates a simulated lamp at host, switched off at 100%.
func NewSimulated(host string) *Simulated {
	return &Simulated{
		host: host,
		info: Info{
			Model:           "philips.light.sread1",
			FirmwareVersion: "1.0.7",
			HardwareVersion: "ESP8266",
		},
		brightness: 100,
		failures:   make(map[string]error),
		responses:  make(map[string]Response),
	}
}

// NewSimulatedClient is the ClientFactory for the simulated driver.
func NewSimulatedClient(host, token string) (Client, error) {
	if len(token) != 32 {
		return nil, fmt.Errorf("token must be 32 characters, got %d", len(token))
	}
	return NewSimulated(host), nil
}

// Fail makes every following call of op return err.
func (s *Simulated) Fail(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		err = ErrUnreachable
	}
	s.failures[op] = err
}

// Respond makes every following command op return resp instead of AckOK.
func (s *Simulated) Respond(op string, resp Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[op] = resp
}

// Recover clears failures and canned responses for op.
func (s *Simulated) Recover(op string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, op)
	delete(s.responses, op)
}

// SetDelay makes every call sleep for d before answering.
func (s *Simulated) SetDelay(d time.Duration) {
	s.mu.Lock()
	s.delay = d
	s.mu.Unlock()
}

// State returns the power and brightness percentage of the simulated lamp.
func (s *Simulated) State() (bool, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.on, s.brightness
}

// Info returns the lamp model and versions.
func (s *Simulated) Info() (Info, error) {
	if err := s.begin(OpInfo); err != nil {
		return Info{}, err
	}
	return s.info, nil
}

// On switches the simulated lamp on.
func (s *Simulated) On() (Response, error) {
	return s.command(OpOn, func() { s.on = true })
}

// Off switches the simulated lamp off.
func (s *Simulated) Off() (Response, error) {
	return s.command(OpOff, func() { s.on = false })
}

// SetBrightness sets the brightness percentage (1-100).
func (s *Simulated) SetBrightness(percent int) (Response, error) {
	if percent < 1 || percent > 100 {
		return nil, fmt.Errorf("invalid brightness %d: must be 1-100", percent)
	}
	return s.command(OpSetBrightness, func() { s.brightness = percent })
}

// Status returns the power state and brightness percentage.
func (s *Simulated) Status() (Status, error) {
	if err := s.begin(OpStatus); err != nil {
		return Status{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{IsOn: s.on, Brightness: s.brightness}, nil
}

func (s *Simulated) command(op string, apply func()) (Response, error) {
	if err := s.begin(op); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if resp, ok := s.responses[op]; ok {
		return resp, nil
	}
	apply()
	return AckOK, nil
}

// begin waits for the configured delay and returns the injected failure for op.
func (s *Simulated) begin(op string) error {
	s.mu.Lock()
	delay := s.delay
	err := s.failures[op]
	s.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if err != nil {
		return fmt.Errorf("%s %s: %w", s.host, op, err)
	}
	return nil
}
