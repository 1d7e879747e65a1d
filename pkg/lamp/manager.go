package lamp

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/urmzd/eyecare/pkg/config"
	"github.com/urmzd/eyecare/pkg/device"
)

// Defaults used by NewManager.
const (
	DefaultPollInterval = 30 * time.Second
	DefaultConcurrency  = 4
)

// Command names passed to a Recorder.
const (
	CommandTurnOn  = "turn_on"
	CommandTurnOff = "turn_off"
	CommandRefresh = "refresh"
	CommandConnect = "connect"
)

// CommandRecord is the outcome of one command against a lamp.
type CommandRecord struct {
	LampID     string
	Command    string
	Brightness *uint8
	Success    bool
	At         time.Time
}

// Recorder receives every command outcome.
type Recorder interface {
	RecordCommand(ctx context.Context, rec CommandRecord) error
}

// Option configures a Manager.
type Option func(*Manager)

// WithTimeout bounds every lamp call.
func WithTimeout(d time.Duration) Option {
	return func(m *Manager) { m.timeout = d }
}

// WithPollInterval sets how often Run polls the lamps.
func WithPollInterval(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.interval.Store(int64(d))
		}
	}
}

// WithConcurrency caps how many lamps are polled at the same time.
func WithConcurrency(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.concurrency = n
		}
	}
}

// WithLogger sets the logger used by the manager and its proxies.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithRecorder sets the Recorder that receives command outcomes.
func WithRecorder(r Recorder) Option {
	return func(m *Manager) { m.recorder = r }
}

// Manager owns the proxies of all configured lamps. It implements
// device.Controller and device.EventSubscriber.
//
// Calls against one lamp are serialized; distinct lamps proceed
// independently.
type Manager struct {
	drivers     Drivers
	timeout     time.Duration
	interval    atomic.Int64
	resetPoll   chan struct{}
	concurrency int
	logger      zerolog.Logger
	recorder    Recorder

	mu      sync.RWMutex
	entries map[string]*entry
	order   []string

	subscribers   []chan device.StateEvent
	subscribersMu sync.Mutex
}

// entry is one configured lamp. mu serializes every call against the
// proxy; the published copies behind viewMu can be read at any time.
type entry struct {
	cfg config.Lamp

	mu    sync.Mutex
	proxy *Proxy

	viewMu    sync.RWMutex
	dev       device.Device
	state     device.DeviceState
	available atomic.Bool
}

// NewManager creates a Manager that builds clients with drivers.
func NewManager(drivers Drivers, opts ...Option) *Manager {
	m := &Manager{
		drivers:     drivers,
		timeout:     DefaultTimeout,
		resetPoll:   make(chan struct{}, 1),
		concurrency: DefaultConcurrency,
		logger:      log.Logger,
		entries:     make(map[string]*entry),
	}
	m.interval.Store(int64(DefaultPollInterval))
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Add registers a lamp and attempts its handshake. A lamp that cannot be
// reached yet stays registered and is retried by every poll.
func (m *Manager) Add(ctx context.Context, cfg config.Lamp) error {
	if _, ok := m.drivers[cfg.Driver]; !ok {
		return fmt.Errorf("lamp %s: unknown driver %q", cfg.Key(), cfg.Driver)
	}

	id := cfg.Key()
	e := &entry{
		cfg: cfg,
		dev: device.Device{
			ID:       id,
			Name:     cfg.Name,
			Type:     device.DeviceTypeLight,
			Protocol: device.ProtocolWiFi,
			Host:     cfg.Host,
			Driver:   cfg.Driver,
		},
	}

	m.mu.Lock()
	if _, exists := m.entries[id]; exists {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", device.ErrDuplicate, id)
	}
	m.entries[id] = e
	m.order = append(m.order, id)
	m.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := m.connect(ctx, e); err != nil {
		m.logger.Warn().Err(err).Str("lamp", id).Msg("Lamp not ready, will retry")
	}
	return nil
}

// Run polls every lamp at the configured interval until ctx is cancelled.
func (m *Manager) Run(ctx context.Context) {
	interval := m.PollInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.logger.Info().Dur("interval", interval).Msg("Lamp polling started")

	for {
		select {
		case <-ctx.Done():
			m.logger.Info().Msg("Lamp polling stopped")
			return
		case <-m.resetPoll:
			interval = m.PollInterval()
			ticker.Reset(interval)
			m.logger.Info().Dur("interval", interval).Msg("Lamp poll interval changed")
		case <-ticker.C:
			m.PollAll(ctx)
		}
	}
}

// PollInterval returns the current poll interval.
func (m *Manager) PollInterval() time.Duration {
	return time.Duration(m.interval.Load())
}

// SetPollInterval changes the poll interval of a running poller.
// Non-positive intervals are ignored.
func (m *Manager) SetPollInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	m.interval.Store(int64(d))
	select {
	case m.resetPoll <- struct{}{}:
	default:
	}
}

// PollAll refreshes every connected lamp and retries the handshake of
// every pending one.
func (m *Manager) PollAll(ctx context.Context) {
	var g errgroup.Group
	g.SetLimit(m.concurrency)

	for _, e := range m.list() {
		g.Go(func() error {
			m.poll(ctx, e)
			return nil
		})
	}
	_ = g.Wait()
}

func (m *Manager) poll(ctx context.Context, e *entry) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.proxy == nil {
		if err := m.connect(ctx, e); err != nil {
			m.logger.Debug().Err(err).Str("lamp", e.cfg.Key()).Msg("Lamp still not ready")
		}
		return
	}

	ok := e.proxy.Refresh(ctx)
	m.record(ctx, e, CommandRefresh, nil, ok)
	m.update(e, ok)
}

// connect performs the handshake and the initial refresh. Caller holds e.mu.
func (m *Manager) connect(ctx context.Context, e *entry) error {
	id := e.cfg.Key()
	logger := m.logger.With().Str("lamp", id).Logger()

	logger.Info().
		Str("host", e.cfg.Host).
		Str("token", e.cfg.MaskedToken()).
		Msg("Initializing lamp")

	client, err := m.drivers[e.cfg.Driver](e.cfg.Host, e.cfg.Token)
	if err != nil {
		m.record(ctx, e, CommandConnect, nil, false)
		return fmt.Errorf("%w: %w", device.ErrNotReady, err)
	}

	proxy, err := New(ctx, e.cfg.Name, client, NewExecutor(m.timeout, logger))
	if err != nil {
		m.record(ctx, e, CommandConnect, nil, false)
		return err
	}
	e.proxy = proxy
	m.record(ctx, e, CommandConnect, nil, true)

	info := proxy.Info()
	e.viewMu.Lock()
	e.dev.Model = info.Model
	e.dev.FirmwareVersion = info.FirmwareVersion
	e.dev.HardwareVersion = info.HardwareVersion
	e.dev.Connected = true
	dev := e.dev
	e.viewMu.Unlock()

	m.publishEvent(device.StateEvent{
		Type:      device.EventLampConnected,
		Device:    dev,
		State:     proxy.Snapshot(),
		Timestamp: time.Now(),
	})

	ok := proxy.Refresh(ctx)
	m.record(ctx, e, CommandRefresh, nil, ok)
	m.update(e, ok)
	return nil
}

// ListDevices returns all configured lamps in registration order.
func (m *Manager) ListDevices(_ context.Context) ([]device.Device, error) {
	entries := m.list()
	devices := make([]device.Device, 0, len(entries))
	for _, e := range entries {
		dev, _ := e.view()
		devices = append(devices, dev)
	}
	return devices, nil
}

// GetDevice returns a single lamp by ID.
func (m *Manager) GetDevice(_ context.Context, id string) (*device.Device, error) {
	e, err := m.entry(id)
	if err != nil {
		return nil, err
	}
	dev, _ := e.view()
	return &dev, nil
}

// GetDeviceState returns the cached state of a lamp without touching the lamp.
func (m *Manager) GetDeviceState(_ context.Context, id string) (device.DeviceState, error) {
	e, err := m.entry(id)
	if err != nil {
		return device.DeviceState{}, err
	}
	dev, state := e.view()
	if !dev.Connected {
		return state, fmt.Errorf("%w: %s", device.ErrNotReady, id)
	}
	state.Success = true
	return state, nil
}

// TurnOn switches a lamp on, setting brightness (0-255) first when given.
func (m *Manager) TurnOn(ctx context.Context, id string, brightness *uint8) (device.DeviceState, error) {
	return m.do(ctx, id, CommandTurnOn, brightness, func(p *Proxy) bool {
		return p.TurnOn(ctx, brightness)
	})
}

// TurnOff switches a lamp off.
func (m *Manager) TurnOff(ctx context.Context, id string) (device.DeviceState, error) {
	return m.do(ctx, id, CommandTurnOff, nil, func(p *Proxy) bool {
		return p.TurnOff(ctx)
	})
}

// Refresh polls a lamp now.
func (m *Manager) Refresh(ctx context.Context, id string) (device.DeviceState, error) {
	return m.do(ctx, id, CommandRefresh, nil, func(p *Proxy) bool {
		return p.Refresh(ctx)
	})
}

func (m *Manager) do(ctx context.Context, id, command string, brightness *uint8, fn func(*Proxy) bool) (device.DeviceState, error) {
	e, err := m.entry(id)
	if err != nil {
		return device.DeviceState{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.proxy == nil {
		return device.DeviceState{}, fmt.Errorf("%w: %s", device.ErrNotReady, id)
	}

	ok := fn(e.proxy)
	m.record(ctx, e, command, brightness, ok)
	state := m.update(e, ok)
	return state, nil
}

// update publishes the proxy snapshot and notifies subscribers when it
// changed. Caller holds e.mu.
func (m *Manager) update(e *entry, ok bool) device.DeviceState {
	state := e.proxy.Snapshot()
	state.Success = ok

	e.viewMu.Lock()
	changed := !sameState(e.state, state)
	e.state = state
	dev := e.dev
	e.viewMu.Unlock()

	e.available.Store(state.Available)

	if changed {
		m.publishEvent(device.StateEvent{
			Type:      device.EventStateChanged,
			Device:    dev,
			State:     state,
			Timestamp: time.Now(),
		})
	}
	return state
}

func (m *Manager) record(ctx context.Context, e *entry, command string, brightness *uint8, ok bool) {
	if m.recorder == nil {
		return
	}
	rec := CommandRecord{
		LampID:     e.cfg.Key(),
		Command:    command,
		Brightness: brightness,
		Success:    ok,
		At:         time.Now(),
	}
	if err := m.recorder.RecordCommand(context.WithoutCancel(ctx), rec); err != nil {
		m.logger.Warn().Err(err).Str("lamp", rec.LampID).Str("command", command).Msg("Failed to record command")
	}
}

// IsConnected returns true if at least one lamp is available.
func (m *Manager) IsConnected() bool {
	for _, e := range m.list() {
		if e.available.Load() {
			return true
		}
	}
	return false
}

// Close releases every lamp client and closes all subscriber channels.
func (m *Manager) Close() {
	m.mu.Lock()
	entries := m.entries
	m.entries = make(map[string]*entry)
	m.order = nil
	m.mu.Unlock()

	for id, e := range entries {
		e.mu.Lock()
		if e.proxy != nil {
			if err := e.proxy.Close(); err != nil {
				m.logger.Warn().Err(err).Str("lamp", id).Msg("Failed to close lamp client")
			}
			e.proxy = nil
		}
		e.mu.Unlock()
	}

	m.subscribersMu.Lock()
	for _, ch := range m.subscribers {
		close(ch)
	}
	m.subscribers = nil
	m.subscribersMu.Unlock()
}

// Subscribe returns a channel that receives state events.
func (m *Manager) Subscribe() chan device.StateEvent {
	ch := make(chan device.StateEvent, 16)
	m.subscribersMu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.subscribersMu.Unlock()
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
func (m *Manager) Unsubscribe(ch chan device.StateEvent) {
	m.subscribersMu.Lock()
	defer m.subscribersMu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			return
		}
	}
}

// publishEvent delivers evt to every subscriber that has room for it.
func (m *Manager) publishEvent(evt device.StateEvent) {
	m.subscribersMu.Lock()
	defer m.subscribersMu.Unlock()

	for _, ch := range m.subscribers {
		select {
		case ch <- evt:
		default:
		}
	}
}

func (m *Manager) entry(id string) (*entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", device.ErrNotFound, id)
	}
	return e, nil
}

func (m *Manager) list() []*entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := make([]*entry, 0, len(m.order))
	for _, id := range m.order {
		entries = append(entries, m.entries[id])
	}
	return entries
}

func (e *entry) view() (device.Device, device.DeviceState) {
	e.viewMu.RLock()
	defer e.viewMu.RUnlock()
	return e.dev, e.state
}

func sameState(a, b device.DeviceState) bool {
	return a.Available == b.Available &&
		equalPtr(a.On, b.On) &&
		equalPtr(a.Brightness, b.Brightness)
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
