package lamp

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urmzd/eyecare/pkg/config"
	"github.com/urmzd/eyecare/pkg/device"
)

const testToken = "0123456789abcdef0123456789abcdef"

type recorder struct {
	mu      sync.Mutex
	records []CommandRecord
}

func (r *recorder) RecordCommand(_ context.Context, rec CommandRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return nil
}

func (r *recorder) commands() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, rec := range r.records {
		out = append(out, rec.Command)
	}
	return out
}

// testLamps hands out one Simulated lamp per host so tests can steer it.
type testLamps struct {
	mu    sync.Mutex
	lamps map[string]*Simulated
}

func newTestLamps() *testLamps {
	return &testLamps{lamps: make(map[string]*Simulated)}
}

func (l *testLamps) get(host string) *Simulated {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.lamps[host]
	if !ok {
		s = NewSimulated(host)
		l.lamps[host] = s
	}
	return s
}

func (l *testLamps) drivers() Drivers {
	return Drivers{
		DriverSimulated: func(host, token string) (Client, error) {
			return l.get(host), nil
		},
	}
}

func lampConfig(id, host string) config.Lamp {
	return config.Lamp{ID: id, Host: host, Token: testToken, Name: "Desk Lamp", Driver: DriverSimulated}
}

func newTestManager(t *testing.T, lamps *testLamps, opts ...Option) *Manager {
	t.Helper()
	opts = append([]Option{
		WithLogger(zerolog.Nop()),
		WithTimeout(time.Second),
	}, opts...)
	m := NewManager(lamps.drivers(), opts...)
	t.Cleanup(m.Close)
	return m
}

func TestManager_AddConnectsAndRefreshes(t *testing.T) {
	lamps := newTestLamps()
	m := newTestManager(t, lamps)
	ctx := context.Background()

	require.NoError(t, m.Add(ctx, lampConfig("desk", "192.168.1.20")))

	dev, err := m.GetDevice(ctx, "desk")
	require.NoError(t, err)
	assert.True(t, dev.Connected)
	assert.Equal(t, "philips.light.sread1", dev.Model)
	assert.Equal(t, device.DeviceTypeLight, dev.Type)
	assert.Equal(t, device.ProtocolWiFi, dev.Protocol)

	state, err := m.GetDeviceState(ctx, "desk")
	require.NoError(t, err)
	assert.True(t, state.Available)
	require.NotNil(t, state.On)
	assert.False(t, *state.On)
	require.NotNil(t, state.Brightness)
	assert.Equal(t, uint8(255), *state.Brightness)
	assert.True(t, m.IsConnected())
}

func TestManager_AddPendingLampIsRetried(t *testing.T) {
	lamps := newTestLamps()
	sim := lamps.get("192.168.1.20")
	sim.Fail(OpInfo, nil)

	m := newTestManager(t, lamps)
	ctx := context.Background()

	require.NoError(t, m.Add(ctx, lampConfig("desk", "192.168.1.20")))

	_, err := m.GetDeviceState(ctx, "desk")
	assert.ErrorIs(t, err, device.ErrNotReady)
	_, err = m.TurnOn(ctx, "desk", nil)
	assert.ErrorIs(t, err, device.ErrNotReady)
	assert.False(t, m.IsConnected())

	sim.Recover(OpInfo)
	m.PollAll(ctx)

	state, err := m.GetDeviceState(ctx, "desk")
	require.NoError(t, err)
	assert.True(t, state.Available)
	assert.True(t, m.IsConnected())
}

func TestManager_AddRejectsDuplicateAndUnknownDriver(t *testing.T) {
	lamps := newTestLamps()
	m := newTestManager(t, lamps)
	ctx := context.Background()

	require.NoError(t, m.Add(ctx, lampConfig("desk", "192.168.1.20")))
	assert.ErrorIs(t, m.Add(ctx, lampConfig("desk", "192.168.1.21")), device.ErrDuplicate)

	cfg := lampConfig("bed", "192.168.1.22")
	cfg.Driver = "miio"
	assert.Error(t, m.Add(ctx, cfg))

	devices, err := m.ListDevices(ctx)
	require.NoError(t, err)
	assert.Len(t, devices, 1)
}

func TestManager_TurnOnWithBrightness(t *testing.T) {
	lamps := newTestLamps()
	m := newTestManager(t, lamps)
	ctx := context.Background()
	require.NoError(t, m.Add(ctx, lampConfig("desk", "192.168.1.20")))

	state, err := m.TurnOn(ctx, "desk", u8(200))
	require.NoError(t, err)

	assert.True(t, state.Success)
	assert.True(t, *state.On)
	assert.Equal(t, uint8(200), *state.Brightness)

	on, percent := lamps.get("192.168.1.20").State()
	assert.True(t, on)
	assert.Equal(t, 78, percent)
}

func TestManager_FailedCommandReportsNoSuccess(t *testing.T) {
	lamps := newTestLamps()
	m := newTestManager(t, lamps)
	ctx := context.Background()
	require.NoError(t, m.Add(ctx, lampConfig("desk", "192.168.1.20")))

	_, err := m.TurnOn(ctx, "desk", nil)
	require.NoError(t, err)

	lamps.get("192.168.1.20").Fail(OpOff, nil)

	state, err := m.TurnOff(ctx, "desk")
	require.NoError(t, err, "device failures are absorbed")
	assert.False(t, state.Success)
	assert.True(t, *state.On)
}

func TestManager_UnknownLamp(t *testing.T) {
	m := newTestManager(t, newTestLamps())
	ctx := context.Background()

	_, err := m.GetDevice(ctx, "nope")
	assert.ErrorIs(t, err, device.ErrNotFound)
	_, err = m.Refresh(ctx, "nope")
	assert.ErrorIs(t, err, device.ErrNotFound)
	_, err = m.TurnOff(ctx, "nope")
	assert.ErrorIs(t, err, device.ErrNotFound)
}

func TestManager_PublishesStateEvents(t *testing.T) {
	lamps := newTestLamps()
	m := newTestManager(t, lamps)
	ctx := context.Background()
	require.NoError(t, m.Add(ctx, lampConfig("desk", "192.168.1.20")))

	events := m.Subscribe()

	_, err := m.TurnOn(ctx, "desk", nil)
	require.NoError(t, err)

	select {
	case evt := <-events:
		assert.Equal(t, device.EventStateChanged, evt.Type)
		assert.Equal(t, "desk", evt.Device.ID)
		assert.True(t, *evt.State.On)
	case <-time.After(time.Second):
		t.Fatal("expected a state event")
	}

	// Refreshing an unchanged lamp publishes nothing.
	_, err = m.Refresh(ctx, "desk")
	require.NoError(t, err)
	select {
	case evt := <-events:
		t.Fatalf("unexpected event %+v", evt)
	default:
	}

	m.Unsubscribe(events)
	_, open := <-events
	assert.False(t, open)
}

func TestManager_RecordsCommands(t *testing.T) {
	lamps := newTestLamps()
	rec := &recorder{}
	m := newTestManager(t, lamps, WithRecorder(rec))
	ctx := context.Background()
	require.NoError(t, m.Add(ctx, lampConfig("desk", "192.168.1.20")))

	_, err := m.TurnOn(ctx, "desk", u8(128))
	require.NoError(t, err)
	_, err = m.TurnOff(ctx, "desk")
	require.NoError(t, err)

	assert.Equal(t, []string{CommandConnect, CommandRefresh, CommandTurnOn, CommandTurnOff}, rec.commands())

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.NotNil(t, rec.records[2].Brightness)
	assert.Equal(t, uint8(128), *rec.records[2].Brightness)
	assert.True(t, rec.records[3].Success)
}

func TestManager_PollAllRefreshesEveryLamp(t *testing.T) {
	lamps := newTestLamps()
	m := newTestManager(t, lamps, WithConcurrency(2))
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, m.Add(ctx, lampConfig(id, "10.0.0."+id)))
	}

	for _, id := range []string{"a", "b", "c"} {
		_, err := lamps.get("10.0.0." + id).On()
		require.NoError(t, err)
	}

	m.PollAll(ctx)

	for _, id := range []string{"a", "b", "c"} {
		state, err := m.GetDeviceState(ctx, id)
		require.NoError(t, err)
		assert.True(t, *state.On, "lamp %s", id)
	}
}

func TestManager_PollFailureKeepsLastState(t *testing.T) {
	lamps := newTestLamps()
	m := newTestManager(t, lamps)
	ctx := context.Background()
	require.NoError(t, m.Add(ctx, lampConfig("desk", "192.168.1.20")))

	before, err := m.GetDeviceState(ctx, "desk")
	require.NoError(t, err)

	lamps.get("192.168.1.20").Fail(OpStatus, nil)
	m.PollAll(ctx)

	after, err := m.GetDeviceState(ctx, "desk")
	require.NoError(t, err)
	assert.Equal(t, *before.On, *after.On)
	assert.Equal(t, *before.Brightness, *after.Brightness)
	assert.True(t, after.Available)
}

func TestManager_RunStopsOnCancel(t *testing.T) {
	lamps := newTestLamps()
	m := newTestManager(t, lamps, WithPollInterval(5*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, m.Add(ctx, lampConfig("desk", "192.168.1.20")))

	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	_, err := lamps.get("192.168.1.20").On()
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		state, err := m.GetDeviceState(context.Background(), "desk")
		return err == nil && state.On != nil && *state.On
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestManager_SetPollIntervalResetsRunningPoller(t *testing.T) {
	lamps := newTestLamps()
	m := newTestManager(t, lamps, WithPollInterval(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, m.Add(ctx, lampConfig("desk", "192.168.1.20")))

	go m.Run(ctx)

	m.SetPollInterval(0)
	assert.Equal(t, time.Hour, m.PollInterval())

	_, err := lamps.get("192.168.1.20").On()
	require.NoError(t, err)

	m.SetPollInterval(5 * time.Millisecond)
	assert.Equal(t, 5*time.Millisecond, m.PollInterval())

	assert.Eventually(t, func() bool {
		state, err := m.GetDeviceState(context.Background(), "desk")
		return err == nil && state.On != nil && *state.On
	}, time.Second, 5*time.Millisecond)
}

func TestManager_CloseClosesSubscribers(t *testing.T) {
	m := NewManager(newTestLamps().drivers(), WithLogger(zerolog.Nop()))
	events := m.Subscribe()

	m.Close()

	_, open := <-events
	assert.False(t, open)
	m.Unsubscribe(events) // no double close
}
