package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urmzd/eyecare/pkg/device"
	"github.com/urmzd/eyecare/pkg/lamp"
)

const lampsYAML = `
log:
  level: warn
poll_interval: 5s
command_timeout: 2s
lamps:
  - id: desk
    host: 192.168.1.20
    token: 0123456789abcdef0123456789abcdef
`

func TestNewWithLamps(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "eyecare.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(lampsYAML), 0o600))

	ctx := context.Background()
	a, err := New(ctx, filepath.Join(dir, "eyecare.db"), cfgPath)
	require.NoError(t, err)
	defer a.Close()

	assert.IsType(t, &lamp.Manager{}, a.Controller)
	assert.True(t, a.Controller.IsConnected())
	require.NotNil(t, a.Poller())

	d, err := a.Controller.GetDevice(ctx, "desk")
	require.NoError(t, err)
	assert.Equal(t, "Xiaomi Philips Eyecare Smart Lamp 2", d.Name)
	assert.True(t, d.Connected)

	// The handshake and the initial refresh went to the command log.
	entries, err := a.DB.Commands().Recent(ctx, "desk", 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, lamp.CommandRefresh, entries[0].Command)
	assert.Equal(t, lamp.CommandConnect, entries[1].Command)
}

func TestNewWithoutLamps(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, filepath.Join(t.TempDir(), "eyecare.db"), "")
	require.NoError(t, err)
	defer a.Close()

	assert.IsType(t, &device.NullController{}, a.Controller)
	assert.False(t, a.Controller.IsConnected())
	assert.Nil(t, a.Poller())

	lamps, err := a.Controller.ListDevices(ctx)
	require.NoError(t, err)
	assert.Empty(t, lamps)

	_, err = a.Controller.TurnOff(ctx, "desk")
	assert.ErrorIs(t, err, device.ErrNotConnected)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "eyecare.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("lamps:\n  - host: 10.0.0.2\n    token: short\n"), 0o600))

	_, err := New(context.Background(), filepath.Join(dir, "eyecare.db"), cfgPath)
	assert.ErrorIs(t, err, device.ErrValidation)
}
