package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urmzd/eyecare/pkg/device"
	"github.com/urmzd/eyecare/pkg/device/schema"
)

const token = "0123456789abcdef0123456789abcdef"

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
lamps:
  - host: 192.168.1.20
    token: `+token+`
`), schema.NewValidator())
	require.NoError(t, err)

	require.Len(t, cfg.Lamps, 1)
	l := cfg.Lamps[0]
	assert.Equal(t, DefaultName, l.Name)
	assert.Equal(t, DefaultDriver, l.Driver)
	assert.Equal(t, "192.168.1.20", l.Key())
	assert.Equal(t, "01234...", l.MaskedToken())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, DefaultTopicPrefix, cfg.MQTT.TopicPrefix)
	assert.Zero(t, cfg.PollIntervalDuration())
}

func TestParseFull(t *testing.T) {
	cfg, err := Parse([]byte(`
log:
  level: debug
poll_interval: 15s
command_timeout: 2s
lamps:
  - id: desk
    host: 192.168.1.20
    token: `+token+`
    name: Desk Lamp
mqtt:
  enabled: true
  broker: tcp://localhost:1883
  topic_prefix: lamps
`), schema.NewValidator())
	require.NoError(t, err)

	assert.Equal(t, 15*time.Second, cfg.PollIntervalDuration())
	assert.Equal(t, 2*time.Second, cfg.CommandTimeoutDuration())
	assert.Equal(t, "desk", cfg.Lamps[0].Key())
	assert.Equal(t, "Desk Lamp", cfg.Lamps[0].Name)
	assert.True(t, cfg.MQTT.Enabled)
	assert.Equal(t, "lamps", cfg.MQTT.TopicPrefix)
}

func TestParseRejectsShortToken(t *testing.T) {
	_, err := Parse([]byte(`
lamps:
  - host: 192.168.1.20
    token: abc
`), schema.NewValidator())
	require.Error(t, err)
	assert.True(t, errors.Is(err, device.ErrValidation))
}

func TestParseRejectsUnknownField(t *testing.T) {
	_, err := Parse([]byte(`
lamps:
  - host: 192.168.1.20
    token: `+token+`
    colour: red
`), schema.NewValidator())
	assert.Error(t, err)
}

func TestParseRejectsDuplicateLamp(t *testing.T) {
	_, err := Parse([]byte(`
lamps:
  - host: 192.168.1.20
    token: `+token+`
  - host: 192.168.1.20
    token: `+token+`
`), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestParseRejectsBadDuration(t *testing.T) {
	_, err := Parse([]byte("poll_interval: soon\n"), nil)
	assert.Error(t, err)

	_, err = Parse([]byte("command_timeout: -1s\n"), nil)
	assert.Error(t, err)
}

func TestParseRequiresBrokerWhenEnabled(t *testing.T) {
	_, err := Parse([]byte("mqtt:\n  enabled: true\n"), nil)
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eyecare.yaml")
	require.NoError(t, os.WriteFile(path, []byte("lamps: []\n"), 0600))

	cfg, err := Load(path, schema.NewValidator())
	require.NoError(t, err)
	assert.Empty(t, cfg.Lamps)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}
