package lamp

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/urmzd/eyecare/pkg/device"
)

var errDevice = errors.New("unable to discover the device")

var eyecareInfo = Info{
	Model:           "philips.light.sread1",
	FirmwareVersion: "1.0.7",
	HardwareVersion: "ESP8266",
}

func newTestProxy(t *testing.T, client *mockClient, buf *bytes.Buffer) *Proxy {
	t.Helper()
	client.Mock.On("Info").Return(eyecareInfo, nil).Once()
	p, err := New(context.Background(), "Desk", client, newTestExecutor(buf, time.Second))
	require.NoError(t, err)
	return p
}

func u8(v uint8) *uint8 { return &v }

func TestNew_CapturesInfo(t *testing.T) {
	var buf bytes.Buffer
	client := new(mockClient)
	p := newTestProxy(t, client, &buf)

	assert.Equal(t, "Desk", p.Name())
	assert.Equal(t, eyecareInfo, p.Info())
	assert.Equal(t, map[string]string{
		"model":  "philips.light.sread1",
		"fw_ver": "1.0.7",
		"hw_ver": "ESP8266",
	}, p.Attributes())
	client.AssertExpectations(t)
}

func TestNew_HandshakeFailure(t *testing.T) {
	var buf bytes.Buffer
	client := new(mockClient)
	client.Mock.On("Info").Return(Info{}, errDevice)

	p, err := New(context.Background(), "Desk", client, newTestExecutor(&buf, time.Second))

	assert.Nil(t, p)
	assert.ErrorIs(t, err, device.ErrNotReady)
	assert.ErrorIs(t, err, errDevice)
}

func TestProxy_UnavailableUntilFirstSuccess(t *testing.T) {
	var buf bytes.Buffer
	client := new(mockClient)
	p := newTestProxy(t, client, &buf)

	assert.False(t, p.Available())
	assert.False(t, p.IsOn())
	_, known := p.Brightness()
	assert.False(t, known)

	client.Mock.On("Status").Return(Status{}, errDevice).Once()
	assert.False(t, p.Refresh(context.Background()))
	assert.False(t, p.Available(), "failed poll must not make the lamp available")

	client.Mock.On("Off").Return(AckOK, nil).Once()
	assert.True(t, p.TurnOff(context.Background()))
	assert.True(t, p.Available())
}

func TestProxy_Refresh(t *testing.T) {
	var buf bytes.Buffer
	client := new(mockClient)
	p := newTestProxy(t, client, &buf)

	client.Mock.On("Status").Return(Status{IsOn: false, Brightness: 40}, nil).Once()

	require.True(t, p.Refresh(context.Background()))

	assert.True(t, p.Available())
	assert.False(t, p.IsOn())
	b, known := p.Brightness()
	assert.True(t, known)
	assert.Equal(t, uint8(102), b)
	client.AssertExpectations(t)
}

func TestProxy_RefreshFailureKeepsState(t *testing.T) {
	var buf bytes.Buffer
	client := new(mockClient)
	p := newTestProxy(t, client, &buf)

	client.Mock.On("Status").Return(Status{IsOn: true, Brightness: 60}, nil).Once()
	require.True(t, p.Refresh(context.Background()))
	before := p.Snapshot()
	buf.Reset()

	client.Mock.On("Status").Return(Status{}, errDevice).Once()
	assert.False(t, p.Refresh(context.Background()))

	assert.Equal(t, before, p.Snapshot())
	assert.Equal(t, 1, countErrors(&buf))
}

func TestProxy_TurnOnWithBrightness(t *testing.T) {
	var buf bytes.Buffer
	client := new(mockClient)
	p := newTestProxy(t, client, &buf)

	client.Mock.On("SetBrightness", 78).Return(AckOK, nil).Once()
	client.Mock.On("On").Return(AckOK, nil).Once()

	assert.True(t, p.TurnOn(context.Background(), u8(200)))

	assert.True(t, p.IsOn())
	b, _ := p.Brightness()
	assert.Equal(t, uint8(200), b)
	client.AssertExpectations(t)
}

func TestProxy_TurnOnBrightnessFailureStillPowersOn(t *testing.T) {
	var buf bytes.Buffer
	client := new(mockClient)
	p := newTestProxy(t, client, &buf)

	client.Mock.On("Status").Return(Status{IsOn: false, Brightness: 40}, nil).Once()
	require.True(t, p.Refresh(context.Background()))

	client.Mock.On("SetBrightness", 78).Return(nil, errDevice).Once()
	client.Mock.On("On").Return(AckOK, nil).Once()

	assert.True(t, p.TurnOn(context.Background(), u8(200)))

	assert.True(t, p.IsOn())
	b, _ := p.Brightness()
	assert.Equal(t, uint8(102), b, "brightness must keep its prior value")
	client.AssertExpectations(t)
}

func TestProxy_TurnOnFailureKeepsState(t *testing.T) {
	var buf bytes.Buffer
	client := new(mockClient)
	p := newTestProxy(t, client, &buf)

	client.Mock.On("Status").Return(Status{IsOn: false, Brightness: 40}, nil).Once()
	require.True(t, p.Refresh(context.Background()))
	before := p.Snapshot()

	client.Mock.On("SetBrightness", 78).Return(nil, errDevice).Once()
	client.Mock.On("On").Return(nil, errDevice).Once()

	assert.False(t, p.TurnOn(context.Background(), u8(200)))

	assert.Equal(t, before, p.Snapshot())
	assert.False(t, p.IsOn())
}

func TestProxy_TurnOnWithoutBrightness(t *testing.T) {
	var buf bytes.Buffer
	client := new(mockClient)
	p := newTestProxy(t, client, &buf)

	client.Mock.On("On").Return(AckOK, nil).Once()

	assert.True(t, p.TurnOn(context.Background(), nil))
	assert.True(t, p.IsOn())
	_, known := p.Brightness()
	assert.False(t, known)
	client.AssertNotCalled(t, "SetBrightness", mock.Anything)
}

func TestProxy_TurnOnUnexpectedResponse(t *testing.T) {
	var buf bytes.Buffer
	client := new(mockClient)
	p := newTestProxy(t, client, &buf)

	client.Mock.On("On").Return(Response{"error"}, nil).Once()

	assert.False(t, p.TurnOn(context.Background(), nil))
	assert.False(t, p.Available())
	assert.Equal(t, 0, countErrors(&buf))
}

func TestProxy_TurnOff(t *testing.T) {
	var buf bytes.Buffer
	client := new(mockClient)
	p := newTestProxy(t, client, &buf)

	client.Mock.On("On").Return(AckOK, nil).Once()
	require.True(t, p.TurnOn(context.Background(), nil))

	client.Mock.On("Off").Return(AckOK, nil).Once()
	assert.True(t, p.TurnOff(context.Background()))
	assert.True(t, p.Available())
	assert.False(t, p.IsOn(), "a confirmed turn off must leave the lamp off")
}

func TestProxy_TurnOffFailure(t *testing.T) {
	var buf bytes.Buffer
	client := new(mockClient)
	p := newTestProxy(t, client, &buf)

	client.Mock.On("On").Return(AckOK, nil).Once()
	require.True(t, p.TurnOn(context.Background(), nil))
	buf.Reset()

	client.Mock.On("Off").Return(nil, errDevice).Once()

	assert.False(t, p.TurnOff(context.Background()))
	assert.True(t, p.IsOn())
	assert.Equal(t, 1, countErrors(&buf))
}

func TestProxy_HungCallTimesOut(t *testing.T) {
	var buf bytes.Buffer
	client := new(mockClient)
	client.Mock.On("Info").Return(eyecareInfo, nil).Once()
	p, err := New(context.Background(), "Desk", client, newTestExecutor(&buf, 20*time.Millisecond))
	require.NoError(t, err)

	release := make(chan struct{})
	defer close(release)
	client.Mock.On("Status").Run(func(mock.Arguments) { <-release }).Return(Status{IsOn: true, Brightness: 100}, nil).Once()

	assert.False(t, p.Refresh(context.Background()))
	assert.False(t, p.Available())
	assert.Contains(t, buf.String(), device.ErrTimeout.Error())
}

func TestProxy_Snapshot(t *testing.T) {
	var buf bytes.Buffer
	client := new(mockClient)
	p := newTestProxy(t, client, &buf)

	s := p.Snapshot()
	assert.False(t, s.Available)
	assert.Nil(t, s.On)
	assert.Nil(t, s.Brightness)

	client.Mock.On("Status").Return(Status{IsOn: true, Brightness: 100}, nil).Once()
	require.True(t, p.Refresh(context.Background()))

	s = p.Snapshot()
	require.NotNil(t, s.On)
	require.NotNil(t, s.Brightness)
	assert.True(t, *s.On)
	assert.Equal(t, uint8(255), *s.Brightness)
	assert.False(t, s.UpdatedAt.IsZero())
}
