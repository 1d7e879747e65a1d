package device

import (
	"context"
	"errors"
	"testing"
)

func TestNullController(t *testing.T) {
	c := NewNullController()
	ctx := context.Background()

	devices, err := c.ListDevices(ctx)
	if err != nil {
		t.Fatalf("ListDevices: %v", err)
	}
	if len(devices) != 0 {
		t.Errorf("expected no devices, got %d", len(devices))
	}

	if _, err := c.GetDevice(ctx, "desk"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetDevice err = %v, want ErrNotFound", err)
	}
	if _, err := c.TurnOn(ctx, "desk", nil); !errors.Is(err, ErrNotConnected) {
		t.Errorf("TurnOn err = %v, want ErrNotConnected", err)
	}
	if _, err := c.TurnOff(ctx, "desk"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("TurnOff err = %v, want ErrNotConnected", err)
	}
	if _, err := c.Refresh(ctx, "desk"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Refresh err = %v, want ErrNotConnected", err)
	}
	if c.IsConnected() {
		t.Error("null controller must never report connected")
	}
}

func TestDeviceAttributes(t *testing.T) {
	d := Device{Model: "philips.light.sread1", FirmwareVersion: "1.0.7", HardwareVersion: "ESP8266"}
	attrs := d.Attributes()
	if attrs[AttrModel] != "philips.light.sread1" {
		t.Errorf("model = %q", attrs[AttrModel])
	}
	if attrs[AttrFirmwareVersion] != "1.0.7" {
		t.Errorf("fw_ver = %q", attrs[AttrFirmwareVersion])
	}
	if attrs[AttrHardwareVersion] != "ESP8266" {
		t.Errorf("hw_ver = %q", attrs[AttrHardwareVersion])
	}
}
