package schema

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/urmzd/eyecare/pkg/device"
)

func commandSchema() json.RawMessage {
	return json.RawMessage(`{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "object",
		"properties": {
			"state": {"type": "string", "enum": ["ON", "OFF", "REFRESH"]},
			"brightness": {"type": "integer", "minimum": 0, "maximum": 255}
		},
		"additionalProperties": false
	}`)
}

func TestValidate_ValidPayload(t *testing.T) {
	v := NewValidator()

	err := v.Validate(commandSchema(), map[string]any{
		"state":      "ON",
		"brightness": float64(200),
	})
	if err != nil {
		t.Errorf("expected valid payload, got: %v", err)
	}
}

func TestValidate_InvalidEnum(t *testing.T) {
	v := NewValidator()

	err := v.Validate(commandSchema(), map[string]any{"state": "TOGGLE"})
	if err == nil {
		t.Fatal("expected validation error for invalid enum value")
	}
	if !errors.Is(err, device.ErrValidation) {
		t.Errorf("expected ErrValidation, got: %v", err)
	}
}

func TestValidate_OutOfRange(t *testing.T) {
	v := NewValidator()

	if err := v.Validate(commandSchema(), map[string]any{"brightness": float64(300)}); err == nil {
		t.Error("expected validation error for out-of-range brightness")
	}
	if err := v.Validate(commandSchema(), map[string]any{"brightness": float64(-1)}); err == nil {
		t.Error("expected validation error for negative brightness")
	}
}

func TestValidate_WrongType(t *testing.T) {
	v := NewValidator()

	err := v.Validate(commandSchema(), map[string]any{"brightness": "bright"})
	if err == nil {
		t.Error("expected validation error for wrong type")
	}
}

func TestValidate_EmptySchema(t *testing.T) {
	v := NewValidator()

	if err := v.Validate(json.RawMessage(`{}`), map[string]any{"anything": "goes"}); err != nil {
		t.Errorf("empty schema should skip validation, got: %v", err)
	}
	if err := v.Validate(nil, map[string]any{"anything": "goes"}); err != nil {
		t.Errorf("nil schema should skip validation, got: %v", err)
	}
}

func TestValidate_BrokenSchema(t *testing.T) {
	v := NewValidator()

	err := v.Validate(json.RawMessage(`{"type": `), map[string]any{})
	if err == nil {
		t.Fatal("expected error for malformed schema")
	}
	if errors.Is(err, device.ErrValidation) {
		t.Error("a malformed schema is not a payload validation failure")
	}
}

func TestValidate_CachesSchema(t *testing.T) {
	v := NewValidator()

	if err := v.Validate(commandSchema(), map[string]any{"state": "ON"}); err != nil {
		t.Fatal(err)
	}
	if err := v.Validate(commandSchema(), map[string]any{"state": "OFF"}); err != nil {
		t.Fatal(err)
	}

	v.mu.RLock()
	cacheSize := len(v.cache)
	v.mu.RUnlock()
	if cacheSize != 1 {
		t.Errorf("expected 1 cached schema, got %d", cacheSize)
	}
}
