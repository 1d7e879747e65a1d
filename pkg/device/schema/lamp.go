package schema

import "encoding/json"

// TurnOnSchema describes the settable state accepted by a lamp turn_on command.
var TurnOnSchema = json.RawMessage(`{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"brightness": {"type": "integer", "minimum": 0, "maximum": 255}
	},
	"additionalProperties": false
}`)

// CommandSchema describes a command received on a lamp's MQTT set topic.
// Unknown properties sent by Home Assistant are ignored.
var CommandSchema = json.RawMessage(`{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"state": {"type": "string", "enum": ["ON", "OFF", "REFRESH", "on", "off", "refresh"]},
		"brightness": {"type": "integer", "minimum": 0, "maximum": 255}
	},
	"anyOf": [
		{"required": ["state"]},
		{"required": ["brightness"]}
	]
}`)

// CreateProfileSchema describes a new settings profile.
var CreateProfileSchema = json.RawMessage(`{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"name": {"type": "string", "pattern": "^[A-Za-z0-9_-]{1,64}$"},
		"poll_interval_seconds": {"type": "integer", "minimum": 1, "maximum": 86400}
	},
	"required": ["name"],
	"additionalProperties": false
}`)

// UpdateProfileSchema describes a change to a settings profile.
var UpdateProfileSchema = json.RawMessage(`{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"poll_interval_seconds": {"type": "integer", "minimum": 1, "maximum": 86400}
	},
	"required": ["poll_interval_seconds"],
	"additionalProperties": false
}`)

// ConfigSchema describes the lamp configuration file.
var ConfigSchema = json.RawMessage(`{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"log": {
			"type": "object",
			"properties": {
				"level": {"type": "string", "enum": ["trace", "debug", "info", "warn", "error"]}
			}
		},
		"poll_interval": {"type": "string"},
		"command_timeout": {"type": "string"},
		"lamps": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"id": {"type": "string", "pattern": "^[a-zA-Z0-9_-]*$"},
					"host": {"type": "string", "minLength": 1},
					"token": {"type": "string", "minLength": 32, "maxLength": 32},
					"name": {"type": "string"},
					"driver": {"type": "string"}
				},
				"required": ["host", "token"],
				"additionalProperties": false
			}
		},
		"mqtt": {
			"type": "object",
			"properties": {
				"enabled": {"type": "boolean"},
				"broker": {"type": "string"},
				"username": {"type": "string"},
				"password": {"type": "string"},
				"topic_prefix": {"type": "string"}
			},
			"additionalProperties": false
		}
	},
	"additionalProperties": false
}`)
