package types

import (
	"time"

	"github.com/urmzd/eyecare/pkg/db"
)

// --- Request DTOs ---

// TurnOnRequest is the request body for POST /lamps/:id/turn_on
type TurnOnRequest struct {
	Brightness *uint8 `json:"brightness,omitempty" minimum:"0" maximum:"255"`
}

// --- Response DTOs ---

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is returned from GET /health
type HealthResponse struct {
	Status     string    `json:"status"`
	Controller string    `json:"controller"`
	Timestamp  time.Time `json:"timestamp"`
}

// LampState is the cached state of a lamp in API responses
type LampState struct {
	Available  bool              `json:"available"`
	State      string            `json:"state"` // ON, OFF or unknown
	Brightness *uint8            `json:"brightness,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// LampWithState combines lamp info with its current state
type LampWithState struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Host            string     `json:"host"`
	Driver          string     `json:"driver"`
	Model           string     `json:"model,omitempty"`
	FirmwareVersion string     `json:"firmware_version,omitempty"`
	HardwareVersion string     `json:"hardware_version,omitempty"`
	Connected       bool       `json:"connected"`
	State           *LampState `json:"state,omitempty"`
}

// ListLampsResponse is returned from GET /lamps
type ListLampsResponse struct {
	Lamps []LampWithState `json:"lamps"`
	Count int             `json:"count"`
}

// LampResponse is returned from GET /lamps/:id
type LampResponse struct {
	Lamp LampWithState `json:"lamp"`
}

// StateResponse is returned from GET /lamps/:id/state
type StateResponse struct {
	Lamp      string    `json:"lamp"`
	State     LampState `json:"state"`
	Timestamp time.Time `json:"timestamp"`
}

// CommandResponse is returned from the command endpoints. Success is false
// when the lamp did not confirm the command; State is then unchanged.
type CommandResponse struct {
	Lamp      string    `json:"lamp"`
	Command   string    `json:"command"`
	Success   bool      `json:"success"`
	State     LampState `json:"state"`
	Timestamp time.Time `json:"timestamp"`
}

// HistoryResponse is returned from GET /lamps/:id/history
type HistoryResponse struct {
	Lamp    string            `json:"lamp"`
	Entries []db.CommandEntry `json:"entries"`
	Count   int               `json:"count"`
}

// CreateProfileRequest is the body of POST /profiles
type CreateProfileRequest struct {
	Name                string `json:"name" example:"office"`
	PollIntervalSeconds int    `json:"poll_interval_seconds,omitempty" example:"30"`
}

// UpdateProfileRequest is the body of PATCH /profiles/:name
type UpdateProfileRequest struct {
	PollIntervalSeconds int `json:"poll_interval_seconds" example:"15"`
}

// ProfileResponse is returned from the single-profile endpoints
type ProfileResponse struct {
	Profile *db.Profile `json:"profile"`
}

// ListProfilesResponse is returned from GET /profiles
type ListProfilesResponse struct {
	Profiles []*db.Profile `json:"profiles"`
	Count    int           `json:"count"`
}
