package db

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrNoActiveProfile = errors.New("no active profile found")

// Config is the runtime configuration stored for the active profile.
type Config struct {
	Profile   *Profile
	APIServer *APIServer
}

// APIAddress returns the API server listen address.
func (c *Config) APIAddress() string {
	if c.APIServer == nil {
		return fmt.Sprintf("%s:%d", DefaultAPIHost, DefaultAPIPort)
	}
	return c.APIServer.Address()
}

// PollInterval returns the lamp poll interval of the profile.
func (c *Config) PollInterval() time.Duration {
	if c.Profile == nil || c.Profile.PollIntervalSeconds <= 0 {
		return DefaultPollIntervalSeconds * time.Second
	}
	return time.Duration(c.Profile.PollIntervalSeconds) * time.Second
}

// ActiveConfig loads the complete configuration for the active profile.
func (db *DB) ActiveConfig(ctx context.Context) (*Config, error) {
	profile, err := db.Profiles().GetActive(ctx)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, ErrNoActiveProfile
		}
		return nil, fmt.Errorf("failed to get active profile: %w", err)
	}

	config := &Config{
		Profile: profile,
	}

	apiServer, err := db.APIServers().Get(ctx, profile.ID)
	if err != nil && !errors.Is(err, ErrAPIServerNotFound) {
		return nil, fmt.Errorf("failed to get API server config: %w", err)
	}
	config.APIServer = apiServer

	return config, nil
}
