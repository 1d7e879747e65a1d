package db

import (
	"context"
	"fmt"
)

// Default settings written on first run.
const (
	DefaultProfileName         = "default"
	DefaultPollIntervalSeconds = 30
	DefaultAPIHost             = "0.0.0.0"
	DefaultAPIPort             = 8080
)

// Bootstrap creates the default profile and API server config if the
// database has no profiles yet.
func (db *DB) Bootstrap(ctx context.Context) error {
	needs, err := db.NeedsBootstrap(ctx)
	if err != nil {
		return fmt.Errorf("failed to check profiles: %w", err)
	}
	if !needs {
		return nil
	}

	p := &Profile{
		Name:                DefaultProfileName,
		PollIntervalSeconds: DefaultPollIntervalSeconds,
		IsActive:            true,
	}
	if err := db.Profiles().Create(ctx, p); err != nil {
		return fmt.Errorf("failed to create default profile: %w", err)
	}

	a := &APIServer{
		ProfileID: p.ID,
		Host:      DefaultAPIHost,
		Port:      DefaultAPIPort,
	}
	if err := db.APIServers().Create(ctx, a); err != nil {
		return fmt.Errorf("failed to create default API server: %w", err)
	}

	return nil
}

// NeedsBootstrap returns true if the database needs initial setup.
func (db *DB) NeedsBootstrap(ctx context.Context) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&count)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}
