// Package app wires the settings database, the lamp configuration and the
// lamp manager together for the binaries.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/urmzd/eyecare/pkg/config"
	"github.com/urmzd/eyecare/pkg/db"
	"github.com/urmzd/eyecare/pkg/device"
	"github.com/urmzd/eyecare/pkg/device/schema"
	"github.com/urmzd/eyecare/pkg/lamp"
)

// CommandLogRetention is how long command log entries are kept.
const CommandLogRetention = 30 * 24 * time.Hour

// App holds everything a binary needs to serve lamps.
type App struct {
	DB         *db.DB
	Settings   *db.Config
	Config     *config.Config
	Validator  *schema.Validator
	Controller device.Controller
	Subscriber device.EventSubscriber

	manager *lamp.Manager
}

// New opens the database at dbPath, loads the lamp configuration at
// configPath (none when empty) and registers every configured lamp.
// Without lamps the controller is a NullController.
func New(ctx context.Context, dbPath, configPath string) (*App, error) {
	validator := schema.NewValidator()

	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.Load(configPath, validator)
	} else {
		cfg, err = config.Parse(nil, validator)
	}
	if err != nil {
		return nil, err
	}

	if level, err := zerolog.ParseLevel(cfg.Log.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	database, err := db.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	log.Info().Str("path", database.Path()).Msg("Database opened")

	settings, err := database.Setup(ctx)
	if err != nil {
		_ = database.Close()
		return nil, err
	}

	pollInterval := settings.PollInterval()
	if d := cfg.PollIntervalDuration(); d > 0 {
		pollInterval = d
	}

	log.Info().
		Str("profile", settings.Profile.Name).
		Str("api_address", settings.APIAddress()).
		Dur("poll_interval", pollInterval).
		Int("lamps", len(cfg.Lamps)).
		Msg("Configuration loaded")

	a := &App{
		DB:        database,
		Settings:  settings,
		Config:    cfg,
		Validator: validator,
	}

	if removed, err := database.Commands().Prune(ctx, time.Now().Add(-CommandLogRetention)); err != nil {
		log.Warn().Err(err).Msg("Failed to prune command log")
	} else if removed > 0 {
		log.Info().Int64("removed", removed).Msg("Pruned command log")
	}

	if len(cfg.Lamps) == 0 {
		log.Warn().Msg("No lamps configured, using null controller")
		a.Controller = device.NewNullController()
		a.Subscriber = device.NewNullEventSubscriber()
		return a, nil
	}

	opts := []lamp.Option{
		lamp.WithPollInterval(pollInterval),
		lamp.WithRecorder(database.Commands()),
	}
	if d := cfg.CommandTimeoutDuration(); d > 0 {
		opts = append(opts, lamp.WithTimeout(d))
	}
	a.manager = lamp.NewManager(lamp.DefaultDrivers(), opts...)

	for _, l := range cfg.Lamps {
		if err := a.manager.Add(ctx, l); err != nil {
			a.manager.Close()
			_ = database.Close()
			return nil, err
		}
	}

	a.Controller = a.manager
	a.Subscriber = a.manager
	return a, nil
}

// Poller is the running lamp poller whose interval can be changed.
type Poller interface {
	SetPollInterval(d time.Duration)
}

// Poller returns the lamp poller, or nil when no lamps are configured.
func (a *App) Poller() Poller {
	if a.manager == nil {
		return nil
	}
	return a.manager
}

// Start runs the lamp poller in the background until ctx is cancelled.
func (a *App) Start(ctx context.Context) {
	if a.manager != nil {
		go a.manager.Run(ctx)
	}
}

// Close releases the lamps and the database.
func (a *App) Close() {
	if a.Controller != nil {
		a.Controller.Close()
	}
	if err := a.DB.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close database")
	}
}
