package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urmzd/eyecare/pkg/api"
	"github.com/urmzd/eyecare/pkg/app"
	"github.com/urmzd/eyecare/pkg/mqtt"
)

// @title           Eyecare API
// @version         1.0
// @description     REST API for controlling Eyecare lamps on the local network

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

func main() {
	// Configure logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Parse flags
	dbPath := flag.String("db", "", "Path to database file (default: ~/.config/eyecare/eyecare.db)")
	configPath := flag.String("config", "", "Path to lamp configuration file (YAML)")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.New(ctx, *dbPath, *configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start")
	}
	a.Start(ctx)

	var bridge *mqtt.Bridge
	if a.Config.MQTT.Enabled {
		bridge, err = mqtt.NewBridge(a.Controller, a.Subscriber, a.Validator, a.Config.MQTT, log.Logger)
		if err != nil {
			log.Error().Err(err).Str("broker", a.Config.MQTT.Broker).Msg("MQTT bridge unavailable")
		} else {
			bridge.Start()
		}
	}

	router := api.NewRouter(a.Controller, a.Subscriber, a.Validator, a.DB.Commands())
	router.EnableProfiles(a.DB.Profiles(), a.Poller())

	// Handle shutdown gracefully
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("Shutting down...")
		cancel()
		if bridge != nil {
			bridge.Stop()
		}
		a.Close()
		os.Exit(0)
	}()

	// Start server
	addr := a.Settings.APIAddress()
	log.Info().Str("address", addr).Msg("Starting API server")

	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
