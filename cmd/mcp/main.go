package main

import (
	"context"
	"flag"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urmzd/eyecare/pkg/app"
	eyecaremcp "github.com/urmzd/eyecare/pkg/mcp"
)

func main() {
	// Logging must go to stderr, stdout is the MCP transport
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
	defer a.Close()
	a.Start(ctx)

	mcpServer := eyecaremcp.NewServer(a.Controller, a.Validator, a.DB.Commands())

	log.Info().Msg("Starting MCP server on stdio")

	if err := mcpServer.ServeStdio(); err != nil {
		log.Error().Err(err).Msg("MCP server failed")
	}
}
