package main

import (
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/querydeck/scribe/internal/app"
	"github.com/querydeck/scribe/internal/web"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		addr       string
		configPath string
		dbPath     string
		verbose    bool
	)
	flag.StringVar(&addr, "addr", ":8080", "Listen address")
	flag.StringVar(&configPath, "config", "", "Optional YAML config file")
	flag.StringVar(&dbPath, "db", "", "Path to the report database")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg := app.Config{DBPath: dbPath, Verbose: verbose}
	if configPath != "" {
		fc, err := app.LoadFileConfig(configPath)
		if err != nil {
			log.Error().Err(err).Str("path", configPath).Msg("config file")
			os.Exit(1)
		}
		app.MergeFileConfig(&cfg, fc)
	}
	app.ApplyEnvToConfig(&cfg)

	a, err := app.New(cfg)
	if err != nil {
		log.Error().Err(err).Msg("init app")
		os.Exit(1)
	}
	defer a.Close()

	srv := &web.Server{Store: a.Store(), Runner: a}
	log.Info().Str("addr", addr).Msg("serving report history")
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
