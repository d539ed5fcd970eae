package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/arenaops/paddock/go/internal/arena"
	"github.com/arenaops/paddock/go/internal/arena/events"
	"github.com/arenaops/paddock/go/internal/arena/store"
	"github.com/arenaops/paddock/go/internal/dbconfig"
	"github.com/arenaops/paddock/go/internal/models"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	// Setup logging
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	ctx := context.Background()

	// Arena defaults from the settings file
	cfgPath := getEnv("PADDOCK_CONFIG", "config.yaml")
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		log.Warn().Err(err).Str("path", cfgPath).Msg("could not load settings file; using defaults")
	}
	arenaCfg := arenaConfig(cfg)

	// Event publisher: JetStream when NATS_URL is set, otherwise a nop
	var sink events.Publisher = events.NopPublisher{}
	if natsURL := os.Getenv("NATS_URL"); natsURL != "" {
		jsCfg := events.DefaultJetStreamConfig()
		jsCfg.URL = natsURL
		pub, err := events.NewJetStreamPublisher(jsCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create JetStream publisher")
		}
		sink = pub
	}
	defer func() {
		if err := sink.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close event publisher")
		}
	}()

	// Durable team tallies, optional
	var teamStore arena.TeamStore
	var seeded []models.Team
	if getEnvAsBool("PADDOCK_DB_ENABLED", false) {
		dbCfg := dbconfig.NewConfigFromEnv()
		st, err := store.New(ctx, dbCfg.DSN())
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer st.Close()

		seeded, err = st.LoadTeams(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load teams from database")
		}
		teamStore = st
		log.Info().Str("database", dbCfg.Database).Int("teams", len(seeded)).Msg("team store connected")
	}

	app := arena.NewApp(arenaCfg, clockwork.NewRealClock(), sink, teamStore)
	if len(seeded) > 0 {
		app.SeedTeams(seeded)
	}

	srv := setupServer(app)

	log.Info().
		Str("addr", srv.Addr).
		Int("slots", arenaCfg.SlotCount).
		Dur("run_duration", arenaCfg.RunDuration).
		Msg("starting arena coordinator")

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
