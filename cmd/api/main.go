package main

import (
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"circstack/internal/api"
	"circstack/internal/config"
	"circstack/internal/db"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	// Load configuration
	cfg := config.Load()

	// Connect to database
	database, err := db.Connect(cfg.DBURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()

	if err := database.Health(); err != nil {
		log.Fatal().Err(err).Msg("database health check failed")
	}

	// Set up router
	r := mux.NewRouter()
	api.RegisterRoutes(r, database, cfg, log)

	log.Info().
		Str("port", cfg.APIPort).
		Str("public_base_url", cfg.PublicBaseURL).
		Msg("API server starting")
	log.Fatal().Err(http.ListenAndServe(":"+cfg.APIPort, r)).Msg("server stopped")
}
