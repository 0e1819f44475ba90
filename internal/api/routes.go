package api

import (
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"circstack/internal/auth"
	"circstack/internal/config"
	"circstack/internal/db"
	"circstack/internal/registry"
)

// OPDSRegistrationProtocol names the protocol registry references created
// through this API speak.
const OPDSRegistrationProtocol = "OPDS Registration"

// Server holds dependencies for API handlers
type Server struct {
	DB        *db.DB
	Config    config.Config
	Registrar *registry.Registrar
	JWT       *auth.JWTManager
	Log       zerolog.Logger
}

// RegisterRoutes sets up all API routes
func RegisterRoutes(r *mux.Router, database *db.DB, cfg config.Config, log zerolog.Logger) {
	s := &Server{
		DB:        database,
		Config:    cfg,
		Registrar: registry.NewRegistrar(database, nil),
		JWT:       auth.NewJWTManager(cfg.JWTSecret, auth.DefaultTokenDuration),
		Log:       log,
	}

	// Apply middleware in order (outermost to innermost)
	r.Use(s.panicRecoveryMiddleware)
	r.Use(s.loggingMiddleware)

	// Public endpoints
	r.HandleFunc("/health", s.healthHandler).Methods("GET")
	r.HandleFunc("/{library}/authentication_document", s.authenticationDocumentHandler).Methods("GET")
	r.HandleFunc("/v1/auth/login", s.loginHandler).Methods("POST")

	// Admin endpoints
	admin := r.PathPrefix("/v1").Subrouter()
	admin.Use(s.jwtAuthMiddleware)
	admin.HandleFunc("/registrations", s.listRegistrationsHandler).Methods("GET")
	admin.HandleFunc("/registrations", s.createRegistrationHandler).Methods("POST")
}
