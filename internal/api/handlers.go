package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"circstack/internal/db"
	"circstack/internal/registry"
)

// AuthDocumentMediaType is the media type of an OPDS authentication document.
const AuthDocumentMediaType = "application/vnd.opds.authentication.v1.0+json"

// healthHandler returns API health status
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.DB.Health(); err != nil {
		writeError(w, http.StatusServiceUnavailable, "Database connection failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"service": "circstack-api",
	})
}

// authenticationDocumentHandler serves the per-library authentication
// document: the callback target a registry fetches after a registration
// POST names it.
func (s *Server) authenticationDocumentHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	shortName := vars["library"]

	lib, err := s.DB.GetLibraryByShortName(shortName)
	if err == sql.ErrNoRows {
		writeError(w, http.StatusNotFound, "Library not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load library")
		return
	}

	builder := registry.BaseURLBuilder{Base: s.Config.PublicBaseURL}
	id, err := builder.AuthDocumentURL(lib.ShortName)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build document id")
		return
	}

	doc := map[string]interface{}{
		"id":    id,
		"title": lib.Name,
		"public_key": map[string]string{
			"type":  "RSA",
			"value": lib.PublicKey,
		},
	}
	if contact := lib.ContactURI(); contact != "" {
		doc["links"] = []map[string]string{{"rel": "help", "href": contact}}
	}

	w.Header().Set("Content-Type", AuthDocumentMediaType)
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(doc)
}

// registrationEntry is one row of a listing response, with best-effort
// terms-of-service data attached.
type registrationEntry struct {
	db.RegistrationInfo
	TermsOfService *registry.TermsOfService `json:"terms_of_service,omitempty"`
}

// listRegistrationsHandler lists registrations, optionally filtered by
// library and registry URL. Terms-of-service lookups are best-effort; a
// registry that is down never fails the listing.
func (s *Server) listRegistrationsHandler(w http.ResponseWriter, r *http.Request) {
	library := r.URL.Query().Get("library")
	registryURL := r.URL.Query().Get("registry_url")

	rows, err := s.DB.ListRegistrations(library, registryURL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list registrations")
		return
	}

	termsByRegistry := map[string]*registry.TermsOfService{}
	entries := make([]registrationEntry, len(rows))
	for i, row := range rows {
		tos, seen := termsByRegistry[row.RegistryURL]
		if !seen {
			tos, _ = s.Registrar.FetchRegistrationDocument(r.Context(), row.RegistryURL)
			termsByRegistry[row.RegistryURL] = tos
		}
		entries[i] = registrationEntry{RegistrationInfo: row, TermsOfService: tos}
	}

	writeJSON(w, http.StatusOK, entries)
}

// createRegistrationRequest is the body of a registration push request.
type createRegistrationRequest struct {
	Library     string `json:"library"`
	RegistryURL string `json:"registry_url"`
	Stage       string `json:"stage"`
}

// createRegistrationHandler runs one registration push for a library.
func (s *Server) createRegistrationHandler(w http.ResponseWriter, r *http.Request) {
	var req createRegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Library == "" || req.RegistryURL == "" || req.Stage == "" {
		writeError(w, http.StatusBadRequest, "library, registry_url, and stage are required")
		return
	}

	lib, err := s.DB.GetLibraryByShortName(req.Library)
	if err == sql.ErrNoRows {
		writeError(w, http.StatusNotFound, "Library not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load library")
		return
	}

	ref, err := s.DB.GetOrCreateRegistryReference(OPDSRegistrationProtocol, db.GoalDiscovery, req.RegistryURL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to look up registry")
		return
	}

	reg, err := s.DB.GetOrCreateRegistration(lib, ref)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to look up registration")
		return
	}

	username := "unknown"
	if claims := getClaimsFromContext(r.Context()); claims != nil {
		username = claims.Username
	}
	s.Log.Info().
		Str("user", username).
		Str("library", req.Library).
		Str("registry", req.RegistryURL).
		Str("stage", req.Stage).
		Msg("registration push requested")

	builder := registry.BaseURLBuilder{Base: s.Config.PublicBaseURL}
	err = s.Registrar.Push(r.Context(), lib, ref, reg, req.Stage, builder, "")
	if err != nil {
		var problem *registry.Problem
		if errors.As(err, &problem) {
			writeProblem(w, problem)
			return
		}
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	writeJSON(w, http.StatusOK, reg)
}
