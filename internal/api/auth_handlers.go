package api

import (
	"encoding/json"
	"net/http"

	"circstack/internal/db"
)

// loginHandler handles admin authentication
func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req db.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	user, err := s.DB.GetUserByUsername(req.Username)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if !s.DB.ValidatePassword(user, req.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, expiresAt, err := s.JWT.GenerateToken(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	if err := s.DB.UpdateLastLogin(user.ID); err != nil {
		s.Log.Warn().Err(err).Str("username", user.Username).Msg("failed to record login")
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token":      token,
		"expires_at": expiresAt,
		"username":   user.Username,
	})
}
