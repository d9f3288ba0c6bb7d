package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"postolog/middleware"
)

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResp struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// Login verifies credentials through the external authenticator, then opens
// a session and returns its JWT.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Password == "" {
		http.Error(w, "username and password are required", http.StatusBadRequest)
		return
	}

	if err := h.Auth.Authenticate(r.Context(), req.Username, req.Password); err != nil {
		if errors.Is(err, middleware.ErrInvalidCredentials) {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		http.Error(w, "authentication service unavailable", http.StatusBadGateway)
		return
	}

	sess := h.Sessions.Create(req.Username)
	token, err := middleware.GenerateToken(sess.ID, req.Username)
	if err != nil {
		h.Sessions.Delete(sess.ID)
		http.Error(w, "couldn't create token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(loginResp{Token: token, Username: req.Username})
}

// Logout drops the session and everything scoped to it.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if id := middleware.GetSessionID(r); id != uuid.Nil {
		h.Sessions.Delete(id)
	}
	w.WriteHeader(http.StatusNoContent)
}
