package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"vertrieb-backend/internal/models"
	"vertrieb-backend/internal/services"
	"vertrieb-backend/pkg/utils"
)

// Client-facing copy is German; internal logs stay English.
const (
	msgBadRequest   = "Ungültige Anfrage"
	msgServerError  = "Etwas ist schiefgelaufen. Bitte versuchen Sie es später erneut."
	msgNotFound     = "Nicht gefunden"
	msgLoginFailed  = "E-Mail oder Passwort ist falsch"
	msgSignupFailed = "Registrierung fehlgeschlagen. Bitte Eingaben prüfen."
)

type AuthHandler struct {
	Service *services.UserService
}

func NewAuthHandler(s *services.UserService) *AuthHandler {
	return &AuthHandler{Service: s}
}

// Signup handles user registration
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	authResp, err := h.Service.Signup(r.Context(), req)
	if err != nil {
		log.Printf("[Auth] signup failed for %s: %v", req.Email, err)
		utils.Error(w, http.StatusBadRequest, msgSignupFailed)
		return
	}

	utils.JSON(w, http.StatusCreated, authResp)
}

// Login handles user authentication
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	authResp, err := h.Service.Login(r.Context(), req)
	if err != nil {
		log.Printf("[Auth] login failed for %s: %v", req.Email, err)
		utils.Error(w, http.StatusUnauthorized, msgLoginFailed)
		return
	}

	utils.JSON(w, http.StatusOK, authResp)
}
