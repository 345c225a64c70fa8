package handler

import (
	"net/http"

	"github.com/joyroute/backend/internal/middleware"
	"github.com/joyroute/backend/internal/service"
)

// Register handles POST /auth/register.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Password  string `json:"password"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	user, err := s.auth.Register(r.Context(), service.RegisterInput{
		Email:     body.Email,
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Password:  body.Password,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

// Login handles POST /auth/login. On success the access token is set as an
// HttpOnly cookie; the body carries the user plus the token for clients
// that prefer the Authorization header.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	user, token, err := s.auth.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.tokens.AccessTTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, map[string]any{
		"user":  user,
		"token": token,
	})
}

// Logout handles POST /auth/logout by expiring the session cookie.
// Tokens are stateless, so the cookie is all there is to revoke.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /auth/me.
func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	user, err := s.auth.GetUser(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// VerifyEmail handles POST /auth/verify-email.
func (s *Server) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token string `json:"token"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.Token == "" {
		badRequest(w, "token is required")
		return
	}
	if err := s.auth.VerifyEmail(r.Context(), body.Token); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ResendVerification handles POST /auth/resend-verification.
func (s *Server) ResendVerification(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	if err := s.auth.ResendVerification(r.Context(), userID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RequestPasswordReset handles POST /auth/password-reset.
// Always 204, whether or not the email is registered.
func (s *Server) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.Email == "" {
		badRequest(w, "email is required")
		return
	}
	if err := s.auth.RequestPasswordReset(r.Context(), body.Email); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ConfirmPasswordReset handles POST /auth/password-reset/confirm.
func (s *Server) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.Token == "" {
		badRequest(w, "token is required")
		return
	}
	if err := s.auth.ConfirmPasswordReset(r.Context(), body.Token, body.Password); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
