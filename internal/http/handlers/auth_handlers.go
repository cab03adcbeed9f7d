package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/stockly/internal/errx"
	"github.com/rogerio-castellano/stockly/internal/logx"
)

func writeAppError(w http.ResponseWriter, err error) {
	status, message := errx.StatusOf(err)
	if status >= http.StatusInternalServerError {
		logx.Error().Err(err).Int("status", status).Msg("request failed")
	}
	WriteError(w, status, message)
}

// RegisterHandler godoc
// @Summary Register new user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body RegisterRequest true "name, email and password"
// @Success 201 {object} RegisterResult
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/auth/register [post]
func (s *Server) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := readJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid input")
		return
	}

	if errs := s.fieldErrors(req); len(errs) > 0 {
		WriteError(w, http.StatusBadRequest, errs[0].Description)
		return
	}

	user, token, err := s.Auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeAppError(w, err)
		return
	}

	logx.Info().Str("user_id", user.ID).Msg("user registered")
	writeJSON(w, http.StatusCreated, RegisterResult{
		Message: "user registered",
		Token:   token,
	})
}

// LoginHandler godoc
// @Summary Authenticate user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "email and password"
// @Success 200 {object} LoginResult
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/auth/login [post]
func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := readJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid input")
		return
	}
	if errs := s.fieldErrors(req); len(errs) > 0 {
		WriteError(w, http.StatusBadRequest, "Missing credentials")
		return
	}

	token, err := s.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, LoginResult{Token: token})
}

// LogoutHandler godoc
// @Summary Revoke the current token
// @Tags auth
// @Security BearerAuth
// @Success 204 "Logged out"
// @Failure 401 {object} ErrorResponse
// @Router /api/auth/logout [post]
func (s *Server) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	if err := s.Auth.Logout(r.Context(), session); err != nil {
		writeAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SessionHandler godoc
// @Summary Current session
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SessionResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/auth/session [get]
func (s *Server) SessionHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{ID: session.ID, Name: session.Name, Email: session.Email})
}
