package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/megaplex/realestate/internal/auth"
)

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned by login and logout
type LoginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// StatusResponse reports whether the caller holds an admin session
type StatusResponse struct {
	IsAuthenticated bool `json:"isAuthenticated"`
}

// setSessionCookie writes the session cookie; maxAge < 0 deletes it
func (s *Server) setSessionCookie(c *gin.Context, value string, maxAge time.Duration) {
	cookie := &http.Cookie{
		Name:     s.config.Session.CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: http.SameSiteNoneMode,
	}
	if maxAge < 0 {
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0)
	} else {
		cookie.MaxAge = int(maxAge.Seconds())
		cookie.Expires = time.Now().Add(maxAge)
	}
	http.SetCookie(c.Writer, cookie)
}

// parseLoginRequest rejects only bodies that are not JSON. An empty body,
// a non-object, or non-string fields yield empty credentials, which then
// fail as an ordinary wrong login.
func parseLoginRequest(body []byte) (LoginRequest, error) {
	var req LoginRequest
	if len(bytes.TrimSpace(body)) == 0 {
		return req, nil
	}
	if !json.Valid(body) {
		return req, errors.New("malformed JSON")
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return req, nil
	}
	req.Email, _ = fields["email"].(string)
	req.Password, _ = fields["password"].(string)
	return req, nil
}

// @Summary Admin login
// @Description Exchange the admin email and password for a session cookie
// @Tags admin
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login request"
// @Success 200 {object} LoginResponse
// @Failure 401 {object} LoginResponse
// @Router /admin/login [post]
func (s *Server) login(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, LoginResponse{Success: false, Error: "Invalid request body"})
		return
	}

	req, err := parseLoginRequest(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, LoginResponse{Success: false, Error: "Invalid request body"})
		return
	}

	ctx := c.Request.Context()

	session, token, err := s.sessions.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.metrics.IncLogin(false)
			c.JSON(http.StatusUnauthorized, LoginResponse{Success: false, Error: "Invalid credentials"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to create session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// A fresh login replaces whatever session the browser held before
	if previous := sessionToken(c, s.config.Session.CookieName); previous != "" {
		if err := s.sessions.Logout(ctx, previous); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to revoke previous session")
		}
	}

	s.metrics.IncLogin(true)
	s.setSessionCookie(c, token, time.Until(session.ExpiresAt))

	c.JSON(http.StatusOK, LoginResponse{Success: true, Message: "Login successful"})
}

// @Summary Admin logout
// @Description Destroy the current session
// @Tags admin
// @Produce json
// @Success 200 {object} LoginResponse
// @Failure 500 {object} map[string]interface{}
// @Router /admin/logout [post]
func (s *Server) logout(c *gin.Context) {
	if err := s.sessions.Logout(c.Request.Context(), sessionToken(c, s.config.Session.CookieName)); err != nil {
		s.logger.Error().Err(err).Msg("Failed to destroy session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed"})
		return
	}

	s.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, LoginResponse{Success: true, Message: "Logged out successfully"})
}

// @Summary Session status
// @Tags admin
// @Produce json
// @Success 200 {object} StatusResponse
// @Router /admin/status [get]
func (s *Server) authStatus(c *gin.Context) {
	ok, err := s.sessions.Status(c.Request.Context(), sessionToken(c, s.config.Session.CookieName))
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to check session status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, StatusResponse{IsAuthenticated: ok})
}
