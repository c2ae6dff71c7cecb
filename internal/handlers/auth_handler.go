package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "asrama/internal/errors"
	"asrama/internal/middleware"
)

// SessionIssuer issues operator session tokens.
type SessionIssuer interface {
	Issue() (string, time.Time, error)
}

// AuthHandler handles admin token verification and session exchange. Both
// routes sit behind the admin middleware, so reaching a handler means the
// caller's credential is already valid.
type AuthHandler struct {
	sessions SessionIssuer
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(sessions SessionIssuer) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

// VerifyResponse reports a successful credential check.
type VerifyResponse struct {
	Valid  bool   `json:"valid"`
	Method string `json:"method"`
}

// SessionResponse carries a freshly issued session token.
type SessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Verify checks an admin credential at login time
// @Summary     Verify admin token
// @Description Succeeds only when the X-Admin-Token header (or session bearer token) is valid
// @Tags        auth
// @Produce     json
// @Security    AdminToken
// @Success     200 {object} VerifyResponse
// @Failure     401 {object} ErrorResponse "Invalid or missing admin token"
// @Failure     503 {object} ErrorResponse "Admin token not configured"
// @Router      /auth/verify [get]
func (h *AuthHandler) Verify(c *gin.Context) {
	c.JSON(http.StatusOK, VerifyResponse{Valid: true, Method: middleware.AuthMethod(c)})
}

// CreateSession exchanges the admin token for a short-lived session token
// @Summary     Create admin session
// @Description Returns a signed session token usable as "Authorization: Bearer <token>" on mutations
// @Tags        auth
// @Produce     json
// @Security    AdminToken
// @Success     201 {object} SessionResponse
// @Failure     401 {object} ErrorResponse "Invalid or missing admin token"
// @Failure     503 {object} ErrorResponse "Sessions or admin token not configured"
// @Router      /auth/session [post]
func (h *AuthHandler) CreateSession(c *gin.Context) {
	token, expiresAt, err := h.sessions.Issue()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrAdminNotConfigured, err))
		return
	}

	c.JSON(http.StatusCreated, SessionResponse{Token: token, ExpiresAt: expiresAt})
}
