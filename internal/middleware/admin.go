package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	apperrors "asrama/internal/errors"
)

// AdminTokenHeader carries the shared admin secret on mutating requests.
const AdminTokenHeader = "X-Admin-Token"

// authMethodKey records how a request was authorized ("token" or "session").
const authMethodKey = "authMethod"

// AdminVerifier checks candidate tokens against the configured shared secret.
// The secret may be given in plain text, as a bcrypt hash, or both.
type AdminVerifier struct {
	token      []byte
	bcryptHash []byte
}

// NewAdminVerifier creates a verifier. Empty arguments disable that form.
func NewAdminVerifier(token, bcryptHash string) *AdminVerifier {
	v := &AdminVerifier{}
	if token != "" {
		v.token = []byte(token)
	}
	if bcryptHash != "" {
		v.bcryptHash = []byte(bcryptHash)
	}
	return v
}

// Configured reports whether any secret is set.
func (v *AdminVerifier) Configured() bool {
	return len(v.token) > 0 || len(v.bcryptHash) > 0
}

// Verify reports whether candidate matches the secret.
func (v *AdminVerifier) Verify(candidate string) bool {
	if candidate == "" {
		return false
	}
	if len(v.token) > 0 && subtle.ConstantTimeCompare([]byte(candidate), v.token) == 1 {
		return true
	}
	if len(v.bcryptHash) > 0 && bcrypt.CompareHashAndPassword(v.bcryptHash, []byte(candidate)) == nil {
		return true
	}
	return false
}

// AdminAuthMiddleware rejects requests that carry neither a valid X-Admin-Token
// nor a valid session bearer token. It runs before any body binding, so an
// unauthorized mutation is never validated or applied.
func AdminAuthMiddleware(verifier *AdminVerifier, sessions *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !verifier.Configured() {
			abortWithError(c, apperrors.ErrAdminNotConfigured)
			return
		}

		if token := c.GetHeader(AdminTokenHeader); token != "" {
			if !verifier.Verify(token) {
				abortWithError(c, apperrors.ErrUnauthorized)
				return
			}
			c.Set(authMethodKey, "token")
			c.Next()
			return
		}

		if bearer, ok := bearerToken(c.GetHeader("Authorization")); ok && sessions != nil {
			if _, err := sessions.Validate(bearer); err == nil {
				c.Set(authMethodKey, "session")
				c.Next()
				return
			}
		}

		abortWithError(c, apperrors.ErrUnauthorized)
	}
}

// AuthMethod returns how the current request was authorized, or "".
func AuthMethod(c *gin.Context) string {
	return c.GetString(authMethodKey)
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func abortWithError(c *gin.Context, appErr *apperrors.AppError) {
	c.AbortWithStatusJSON(appErr.StatusCode, appErr.Response())
}
