package middleware

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"asrama/internal/uuid"
)

const sessionIssuer = "asrama-api"

// ErrSessionsDisabled is returned when no signing secret is configured.
var ErrSessionsDisabled = errors.New("sessions are disabled: no signing secret configured")

// SessionClaims are the claims of an operator session token.
type SessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// SessionManager issues and validates short-lived HS256 session tokens that an
// operator obtains by presenting the admin token once.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionManager creates a manager. An empty secret disables sessions.
func NewSessionManager(secret string, ttl time.Duration) *SessionManager {
	return &SessionManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a new admin session token.
func (m *SessionManager) Issue() (string, time.Time, error) {
	if len(m.secret) == 0 {
		return "", time.Time{}, ErrSessionsDisabled
	}

	now := m.now()
	expiresAt := now.Add(m.ttl)
	claims := &SessionClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New(),
			Subject:   "admin",
			Issuer:    sessionIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing session token: %w", err)
	}
	return signed, expiresAt, nil
}

// Validate parses tokenString and returns its claims if it is a live admin session.
func (m *SessionManager) Validate(tokenString string) (*SessionClaims, error) {
	if len(m.secret) == 0 {
		return nil, ErrSessionsDisabled
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(sessionIssuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid session token")
	}
	if claims.Role != "admin" {
		return nil, fmt.Errorf("session token has no admin role")
	}
	return claims, nil
}
