package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// conversationClaims are the claims carried by a signed conversation token.
type conversationClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"session_id"`
}

// mintConversationToken issues the token the client presents on moderator
// calls. With a JWT secret configured it is a signed HS256 token bound to
// the session; without one it is an opaque random token (and not verified).
func (r *Router) mintConversationToken(sessionID string, expiresAt time.Time) (string, error) {
	if r.cfg.JWTSecret == "" {
		return uuid.NewString(), nil
	}

	claims := conversationClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		SessionID: sessionID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(r.cfg.JWTSecret))
}

// verifyConversationToken checks that tokenString is a valid conversation
// token for the given session. Always true when no JWT secret is configured.
func (r *Router) verifyConversationToken(tokenString, sessionID string) bool {
	if r.cfg.JWTSecret == "" {
		return true
	}
	if tokenString == "" {
		return false
	}

	token, err := jwt.ParseWithClaims(tokenString, &conversationClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(r.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return false
	}

	claims, ok := token.Claims.(*conversationClaims)
	return ok && claims.SessionID == sessionID
}

// bearerToken extracts the token from an Authorization header, or "".
func bearerToken(req *http.Request) string {
	authHeader := req.Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
