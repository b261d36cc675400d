package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// UserIDKey is the gin context key holding the authenticated user id.
const UserIDKey = "user_id"

var errNoToken = errors.New("no bearer token")

// RequireAuth rejects requests without a valid HS256 session token.
func RequireAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := authenticate(c, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
			return
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// OptionalAuth sets the user id when a valid token is present and lets
// anonymous requests through. An invalid token is treated as anonymous.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, err := authenticate(c, secret); err == nil {
			c.Set(UserIDKey, userID)
		}
		c.Next()
	}
}

// BearerToken returns the token from an "Authorization: Bearer" header.
func BearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func authenticate(c *gin.Context, secret string) (string, error) {
	raw, ok := BearerToken(c)
	if !ok {
		return "", errNoToken
	}
	return ParseToken(raw, secret)
}

// ParseToken validates a session token and returns its user id, read from
// the user_id claim or, failing that, sub.
func ParseToken(raw, secret string) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret not configured")
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	if id, ok := claims["user_id"].(string); ok && id != "" {
		return id, nil
	}
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		return sub, nil
	}
	return "", errors.New("token has no user id")
}

// IssueToken signs a session token for userID. Used by tests and tooling;
// end-user sign in is handled by the identity provider.
func IssueToken(userID, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"sub":     userID,
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
