package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"watchfleet/internal/shared/logger"
	"watchfleet/internal/shared/utils"
)

// AuthMiddleware verifies HMAC-signed bearer tokens on the API surface.
// An empty secret disables authentication entirely, which is how internal
// deployments behind a private network run.
type AuthMiddleware struct {
	secret []byte
	logger logger.Interface
}

func NewAuthMiddleware(secret string, log logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(secret), logger: log}
}

// Enabled reports whether a signing secret is configured.
func (m *AuthMiddleware) Enabled() bool {
	return len(m.secret) > 0
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	if !m.Enabled() {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid authorization header format")
			c.Abort()
			return
		}

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secret, nil
		})
		if err != nil {
			m.logger.Warnw("failed to verify token", "error", err)
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		if sub, ok := claims["sub"].(string); ok {
			c.Set("subject", sub)
		}

		c.Next()
	}
}
