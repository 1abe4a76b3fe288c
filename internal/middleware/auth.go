package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/booking_api/internal/security"
	"github.com/mroshb/booking_api/pkg/errors"
	"github.com/mroshb/booking_api/pkg/response"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// AuthRequired validates the bearer token and stores the caller's ID and role in the context.
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			AbortWithError(c, errors.New(errors.ErrCodeUnauthorized, "missing authorization header"))
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			AbortWithError(c, errors.New(errors.ErrCodeUnauthorized, "invalid authorization format"))
			return
		}

		claims, err := security.ValidateJWT(parts[1], secret)
		if err != nil {
			AbortWithError(c, errors.New(errors.ErrCodeUnauthorized, "invalid or expired token"))
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

// RequireRole lets the request through only for the listed roles.
func RequireRole(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !HasRole(c, allowed...) {
			AbortWithError(c, errors.New(errors.ErrCodeForbidden, "insufficient permissions"))
			return
		}
		c.Next()
	}
}

// HasRole reports whether the authenticated caller has one of the roles.
func HasRole(c *gin.Context, roles ...string) bool {
	role := GetRole(c)
	if role == "" {
		return false
	}
	for _, r := range roles {
		if role == r {
			return true
		}
	}
	return false
}

// GetUserID returns the authenticated user ID (must be used after AuthRequired).
func GetUserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

func GetRole(c *gin.Context) string {
	return c.GetString(ctxRole)
}

// AbortWithError writes the error envelope and stops the chain.
func AbortWithError(c *gin.Context, err error) {
	response.Error(c, err)
}
