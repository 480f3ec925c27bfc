package api

import (
	"errors"
	"net/http"

	"admin-dashboard/internal/auth"

	"github.com/gin-gonic/gin"
)

const claimsKey = "claims"

// AuthGuard requires a valid HS256 bearer token with one of the roles
func AuthGuard(secret string, allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := auth.ParseBearer(c.GetHeader("Authorization"), secret, allowedRoles...)
		switch {
		case errors.Is(err, auth.ErrMissingToken):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		case errors.Is(err, auth.ErrForbidden):
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		case err != nil:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

func AdminAuth(secret string) gin.HandlerFunc {
	return AuthGuard(secret, auth.RoleAdmin)
}
