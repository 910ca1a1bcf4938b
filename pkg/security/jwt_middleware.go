package security

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
)

const claimsKey = "claims"

// JWTMiddleware validates the bearer token and stores its claims on the context.
func JWTMiddleware(issuer *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated.", "error": "Authorization header missing"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := issuer.ParseJWT(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated.", "error": "Invalid token"})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// ClaimsFrom returns the claims JWTMiddleware stored, if any.
func ClaimsFrom(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}

// HasAnyPermission reports whether the caller holds one of permissions.
func HasAnyPermission(c *gin.Context, permissions ...string) bool {
	claims, ok := ClaimsFrom(c)
	if !ok {
		return false
	}
	for _, p := range permissions {
		if slices.Contains(claims.Permissions, p) {
			return true
		}
	}
	return false
}

// Authorize requires one of permissions.
func Authorize(permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !HasAnyPermission(c, permissions...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "This action is unauthorized.", "error": "Forbidden: insufficient permissions"})
			return
		}
		c.Next()
	}
}
