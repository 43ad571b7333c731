package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rasreserve/autoshop-api/internal/handler"
	"github.com/rasreserve/autoshop-api/pkg/auth"
)

const contextClaims = "caller_claims"

type AuthMiddleware struct {
	jwtSvc auth.JWTService
}

func NewAuthMiddleware(jwtSvc auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtSvc: jwtSvc}
}

// Authenticate verifies the bearer token and stores the caller claims. The
// token is the pre-authorized identity; nothing downstream re-derives
// permissions.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid authorization format"))
			return
		}

		claims, err := m.jwtSvc.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
			return
		}

		c.Set(contextClaims, claims)
		c.Next()
	}
}

// RequireStaff gates staff-only routes.
func (m *AuthMiddleware) RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := CallerClaims(c)
		if claims == nil || (claims.Role != "staff" && claims.Role != "admin") {
			c.AbortWithStatusJSON(http.StatusForbidden, handler.NewErrorResponse("staff access required"))
			return
		}
		c.Next()
	}
}

// CallerClaims returns the authenticated caller's claims, if any.
func CallerClaims(c *gin.Context) *auth.Claims {
	if v, exists := c.Get(contextClaims); exists {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}
