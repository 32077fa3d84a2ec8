package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/devogs/epic-events-crm/internal/auth"
	"github.com/devogs/epic-events-crm/internal/model"
)

const principalKey = "principal"

// Auth resolves the bearer token into a Principal on every request.
// Resolution hits the employees table so role changes apply immediately
// and a stale role claim is refused outright.
func Auth(resolver *auth.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		principal, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": sessionErrorMessage(err)})
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

func sessionErrorMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrExpired):
		return "session expired"
	case errors.Is(err, auth.ErrRoleDrift):
		return "role changed since login, please log in again"
	case errors.Is(err, auth.ErrEmployeeNotFound):
		return "employee no longer exists"
	default:
		return "invalid session"
	}
}

func MustPrincipal(c *gin.Context) (model.Principal, bool) {
	value, ok := c.Get(principalKey)
	if !ok {
		return model.Principal{}, false
	}
	principal, ok := value.(model.Principal)
	return principal, ok
}
