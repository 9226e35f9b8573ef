package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rewear/swap-platform/internal/domain/shared"
)

// IdentityKey is the key used to store the verified caller in the context
const IdentityKey = "identity"

// TokenVerifier turns a bearer token into the identity it was issued for
type TokenVerifier interface {
	Verify(raw string) (shared.Identity, error)
}

// RequireAuth rejects requests without a valid bearer token. The identity is
// taken from the token only; no client-supplied user id is trusted.
func RequireAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			abortWithError(c, http.StatusUnauthorized, string(shared.KindUnauthorized), "missing bearer token")
			return
		}

		id, err := verifier.Verify(strings.TrimSpace(token))
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, string(shared.KindUnauthorized), shared.MessageOf(err))
			return
		}

		c.Set(IdentityKey, id)
		c.Next()
	}
}

// RequireRole lets only callers with role through. It must run after RequireAuth.
func RequireRole(role shared.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := GetIdentity(c)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, string(shared.KindUnauthorized), "authentication required")
			return
		}
		if id.Role != role {
			abortWithError(c, http.StatusForbidden, string(shared.KindForbidden), "insufficient role")
			return
		}
		c.Next()
	}
}

// GetIdentity returns the verified caller, if RequireAuth has run
func GetIdentity(c *gin.Context) (shared.Identity, bool) {
	v, exists := c.Get(IdentityKey)
	if !exists {
		return shared.Identity{}, false
	}
	id, ok := v.(shared.Identity)
	return id, ok
}

func abortWithError(c *gin.Context, status int, code, message string) {
	response := gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
	if correlationID := GetCorrelationID(c); correlationID != "" {
		response["correlation_id"] = correlationID
	}
	c.AbortWithStatusJSON(status, response)
}
