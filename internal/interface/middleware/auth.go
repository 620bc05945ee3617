package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/vital-identity/internal/domain/entity"
	"github.com/oksasatya/vital-identity/pkg/helpers"
	"github.com/oksasatya/vital-identity/pkg/response"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID string
	Email  string
	Role   entity.Role
}

// principalKey is unexported so only this package can write the principal.
const principalKey = "middleware.principal"

// TokenVerifier checks an access token. *application.AuthService implements it.
type TokenVerifier interface {
	VerifyAccessToken(ctx context.Context, token string) (*helpers.AccessClaims, error)
}

// Auth validates the access token from the Authorization header (Bearer) or the
// access_token cookie and stores the Principal on the request.
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		claims, err := verifier.VerifyAccessToken(c.Request.Context(), token)
		if err != nil {
			response.Fail(c, nil, err)
			return
		}
		c.Set(principalKey, Principal{UserID: claims.UserID, Email: claims.Email, Role: entity.Role(claims.Role)})
		c.Next()
	}
}

// PrincipalFrom returns the Principal set by Auth.
func PrincipalFrom(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}

// RequireRole must run after Auth.
func RequireRole(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			response.Error[any](c, http.StatusUnauthorized, "unauthenticated", nil)
			return
		}
		for _, r := range roles {
			if p.Role == r {
				c.Next()
				return
			}
		}
		response.Error[any](c, http.StatusForbidden, "insufficient role", nil)
	}
}

func bearerToken(c *gin.Context) string {
	if h := strings.TrimSpace(c.GetHeader("Authorization")); h != "" {
		scheme, token, found := strings.Cut(h, " ")
		if found && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	token, err := c.Cookie(helpers.AccessCookie)
	if err != nil {
		return ""
	}
	return token
}
