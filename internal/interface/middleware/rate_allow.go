package middleware

import (
	"net"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/vital-identity/internal/domain/entity"
)

// AllowPrivateIP bypasses the limiter for loopback and private addresses.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		parsed := net.ParseIP(ipFromCtx(c))
		if parsed == nil {
			return false
		}
		return parsed.IsLoopback() || parsed.IsPrivate()
	}
}

// AllowRoles bypasses the limiter for authenticated callers holding one of roles.
func AllowRoles(roles ...entity.Role) AllowFunc {
	return func(c *gin.Context) bool {
		p, ok := PrincipalFrom(c)
		if !ok {
			return false
		}
		for _, r := range roles {
			if p.Role == r {
				return true
			}
		}
		return false
	}
}

// AnyOf bypasses when any of fns does.
func AnyOf(fns ...AllowFunc) AllowFunc {
	return func(c *gin.Context) bool {
		for _, fn := range fns {
			if fn != nil && fn(c) {
				return true
			}
		}
		return false
	}
}
