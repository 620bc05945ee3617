package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/vital-identity/internal/domain/entity"
	"github.com/oksasatya/vital-identity/pkg/apperr"
	"github.com/oksasatya/vital-identity/pkg/helpers"
)

type stubVerifier map[string]*helpers.AccessClaims

func (s stubVerifier) VerifyAccessToken(_ context.Context, token string) (*helpers.AccessClaims, error) {
	if claims, ok := s[token]; ok {
		return claims, nil
	}
	return nil, apperr.New(apperr.Unauthenticated, "invalid token")
}

var verifier = stubVerifier{
	"user-token":  {UserID: "u1", Email: "a@b.co", Role: "user"},
	"admin-token": {UserID: "u2", Email: "root@b.co", Role: "admin"},
}

func authEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/me", Auth(verifier), func(c *gin.Context) {
		p, _ := PrincipalFrom(c)
		c.String(http.StatusOK, p.UserID+"|"+p.Email+"|"+string(p.Role))
	})
	r.GET("/admin", Auth(verifier), RequireRole(entity.RoleAdmin, entity.RoleSuperAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func serve(r *gin.Engine, path string, mutate func(*http.Request)) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if mutate != nil {
		mutate(req)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuth_Bearer(t *testing.T) {
	w := serve(authEngine(), "/me", func(r *http.Request) { r.Header.Set("Authorization", "Bearer user-token") })
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1|a@b.co|user", w.Body.String())
}

func TestAuth_Cookie(t *testing.T) {
	w := serve(authEngine(), "/me", func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: helpers.AccessCookie, Value: "user-token"})
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuth_Rejections(t *testing.T) {
	cases := map[string]func(*http.Request){
		"missing":      nil,
		"wrong scheme": func(r *http.Request) { r.Header.Set("Authorization", "Basic user-token") },
		"bad token":    func(r *http.Request) { r.Header.Set("Authorization", "Bearer forged") },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			w := serve(authEngine(), "/me", mutate)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
		})
	}
}

func TestRequireRole(t *testing.T) {
	w := serve(authEngine(), "/admin", func(r *http.Request) { r.Header.Set("Authorization", "Bearer user-token") })
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serve(authEngine(), "/admin", func(r *http.Request) { r.Header.Set("Authorization", "Bearer admin-token") })
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestID_KeepsValidIncoming(t *testing.T) {
	const id = "6f1c2a4e-0d8b-4a8e-9a57-3e8b7c1f2d90"
	w := serve(authEngine(), "/me", func(r *http.Request) { r.Header.Set(RequestIDHeader, id) })
	assert.Equal(t, id, w.Header().Get(RequestIDHeader))

	w = serve(authEngine(), "/me", func(r *http.Request) { r.Header.Set(RequestIDHeader, "not-a-uuid") })
	assert.NotEqual(t, "not-a-uuid", w.Header().Get(RequestIDHeader))
}

func TestRealIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RealIP())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("real_ip")) })

	w := serve(r, "/", func(req *http.Request) {
		req.Header.Set("CF-Connecting-IP", "198.51.100.1")
		req.Header.Set("X-Forwarded-For", "203.0.113.7")
	})
	assert.Equal(t, "198.51.100.1", w.Body.String())

	w = serve(r, "/", func(req *http.Request) { req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1") })
	assert.Equal(t, "203.0.113.7", w.Body.String())
}
