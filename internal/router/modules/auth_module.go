package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/vital-identity/internal/interface/http"
	"github.com/oksasatya/vital-identity/internal/interface/middleware"
)

// AuthModule serves /auth: tokens, registration, codes and the caller's profile.
type AuthModule struct {
	Handler *handlers.AuthHandler
	Profile *handlers.UserHandler
	Auth    gin.HandlerFunc
	RDB     *redis.Client
}

func NewAuthModule(h *handlers.AuthHandler, profile *handlers.UserHandler, auth gin.HandlerFunc, rdb *redis.Client) *AuthModule {
	return &AuthModule{Handler: h, Profile: profile, Auth: auth, RDB: rdb}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Public endpoints with IP-based rate limits
	loginLimiter := middleware.RateLimit(m.RDB, 10, time.Minute, middleware.KeyByIP(), nil)
	registerLimiter := middleware.RateLimit(m.RDB, 10, time.Minute, middleware.KeyByIP(), nil)
	refreshLimiter := middleware.RateLimit(m.RDB, 60, time.Minute, middleware.KeyByIP(), nil)
	resetInitLimiter := middleware.RateLimit(m.RDB, 5, time.Minute, middleware.KeyByEmailQuery(), nil)
	resetConfirmLimiter := middleware.RateLimit(m.RDB, 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	g := rg.Group("/auth")
	g.POST("/generate-auth-token", loginLimiter, m.Handler.Login)
	g.POST("/register", registerLimiter, m.Handler.Register)
	g.POST("/refresh-token", refreshLimiter, m.Handler.Refresh)
	g.POST("/logout", m.Handler.Logout)
	g.POST("/generate-reset-token", resetInitLimiter, m.Handler.GeneratePasswordResetCode)
	g.POST("/password-reset", resetConfirmLimiter, m.Handler.PasswordReset)

	// Protected
	auth := g.Group("/")
	auth.Use(m.Auth)
	auth.Use(middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/verify-account", m.Handler.VerifyAccount)
		auth.POST("/generate-verification-code",
			middleware.RateLimit(m.RDB, 5, time.Minute, middleware.KeyByEmailQuery(), nil),
			m.Handler.GenerateVerificationCode)
		auth.GET("/me", m.Profile.GetProfile)
		auth.PUT("/me/deactivate", m.Profile.Deactivate)
	}
}
