package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/vital-identity/internal/interface/http"
	"github.com/oksasatya/vital-identity/internal/interface/middleware"
)

type FAQModule struct {
	Handler *handlers.FAQHandler
	Auth    gin.HandlerFunc
	RDB     *redis.Client
}

func NewFAQModule(h *handlers.FAQHandler, auth gin.HandlerFunc, rdb *redis.Client) *FAQModule {
	return &FAQModule{Handler: h, Auth: auth, RDB: rdb}
}

func (m *FAQModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/faq")
	g.Use(middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP()))

	g.GET("/", m.Handler.List)
	g.GET("/:id", m.Handler.Get)

	auth := g.Group("/")
	auth.Use(m.Auth)
	{
		auth.POST("/", m.Handler.Create)
		auth.PUT("/:id", m.Handler.Update)
		auth.DELETE("/:id", m.Handler.Delete)
	}
}
