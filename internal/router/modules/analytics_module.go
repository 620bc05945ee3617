package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/vital-identity/internal/domain/entity"
	handlers "github.com/oksasatya/vital-identity/internal/interface/http"
	"github.com/oksasatya/vital-identity/internal/interface/middleware"
)

// AnalyticsModule serves vitals uploads for users and device administration for admins.
type AnalyticsModule struct {
	Users   *handlers.UserHandler
	Devices *handlers.DeviceHandler
	Auth    gin.HandlerFunc
	RDB     *redis.Client
}

func NewAnalyticsModule(users *handlers.UserHandler, devices *handlers.DeviceHandler, auth gin.HandlerFunc, rdb *redis.Client) *AnalyticsModule {
	return &AnalyticsModule{Users: users, Devices: devices, Auth: auth, RDB: rdb}
}

func (m *AnalyticsModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/analytics")
	g.Use(m.Auth)
	g.Use(middleware.RateLimit(m.RDB, 300, time.Minute, middleware.KeyByUserID(),
		middleware.AllowRoles(entity.RoleSuperAdmin)))

	g.POST("/upload-data", m.Users.UploadData)
	g.GET("/statuses", m.Users.Statuses)

	admin := g.Group("/")
	admin.Use(middleware.RequireRole(entity.RoleAdmin, entity.RoleSuperAdmin))
	{
		admin.GET("/get-regular-users", m.Users.RegularUsers)
		admin.POST("/register-device", m.Devices.Register)
		admin.GET("/devices", m.Devices.List)
		admin.GET("/devices/active-devices", m.Devices.ListActive)
		admin.GET("/devices/inactive-devices", m.Devices.ListInactive)
		admin.GET("/devices/:id", m.Devices.Get)
		admin.PUT("/devices/:id", m.Devices.Update)
		admin.PUT("/devices/:id/activate", m.Devices.Activate)
		admin.PUT("/devices/:id/deactivate", m.Devices.Deactivate)
		admin.POST("/devices/:id/heartbeat", m.Devices.Heartbeat)
	}
}
