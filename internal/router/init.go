package router

import (
	"github.com/oksasatya/vital-identity/internal/container"
	"github.com/oksasatya/vital-identity/internal/interface/middleware"
	"github.com/oksasatya/vital-identity/internal/router/modules"
)

// InitModules registers every feature module built from c.
// This function should be called once during application startup.
func InitModules(r *Registry, c *container.Container) {
	auth := middleware.Auth(c.Auth)

	r.Add(modules.NewAuthModule(c.AuthHandler, c.UserHandler, auth, c.Redis))
	r.Add(modules.NewAnalyticsModule(c.UserHandler, c.DeviceHandler, auth, c.Redis))
	r.Add(modules.NewFAQModule(c.FAQHandler, auth, c.Redis))
	if c.Config.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(c.Redis))
	}
}
