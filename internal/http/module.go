// Package http wires the HTTP application together from feature modules.
package http

import (
	"github.com/gin-gonic/gin"
)

// RouterContext carries the route groups a module may attach handlers to.
type RouterContext struct {
	// Public is the unauthenticated /api/v1 group (rate limited).
	Public *gin.RouterGroup
	// Protected requires a valid access token.
	Protected *gin.RouterGroup
	// Admin requires the admin role on top of authentication.
	Admin *gin.RouterGroup
}

// Module is implemented by every feature module that exposes HTTP routes.
type Module interface {
	// Name returns the module name for logging.
	Name() string
	// RegisterRoutes attaches the module's routes to the router groups.
	RegisterRoutes(rc *RouterContext)
}
