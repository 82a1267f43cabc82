package routes

import (
	"modparts/internal/core/container"
	"modparts/internal/middleware"
	"modparts/pkg/roles"
	"modparts/pkg/security"

	"github.com/gin-gonic/gin"
)

// RegisterPublicRoutes wires the endpoints that work without a token: login
// and the barcode scan lookup used by hand-held scanners.
func RegisterPublicRoutes(router *gin.Engine, container *container.Container) {
	container.LoginHandler.RegisterRoutes(router)
	container.BarcodeHandler.RegisterPublicRoutes(router)
}

// RegisterProtectedRoutes wires everything that requires a bearer token.
// Registry writes and manual movement overrides additionally require the
// admin role.
func RegisterProtectedRoutes(router *gin.Engine, container *container.Container) {
	protectedRoutes := router.Group("")
	protectedRoutes.Use(security.JWTMiddleware())

	container.BarcodeHandler.RegisterRoutes(protectedRoutes)
	container.MovementHandler.RegisterRoutes(protectedRoutes)
	container.ScanHandler.RegisterRoutes(protectedRoutes)
	container.BinHandler.RegisterRoutes(protectedRoutes)
	container.WarehouseHandler.RegisterRoutes(protectedRoutes)

	adminRoutes := router.Group("")
	adminRoutes.Use(security.JWTMiddleware(), security.Authorize(roles.Admin))

	container.MovementHandler.RegisterAdminRoutes(adminRoutes)
	container.BinHandler.RegisterAdminRoutes(adminRoutes)
	container.WarehouseHandler.RegisterAdminRoutes(adminRoutes)
	container.UserHandler.RegisterRoutes(adminRoutes)
}

func RegisterUtilityRoutes(router *gin.Engine) {
	router.GET("/health", middleware.HealthCheckMiddleware())
}
