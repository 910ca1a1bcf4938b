package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/opalaxis/beamsolopex-companion/internal/core/container"
	"github.com/opalaxis/beamsolopex-companion/internal/middleware"
	"github.com/opalaxis/beamsolopex-companion/pkg/security"
)

// APIPrefix is where the resources live; clients use <host>/api as base URL.
const APIPrefix = "/api"

func NewRouter(c *container.Container) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logger(c.Logger), middleware.RecoveryMiddleware(c.Logger))

	RegisterUtilityRoutes(router, c)
	RegisterPublicRoutes(router, c)
	RegisterProtectedRoutes(router, c)
	return router
}

func RegisterPublicRoutes(router *gin.Engine, c *container.Container) {
	c.LoginHandler.RegisterRoutes(router.Group(APIPrefix))
}

func RegisterProtectedRoutes(router *gin.Engine, c *container.Container) {
	protectedRoutes := router.Group(APIPrefix)
	protectedRoutes.Use(security.JWTMiddleware(c.Issuer))

	c.ReceiptHandler.RegisterRoutes(protectedRoutes)
	c.ReferenceHandler.RegisterRoutes(protectedRoutes)
}

func RegisterUtilityRoutes(router *gin.Engine, c *container.Container) {
	router.GET("/health", c.Health.Handler())
}
