package routes

import (
	"github.com/gin-gonic/gin"

	"twofa/internal/handlers"
)

func SetupRoutes(
	r *gin.Engine,
	seedHandler *handlers.SeedHandler,
	totpHandler *handlers.TOTPHandler,
	healthHandler *handlers.HealthHandler,
	seedGuard gin.HandlerFunc, // может быть nil
) *gin.Engine {
	if seedGuard == nil {
		seedGuard = func(c *gin.Context) { c.Next() }
	}

	r.GET("/healthz", healthHandler.Health)

	// ---- seed
	r.POST("/decrypt-seed", seedGuard, seedHandler.DecryptSeed)

	// ---- 2FA
	r.GET("/generate-2fa", totpHandler.Generate)
	r.POST("/verify-2fa", totpHandler.Verify)

	return r
}
