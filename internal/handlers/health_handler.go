package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"twofa/internal/models"
	"twofa/internal/services"
)

type HealthHandler struct {
	Seeds services.SeedService
}

func NewHealthHandler(seeds services.SeedService) *HealthHandler {
	return &HealthHandler{Seeds: seeds}
}

// @Summary  Состояние сервиса
// @Tags     Health
// @Produce  json
// @Success  200  {object}  models.HealthResponse
// @Router   /healthz [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{Status: "ok", SeedReady: h.Seeds.Ready()})
}
