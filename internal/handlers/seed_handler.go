package handlers

import (
	"net/http"

	clog "github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"twofa/internal/metrics"
	"twofa/internal/middleware"
	"twofa/internal/models"
	"twofa/internal/services"
)

type SeedHandler struct {
	Service services.SeedService
	Metrics *metrics.Metrics
	Log     *clog.Logger
}

func NewSeedHandler(service services.SeedService, m *metrics.Metrics, logger *clog.Logger) *SeedHandler {
	return &SeedHandler{Service: service, Metrics: m, Log: logger}
}

// @Summary      Расшифровать и сохранить seed
// @Description  RSA-OAEP (SHA-256) расшифровка seed и сохранение в хранилище
// @Tags         Seed
// @Accept       json
// @Produce      json
// @Param        body  body      models.DecryptSeedRequest  true  "Зашифрованный seed (base64)"
// @Success      200   {object}  models.StatusResponse
// @Failure      401   {object}  models.ErrorResponse
// @Failure      422   {object}  models.ErrorResponse
// @Failure      500   {object}  models.ErrorResponse
// @Router       /decrypt-seed [post]
func (h *SeedHandler) DecryptSeed(c *gin.Context) {
	var req models.DecryptSeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Log.Warn("[seed][decrypt] bad request", "err", err, "request_id", middleware.GetRequestID(c))
		abortWithDetail(c, http.StatusUnprocessableEntity, detailInvalidBody)
		return
	}

	err := h.Service.DecryptAndStore(req.EncryptedSeed)
	h.Metrics.ObserveDecrypt(err)
	if err != nil {
		// подробности только в лог
		h.Log.Warn("[seed][decrypt] failed", "kind", metrics.Kind(err), "err", err, "request_id", middleware.GetRequestID(c))
		abortWithDetail(c, http.StatusInternalServerError, detailDecryptionFailed)
		return
	}

	h.Log.Info("[seed][decrypt] ok: seed stored", "request_id", middleware.GetRequestID(c))
	c.JSON(http.StatusOK, models.StatusResponse{Status: "ok"})
}
