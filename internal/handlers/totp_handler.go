package handlers

import (
	"errors"
	"net/http"

	clog "github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"twofa/internal/metrics"
	"twofa/internal/middleware"
	"twofa/internal/models"
	"twofa/internal/services"
)

type TOTPHandler struct {
	Service services.TOTPService
	Metrics *metrics.Metrics
	Log     *clog.Logger
}

func NewTOTPHandler(service services.TOTPService, m *metrics.Metrics, logger *clog.Logger) *TOTPHandler {
	return &TOTPHandler{Service: service, Metrics: m, Log: logger}
}

// @Summary      Текущий 2FA код
// @Tags         TOTP
// @Produce      json
// @Success      200  {object}  models.TOTPCode
// @Failure      500  {object}  models.ErrorResponse
// @Router       /generate-2fa [get]
func (h *TOTPHandler) Generate(c *gin.Context) {
	code, err := h.Service.Generate()
	h.Metrics.ObserveGenerate(err)
	if err != nil {
		h.Log.Warn("[totp][generate] failed", "kind", metrics.Kind(err), "err", err, "request_id", middleware.GetRequestID(c))
		abortWithDetail(c, http.StatusInternalServerError, detailSeedNotReady)
		return
	}
	c.JSON(http.StatusOK, code)
}

// @Summary      Проверить 2FA код
// @Description  Допускается окно ±1 шаг (30 секунд)
// @Tags         TOTP
// @Accept       json
// @Produce      json
// @Param        body  body      models.VerifyCodeRequest  true  "Код"
// @Success      200   {object}  models.CodeVerification
// @Failure      400   {object}  models.ErrorResponse
// @Failure      422   {object}  models.ErrorResponse
// @Failure      500   {object}  models.ErrorResponse
// @Router       /verify-2fa [post]
func (h *TOTPHandler) Verify(c *gin.Context) {
	var req models.VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Log.Warn("[totp][verify] bad request", "err", err, "request_id", middleware.GetRequestID(c))
		abortWithDetail(c, http.StatusUnprocessableEntity, detailInvalidBody)
		return
	}

	valid, err := h.Service.Verify(req.Code)
	h.Metrics.ObserveVerify(valid, err)
	if err != nil {
		if errors.Is(err, services.ErrMissingCode) {
			abortWithDetail(c, http.StatusBadRequest, detailMissingCode)
			return
		}
		h.Log.Warn("[totp][verify] failed", "kind", metrics.Kind(err), "err", err, "request_id", middleware.GetRequestID(c))
		abortWithDetail(c, http.StatusInternalServerError, detailSeedNotReady)
		return
	}
	c.JSON(http.StatusOK, models.CodeVerification{Valid: valid})
}
