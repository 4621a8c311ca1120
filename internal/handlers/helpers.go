package handlers

import (
	"github.com/gin-gonic/gin"

	"twofa/internal/models"
)

// Фиксированные сообщения: причину ошибки клиенту не раскрываем.
const (
	detailDecryptionFailed = "Decryption failed"
	detailSeedNotReady     = "Seed not decrypted yet"
	detailMissingCode      = "Missing code"
	detailInvalidBody      = "Invalid request body"
)

func abortWithDetail(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{Detail: detail})
}
