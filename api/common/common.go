package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RespondSuccess sends {"success":true} merged with the given payload.
func RespondSuccess(c *gin.Context, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// RespondError sends {"success":false,"error":message}.
func RespondError(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, gin.H{
		"success": false,
		"error":   message,
	})
}

// RespondErrorAbort sends an error response and aborts the handler chain.
func RespondErrorAbort(c *gin.Context, httpStatus int, message string) {
	c.AbortWithStatusJSON(httpStatus, gin.H{
		"success": false,
		"error":   message,
	})
}

// RespondStorageNotConfigured 必需存储配置缺失时的固定 500 响应
func RespondStorageNotConfigured(c *gin.Context) {
	RespondError(c, http.StatusInternalServerError, "storage not configured")
}
