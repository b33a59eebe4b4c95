package core

import (
	"net/http"
	"time"

	"github.com/anoixa/gen-studio/config"
	"github.com/gin-gonic/gin"
)

// healthHandler 服务健康检查
func healthHandler(deps *ServerDependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "ok"
		storageStatus := "not configured"
		httpStatus := http.StatusOK

		if deps.Provider != nil {
			storageStatus = "ok"
			if err := deps.Provider.Health(c.Request.Context()); err != nil {
				status = "degraded"
				storageStatus = err.Error()
				httpStatus = http.StatusServiceUnavailable
			}
		}

		c.JSON(httpStatus, gin.H{
			"status":  status,
			"uptime":  time.Since(startTime).Round(time.Second).String(),
			"version": config.Version,
			"checks": gin.H{
				"storage": storageStatus,
			},
		})
	}
}
