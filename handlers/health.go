package handlers

import (
	"net/http"

	"soothe/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the latest dependency health snapshot.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()

	httpStatus := http.StatusOK
	if !status.Mongo {
		httpStatus = http.StatusServiceUnavailable
	}
	c.JSON(httpStatus, gin.H{
		"status": "ok",
		"health": status,
	})
}
