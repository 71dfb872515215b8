package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/marketweb/version"
)

var startTime = time.Now()

// Info reports the service version, build metadata and uptime.
func Info(serviceName, serviceVersion string) gin.HandlerFunc {
	build := version.Get()
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":   serviceName,
			"version":   serviceVersion,
			"build":     build,
			"uptime":    time.Since(startTime).Round(time.Second).String(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
