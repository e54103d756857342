package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// WorkSource reports how many extractions are running.
type WorkSource interface {
	InFlight() int64
}

// Liveness answers as long as the process serves HTTP. It never checks the
// tools: a missing yt-dlp is a readiness problem, not a reason to restart.
// The in-flight count tells a busy instance from an idle one.
func Liveness(serviceName string, work WorkSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := gin.H{
			"status":  "alive",
			"service": serviceName,
			"uptime":  time.Since(startTime).Round(time.Second).String(),
		}
		if work != nil {
			body["extractions_in_flight"] = work.InFlight()
		}
		c.JSON(http.StatusOK, body)
	}
}
