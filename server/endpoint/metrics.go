package endpoint

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

// MetricsSource supplies application counters keyed by name.
type MetricsSource interface {
	Snapshot() map[string]int64
}

// Metrics reports runtime memory and goroutine stats plus the counters of
// source, if any.
func Metrics(source MetricsSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		counters := map[string]int64{}
		if source != nil {
			counters = source.Snapshot()
		}

		c.JSON(http.StatusOK, gin.H{
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"goroutines": runtime.NumGoroutine(),
			"memory": gin.H{
				"alloc_mb":       m.Alloc / 1024 / 1024,
				"total_alloc_mb": m.TotalAlloc / 1024 / 1024,
				"sys_mb":         m.Sys / 1024 / 1024,
				"gc_runs":        m.NumGC,
			},
			"counters": counters,
		})
	}
}
