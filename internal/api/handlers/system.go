package handlers

import (
	"net/http"
	"runtime"
	"time"

	"baakh/internal/api/interfaces"
	"baakh/internal/api/models"

	"github.com/gin-gonic/gin"
)

// HealthCheck provides a liveness and readiness check. It answers 503 when a
// configured database is unreachable.
func HealthCheck(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		checks := map[string]models.HealthCheck{}
		healthy := true

		switch status := services.DatabaseStatus(c.Request.Context()); status {
		case "unreachable":
			healthy = false
			checks["database"] = models.HealthCheck{Status: "unhealthy", Message: "database ping failed"}
		default:
			checks["database"] = models.HealthCheck{Status: "healthy", Message: status}
		}

		stats := services.DictionaryStore().Stats()
		dictCheck := models.HealthCheck{Status: "healthy"}
		if stats.LastError != "" {
			dictCheck = models.HealthCheck{Status: "degraded", Message: stats.LastError}
		}
		checks["dictionary"] = dictCheck

		resp := models.HealthCheckResponse{
			Status:    "healthy",
			Timestamp: time.Now().Unix(),
			Version:   Version,
			Uptime:    int64(time.Since(services.StartedAt()).Seconds()),
			Checks:    checks,
		}
		status := http.StatusOK
		if !healthy {
			resp.Status = "unhealthy"
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, resp)
	}
}

// GetSystemStatus returns service status for dashboards
func GetSystemStatus(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		// The status endpoint is public, so the file location stays private.
		dict := services.DictionaryStore().Stats()
		dict.Path = ""

		respondOK(c, models.SystemStatusResponse{
			ServerStatus:   "running",
			DatabaseStatus: services.DatabaseStatus(c.Request.Context()),
			Dictionary:     dict,
			Uptime:         int64(time.Since(services.StartedAt()).Seconds()),
			Version:        Version,
			Environment:    services.GetConfig().Server.Mode,
			Goroutines:     runtime.NumGoroutine(),
		}, "")
	}
}

// NotFound answers unmatched routes with the standard error envelope.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		respondError(c, models.NewAPIError(models.ErrCodeNotFound, "Route not found", http.StatusNotFound))
	}
}
