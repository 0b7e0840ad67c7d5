package middlewares

import (
	"time"

	"baakh/pkg/logger"

	"github.com/gin-gonic/gin"
)

// RequestLogging writes one line per finished request. It prefers the
// request-scoped logger installed by logger.RequestLogger so the line carries
// the request id, and falls back to base.
func RequestLogging(base *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()

		c.Next()

		log := base
		if scoped, ok := c.Get("logger"); ok {
			if l, ok := scoped.(*logger.Logger); ok {
				log = l
			}
		}

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		fields := map[string]interface{}{
			"method":     c.Request.Method,
			"route":      route,
			"path":       c.Request.URL.Path,
			"status":     status,
			"bytes":      c.Writer.Size(),
			"elapsed_ms": time.Since(started).Milliseconds(),
			"client_ip":  c.ClientIP(),
		}
		if uid := c.GetString(ContextUserID); uid != "" {
			fields["user_id"] = uid
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		entry := log.WithFields(fields)
		switch {
		case status >= 500:
			entry.Error("request failed")
		case status >= 400:
			entry.Warning("request rejected")
		default:
			entry.Info("request served")
		}
	}
}
