package middlewares

import (
	"fmt"
	"net/http"
	"time"

	"baakh/internal/api/models"
	"baakh/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Recovery middleware recovers from panics and answers with a JSON 500
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.WithFields(map[string]interface{}{
			"request_id": c.GetString("request_id"),
			"path":       c.Request.URL.Path,
			"panic":      fmt.Sprint(recovered),
		}).Error("Recovered from panic")

		c.AbortWithStatusJSON(http.StatusInternalServerError, models.BaseResponse{
			Success: false,
			Error: &models.ErrorInfo{
				Code:    models.ErrCodeInternalError,
				Message: "Internal server error",
			},
			Timestamp: time.Now().Unix(),
			RequestID: c.GetString("request_id"),
		})
	})
}
