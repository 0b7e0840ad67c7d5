package handlers

import (
	"net/http"

	"baakh/internal/api/models"

	"github.com/gin-gonic/gin"
)

// Version is reported by the health and status endpoints. It is set at link
// time with -ldflags "-X baakh/internal/api/handlers.Version=...".
var Version = "dev"

func respondOK(c *gin.Context, data interface{}, message string) {
	resp := models.NewSuccess(data, message)
	resp.RequestID = c.GetString("request_id")
	c.JSON(http.StatusOK, resp)
}

func respondError(c *gin.Context, err *models.APIError) {
	resp := models.NewFailure(err)
	resp.RequestID = c.GetString("request_id")
	c.AbortWithStatusJSON(err.StatusCode, resp)
}
