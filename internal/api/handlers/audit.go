package handlers

import (
	"strconv"

	"baakh/internal/api/interfaces"
	"baakh/internal/api/models"

	"github.com/gin-gonic/gin"
)

// GetAuditLogs returns recent back-office audit entries, optionally filtered
// by action
func GetAuditLogs(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		repo := services.AuditLogRepository()
		if repo == nil {
			respondError(c, models.ErrServiceUnavailable("Audit history requires a configured database"))
			return
		}

		limit := 50
		if limitStr := c.Query("limit"); limitStr != "" {
			l, err := strconv.Atoi(limitStr)
			if err != nil || l <= 0 {
				respondError(c, models.ErrBadRequest("limit must be a positive integer"))
				return
			}
			limit = l
		}
		action := c.Query("action")

		logs, err := repo.GetRecent(c.Request.Context(), action, limit)
		if err != nil {
			services.GetLogger().Error("Error getting audit logs", "error", err)
			respondError(c, models.ErrInternal("Failed to retrieve audit logs"))
			return
		}

		out := make([]models.AuditLogResponse, 0, len(logs))
		for _, l := range logs {
			out = append(out, models.AuditLogResponse{
				ID:        l.ID,
				Action:    l.Action,
				UserID:    l.UserID,
				Resource:  l.Resource,
				Details:   l.Details,
				IPAddress: l.IPAddress,
				Timestamp: l.CreatedAt.Unix(),
			})
		}

		respondOK(c, map[string]interface{}{
			"logs":   out,
			"action": action,
			"total":  len(out),
		}, "Audit logs retrieved successfully")
	}
}
