package handlers

import (
	"fmt"
	"net/http"

	"baakh/internal/api/interfaces"
	"baakh/internal/api/models"
	"baakh/internal/database"

	"github.com/gin-gonic/gin"
)

// GetDictionaryStatus reports the served override table
func GetDictionaryStatus(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := models.DictionaryStatusResponse{
			Stats:    services.DictionaryStore().Stats(),
			Watching: services.GetConfig().Dictionary.Watch,
		}

		if repo := services.DictionaryRepository(); repo != nil {
			rows, err := repo.Count(c.Request.Context())
			if err != nil {
				services.GetLogger().Warning("Failed to count dictionary rows", "error", err)
			} else {
				resp.DatabaseRows = &rows
			}
		}

		respondOK(c, resp, "")
	}
}

// ReloadDictionary re-reads the dictionary file. A failed reload keeps the
// previous table and answers 422 with the parse error.
func ReloadDictionary(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		store := services.DictionaryStore()
		stats, err := store.Reload()
		services.GetLogger().DictionaryLogger("reload", store.Path(), stats.Entries, err)

		services.RecordAudit(c.Request.Context(), database.AuditLog{
			Action:    "dictionary_reload",
			UserID:    c.GetString("user_id"),
			Resource:  "dictionary",
			Details:   outcome(stats.Entries, err),
			IPAddress: c.ClientIP(),
		})

		if err != nil {
			respondError(c, models.NewAPIError(models.ErrCodeDictionaryReload,
				"Dictionary reload failed, previous table kept", http.StatusUnprocessableEntity).WithDetails(err.Error()))
			return
		}
		respondOK(c, stats, "Dictionary reloaded")
	}
}

// ExportDictionary writes the database override table to the dictionary file
// and reloads it
func ExportDictionary(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		exporter := services.DictionaryExporter()
		if exporter == nil {
			respondError(c, models.ErrServiceUnavailable("Dictionary export requires a configured database"))
			return
		}

		log := services.GetLogger()
		result, err := exporter.Export(c.Request.Context())
		log.PerformanceLogger("dictionary_export", result.Duration, err == nil)
		if err != nil {
			log.DictionaryLogger("export", result.Path, 0, err)
			services.RecordAudit(c.Request.Context(), database.AuditLog{
				Action:    "dictionary_export",
				UserID:    c.GetString("user_id"),
				Resource:  "dictionary",
				Details:   outcome(0, err),
				IPAddress: c.ClientIP(),
			})
			respondError(c, models.NewAPIError(models.ErrCodeDictionaryExport,
				"Dictionary export failed", http.StatusInternalServerError))
			return
		}
		log.DictionaryLogger("export", result.Path, result.Written, nil)

		store := services.DictionaryStore()
		stats, reloadErr := store.Reload()
		log.DictionaryLogger("reload", store.Path(), stats.Entries, reloadErr)

		services.RecordAudit(c.Request.Context(), database.AuditLog{
			Action:    "dictionary_export",
			UserID:    c.GetString("user_id"),
			Resource:  "dictionary",
			Details:   fmt.Sprintf("rows=%d written=%d skipped=%d", result.Rows, result.Written, result.Skipped),
			IPAddress: c.ClientIP(),
		})

		if reloadErr != nil {
			respondError(c, models.NewAPIError(models.ErrCodeDictionaryReload,
				"Exported file could not be loaded, previous table kept", http.StatusUnprocessableEntity).WithDetails(reloadErr.Error()))
			return
		}

		respondOK(c, models.DictionaryExportResponse{
			Rows:       result.Rows,
			Written:    result.Written,
			Skipped:    result.Skipped,
			DurationMS: result.Duration.Milliseconds(),
			Dictionary: stats,
		}, "Dictionary exported")
	}
}

func outcome(entries int, err error) string {
	if err != nil {
		return "error: " + err.Error()
	}
	return fmt.Sprintf("entries=%d", entries)
}
