package interfaces

import (
	"context"
	"time"

	"baakh/internal/database"
	"baakh/internal/database/repositories"
	"baakh/internal/dictionary"
	"baakh/internal/sindhi"
	"baakh/pkg/config"
	"baakh/pkg/logger"
)

// Services defines the interface for API services
type Services interface {
	GetLogger() *logger.Logger
	GetConfig() *config.Config
	Romanizer() *sindhi.Romanizer
	DictionaryStore() *dictionary.Store
	// DictionaryExporter is nil when no database is configured.
	DictionaryExporter() *dictionary.Exporter
	AuthService() AuthServiceInterface
	// The repositories are nil without a database.
	UserRepository() *repositories.UserRepository
	AuditLogRepository() *repositories.AuditLogRepository
	DictionaryRepository() *repositories.DictionaryRepository
	RecordAudit(ctx context.Context, entry database.AuditLog)
	DatabaseStatus(ctx context.Context) string
	StartedAt() time.Time
}
