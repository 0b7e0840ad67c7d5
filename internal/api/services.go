package api

import (
	"context"
	"fmt"
	"time"

	"baakh/internal/api/interfaces"
	"baakh/internal/database"
	"baakh/internal/database/repositories"
	"baakh/internal/dictionary"
	"baakh/internal/sindhi"
	"baakh/internal/token"
	"baakh/pkg/config"
	"baakh/pkg/logger"
)

// Services contains all the dependencies for API handlers
type Services struct {
	// Core dependencies
	DB     *database.DB // nil when running without a database
	Logger *logger.Logger
	Config *config.Config
	Store  *dictionary.Store
	Codec  *token.Codec

	romanizer   *sindhi.Romanizer
	exporter    *dictionary.Exporter
	authService interfaces.AuthServiceInterface
	startedAt   time.Time

	// Repositories
	userRepository       *repositories.UserRepository
	auditLogRepository   *repositories.AuditLogRepository
	dictionaryRepository *repositories.DictionaryRepository
}

var _ interfaces.Services = (*Services)(nil)

// NewServices creates a new services container. db may be nil.
func NewServices(db *database.DB, store *dictionary.Store, log *logger.Logger, cfg *config.Config) (*Services, error) {
	codec, err := token.NewCodec(cfg.Security.JWTSecret, cfg.Security.JWTExpiration)
	if err != nil {
		return nil, fmt.Errorf("token codec: %w", err)
	}

	services := &Services{
		DB:        db,
		Logger:    log,
		Config:    cfg,
		Store:     store,
		Codec:     codec,
		romanizer: sindhi.NewRomanizer(store),
		startedAt: time.Now(),
	}
	services.authService = services

	if db != nil {
		services.userRepository = repositories.NewUserRepository(db)
		services.auditLogRepository = repositories.NewAuditLogRepository(db)
		services.dictionaryRepository = repositories.NewDictionaryRepository(db, cfg.Database.DictionaryTable)
		services.exporter = dictionary.NewExporter(services.dictionaryRepository, store.Path())
	}

	return services, nil
}

// Interface implementation methods
func (s *Services) GetLogger() *logger.Logger {
	return s.Logger
}

func (s *Services) GetConfig() *config.Config {
	return s.Config
}

func (s *Services) Romanizer() *sindhi.Romanizer {
	return s.romanizer
}

func (s *Services) DictionaryStore() *dictionary.Store {
	return s.Store
}

func (s *Services) DictionaryExporter() *dictionary.Exporter {
	return s.exporter
}

func (s *Services) AuthService() interfaces.AuthServiceInterface {
	return s.authService
}

func (s *Services) UserRepository() *repositories.UserRepository {
	return s.userRepository
}

func (s *Services) AuditLogRepository() *repositories.AuditLogRepository {
	return s.auditLogRepository
}

func (s *Services) DictionaryRepository() *repositories.DictionaryRepository {
	return s.dictionaryRepository
}

func (s *Services) StartedAt() time.Time {
	return s.startedAt
}

// RecordAudit logs an audit event and, when a database is configured,
// persists it. Persistence failures are logged, never returned.
func (s *Services) RecordAudit(ctx context.Context, entry database.AuditLog) {
	s.Logger.AuditLogger(entry.Action, entry.UserID, entry.Resource, entry.Details)
	if s.auditLogRepository == nil {
		return
	}
	if err := s.auditLogRepository.InsertAuditLog(ctx, &entry); err != nil {
		s.Logger.Error("Failed to persist audit log", "action", entry.Action, "error", err)
	}
}

// DatabaseStatus reports "disabled", "connected" or "unreachable".
func (s *Services) DatabaseStatus(ctx context.Context) string {
	if s.DB == nil {
		return "disabled"
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.DB.PingContext(ctx); err != nil {
		s.Logger.Error("Database health check failed: %v", err)
		return "unreachable"
	}
	return "connected"
}
