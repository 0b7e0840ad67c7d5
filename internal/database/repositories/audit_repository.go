package repositories

import (
	"context"

	"baakh/internal/database"
)

type AuditLogRepository struct {
	db *database.DB
}

func NewAuditLogRepository(db *database.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// InsertAuditLog inserts a new audit log entry
func (r *AuditLogRepository) InsertAuditLog(ctx context.Context, log *database.AuditLog) error {
	query := r.db.Dialect.Rebind(`
        INSERT INTO audit_logs (action, user_id, resource, details, ip_address)
        VALUES (?, ?, ?, ?, ?)
        RETURNING id
    `)
	return r.db.QueryRowContext(ctx, query, log.Action, log.UserID, log.Resource,
		log.Details, log.IPAddress).Scan(&log.ID)
}

// GetRecent returns the newest audit entries first, optionally filtered by action.
func (r *AuditLogRepository) GetRecent(ctx context.Context, action string, limit int) ([]database.AuditLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	query := `
        SELECT id, action, user_id, resource, details, ip_address, created_at
        FROM audit_logs
        WHERE 1=1
    `
	args := []interface{}{}

	if action != "" {
		query += " AND action = ?"
		args = append(args, action)
	}

	query += " ORDER BY created_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, r.db.Dialect.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []database.AuditLog
	for rows.Next() {
		var l database.AuditLog
		if err := rows.Scan(&l.ID, &l.Action, &l.UserID, &l.Resource, &l.Details,
			&l.IPAddress, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
