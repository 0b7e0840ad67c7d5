package database

import "time"

// User represents an API user allowed to sign in to the back office
type User struct {
	ID           int64      `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"` // Never include in JSON
	FullName     string     `db:"full_name" json:"full_name"`
	Role         string     `db:"role" json:"role"`
	IsActive     bool       `db:"is_active" json:"is_active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// DictionaryEntry is one row of the romanizer override table. Rows with a
// DeletedAt are soft-deleted and never exported.
type DictionaryEntry struct {
	ID         int64      `db:"id" json:"id"`
	Word       string     `db:"word" json:"word"`
	Correction string     `db:"correction" json:"correction"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt  *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}

// AuditLog represents an audit log entry for back-office actions
type AuditLog struct {
	ID        int64     `db:"id" json:"id"`
	Action    string    `db:"action" json:"action"`
	UserID    string    `db:"user_id" json:"user_id"`
	Resource  string    `db:"resource" json:"resource"`
	Details   string    `db:"details" json:"details"`
	IPAddress string    `db:"ip_address" json:"ip_address"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
