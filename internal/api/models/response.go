package models

import (
	"time"

	"baakh/internal/dictionary"
)

// BaseResponse represents the base API response structure
type BaseResponse struct {
	Success   bool        `json:"success" example:"true"`
	Message   string      `json:"message,omitempty" example:"Operation completed successfully"`
	Data      interface{} `json:"data,omitempty"`
	Error     *ErrorInfo  `json:"error,omitempty"`
	Timestamp int64       `json:"timestamp" example:"1640995200"`
	RequestID string      `json:"request_id,omitempty" example:"5b8f0c1e-8a4f-4bd2-9d0c-3f1f1f6a2b7e"`
}

// ErrorInfo represents error information
type ErrorInfo struct {
	Code    string `json:"code" example:"INVALID_REQUEST"`
	Message string `json:"message" example:"Invalid request parameters"`
	Details string `json:"details,omitempty" example:"Field 'username' is required"`
}

// UserResponse represents user information
type UserResponse struct {
	ID        string `json:"id" example:"12"`
	Username  string `json:"username" example:"editor1"`
	Email     string `json:"email,omitempty" example:"editor@example.com"`
	FullName  string `json:"full_name,omitempty" example:"Shaikh Ayaz"`
	Role      string `json:"role" example:"editor"`
	LastLogin *int64 `json:"last_login,omitempty" example:"1640995200"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	Token     string        `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType string        `json:"token_type" example:"Bearer"`
	ExpiresIn int64         `json:"expires_in" example:"86400"`
	ExpiresAt int64         `json:"expires_at" example:"1641081600"`
	User      *UserResponse `json:"user,omitempty"`
}

// DictionaryStatusResponse describes the served override table
type DictionaryStatusResponse struct {
	dictionary.Stats
	Watching bool `json:"watching"`
	// DatabaseRows counts active rows in the managed table, when one is configured.
	DatabaseRows *int `json:"database_rows,omitempty"`
}

// DictionaryExportResponse reports an export run and the reload that followed
type DictionaryExportResponse struct {
	Rows       int              `json:"rows"`
	Written    int              `json:"written"`
	Skipped    int              `json:"skipped"`
	DurationMS int64            `json:"duration_ms"`
	Dictionary dictionary.Stats `json:"dictionary"`
}

// AuditLogResponse represents audit log entry
type AuditLogResponse struct {
	ID        int64  `json:"id" example:"12345"`
	Action    string `json:"action" example:"dictionary_reload"`
	UserID    string `json:"user_id" example:"12"`
	Resource  string `json:"resource" example:"dictionary"`
	Details   string `json:"details" example:"2041 entries"`
	IPAddress string `json:"ip_address" example:"192.168.1.100"`
	Timestamp int64  `json:"timestamp" example:"1640995200"`
}

// SystemStatusResponse represents system status
type SystemStatusResponse struct {
	ServerStatus   string           `json:"server_status" example:"running"`
	DatabaseStatus string           `json:"database_status" example:"connected"`
	Dictionary     dictionary.Stats `json:"dictionary"`
	Uptime         int64            `json:"uptime" example:"86400"`
	Version        string           `json:"version" example:"1.0.0"`
	Environment    string           `json:"environment" example:"release"`
	Goroutines     int              `json:"goroutines" example:"12"`
}

// WebSocketMessage represents WebSocket message structure
type WebSocketMessage struct {
	ID        string      `json:"id,omitempty" example:"42"`
	Type      string      `json:"type" example:"romanize"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp" example:"1640995200"`
}

// HealthCheckResponse represents health check response
type HealthCheckResponse struct {
	Status    string                 `json:"status" example:"healthy"`
	Timestamp int64                  `json:"timestamp" example:"1640995200"`
	Version   string                 `json:"version" example:"1.0.0"`
	Uptime    int64                  `json:"uptime" example:"86400"`
	Checks    map[string]HealthCheck `json:"checks"`
}

// HealthCheck represents individual health check
type HealthCheck struct {
	Status  string `json:"status" example:"healthy"`
	Message string `json:"message,omitempty" example:"Service is running normally"`
}

// NewSuccess builds a successful envelope.
func NewSuccess(data interface{}, message string) BaseResponse {
	return BaseResponse{Success: true, Data: data, Message: message, Timestamp: time.Now().Unix()}
}

// NewFailure builds an error envelope.
func NewFailure(err *APIError) BaseResponse {
	return BaseResponse{Success: false, Error: err.Info(), Timestamp: time.Now().Unix()}
}
