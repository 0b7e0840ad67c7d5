package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	timestampFormat = "2006-01-02 15:04:05"

	// RequestIDHeader carries the request id in both directions.
	RequestIDHeader = "X-Request-ID"
)

// Logger wraps logrus with additional functionality
type Logger struct {
	*logrus.Logger
	fields logrus.Fields
	closer io.Closer
}

// Options controls logger construction.
type Options struct {
	Level      string
	Format     string // json, text
	File       string
	MaxSize    int // MB
	MaxBackups int
	MaxAge     int // days
	Compress   bool
	// Output replaces stdout when set.
	Output io.Writer
}

// NewLogger creates a text logger writing to stdout and, when logFile is set,
// to a rotated file.
func NewLogger(level, logFile string) *Logger {
	return New(Options{Level: level, File: logFile})
}

// New creates a logger from opts.
func New(opts Options) *Logger {
	log := logrus.New()

	logLevel, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	log.SetLevel(logLevel)

	l := &Logger{
		Logger: log,
		fields: make(logrus.Fields),
	}
	l.SetFormatter(opts.Format)

	var out io.Writer = os.Stdout
	if opts.Output != nil {
		out = opts.Output
	}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create log directory: %v\n", err)
		} else {
			fileLogger := &lumberjack.Logger{
				Filename:   opts.File,
				MaxSize:    orDefault(opts.MaxSize, 100),
				MaxBackups: orDefault(opts.MaxBackups, 3),
				MaxAge:     orDefault(opts.MaxAge, 28),
				Compress:   opts.Compress,
			}
			out = io.MultiWriter(out, fileLogger)
			l.closer = fileLogger
		}
	}
	log.SetOutput(out)

	return l
}

// Discard returns a logger that drops everything. Used by tests and tools.
func Discard() *Logger {
	return New(Options{Level: "panic", Output: io.Discard})
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// WithField adds a field to the logger context
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

// WithFields adds multiple fields to the logger context
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	newFields := make(logrus.Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		newFields[k] = v
	}
	for k, v := range fields {
		newFields[k] = v
	}

	return &Logger{
		Logger: l.Logger,
		fields: newFields,
		closer: l.closer,
	}
}

// WithComponent adds a component field to the logger
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithField("component", component)
}

// WithError adds an error field to the logger
func (l *Logger) WithError(err error) *Logger {
	return l.WithField(logrus.ErrorKey, err)
}

// entry resolves args either as key/value pairs (even count, string keys,
// no verbs in msg) or as printf arguments.
func (l *Logger) entry(msg string, args []interface{}) (*logrus.Entry, string) {
	entry := l.Logger.WithFields(l.fields)
	if len(args) == 0 {
		return entry, msg
	}
	if len(args)%2 == 0 && !strings.Contains(msg, "%") {
		fields := make(logrus.Fields, len(args)/2)
		for i := 0; i < len(args); i += 2 {
			key, ok := args[i].(string)
			if !ok {
				return entry, fmt.Sprintf(msg, args...)
			}
			fields[key] = args[i+1]
		}
		return entry.WithFields(fields), msg
	}
	return entry, fmt.Sprintf(msg, args...)
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, args ...interface{}) {
	entry, msg := l.entry(msg, args)
	entry.Debug(msg)
}

// Info logs an info message
func (l *Logger) Info(msg string, args ...interface{}) {
	entry, msg := l.entry(msg, args)
	entry.Info(msg)
}

// Warning logs a warning message
func (l *Logger) Warning(msg string, args ...interface{}) {
	entry, msg := l.entry(msg, args)
	entry.Warning(msg)
}

// Error logs an error message
func (l *Logger) Error(msg string, args ...interface{}) {
	entry, msg := l.entry(msg, args)
	entry.Error(msg)
}

// Fatal logs a fatal message and exits
func (l *Logger) Fatal(msg string, args ...interface{}) {
	entry, msg := l.entry(msg, args)
	entry.Fatal(msg)
}

// SecurityLogger logs security-related events
func (l *Logger) SecurityLogger(event, userID, details string) {
	l.WithFields(map[string]interface{}{
		"event_type": "security",
		"event":      event,
		"user_id":    userID,
		"details":    details,
		"timestamp":  time.Now().Unix(),
	}).Warning("Security event logged")
}

// AuditLogger logs audit events
func (l *Logger) AuditLogger(action, userID, resource, details string) {
	l.WithFields(map[string]interface{}{
		"event_type": "audit",
		"action":     action,
		"user_id":    userID,
		"resource":   resource,
		"details":    details,
		"timestamp":  time.Now().Unix(),
	}).Info("Audit event logged")
}

// DictionaryLogger logs dictionary lifecycle events (load, reload, export).
func (l *Logger) DictionaryLogger(event, path string, entries int, err error) {
	entry := l.WithFields(map[string]interface{}{
		"event_type": "dictionary",
		"event":      event,
		"path":       path,
		"entries":    entries,
	})
	if err != nil {
		entry.WithError(err).Error("Dictionary event failed")
		return
	}
	entry.Info("Dictionary event logged")
}

// PerformanceLogger logs performance metrics
func (l *Logger) PerformanceLogger(operation string, duration time.Duration, success bool) {
	l.WithFields(map[string]interface{}{
		"event_type": "performance",
		"operation":  operation,
		"duration":   duration.Milliseconds(),
		"success":    success,
	}).Debug("Performance event logged")
}

// RequestLogger tags each request with an id (taken from X-Request-ID when
// the client sends one) and a request-scoped logger.
func (l *Logger) RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Set("logger", l.WithField("request_id", requestID))
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}

// GetLoggerFromContext retrieves the logger from Gin context
func GetLoggerFromContext(c *gin.Context) *Logger {
	if logger, exists := c.Get("logger"); exists {
		if l, ok := logger.(*Logger); ok {
			return l
		}
	}
	return NewLogger("info", "")
}

// SetLogLevel dynamically sets the log level
func (l *Logger) SetLogLevel(level string) error {
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	l.Logger.SetLevel(logLevel)
	return nil
}

// SetFormatter sets the log formatter
func (l *Logger) SetFormatter(format string) {
	switch format {
	case "json":
		l.Logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: timestampFormat,
		})
	default:
		l.Logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: timestampFormat,
		})
	}
}

// Close closes the rotated log file, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
