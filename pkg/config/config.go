package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every automatic environment key
// (server.port -> BAAKH_SERVER_PORT).
const EnvPrefix = "BAAKH"

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Security   SecurityConfig   `mapstructure:"security"`
	API        APIConfig        `mapstructure:"api"`
	Dictionary DictionaryConfig `mapstructure:"dictionary"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // gin mode: debug, release, test
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	TLS             TLSConfig     `mapstructure:"tls"`
}

// TLSConfig holds TLS/SSL configuration
type TLSConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`
}

// DatabaseConfig holds database connection configuration.
// Leaving Type empty runs the service without a database.
type DatabaseConfig struct {
	Type            string        `mapstructure:"type"` // postgres, sqlite
	URL             string        `mapstructure:"url"`  // postgres://... takes precedence
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	Path            string        `mapstructure:"path"`    // For SQLite
	SSLMode         string        `mapstructure:"sslmode"` // For PostgreSQL
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxLifetime     time.Duration `mapstructure:"max_lifetime"`
	DictionaryTable string        `mapstructure:"dictionary_table"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`  // debug, info, warn, error
	Format     string `mapstructure:"format"` // json, text
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"` // MB
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
	Compress   bool   `mapstructure:"compress"`
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	JWTSecret         string        `mapstructure:"jwt_secret"`
	JWTExpiration     time.Duration `mapstructure:"jwt_expiration"`
	AdminRoles        []string      `mapstructure:"admin_roles"`
	PasswordMinLength int           `mapstructure:"password_min_length"`
}

// APIConfig holds API-related configuration
type APIConfig struct {
	RateLimit     int           `mapstructure:"rate_limit"` // requests per minute
	BurstLimit    int           `mapstructure:"burst_limit"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxTextLength int           `mapstructure:"max_text_length"` // runes
	CORS          CORSConfig    `mapstructure:"cors"`
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// DictionaryConfig controls the romanizer override file.
type DictionaryConfig struct {
	Path     string        `mapstructure:"path"`
	Watch    bool          `mapstructure:"watch"`
	Debounce time.Duration `mapstructure:"debounce"`
}

// envMappings are well-known variable names that always override the file.
var envMappings = map[string]string{
	"DATABASE_URL":    "database.url",
	"DB_PASSWORD":     "database.password",
	"DB_USER":         "database.user",
	"JWT_SECRET":      "security.jwt_secret",
	"DICTIONARY_PATH": "dictionary.path",
	"GIN_MODE":        "server.mode",
	"PORT":            "server.port",
}

// LoadConfig loads configuration from an optional .env file, the config file
// at configPath and environment variables, in increasing precedence.
func LoadConfig(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
			// Config file not found; defaults and env vars apply
		}
	}

	overrideWithEnvVars(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "10s")

	// Database defaults
	v.SetDefault("database.type", "")
	v.SetDefault("database.url", "")
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "postgres")
	v.SetDefault("database.sslmode", "require")
	v.SetDefault("database.path", "./baakh.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_lifetime", "5m")
	v.SetDefault("database.dictionary_table", "romanizer")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size", 100)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 28)
	v.SetDefault("logging.compress", true)

	// Security defaults
	v.SetDefault("security.jwt_secret", "")
	v.SetDefault("security.jwt_expiration", "24h")
	v.SetDefault("security.admin_roles", []string{"admin", "editor"})
	v.SetDefault("security.password_min_length", 8)

	// API defaults
	v.SetDefault("api.rate_limit", 120)
	v.SetDefault("api.burst_limit", 20)
	v.SetDefault("api.timeout", "30s")
	v.SetDefault("api.max_text_length", 20000)

	// CORS defaults
	v.SetDefault("api.cors.allowed_origins", []string{"*"})
	v.SetDefault("api.cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("api.cors.allowed_headers", []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"})
	v.SetDefault("api.cors.allow_credentials", false)
	v.SetDefault("api.cors.max_age", 86400)

	// Dictionary defaults
	v.SetDefault("dictionary.path", "./data/romanizer-dictionary.txt")
	v.SetDefault("dictionary.watch", true)
	v.SetDefault("dictionary.debounce", "500ms")
}

// overrideWithEnvVars overrides config with specific environment variables
func overrideWithEnvVars(v *viper.Viper) {
	for envVar, configKey := range envMappings {
		if value := os.Getenv(envVar); value != "" {
			v.Set(configKey, value)
		}
	}
}

var (
	validDatabaseTypes = map[string]bool{"": true, "postgres": true, "sqlite": true}
	identifierPattern  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// validateConfig validates the loaded configuration
func validateConfig(config *Config) error {
	if config.Security.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if config.IsProduction() && len(config.Security.JWTSecret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters in %s mode", config.Server.Mode)
	}
	if config.Security.JWTExpiration < 0 {
		return fmt.Errorf("jwt expiration must not be negative")
	}

	if config.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if !validDatabaseTypes[config.Database.Type] {
		return fmt.Errorf("unsupported database type: %s", config.Database.Type)
	}
	switch config.Database.Type {
	case "postgres":
		if config.Database.URL == "" && (config.Database.Host == "" || config.Database.User == "") {
			return fmt.Errorf("postgres requires url or host and user")
		}
	case "sqlite":
		if config.Database.Path == "" {
			return fmt.Errorf("sqlite requires path")
		}
	}

	if !identifierPattern.MatchString(config.Database.DictionaryTable) {
		return fmt.Errorf("invalid dictionary table name: %q", config.Database.DictionaryTable)
	}

	if config.API.RateLimit <= 0 {
		return fmt.Errorf("api rate limit must be positive")
	}
	if config.API.BurstLimit < 0 {
		return fmt.Errorf("api burst limit must not be negative")
	}
	if config.API.MaxTextLength <= 0 {
		return fmt.Errorf("api max text length must be positive")
	}

	if config.Dictionary.Debounce <= 0 {
		config.Dictionary.Debounce = 500 * time.Millisecond
	}

	return nil
}

// HasDatabase reports whether a database is configured.
func (c *Config) HasDatabase() bool {
	return c.Database.Type != ""
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return c.Database.DSN()
}

// DSN returns the driver connection string. For postgres a URL, when set,
// is used verbatim.
func (d DatabaseConfig) DSN() string {
	switch d.Type {
	case "postgres":
		if d.URL != "" {
			return d.URL
		}
		sslMode := d.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			d.Host, d.Port, d.User, d.Password, d.DBName, sslMode)
	case "sqlite":
		return d.Path
	default:
		return ""
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Mode == "debug" || c.Server.Mode == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Mode == "release" || c.Server.Mode == "production"
}

// GinMode maps server.mode onto one of gin's modes.
func (c *Config) GinMode() string {
	switch {
	case c.IsProduction():
		return "release"
	case c.Server.Mode == "test":
		return "test"
	default:
		return "debug"
	}
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// SanitizeForLogging returns a copy of the config with sensitive data redacted
func (c *Config) SanitizeForLogging() *Config {
	sanitized := *c

	if sanitized.Database.Password != "" {
		sanitized.Database.Password = "[REDACTED]"
	}

	if sanitized.Database.URL != "" {
		sanitized.Database.URL = "[REDACTED]"
	}

	if sanitized.Security.JWTSecret != "" {
		sanitized.Security.JWTSecret = "[REDACTED]"
	}

	return &sanitized
}
