// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Frame    FrameConfig
	Format   FormatConfig
	CSV      CSVConfig
	Layout   LayoutConfig
	Watch    WatchConfig
	Server   ServerConfig
	Database DatabaseConfig
	Upload   UploadConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// FrameConfig names the frame chain to fill.
type FrameConfig struct {
	// Name is the first frame of the linked chain (default: TitleFrame)
	Name string `env:"FRAME_NAME" default:"TitleFrame"`
}

// FormatConfig is applied to the whole inserted story.
type FormatConfig struct {
	Font string `env:"FORMAT_FONT" default:"Comic Sans MS Regular"`

	// Size is the font size in points (default: 20)
	Size float64 `env:"FORMAT_FONT_SIZE" default:"20"`

	// Alignment is left, center, right or block (default: center)
	Alignment string `env:"FORMAT_ALIGNMENT" default:"center"`

	// LineSpacing is used only in fixed mode (default: 23)
	LineSpacing float64 `env:"FORMAT_LINE_SPACING" default:"23"`

	// LineSpacingMode is fixed or automatic (default: fixed)
	LineSpacingMode string `env:"FORMAT_LINE_SPACING_MODE" default:"fixed"`
}

// CSVConfig controls which values are extracted from the source.
type CSVConfig struct {
	// Column is the zero-based column index (default: 0)
	Column int `env:"CSV_COLUMN" default:"0"`

	// SkipHeader drops the first row (default: false)
	SkipHeader bool `env:"CSV_SKIP_HEADER" default:"false"`

	// Delimiter is a single character (default: ,)
	Delimiter string `env:"CSV_DELIMITER" default:","`

	// Quote is the quote character; only " is accepted (default: ")
	Quote string `env:"CSV_QUOTE" default:"\""`

	// LazyQuotes tolerates quotes inside unquoted fields (default: true)
	LazyQuotes bool `env:"CSV_LAZY_QUOTES" default:"true"`

	// Sheet selects the workbook sheet for XLSX sources (default: first sheet)
	Sheet string `env:"CSV_SHEET"`

	// PreviewRows is the number of values shown by preview (default: 3)
	PreviewRows int `env:"CSV_PREVIEW_ROWS" default:"3"`
}

// LayoutConfig locates the layout document.
type LayoutConfig struct {
	// Path is the YAML layout file (default: layout.yaml)
	Path string `env:"LAYOUT_PATH" default:"layout.yaml"`

	// Save writes the layout back after every fill (default: true)
	Save bool `env:"LAYOUT_SAVE" default:"true"`
}

// WatchConfig holds watch mode settings.
type WatchConfig struct {
	// Debounce collapses bursts of file events (default: 500ms)
	Debounce time.Duration `env:"WATCH_DEBOUNCE" default:"500ms"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// DatabaseConfig holds database connection settings. Without a URL, run
// history is kept in memory.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (optional)
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 1)
	MinConns int `env:"DB_MIN_CONNS" default:"1"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`

	// HistoryLimit caps the in-memory run history (default: 200)
	HistoryLimit int `env:"RUN_HISTORY_LIMIT" default:"200"`
}

// Enabled reports whether a database is configured.
func (c *DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

// UploadConfig holds source upload settings.
type UploadConfig struct {
	// MaxFileSize is the maximum allowed file size in bytes (default: 10MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"10485760"`

	// MaxConcurrent is the number of parallel fills (default: 1)
	MaxConcurrent int `env:"UPLOAD_MAX_CONCURRENT" default:"1"`

	// MaxWaitTime is how long to wait for a fill slot (default: 30s)
	MaxWaitTime time.Duration `env:"UPLOAD_MAX_WAIT_TIME" default:"30s"`

	// Timeout is the maximum duration for a single fill (default: 1m)
	Timeout time.Duration `env:"UPLOAD_TIMEOUT" default:"1m"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey protects the API routes (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	if c.Host == "" {
		return ":" + strconv.Itoa(c.Port)
	}
	return c.Host + ":" + strconv.Itoa(c.Port)
}
