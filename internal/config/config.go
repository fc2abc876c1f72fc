package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apierrors "techkpi/internal/errors"
)

// EnvPrefix is the namespace of every environment variable, e.g. KPI_SERVER_PORT.
const EnvPrefix = "KPI"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Reports   ReportsConfig   `yaml:"reports" envconfig:"REPORTS"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port             int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout      time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout     time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout      time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	MaxHeaderBytes   int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES"`
	ShutdownTimeout  time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	OperationTimeout time.Duration `yaml:"operation_timeout" envconfig:"OPERATION_TIMEOUT"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL"`
	Format      string `yaml:"format" envconfig:"FORMAT"`
	Output      string `yaml:"output" envconfig:"OUTPUT"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// PathsConfig contains file system paths configuration.
// Relative paths are resolved against BaseDir, or the working directory when empty.
type PathsConfig struct {
	BaseDir   string `yaml:"base_dir" envconfig:"BASE_DIR"`
	ExportDir string `yaml:"export_dir" envconfig:"EXPORT_DIR"`
	LogsDir   string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// ReportsConfig controls how the four uploaded reports are read and scored
type ReportsConfig struct {
	MaxUploadBytes int64            `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES"`
	HeaderScanRows int              `yaml:"header_scan_rows" envconfig:"HEADER_SCAN_ROWS"`
	ServiceMatch   string           `yaml:"service_match" envconfig:"SERVICE_MATCH"`
	SampleSeed     int64            `yaml:"sample_seed" envconfig:"SAMPLE_SEED"`
	SampleStart    string           `yaml:"sample_start" envconfig:"SAMPLE_START"`
	Thresholds     ThresholdsConfig `yaml:"thresholds" envconfig:"THRESHOLDS"`
}

// ThresholdsConfig holds the good/warning floors per metric family
type ThresholdsConfig struct {
	CurrencyGood      float64 `yaml:"currency_good" envconfig:"CURRENCY_GOOD"`
	CurrencyWarning   float64 `yaml:"currency_warning" envconfig:"CURRENCY_WARNING"`
	PercentageGood    float64 `yaml:"percentage_good" envconfig:"PERCENTAGE_GOOD"`
	PercentageWarning float64 `yaml:"percentage_warning" envconfig:"PERCENTAGE_WARNING"`
	CountGood         float64 `yaml:"count_good" envconfig:"COUNT_GOOD"`
	CountWarning      float64 `yaml:"count_warning" envconfig:"COUNT_WARNING"`
}

// TelemetryConfig contains OpenTelemetry configuration
type TelemetryConfig struct {
	ServiceName     string  `yaml:"service_name" envconfig:"SERVICE_NAME"`
	Environment     string  `yaml:"environment" envconfig:"ENVIRONMENT"`
	EnableTracing   bool    `yaml:"enable_tracing" envconfig:"ENABLE_TRACING"`
	EnableMetrics   bool    `yaml:"enable_metrics" envconfig:"ENABLE_METRICS"`
	TraceSampleRate float64 `yaml:"trace_sample_rate" envconfig:"TRACE_SAMPLE_RATE"`
}

// Load loads configuration from defaults, the optional YAML file and
// environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom is Load with an explicit config file path. An empty path skips the file.
func LoadFrom(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, apierrors.NewConfigError("failed to load config from file", err).WithContext("path", configFile)
		}
	}

	// Variables that are not set leave the field untouched.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apierrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, apierrors.NewConfigError("config validation failed", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Logging.Level)
	}

	// Structured logs only.
	c.Logging.Format = "json"

	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		return fmt.Errorf("invalid log output: %q", c.Logging.Output)
	}

	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}

	if c.Reports.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive")
	}

	if c.Reports.HeaderScanRows <= 0 {
		return fmt.Errorf("header scan rows must be positive")
	}

	if c.Reports.ServiceMatch != "exact" && c.Reports.ServiceMatch != "keyword" {
		return fmt.Errorf("invalid service match mode: %q", c.Reports.ServiceMatch)
	}

	if _, err := c.Reports.SampleStartDate(); err != nil {
		return err
	}

	if err := c.Reports.Thresholds.validate(); err != nil {
		return err
	}

	if c.Telemetry.TraceSampleRate < 0 || c.Telemetry.TraceSampleRate > 1 {
		return fmt.Errorf("trace sample rate must be within [0, 1]: %v", c.Telemetry.TraceSampleRate)
	}

	return nil
}

// SampleStartDate parses SampleStart as a calendar date
func (r ReportsConfig) SampleStartDate() (time.Time, error) {
	start, err := time.Parse("2006-01-02", r.SampleStart)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid sample start date %q: %w", r.SampleStart, err)
	}
	return start, nil
}

func (t ThresholdsConfig) validate() error {
	pairs := []struct {
		family        string
		good, warning float64
	}{
		{"currency", t.CurrencyGood, t.CurrencyWarning},
		{"percentage", t.PercentageGood, t.PercentageWarning},
		{"count", t.CountGood, t.CountWarning},
	}
	for _, p := range pairs {
		if p.warning > p.good {
			return fmt.Errorf("%s warning threshold %v exceeds good threshold %v", p.family, p.warning, p.good)
		}
	}
	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if path := os.Getenv(EnvPrefix + "_CONFIG_FILE"); path != "" {
		return path
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
		"../../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:             8080,
			ReadTimeout:      30 * time.Second,
			WriteTimeout:     60 * time.Second,
			IdleTimeout:      60 * time.Second,
			MaxHeaderBytes:   1 << 20, // 1MB
			ShutdownTimeout:  30 * time.Second,
			OperationTimeout: 2 * time.Minute,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080", "http://localhost:8501"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     20,
				Burst:   40,
			},
		},
		Logging: LoggingConfig{
			Level:       "info",
			Format:      "json",
			Output:      "console",
			FilePath:    "logs/app.log",
			Development: false,
		},
		Paths: PathsConfig{
			ExportDir: "exports",
			LogsDir:   "logs",
		},
		Reports: ReportsConfig{
			MaxUploadBytes: 32 << 20, // 32MB across the four files
			HeaderScanRows: 10,
			ServiceMatch:   "exact",
			SampleSeed:     42,
			SampleStart:    "2024-01-01",
			Thresholds: ThresholdsConfig{
				CurrencyGood:      1000,
				CurrencyWarning:   500,
				PercentageGood:    80,
				PercentageWarning: 60,
				CountGood:         10,
				CountWarning:      5,
			},
		},
		Telemetry: TelemetryConfig{
			ServiceName:     "techkpi",
			Environment:     "development",
			EnableTracing:   false,
			EnableMetrics:   true,
			TraceSampleRate: 1.0,
		},
	}
}
