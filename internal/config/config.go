package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	// Database
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// JWT
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// Server
	Port        string
	CORSOrigins string
	SentryDSN   string
	AppEnv      string

	// Journal
	ConsistencyWindowDays int
	SessionIdleTimeout    time.Duration
	LogRetentionDays      int
	Timezone              string
}

// Load builds the configuration from defaults, then the YAML file named by
// CONFIG_FILE (if any), then environment variables.
func Load() (*Config, error) {
	src := source{}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		file, err := readFile(path)
		if err != nil {
			return nil, err
		}
		src.file = file
	}
	return src.build(), nil
}

// readFile parses a flat YAML mapping keyed by the environment variable names.
// A missing file is not an error.
func readFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	raw := make(map[string]any)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	values := make(map[string]string, len(raw))
	for k, v := range raw {
		if v == nil {
			continue
		}
		values[strings.ToUpper(k)] = fmt.Sprint(v)
	}
	return values, nil
}

type source struct {
	file map[string]string
}

func (s source) build() *Config {
	return &Config{
		DBDriver:   strings.ToLower(s.get("DB_DRIVER", DriverPostgres)),
		DBHost:     s.get("DB_HOST", "localhost"),
		DBPort:     s.get("DB_PORT", "5432"),
		DBUser:     s.get("DB_USER", "postgres"),
		DBPassword: s.get("DB_PASSWORD", ""),
		DBName:     s.get("DB_NAME", "echo_journal"),
		DBSSLMode:  s.get("DB_SSLMODE", "disable"),
		SQLitePath: s.get("SQLITE_PATH", "echo.db"),

		JWTSecret:        s.get("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(s.get("JWT_ACCESS_EXPIRY", "15m"), 15*time.Minute),
		JWTRefreshExpiry: parseDuration(s.get("JWT_REFRESH_EXPIRY", "168h"), 168*time.Hour),

		Port:        s.get("PORT", "8080"),
		CORSOrigins: s.get("CORS_ORIGINS", "*"),
		SentryDSN:   s.get("SENTRY_DSN", ""),
		AppEnv:      s.get("APP_ENV", "development"),

		ConsistencyWindowDays: parseInt(s.get("CONSISTENCY_WINDOW_DAYS", "30"), 30),
		SessionIdleTimeout:    parseDuration(s.get("SESSION_IDLE_TIMEOUT", "2h"), 2*time.Hour),
		LogRetentionDays:      parseInt(s.get("LOG_RETENTION_DAYS", "30"), 30),
		Timezone:              s.get("TIMEZONE", "UTC"),
	}
}

func (s source) get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if val, ok := s.file[key]; ok && val != "" {
		return val
	}
	return fallback
}

// Validate reports every missing or malformed setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	switch c.DBDriver {
	case DriverPostgres:
		if c.DBHost == "" || c.DBName == "" {
			errs = append(errs, errors.New("DB_HOST and DB_NAME are required for postgres"))
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for sqlite"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver))
	}
	if c.ConsistencyWindowDays <= 0 {
		errs = append(errs, errors.New("CONSISTENCY_WINDOW_DAYS must be positive"))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("invalid TIMEZONE: %w", err))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Location is the zone used for calendar-day boundaries. It falls back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) DSN() string {
	if c.DBDriver == DriverSQLite {
		return c.SQLitePath
	}
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
