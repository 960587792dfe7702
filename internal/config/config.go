package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Config holds all configuration values
type Config struct {
	Addr         string        `yaml:"addr"`
	LogLevel     string        `yaml:"log_level"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
	QueryTimeout time.Duration `yaml:"query_timeout"`
	DB           DB            `yaml:"db"`

	DemoMode    bool // seed a demo model into an empty store (set via --demo flag)
	AutoMigrate bool // apply schema migrations before serving (set via --migrate flag)
}

// DB holds parameter store connection settings
type DB struct {
	Driver          string        `yaml:"driver"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Username        string        `yaml:"username"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name"`
	SSLMode         string        `yaml:"sslmode"`
	Path            string        `yaml:"path"` // sqlite3 only
	MaxOpenConns    int           `yaml:"max_open_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// Load loads configuration from YAML file and overrides with env vars if present
func Load(path string) (*Config, error) {
	// Defaults
	cfg := &Config{
		Addr:         ":8080",
		LogLevel:     "info",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		QueryTimeout: 5 * time.Second,
		DB: DB{
			Driver:          DriverPostgres,
			Host:            "localhost",
			Port:            5432,
			Name:            "postgres",
			SSLMode:         "disable",
			Path:            "./model.db",
			MaxOpenConns:    10,
			ConnMaxLifetime: 30 * time.Minute,
		},
	}

	// Load from YAML if file exists
	if f, err := os.Open(path); err == nil {
		defer f.Close()
		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}

	// Override with environment variables
	if v := os.Getenv("PORT"); v != "" {
		cfg.Addr = ":" + v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("QUERY_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("QUERY_TIMEOUT: %w", err)
		}
		cfg.QueryTimeout = d
	}
	if v := os.Getenv("DB_DRIVER"); v != "" {
		cfg.DB.Driver = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.DB.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("DB_PORT: %w", err)
		}
		cfg.DB.Port = p
	}
	if v := os.Getenv("DB_USERNAME"); v != "" {
		cfg.DB.Username = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.DB.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.DB.Name = v
	}
	if v := os.Getenv("DB_SSLMODE"); v != "" {
		cfg.DB.SSLMode = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DB.Path = v
	}

	if err := cfg.DB.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the settings needed by the selected driver are present.
func (d DB) Validate() error {
	switch d.Driver {
	case DriverPostgres:
		if d.Host == "" {
			return errors.New("DB_HOST is required for the postgres driver")
		}
		if d.Name == "" {
			return errors.New("DB_NAME is required for the postgres driver")
		}
		if d.Port <= 0 || d.Port > 65535 {
			return fmt.Errorf("DB_PORT %d is out of range", d.Port)
		}
	case DriverSQLite:
		if d.Path == "" {
			return errors.New("DB_PATH is required for the sqlite3 driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want %s or %s)", d.Driver, DriverPostgres, DriverSQLite)
	}
	return nil
}

// DSN returns the data source name for the selected driver.
func (d DB) DSN() string {
	if d.Driver == DriverSQLite {
		return d.Path
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:   "/" + d.Name,
	}
	if d.Username != "" {
		u.User = url.UserPassword(d.Username, d.Password)
	}
	if d.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {d.SSLMode}}.Encode()
	}
	return u.String()
}

// Redacted returns the DSN with the password masked, for logs.
func (d DB) Redacted() string {
	if d.Driver == DriverSQLite {
		return d.Path
	}
	u, err := url.Parse(d.DSN())
	if err != nil {
		return d.Driver
	}
	return u.Redacted()
}
