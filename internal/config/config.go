// Package config loads service settings from defaults, an optional YAML file and
// the environment, in that order.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/juju/errors"
	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	HTTP       HTTP       `yaml:"http"`
	Database   Database   `yaml:"database"`
	Log        Log        `yaml:"log"`
	Pagination Pagination `yaml:"pagination"`
	Feed       Feed       `yaml:"feed"`
}

type HTTP struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type Database struct {
	Driver        string        `yaml:"driver"`
	DSN           string        `yaml:"dsn"`
	MaxOpenConns  int           `yaml:"max_open_conns"`
	MaxIdleConns  int           `yaml:"max_idle_conns"`
	LogLevel      string        `yaml:"log_level"`
	SlowThreshold time.Duration `yaml:"slow_threshold"`
	AutoMigrate   bool          `yaml:"auto_migrate"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Pagination struct {
	DefaultTake int `yaml:"default_take"`
	MaxTake     int `yaml:"max_take"`
}

type Feed struct {
	PingInterval time.Duration `yaml:"ping_interval"`
	Buffer       int           `yaml:"buffer"`
}

// Default returns a configuration that runs against an in-memory SQLite database.
func Default() Config {
	return Config{
		HTTP: HTTP{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Database: Database{
			Driver:        DriverSQLite,
			DSN:           "file:sportalk?mode=memory&cache=shared&_foreign_keys=1",
			MaxOpenConns:  10,
			MaxIdleConns:  5,
			LogLevel:      "warn",
			SlowThreshold: 200 * time.Millisecond,
			AutoMigrate:   true,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
		Pagination: Pagination{
			DefaultTake: 20,
			MaxTake:     100,
		},
		Feed: Feed{
			PingInterval: 10 * time.Second,
			Buffer:       1,
		},
	}
}

// Load reads path (if not empty) over the defaults and applies environment
// overrides. The result is validated.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Annotatef(err, "reading config %q", path)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Annotatef(err, "parsing config %q", path)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, errors.Trace(err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Trace(err)
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if port, ok := lookup("PORT"); ok && port != "" {
		c.HTTP.Addr = ":" + port
	}
	if dsn, ok := lookup("DATABASE_URL"); ok && dsn != "" {
		c.Database.DSN = dsn
		c.Database.Driver = DriverPostgres
	}
	if driver, ok := lookup("DATABASE_DRIVER"); ok && driver != "" {
		c.Database.Driver = driver
	}
	if level, ok := lookup("LOG_LEVEL"); ok && level != "" {
		c.Log.Level = level
	}
	if v, ok := lookup("AUTO_MIGRATE"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.NotValidf("AUTO_MIGRATE %q", v)
		}
		c.Database.AutoMigrate = b
	}
	return nil
}

func (c Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return errors.NotValidf("database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.NotValidf("empty database dsn")
	}
	if c.Database.MaxOpenConns <= 0 {
		return errors.NotValidf("database max_open_conns %d", c.Database.MaxOpenConns)
	}
	if c.Pagination.DefaultTake <= 0 || c.Pagination.MaxTake < c.Pagination.DefaultTake {
		return errors.NotValidf("pagination take %d/%d", c.Pagination.DefaultTake, c.Pagination.MaxTake)
	}
	if c.Feed.PingInterval <= 0 {
		return errors.NotValidf("feed ping_interval %s", c.Feed.PingInterval)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.NotValidf("log format %q", c.Log.Format)
	}
	return nil
}
