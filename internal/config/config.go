package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	env "github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no -config flag is given. A missing default file is
// not an error.
const DefaultFile = "springworks.yml"

type ServerConfig struct {
	Port            int    `yaml:"port" validate:"min=1,max=65535"`
	StaticDir       string `yaml:"static_dir"`
	Location        string `yaml:"location"`
	ShutdownSeconds int    `yaml:"shutdown_seconds" validate:"min=1,max=300"`
	SecureCookies   bool   `yaml:"secure_cookies"`
}

type DatabaseConfig struct {
	Path          string `yaml:"path" validate:"required"`
	MaxOpenConns  int    `yaml:"max_open_conns" validate:"min=1,max=100"`
	BusyTimeoutMS int    `yaml:"busy_timeout_ms" validate:"min=0"`
}

type LoggerConfig struct {
	Mode       string `yaml:"mode" validate:"oneof=development production"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename" validate:"required_if=FileEnable true"`
	MaxSizeMB  int    `yaml:"max_size_mb" validate:"min=1"`
	MaxBackups int    `yaml:"max_backups" validate:"min=0"`
	MaxAgeDays int    `yaml:"max_age_days" validate:"min=0"`
}

type RedisConfig struct {
	Addr       string `yaml:"addr"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db" validate:"min=0,max=15"`
	TTLSeconds int    `yaml:"ttl_seconds" validate:"min=1"`
}

type CompanyConfig struct {
	Name  string `yaml:"name" validate:"required"`
	Email string `yaml:"email" validate:"omitempty,email"`
}

type JobsConfig struct {
	Enable             bool   `yaml:"enable"`
	SessionPurge       string `yaml:"session_purge"`
	AuditCleanup       string `yaml:"audit_cleanup"`
	CacheWarm          string `yaml:"cache_warm"`
	AuditRetentionDays int    `yaml:"audit_retention_days" validate:"min=1"`
}

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Logger   LoggerConfig   `yaml:"logger"`
	Redis    RedisConfig    `yaml:"redis"`
	Company  CompanyConfig  `yaml:"company"`
	Jobs     JobsConfig     `yaml:"jobs"`
}

// envOverrides lists the environment variables that override file settings.
type envOverrides struct {
	Port          string `env:"SPRINGWORKS_PORT"`
	StaticDir     string `env:"SPRINGWORKS_STATIC_DIR"`
	DBPath        string `env:"SPRINGWORKS_DB"`
	LogMode       string `env:"SPRINGWORKS_LOG_MODE"`
	LogFile       string `env:"SPRINGWORKS_LOG_FILE"`
	RedisAddr     string `env:"SPRINGWORKS_REDIS_ADDR"`
	RedisPassword string `env:"SPRINGWORKS_REDIS_PASSWORD"`
	RedisDB       string `env:"SPRINGWORKS_REDIS_DB"`
	CompanyName   string `env:"SPRINGWORKS_COMPANY_NAME"`
	CompanyEmail  string `env:"SPRINGWORKS_COMPANY_EMAIL"`
	JobsEnable    string `env:"SPRINGWORKS_JOBS_ENABLE"`
	SecureCookies string `env:"SPRINGWORKS_SECURE_COOKIES"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            9000,
			StaticDir:       "static",
			Location:        "Local",
			ShutdownSeconds: 10,
			SecureCookies:   true,
		},
		Database: DatabaseConfig{
			Path:          "springworks.db",
			MaxOpenConns:  10,
			BusyTimeoutMS: 30000,
		},
		Logger: LoggerConfig{
			Mode:       "development",
			Filename:   "logs/springworks.log",
			MaxSizeMB:  64,
			MaxBackups: 7,
			MaxAgeDays: 7,
		},
		Redis: RedisConfig{
			TTLSeconds: 300,
		},
		Company: CompanyConfig{
			Name:  "Your Company",
			Email: "admin@example.com",
		},
		Jobs: JobsConfig{
			Enable:             true,
			SessionPurge:       "@every 10m",
			AuditCleanup:       "@daily",
			CacheWarm:          "@every 5m",
			AuditRetentionDays: 365,
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path, an
// optional .env file and SPRINGWORKS_* environment variables, in that order.
func Load(path, dotenv string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && path == DefaultFile:
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", dotenv, err)
		}
	}

	var ov envOverrides
	if _, err := env.UnmarshalFromEnviron(&ov); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if err := ov.apply(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (ov envOverrides) apply(cfg *Config) error {
	if ov.Port != "" {
		port, err := strconv.Atoi(strings.TrimSpace(ov.Port))
		if err != nil {
			return fmt.Errorf("SPRINGWORKS_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if ov.StaticDir != "" {
		cfg.Server.StaticDir = ov.StaticDir
	}
	if ov.DBPath != "" {
		cfg.Database.Path = ov.DBPath
	}
	if ov.LogMode != "" {
		cfg.Logger.Mode = ov.LogMode
	}
	if ov.LogFile != "" {
		cfg.Logger.FileEnable = true
		cfg.Logger.Filename = ov.LogFile
	}
	if ov.RedisAddr != "" {
		cfg.Redis.Addr = ov.RedisAddr
	}
	if ov.RedisPassword != "" {
		cfg.Redis.Password = ov.RedisPassword
	}
	if ov.RedisDB != "" {
		n, err := strconv.Atoi(strings.TrimSpace(ov.RedisDB))
		if err != nil {
			return fmt.Errorf("SPRINGWORKS_REDIS_DB: %w", err)
		}
		cfg.Redis.DB = n
	}
	if ov.CompanyName != "" {
		cfg.Company.Name = ov.CompanyName
	}
	if ov.CompanyEmail != "" {
		cfg.Company.Email = ov.CompanyEmail
	}
	if ov.JobsEnable != "" {
		b, err := cast.ToBoolE(ov.JobsEnable)
		if err != nil {
			return fmt.Errorf("SPRINGWORKS_JOBS_ENABLE: %w", err)
		}
		cfg.Jobs.Enable = b
	}
	if ov.SecureCookies != "" {
		b, err := cast.ToBoolE(ov.SecureCookies)
		if err != nil {
			return fmt.Errorf("SPRINGWORKS_SECURE_COOKIES: %w", err)
		}
		cfg.Server.SecureCookies = b
	}
	return nil
}

// Validate checks struct constraints and reports every failing field.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
	}
	sort.Strings(msgs)
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// RedisEnabled reports whether a Redis address is configured.
func (c *Config) RedisEnabled() bool {
	return c.Redis.Addr != ""
}
