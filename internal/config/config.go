package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// ErrInvalidConfig возвращается при некорректных значениях конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Booking  BookingConfig  `toml:"booking"`
	Redis    RedisConfig    `toml:"redis"`
	Tracing  TracingConfig  `toml:"tracing"`
}

// ServerConfig настройки HTTP сервера, таймауты в секундах
type ServerConfig struct {
	HTTPPort        int      `toml:"http_port"`
	ReadTimeout     int      `toml:"read_timeout"`
	WriteTimeout    int      `toml:"write_timeout"`
	IdleTimeout     int      `toml:"idle_timeout"`
	ShutdownTimeout int      `toml:"shutdown_timeout"`
	AllowedOrigins  []string `toml:"allowed_origins"`
}

// DatabaseConfig настройки PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
	AutoMigrate     bool   `toml:"auto_migrate"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// BookingConfig правила бронирования
type BookingConfig struct {
	CustomerCanCancelConfirmed bool `toml:"customer_can_cancel_confirmed"`
	// LockTimeout ожидание блокировки слота, в секундах
	LockTimeout int `toml:"lock_timeout"`
	// Location часовой пояс бизнесов, например "Asia/Riyadh"
	Location string `toml:"location"`
}

// LockTimeoutDuration возвращает таймаут блокировки слота
func (b BookingConfig) LockTimeoutDuration() time.Duration {
	return time.Duration(b.LockTimeout) * time.Second
}

// LoadLocation возвращает часовой пояс бизнесов
func (b BookingConfig) LoadLocation() (*time.Location, error) {
	if b.Location == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(b.Location)
}

// RedisConfig настройки Redis для распределенной блокировки слотов
type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
	// LockTTL время жизни блокировки, в секундах
	LockTTL int `toml:"lock_ttl"`
}

// TracingConfig настройки OpenTelemetry
type TracingConfig struct {
	Enabled      bool    `toml:"enabled"`
	OTLPEndpoint string  `toml:"otlp_endpoint"`
	SampleRatio  float64 `toml:"sample_ratio"`
}

// Load читает конфигурацию из TOML файла.
// Переменные из .env (если файл есть) и окружения перекрывают значения файла.
func Load(path string) (*Config, error) {
	// .env необязателен
	_ = godotenv.Load(".env")

	cfg := defaults()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
			AllowedOrigins:  []string{"*"},
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "booking_service",
		},
		Booking: BookingConfig{
			LockTimeout: 5,
		},
		Redis: RedisConfig{
			Addr:    "localhost:6379",
			Prefix:  "booking4u",
			LockTTL: 10,
		},
		Tracing: TracingConfig{
			SampleRatio: 1.0,
		},
	}
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Database.Host, "DB_HOST")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.DBName, "DB_NAME")
	setString(&cfg.Database.SSLMode, "DB_SSLMODE")
	setString(&cfg.Logs.Level, "LOG_LEVEL")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.Tracing.OTLPEndpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	setString(&cfg.Booking.Location, "BOOKING_LOCATION")

	if err := setInt(&cfg.Server.HTTPPort, "HTTP_PORT"); err != nil {
		return err
	}
	if err := setInt(&cfg.Database.Port, "DB_PORT"); err != nil {
		return err
	}
	if err := setBool(&cfg.Redis.Enabled, "REDIS_ENABLED"); err != nil {
		return err
	}
	return setBool(&cfg.Tracing.Enabled, "TRACING_ENABLED")
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port %d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Database.Host == "" {
		return fmt.Errorf("%w: database.host is required", ErrInvalidConfig)
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("%w: database.dbname is required", ErrInvalidConfig)
	}
	if c.Booking.LockTimeout <= 0 {
		return fmt.Errorf("%w: booking.lock_timeout must be positive", ErrInvalidConfig)
	}
	if _, err := c.Booking.LoadLocation(); err != nil {
		return fmt.Errorf("%w: booking.location: %v", ErrInvalidConfig, err)
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("%w: redis.addr is required when redis is enabled", ErrInvalidConfig)
	}
	if c.Tracing.Enabled && c.Tracing.OTLPEndpoint == "" {
		return fmt.Errorf("%w: tracing.otlp_endpoint is required when tracing is enabled", ErrInvalidConfig)
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("%w: tracing.sample_ratio must be in [0, 1]", ErrInvalidConfig)
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, key, v)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidConfig, key, v)
	}
	*dst = b
	return nil
}
