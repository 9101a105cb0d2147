package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"

	"github.com/m04kA/GymLessonBookingService/internal/availability"
	"github.com/m04kA/GymLessonBookingService/internal/domain"
)

// EnvPrefix префикс переменных окружения, переопределяющих файл (LESSONS_DATABASE_PASSWORD)
const EnvPrefix = "LESSONS"

// ErrInvalidConfig возвращается при некорректной конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server         ServerConfig         `toml:"server"`
	Database       DatabaseConfig       `toml:"database"`
	Logs           LogsConfig           `toml:"logs"`
	Metrics        MetricsConfig        `toml:"metrics"`
	Booking        BookingConfig        `toml:"booking"`
	Redis          RedisConfig          `toml:"redis"`
	Stripe         StripeConfig         `toml:"stripe"`
	ProfileService ProfileServiceConfig `toml:"profile_service" split_words:"true"`
	Notifications  NotificationsConfig  `toml:"notifications"`
	Admin          AdminConfig          `toml:"admin"`
}

// ServerConfig HTTP сервер; таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port" split_words:"true"`
	ReadTimeout     int `toml:"read_timeout" split_words:"true"`
	WriteTimeout    int `toml:"write_timeout" split_words:"true"`
	IdleTimeout     int `toml:"idle_timeout" split_words:"true"`
	ShutdownTimeout int `toml:"shutdown_timeout" split_words:"true"`
	// TrustProxyHeaders брать IP клиента из X-Forwarded-For / X-Real-IP; включать только за доверенным прокси
	TrustProxyHeaders bool `toml:"trust_proxy_headers" split_words:"true"`
}

// DatabaseConfig PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns" split_words:"true"`
	MaxIdleConns    int    `toml:"max_idle_conns" split_words:"true"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" split_words:"true"` // секунды
	AutoMigrate     bool   `toml:"auto_migrate" split_words:"true"`
}

// DSN строка подключения в формате URL (подходит и для lib/pq, и для golang-migrate)
func (c DatabaseConfig) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     c.DBName,
		RawQuery: url.Values{"sslmode": []string{sslMode}}.Encode(),
	}
	return u.String()
}

// LogsConfig логирование
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name" split_words:"true"`
}

// BookingConfig параметры бронирования
type BookingConfig struct {
	Timezone           string `toml:"timezone"`
	HoldTTLMinutes     int    `toml:"hold_ttl_minutes" envconfig:"HOLD_TTL_MINUTES"`
	MinNoticeMinutes   int    `toml:"min_notice_minutes" split_words:"true"`
	AdvanceBookingDays int    `toml:"advance_booking_days" split_words:"true"`
	ExceptionOrder     string `toml:"exception_order" split_words:"true"`
	SweepSchedule      string `toml:"sweep_schedule" split_words:"true"`
	// ReservationRateLimit запросов на создание удержания в минуту с одного клиента; 0 отключает ограничение
	ReservationRateLimit int `toml:"reservation_rate_limit" split_words:"true"`
}

// Location часовой пояс бизнеса
func (c BookingConfig) Location() (*time.Location, error) {
	tz := c.Timezone
	if tz == "" {
		tz = domain.DefaultBusinessTimezone
	}
	return time.LoadLocation(tz)
}

// RedisConfig блокировка воркера очистки; пустой адрес отключает блокировку
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// StripeConfig платежный провайдер
type StripeConfig struct {
	SecretKey  string `toml:"secret_key" split_words:"true"`
	Currency   string `toml:"currency"`
	SuccessURL string `toml:"success_url" envconfig:"SUCCESS_URL"`
	CancelURL  string `toml:"cancel_url" envconfig:"CANCEL_URL"`
}

// ProfileServiceConfig сервис профилей родителей; пустой URL отключает интеграцию
type ProfileServiceConfig struct {
	URL     string `toml:"url" envconfig:"URL"`
	Timeout int    `toml:"timeout"` // секунды
}

// NotificationsConfig RabbitMQ; пустой URL отключает уведомления
type NotificationsConfig struct {
	AMQPURL  string `toml:"amqp_url" envconfig:"AMQP_URL"`
	Exchange string `toml:"exchange"`
}

// AdminConfig доступ к административным маршрутам
type AdminConfig struct {
	APIKey string `toml:"api_key" split_words:"true"`
}

// Load читает TOML файл, применяет значения по умолчанию и переопределения из окружения
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("decode %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("apply environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет диапазоны значений
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port %d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	}

	ttl := c.Booking.HoldTTLMinutes
	if ttl < domain.MinHoldTTLMinutes || ttl > domain.MaxHoldTTLMinutes {
		return fmt.Errorf("%w: booking.hold_ttl_minutes must be within %d..%d, got %d",
			ErrInvalidConfig, domain.MinHoldTTLMinutes, domain.MaxHoldTTLMinutes, ttl)
	}
	if c.Booking.MinNoticeMinutes < 0 || c.Booking.MinNoticeMinutes > domain.MaxMinNoticeMinutes {
		return fmt.Errorf("%w: booking.min_notice_minutes %d", ErrInvalidConfig, c.Booking.MinNoticeMinutes)
	}
	if c.Booking.AdvanceBookingDays < 0 {
		return fmt.Errorf("%w: booking.advance_booking_days %d", ErrInvalidConfig, c.Booking.AdvanceBookingDays)
	}
	if _, err := availability.ParseExceptionOrder(c.Booking.ExceptionOrder); err != nil {
		return fmt.Errorf("%w: booking.exception_order: %v", ErrInvalidConfig, err)
	}
	if _, err := c.Booking.Location(); err != nil {
		return fmt.Errorf("%w: booking.timezone: %v", ErrInvalidConfig, err)
	}
	if c.Booking.ReservationRateLimit < 0 {
		return fmt.Errorf("%w: booking.reservation_rate_limit %d", ErrInvalidConfig, c.Booking.ReservationRateLimit)
	}
	if c.Stripe.SecretKey == "" {
		return fmt.Errorf("%w: stripe.secret_key is required", ErrInvalidConfig)
	}
	if c.Admin.APIKey == "" {
		return fmt.Errorf("%w: admin.api_key is required", ErrInvalidConfig)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    20,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "gym-lesson-booking",
		},
		Booking: BookingConfig{
			Timezone:             domain.DefaultBusinessTimezone,
			HoldTTLMinutes:       domain.DefaultHoldTTLMinutes,
			AdvanceBookingDays:   60,
			ExceptionOrder:       string(availability.AdditionsThenRemovals),
			SweepSchedule:        "@every 5m",
			ReservationRateLimit: 20,
		},
		Stripe: StripeConfig{Currency: "usd"},
		ProfileService: ProfileServiceConfig{
			Timeout: 5,
		},
		Notifications: NotificationsConfig{Exchange: "bookings"},
	}
}
