package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/m04kA/recentro-booking/internal/domain"
	"github.com/m04kA/recentro-booking/pkg/types"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// ErrInvalidConfig возвращается, когда конфигурация не проходит проверку
var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Booking       BookingConfig       `toml:"booking"`
	Catalog       CatalogConfig       `toml:"catalog"`
	Notifications NotificationsConfig `toml:"notifications"`
	Audit         AuditConfig         `toml:"audit"`
}

type ServerConfig struct {
	HTTPPort        int  `toml:"http_port"`
	ReadTimeout     int  `toml:"read_timeout"`     // секунды
	WriteTimeout    int  `toml:"write_timeout"`    // секунды
	IdleTimeout     int  `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int  `toml:"shutdown_timeout"` // секунды
	AdminRoutes     bool `toml:"admin_routes"`     // чтение записей по слотам и заявкам
}

type DatabaseConfig struct {
	Driver          string `toml:"driver"` // postgres | sqlite
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	Path            string `toml:"path"` // файл SQLite
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
	AutoMigrate     bool   `toml:"auto_migrate"`
}

// DSN строка подключения для выбранного драйвера
func (d DatabaseConfig) DSN() string {
	if d.Driver == DriverSQLite {
		return d.Path
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     d.DBName,
		RawQuery: url.Values{"sslmode": []string{d.SSLMode}}.Encode(),
	}
	return u.String()
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type BookingConfig struct {
	EventName      string         `toml:"event_name"`
	MaxPerSlot     int            `toml:"max_per_slot"`
	AgencyCapacity map[string]int `toml:"agency_capacity"`
	EventDates     []string       `toml:"event_dates"` // пусто = любая дата
	PhoneRegion    string         `toml:"phone_region"`
}

type CatalogConfig struct {
	WindowStart string         `toml:"window_start"`
	WindowEnd   string         `toml:"window_end"`
	StepMinutes int            `toml:"step_minutes"`
	Agencies    []AgencyConfig `toml:"agencies"`
}

type AgencyConfig struct {
	Code string `toml:"code"`
	Name string `toml:"name"`
}

type NotificationsConfig struct {
	Timeout int          `toml:"timeout"` // секунды на одну рассылку
	Email   EmailConfig  `toml:"email"`
	Broker  BrokerConfig `toml:"broker"`
}

type EmailConfig struct {
	Enabled         bool   `toml:"enabled"`
	Region          string `toml:"region"`
	Sender          string `toml:"sender"`
	AccessKeyID     string `toml:"access_key_id"`
	SecretAccessKey string `toml:"secret_access_key"`
}

type BrokerConfig struct {
	Enabled    bool   `toml:"enabled"`
	URL        string `toml:"url"`
	Exchange   string `toml:"exchange"`
	RoutingKey string `toml:"routing_key"`
}

type AuditConfig struct {
	Enabled         bool `toml:"enabled"`
	IntervalMinutes int  `toml:"interval_minutes"`
}

// secrets значения, которые не хранятся в config.toml
type secrets struct {
	DatabasePassword   string `envconfig:"DATABASE_PASSWORD"`
	AWSAccessKeyID     string `envconfig:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `envconfig:"AWS_SECRET_ACCESS_KEY"`
	AMQPURL            string `envconfig:"AMQP_URL"`
	MaxPerSlot         int    `envconfig:"MAX_PER_SLOT"`
}

// Load читает .env рядом с процессом (если есть), затем TOML-файл,
// подставляет значения по умолчанию и секреты из окружения
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	return finalize(&cfg)
}

// Parse разбирает TOML из строки. Переменные окружения тоже применяются.
func Parse(data string) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	return finalize(&cfg)
}

func finalize(cfg *Config) (*Config, error) {
	cfg.applyDefaults()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15
	}

	if c.Database.Driver == "" {
		c.Database.Driver = DriverPostgres
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "recentro-booking"
	}

	if c.Booking.EventName == "" {
		c.Booking.EventName = domain.DefaultEventName
	}
	if c.Booking.MaxPerSlot == 0 {
		c.Booking.MaxPerSlot = domain.DefaultMaxPerSlot
	}
	if c.Booking.EventDates == nil {
		for _, d := range domain.DefaultEventDates {
			c.Booking.EventDates = append(c.Booking.EventDates, d.String())
		}
	}
	if c.Booking.PhoneRegion == "" {
		c.Booking.PhoneRegion = domain.DefaultPhoneRegion
	}

	if c.Catalog.WindowStart == "" {
		c.Catalog.WindowStart = domain.DefaultWindowStart.String()
	}
	if c.Catalog.WindowEnd == "" {
		c.Catalog.WindowEnd = domain.DefaultWindowEnd.String()
	}
	if c.Catalog.StepMinutes == 0 {
		c.Catalog.StepMinutes = domain.DefaultStepMinutes
	}
	if len(c.Catalog.Agencies) == 0 {
		for _, a := range domain.DefaultAgencies {
			c.Catalog.Agencies = append(c.Catalog.Agencies, AgencyConfig{Code: string(a.Code), Name: a.Name})
		}
	}

	if c.Notifications.Timeout == 0 {
		c.Notifications.Timeout = 10
	}
	if c.Notifications.Broker.Exchange == "" {
		c.Notifications.Broker.Exchange = "recentro.appointments"
	}
	if c.Notifications.Broker.RoutingKey == "" {
		c.Notifications.Broker.RoutingKey = "appointment.confirmed"
	}

	if c.Audit.IntervalMinutes == 0 {
		c.Audit.IntervalMinutes = domain.DefaultAuditMinutes
	}
}

func (c *Config) applyEnv() error {
	var s secrets
	if err := envconfig.Process("", &s); err != nil {
		return fmt.Errorf("config: read environment: %w", err)
	}

	if s.DatabasePassword != "" {
		c.Database.Password = s.DatabasePassword
	}
	if s.AWSAccessKeyID != "" {
		c.Notifications.Email.AccessKeyID = s.AWSAccessKeyID
	}
	if s.AWSSecretAccessKey != "" {
		c.Notifications.Email.SecretAccessKey = s.AWSSecretAccessKey
	}
	if s.AMQPURL != "" {
		c.Notifications.Broker.URL = s.AMQPURL
	}
	if s.MaxPerSlot != 0 {
		c.Booking.MaxPerSlot = s.MaxPerSlot
	}

	return nil
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	var problems []string

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			problems = append(problems, "database.host and database.dbname are required for postgres")
		}
	case DriverSQLite:
		if c.Database.Path == "" {
			problems = append(problems, "database.path is required for sqlite")
		}
	default:
		problems = append(problems, fmt.Sprintf("database.driver %q is not supported", c.Database.Driver))
	}

	if c.Booking.MaxPerSlot < 1 {
		problems = append(problems, "booking.max_per_slot must be at least 1")
	}

	agencies := make(map[string]struct{}, len(c.Catalog.Agencies))
	for _, a := range c.Catalog.Agencies {
		agencies[strings.ToUpper(a.Code)] = struct{}{}
	}
	for code, limit := range c.Booking.AgencyCapacity {
		if _, ok := agencies[strings.ToUpper(code)]; !ok {
			problems = append(problems, fmt.Sprintf("booking.agency_capacity names unknown agency %q", code))
		}
		if limit < 1 {
			problems = append(problems, fmt.Sprintf("booking.agency_capacity.%s must be at least 1", code))
		}
	}

	for _, d := range c.Booking.EventDates {
		if _, err := types.NewDateFromString(d); err != nil {
			problems = append(problems, fmt.Sprintf("booking.event_dates: %v", err))
		}
	}

	if _, err := c.TimeCatalog(); err != nil {
		problems = append(problems, err.Error())
	}
	if _, err := c.AgencyCatalog(); err != nil {
		problems = append(problems, err.Error())
	}

	if c.Notifications.Email.Enabled && (c.Notifications.Email.Sender == "" || c.Notifications.Email.Region == "") {
		problems = append(problems, "notifications.email.sender and region are required when email is enabled")
	}
	if c.Notifications.Broker.Enabled && c.Notifications.Broker.URL == "" {
		problems = append(problems, "notifications.broker.url (or AMQP_URL) is required when the broker is enabled")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// TimeCatalog каталог времен из секции [catalog]
func (c *Config) TimeCatalog() (*domain.TimeCatalog, error) {
	start, err := types.NewTimeStringFromString(c.Catalog.WindowStart)
	if err != nil {
		return nil, fmt.Errorf("catalog.window_start: %w", err)
	}
	end, err := types.NewTimeStringFromString(c.Catalog.WindowEnd)
	if err != nil {
		return nil, fmt.Errorf("catalog.window_end: %w", err)
	}
	return domain.NewTimeCatalog(start, end, c.Catalog.StepMinutes)
}

func (c *Config) AgencyCatalog() (*domain.AgencyCatalog, error) {
	agencies := make([]domain.Agency, 0, len(c.Catalog.Agencies))
	for _, a := range c.Catalog.Agencies {
		agencies = append(agencies, domain.Agency{Code: domain.AgencyCode(a.Code), Name: a.Name})
	}
	return domain.NewAgencyCatalog(agencies)
}

// CapacityPolicy емкость слотов: переопределение органа, затем max_per_slot
func (c *Config) CapacityPolicy() domain.CapacityPolicy {
	perAgency := make(map[domain.AgencyCode]int, len(c.Booking.AgencyCapacity))
	for code, limit := range c.Booking.AgencyCapacity {
		perAgency[domain.AgencyCode(strings.ToUpper(code))] = limit
	}
	return domain.NewCapacityPolicy(c.Booking.MaxPerSlot, perAgency)
}

// EventDates дни мероприятия. Значения уже проверены в Validate.
func (c *Config) EventDates() []types.Date {
	dates := make([]types.Date, 0, len(c.Booking.EventDates))
	for _, d := range c.Booking.EventDates {
		if parsed, err := types.NewDateFromString(d); err == nil {
			dates = append(dates, parsed)
		}
	}
	return dates
}

// LookupEnv для cmd/*: путь к конфигу можно переопределить CONFIG_PATH
func LookupEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
