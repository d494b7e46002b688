package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	ApportionmentPerRow           = "per_row"
	ApportionmentLargestRemainder = "largest_remainder"
)

type Config struct {
	App       AppConfig       `yaml:"app"`
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Redis     RedisConfig     `yaml:"redis"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Billing   BillingConfig   `yaml:"billing"`
	Shares    SharesConfig    `yaml:"shares"`
	Admin     AdminConfig     `yaml:"admin"`
	CORS      CORSConfig      `yaml:"cors"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	DBName          string        `yaml:"dbname"`
	SSLMode         string        `yaml:"sslmode"`
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type JWTConfig struct {
	Secret     string        `yaml:"secret"`
	Expiration time.Duration `yaml:"expiration"`
	Issuer     string        `yaml:"issuer"`
}

type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Address  string        `yaml:"address"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type SchedulerConfig struct {
	Enabled            bool   `yaml:"enabled"`
	TimeZone           string `yaml:"timezone"`
	StockAlertSchedule string `yaml:"stock_alert_schedule"`
	PayrollSchedule    string `yaml:"payroll_schedule"`
	ExpiryWindowDays   int    `yaml:"expiry_window_days"`
}

type BillingConfig struct {
	PrimaryCurrency   string  `yaml:"primary_currency"`
	SecondaryCurrency string  `yaml:"secondary_currency"`
	ExchangeRate      float64 `yaml:"exchange_rate"`
}

type SharesConfig struct {
	Apportionment string `yaml:"apportionment"`
}

type AdminConfig struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:        "clinicdesk",
			Environment: EnvDevelopment,
			LogLevel:    "info",
		},
		Server: ServerConfig{Port: "8080"},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "clinicdesk",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		JWT: JWTConfig{
			Expiration: 24 * time.Hour,
			Issuer:     "clinicdesk",
		},
		Redis: RedisConfig{
			Address: "localhost:6379",
			TTL:     5 * time.Minute,
		},
		Scheduler: SchedulerConfig{
			TimeZone:           "UTC",
			StockAlertSchedule: "0 7 * * *",
			PayrollSchedule:    "0 6 1 * *",
			ExpiryWindowDays:   30,
		},
		Billing: BillingConfig{
			PrimaryCurrency:   "USD",
			SecondaryCurrency: "KHR",
			ExchangeRate:      4100,
		},
		Shares: SharesConfig{Apportionment: ApportionmentPerRow},
		CORS:   CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
	}
}

// Load monta a configuração: padrões, depois CONFIG_FILE (yaml) e por fim variáveis de ambiente.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if cfg.Database.DSN == "" {
		cfg.Database.DSN = cfg.Database.BuildDSN()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: falha ao ler %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: yaml inválido em %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	setString(&c.App.Name, "APP_NAME")
	setString(&c.App.Environment, "APP_ENV")
	setString(&c.App.LogLevel, "LOG_LEVEL")
	setString(&c.Server.Port, "PORT")

	setString(&c.Database.Host, "DB_HOST")
	setInt(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.DBName, "DB_NAME")
	setString(&c.Database.SSLMode, "DB_SSLMODE")
	setString(&c.Database.DSN, "DATABASE_URL")
	setInt(&c.Database.MaxOpenConns, "DB_MAX_OPEN_CONNS")
	setInt(&c.Database.MaxIdleConns, "DB_MAX_IDLE_CONNS")
	setDuration(&c.Database.ConnMaxLifetime, "DB_CONN_MAX_LIFETIME")

	setString(&c.JWT.Secret, "JWT_SECRET")
	setDuration(&c.JWT.Expiration, "JWT_EXPIRATION")
	setString(&c.JWT.Issuer, "JWT_ISSUER")

	setBool(&c.Redis.Enabled, "REDIS_ENABLED")
	setString(&c.Redis.Address, "REDIS_ADDRESS")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setInt(&c.Redis.DB, "REDIS_DB")
	setDuration(&c.Redis.TTL, "REDIS_TTL")

	setBool(&c.Scheduler.Enabled, "SCHEDULER_ENABLED")
	setString(&c.Scheduler.TimeZone, "SCHEDULER_TIMEZONE")
	setString(&c.Scheduler.StockAlertSchedule, "SCHEDULER_STOCK_ALERT")
	setString(&c.Scheduler.PayrollSchedule, "SCHEDULER_PAYROLL")
	setInt(&c.Scheduler.ExpiryWindowDays, "SCHEDULER_EXPIRY_WINDOW_DAYS")

	setString(&c.Billing.PrimaryCurrency, "BILLING_PRIMARY_CURRENCY")
	setString(&c.Billing.SecondaryCurrency, "BILLING_SECONDARY_CURRENCY")
	setFloat(&c.Billing.ExchangeRate, "BILLING_EXCHANGE_RATE")

	setString(&c.Shares.Apportionment, "SHARES_APPORTIONMENT")

	setString(&c.Admin.Name, "ADMIN_NAME")
	setString(&c.Admin.Email, "ADMIN_EMAIL")
	setString(&c.Admin.Password, "ADMIN_PASSWORD")

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		origins := make([]string, 0)
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.CORS.AllowedOrigins = origins
	}
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("config: PORT não pode ser vazio")
	}
	if c.IsProduction() && c.JWT.Secret == "" {
		return fmt.Errorf("config: JWT_SECRET é obrigatório em produção")
	}
	switch c.Shares.Apportionment {
	case ApportionmentPerRow, ApportionmentLargestRemainder:
	default:
		return fmt.Errorf("config: SHARES_APPORTIONMENT inválido: %q", c.Shares.Apportionment)
	}
	if c.Billing.ExchangeRate < 0 {
		return fmt.Errorf("config: BILLING_EXCHANGE_RATE não pode ser negativo")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Environment, EnvProduction)
}

func (d DatabaseConfig) BuildDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat(dst *float64, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
