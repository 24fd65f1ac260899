package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rogerio-castellano/storefront-analytics/internal/analytics"
	"github.com/rogerio-castellano/storefront-analytics/internal/db"
	"github.com/rogerio-castellano/storefront-analytics/internal/logger"
	"github.com/rogerio-castellano/storefront-analytics/internal/repo"
	"github.com/rogerio-castellano/storefront-analytics/internal/synth"
	"github.com/spf13/viper"
)

type Config struct {
	App            AppConfig            `mapstructure:"app"`
	HTTP           HTTPConfig           `mapstructure:"http"`
	Database       db.Options           `mapstructure:"database"`
	Redis          RedisConfig          `mapstructure:"redis"`
	NATS           NATSConfig           `mapstructure:"nats"`
	JWT            JWTConfig            `mapstructure:"jwt"`
	Logging        logger.Config        `mapstructure:"logging"`
	Analytics      AnalyticsConfig      `mapstructure:"analytics"`
	CircuitBreaker repo.BreakerSettings `mapstructure:"circuit_breaker"`
	RateLimiting   RateLimitConfig      `mapstructure:"rate_limiting"`
	Tracing        TracingConfig        `mapstructure:"tracing"`
}

type AppConfig struct {
	Name          string `mapstructure:"name"`
	Environment   string `mapstructure:"environment"`
	DefaultTenant string `mapstructure:"default_tenant"`
	// DemoData seeds the in-memory store when no database is configured.
	DemoData bool `mapstructure:"demo_data"`
}

type HTTPConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type RedisConfig struct {
	URL     string `mapstructure:"url"`
	LogKey  string `mapstructure:"log_key"`
	MaxLogs int64  `mapstructure:"max_logs"`
}

type NATSConfig struct {
	URL     string `mapstructure:"url"`
	Subject string `mapstructure:"subject"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

type AnalyticsConfig struct {
	DefaultDays   int              `mapstructure:"default_days"`
	SourceTimeout time.Duration    `mapstructure:"source_timeout"`
	Limits        analytics.Limits `mapstructure:"limits"`
	Synth         synth.Config     `mapstructure:"synth"`
}

type RateLimitConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	RequestsPerSec  float64       `mapstructure:"requests_per_sec"`
	Burst           int           `mapstructure:"burst"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
}

type TracingConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

func (c Config) Orchestrator() analytics.Config {
	return analytics.Config{Limits: c.Analytics.Limits, Synth: c.Analytics.Synth}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "storefront-analytics")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.default_tenant", "demo")
	v.SetDefault("app.demo_data", true)

	v.SetDefault("http.port", 8080)
	v.SetDefault("http.read_timeout", 10*time.Second)
	v.SetDefault("http.write_timeout", 30*time.Second)
	v.SetDefault("http.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("database.migrate", false)

	v.SetDefault("redis.log_key", "analytics:resolutions")
	v.SetDefault("redis.max_logs", 1000)
	v.SetDefault("nats.subject", "analytics.resolutions")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	limits := analytics.DefaultLimits()
	v.SetDefault("analytics.default_days", 30)
	v.SetDefault("analytics.source_timeout", 3*time.Second)
	v.SetDefault("analytics.limits.top_customers", limits.TopCustomers)
	v.SetDefault("analytics.limits.top_products", limits.TopProducts)
	v.SetDefault("analytics.limits.recent_orders", limits.RecentOrders)

	s := synth.DefaultConfig()
	v.SetDefault("analytics.synth.base_orders", s.BaseOrders)
	v.SetDefault("analytics.synth.order_growth_rate", s.OrderGrowthRate)
	v.SetDefault("analytics.synth.min_orders", s.MinOrders)
	v.SetDefault("analytics.synth.aov_min", s.AOVMin)
	v.SetDefault("analytics.synth.aov_spread", s.AOVSpread)
	v.SetDefault("analytics.synth.weekend_surcharge", s.WeekendSurcharge)
	v.SetDefault("analytics.synth.base_new_customers", s.BaseNewCustomers)
	v.SetDefault("analytics.synth.base_returning_customers", s.BaseReturningCustomers)
	v.SetDefault("analytics.synth.acquisition_growth_rate", s.AcquisitionGrowthRate)
	v.SetDefault("analytics.synth.campaign_probability", s.CampaignProbability)
	v.SetDefault("analytics.synth.min_new_customers", s.MinNewCustomers)
	v.SetDefault("analytics.synth.min_returning_customers", s.MinReturningCustomers)

	b := repo.DefaultBreakerSettings()
	v.SetDefault("circuit_breaker.max_requests", b.MaxRequests)
	v.SetDefault("circuit_breaker.interval", b.Interval)
	v.SetDefault("circuit_breaker.timeout", b.Timeout)
	v.SetDefault("circuit_breaker.min_requests", b.MinRequests)
	v.SetDefault("circuit_breaker.failure_ratio", b.FailureRatio)

	v.SetDefault("rate_limiting.enabled", true)
	v.SetDefault("rate_limiting.requests_per_sec", 5)
	v.SetDefault("rate_limiting.burst", 10)
	v.SetDefault("rate_limiting.cleanup_interval", time.Minute)
	v.SetDefault("rate_limiting.idle_timeout", 3*time.Minute)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "http://jaeger:14268/api/traces")
}

// Load reads .env, then config.yaml from ./configs or the working
// directory, then the environment. A missing file is not an error.
func Load(paths ...string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Common env vars without the APP_ prefix.
	_ = v.BindEnv("http.port", "HTTP_PORT", "APP_HTTP_PORT")
	_ = v.BindEnv("database.url", "DATABASE_URL", "APP_DATABASE_URL")
	_ = v.BindEnv("redis.url", "REDIS_URL", "APP_REDIS_URL")
	_ = v.BindEnv("nats.url", "NATS_URL", "APP_NATS_URL")
	_ = v.BindEnv("jwt.secret", "JWT_SECRET", "APP_JWT_SECRET")
	_ = v.BindEnv("logging.level", "LOG_LEVEL", "APP_LOGGING_LEVEL")
	_ = v.BindEnv("app.environment", "APP_ENVIRONMENT")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid http.port %d", c.HTTP.Port)
	}
	if c.Analytics.DefaultDays < 1 || c.Analytics.DefaultDays > analytics.MaxWindowDays {
		return fmt.Errorf("analytics.default_days must be between 1 and %d", analytics.MaxWindowDays)
	}
	if c.Analytics.SourceTimeout <= 0 {
		return errors.New("analytics.source_timeout must be positive")
	}
	if err := c.Analytics.Limits.Validate(); err != nil {
		return fmt.Errorf("analytics.limits: %w", err)
	}
	if err := c.Analytics.Synth.Validate(); err != nil {
		return fmt.Errorf("analytics.synth: %w", err)
	}
	if c.App.DefaultTenant == "" {
		return errors.New("app.default_tenant is required")
	}
	return nil
}
