package config

import (
	"errors"
	"fmt"
	"os"

	"mechshop/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Auth       AuthConfig       `yaml:"auth"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Cache      CacheConfig      `yaml:"cache"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type ServerConfig struct {
	Port                     int `yaml:"port"`
	ReadHeaderTimeoutSeconds int `yaml:"read_header_timeout_seconds"`
	WriteTimeoutSeconds      int `yaml:"write_timeout_seconds"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type AuthConfig struct {
	JWTSecret           string `yaml:"jwt_secret"`
	TokenTTLHours       int    `yaml:"token_ttl_hours"`
	RequireCustomerAuth *bool  `yaml:"require_customer_auth"`
}

type RateLimitConfig struct {
	RPS        float64 `yaml:"rps"`
	Burst      int     `yaml:"burst"`
	LoginRPS   float64 `yaml:"login_rps"`
	LoginBurst int     `yaml:"login_burst"`
}

type CacheConfig struct {
	Enabled    bool `yaml:"enabled"`
	TTLSeconds int  `yaml:"ttl_seconds"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTesting     = "testing"
)

func Load(configPath string) (*Config, error) {
	// .env is optional; variables from it feed the ${VAR} expansion below.
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	switch c.App.Environment {
	case EnvDevelopment, EnvProduction, EnvTesting:
	default:
		return fmt.Errorf("unknown environment: %q", c.App.Environment)
	}

	if c.Database.Path == "" {
		return errors.New("database path is required")
	}

	if c.Auth.JWTSecret == "" && c.App.Environment != EnvTesting {
		return errors.New("auth jwt_secret is required")
	}

	if c.RateLimit.RPS < 0 || c.RateLimit.LoginRPS < 0 {
		return errors.New("rate limit rps must not be negative")
	}

	return nil
}

// RequireCustomerAuthEnabled reports whether customer self-service
// endpoints demand a bearer token. Defaults to true.
func (c *Config) RequireCustomerAuthEnabled() bool {
	if c.Auth.RequireCustomerAuth == nil {
		return true
	}
	return *c.Auth.RequireCustomerAuth
}

func (c *Config) applyDefaults() {
	if c.App.Environment == "" {
		c.App.Environment = EnvDevelopment
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadHeaderTimeoutSeconds == 0 {
		c.Server.ReadHeaderTimeoutSeconds = 5
	}
	if c.Server.WriteTimeoutSeconds == 0 {
		c.Server.WriteTimeoutSeconds = 15
	}
	if c.App.Environment == EnvTesting && c.Database.Path == "" {
		c.Database.Path = "file::memory:?cache=shared"
	}
	if c.Auth.TokenTTLHours == 0 {
		c.Auth.TokenTTLHours = models.DefaultTokenTTLHours
	}
	if c.RateLimit.RPS == 0 {
		c.RateLimit.RPS = 10
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 20
	}
	if c.RateLimit.LoginRPS == 0 {
		c.RateLimit.LoginRPS = 1
	}
	if c.RateLimit.LoginBurst == 0 {
		c.RateLimit.LoginBurst = 5
	}
	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = models.DefaultCacheTTL
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
}
