// Package config loads service configuration from an optional YAML file and
// the process environment. Environment variables always win over the file so
// the same image can run locally and in a cluster without a code change.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every setting used by the shop services. Not every service
// reads every field; unused ones are ignored.
type Config struct {
	Service string `yaml:"service"`
	Port    string `yaml:"port"`

	LogLevel string `yaml:"log_level"`

	DBDriver    string `yaml:"db_driver"`
	DatabaseURL string `yaml:"database_url"`

	RedisAddr string `yaml:"redis_addr"`

	CustomerServiceURL    string        `yaml:"customer_service_url"`
	ProductServiceURL     string        `yaml:"product_service_url"`
	OrderServiceURL       string        `yaml:"order_service_url"`
	CustomerLookupTimeout time.Duration `yaml:"customer_lookup_timeout"`
	CustomerLookupRetries int           `yaml:"customer_lookup_retries"`

	TracingDisabled bool `yaml:"tracing_disabled"`

	RateLimitRPS   float64 `yaml:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst"`
}

// Default returns the configuration a service starts from before the file and
// environment are applied.
func Default(service, port string) Config {
	return Config{
		Service:               service,
		Port:                  port,
		LogLevel:              "info",
		DBDriver:              "sqlite",
		DatabaseURL:           "./data/" + service + ".db",
		CustomerServiceURL:    "http://localhost:8001",
		ProductServiceURL:     "http://localhost:8002",
		OrderServiceURL:       "http://localhost:8003",
		CustomerLookupTimeout: 5 * time.Second,
		CustomerLookupRetries: 2,
		RateLimitBurst:        20,
	}
}

// Load builds the configuration for service. port is the listen port used
// when neither the file nor PORT set one.
func Load(service, port string) (Config, error) {
	cfg := Default(service, port)

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

func (c *Config) mergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("config: parse %q: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Service = getEnv("OTEL_SERVICE_NAME", c.Service)
	c.Port = getEnv("PORT", c.Port)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.DBDriver = getEnv("DB_DRIVER", c.DBDriver)
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.RedisAddr = getEnv("REDIS_ADDR", c.RedisAddr)
	c.CustomerServiceURL = getEnv("CUSTOMER_SERVICE_URL", c.CustomerServiceURL)
	c.ProductServiceURL = getEnv("PRODUCT_SERVICE_URL", c.ProductServiceURL)
	c.OrderServiceURL = getEnv("ORDER_SERVICE_URL", c.OrderServiceURL)

	var err error
	if c.CustomerLookupTimeout, err = getEnvDuration("CUSTOMER_LOOKUP_TIMEOUT", c.CustomerLookupTimeout); err != nil {
		return err
	}
	if c.CustomerLookupRetries, err = getEnvInt("CUSTOMER_LOOKUP_RETRIES", c.CustomerLookupRetries); err != nil {
		return err
	}
	if c.RateLimitBurst, err = getEnvInt("RATE_LIMIT_BURST", c.RateLimitBurst); err != nil {
		return err
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if c.RateLimitRPS, err = strconv.ParseFloat(v, 64); err != nil {
			return fmt.Errorf("config: RATE_LIMIT_RPS=%q: %w", v, err)
		}
	}
	if v := os.Getenv("OTEL_SDK_DISABLED"); v != "" {
		if c.TracingDisabled, err = strconv.ParseBool(v); err != nil {
			return fmt.Errorf("config: OTEL_SDK_DISABLED=%q: %w", v, err)
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q: %w", key, v, err)
	}
	return i, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q: %w", key, v, err)
	}
	return d, nil
}
