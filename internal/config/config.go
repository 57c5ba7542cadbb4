// Package config loads the service configuration from environment variables.
//
// Every setting has a default so the process starts without any explicit
// configuration; an empty ALLOWED_IPS deliberately leaves the IP allowlist
// fail-open.
package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Config is the full service configuration, read once at startup.
type Config struct {
	// AllowedIPs is the raw comma-separated allowlist (exact IPs and CIDR
	// blocks). Empty means no restriction.
	AllowedIPs string

	Database Database
	Listen   Listen

	// ShutdownTimeout bounds graceful shutdown on SIGINT/SIGTERM.
	ShutdownTimeout time.Duration
}

// Database holds PostgreSQL connection and pool settings.
type Database struct {
	Name     string
	User     string
	Password string
	Host     string
	Port     int

	// MinConns and MaxConns bound the connection pool.
	MinConns int32
	MaxConns int32
}

// URL returns a postgres:// connection string for pgx.
func (d Database) URL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:   "/" + d.Name,
	}
	return u.String()
}

// Listen holds the HTTP listen address.
type Listen struct {
	Host string
	Port int
}

// Addr returns the host:port form for net/http.
func (l Listen) Addr() string {
	return net.JoinHostPort(l.Host, strconv.Itoa(l.Port))
}

// Load reads configuration from the environment, applies defaults, and
// validates the result.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("allowed_ips", "")
	v.SetDefault("db_name", "default_db")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", 5432)
	v.SetDefault("db_pool_min_conns", 1)
	v.SetDefault("db_pool_max_conns", 20)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8000)
	v.SetDefault("shutdown_timeout", "10s")

	cfg := &Config{
		AllowedIPs: v.GetString("allowed_ips"),
		Database: Database{
			Name:     v.GetString("db_name"),
			User:     v.GetString("db_user"),
			Password: v.GetString("db_password"),
			Host:     v.GetString("db_host"),
			Port:     v.GetInt("db_port"),
			MinConns: v.GetInt32("db_pool_min_conns"),
			MaxConns: v.GetInt32("db_pool_max_conns"),
		},
		Listen: Listen{
			Host: v.GetString("host"),
			Port: v.GetInt("port"),
		},
		ShutdownTimeout: v.GetDuration("shutdown_timeout"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		return fmt.Errorf("DB_PORT must be in 1..65535, got %d", c.Database.Port)
	}
	if c.Listen.Port <= 0 || c.Listen.Port > 65535 {
		return fmt.Errorf("PORT must be in 1..65535, got %d", c.Listen.Port)
	}
	if c.Database.MinConns < 1 {
		return fmt.Errorf("DB_POOL_MIN_CONNS must be >= 1, got %d", c.Database.MinConns)
	}
	if c.Database.MaxConns < c.Database.MinConns {
		return fmt.Errorf("DB_POOL_MAX_CONNS (%d) cannot be below DB_POOL_MIN_CONNS (%d)",
			c.Database.MaxConns, c.Database.MinConns)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownTimeout)
	}
	return nil
}
