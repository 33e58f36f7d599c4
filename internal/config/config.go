// Package config содержит логику чтения конфигурации сервиса luxehome.
package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// Config содержит параметры конфигурации сервиса luxehome.
type Config struct {
	RunAddress  string  `env:"RUN_ADDRESS"`
	DatabaseURI string  `env:"DATABASE_URI"`
	UploadDir   string  `env:"UPLOAD_DIR"`
	CartDir     string  `env:"CART_DIR"`
	AuthSecret  string  `env:"AUTH_SECRET"`
	TaxRate     float64 `env:"TAX_RATE"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
// Значения из окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envDatabaseURI := cfg.DatabaseURI
	envUploadDir := cfg.UploadDir
	envCartDir := cfg.CartDir
	envAuthSecret := cfg.AuthSecret
	envTaxRate := cfg.TaxRate
	// Для числового поля нулевое значение отличимо от отсутствия только по наличию переменной.
	_, envTaxRateSet := os.LookupEnv("TAX_RATE")

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.StringVar(&cfg.UploadDir, "u", "uploads", "directory for uploaded product images")
	flag.StringVar(&cfg.CartDir, "c", "carts", "directory for persisted session carts")
	flag.StringVar(&cfg.AuthSecret, "s", "luxehome-secret", "secret key for auth cookies")
	flag.Float64Var(&cfg.TaxRate, "t", 0.1, "tax rate applied at checkout")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envDatabaseURI != "" {
		cfg.DatabaseURI = envDatabaseURI
	}
	if envUploadDir != "" {
		cfg.UploadDir = envUploadDir
	}
	if envCartDir != "" {
		cfg.CartDir = envCartDir
	}
	if envAuthSecret != "" {
		cfg.AuthSecret = envAuthSecret
	}
	if envTaxRateSet {
		cfg.TaxRate = envTaxRate
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:8080"
	}

	return cfg, nil
}
