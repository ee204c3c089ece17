package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port            string        `env:"PORT" envDefault:"3000"`
	CorsAllowOrigin string        `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	LogDevelopment bool   `env:"LOG_DEVELOPMENT" envDefault:"false"`

	DB Database

	DonationsApiURL     string        `env:"DONATIONS_API_URL" envDefault:"http://26.76.200.87:3000/api/connect"`
	DonationsApiTimeout time.Duration `env:"DONATIONS_API_TIMEOUT" envDefault:"10s"`
}

// Database groups the connection settings for the qualification store
type Database struct {
	Driver          string        `env:"DB_DRIVER" envDefault:"postgres"`
	Host            string        `env:"DB_HOST" envDefault:"localhost"`
	User            string        `env:"DB_USER" envDefault:"postgres"`
	Password        string        `env:"DB_PASSWORD" json:"-"`
	Name            string        `env:"DB_NAME" envDefault:"loyalty"`
	Port            string        `env:"DB_PORT" envDefault:"5432"`
	SSLMode         string        `env:"DB_SSLMODE" envDefault:"disable"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"0s"`
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	cfg, err := Parse()
	if err != nil {
		return err
	}

	if cfg.DB.Password == "" && cfg.DB.Driver != "sqlite" {
		log.Println("Warning: DB_PASSWORD is empty. Update it in your environment.")
	}

	AppConfig = cfg
	return nil
}

// Parse reads the process environment into a Config without touching .env files.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("env.Parse: %w", err)
	}

	switch cfg.DB.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB.Driver)
	}

	return &cfg, nil
}
