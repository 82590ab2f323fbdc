package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultDatabaseURL is used when DATABASE_URL is not set: a SQLite file in
// the working directory.
const DefaultDatabaseURL = "sqlite:///app.db"

// This function will Load the ENVIRONMENT VARIABLES from .env if GO_ENV variable is not set.
// A missing .env file is fine, the process environment is used as is.
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	return nil
}

type EnvironmentVariable struct {
	GO_ENV string `env:"GO_ENV"`
	PORT   int    `env:"PORT" envDefault:"5000"`

	// Database
	DATABASE_URL string `env:"DATABASE_URL"`
	AUTO_MIGRATE bool   `env:"AUTO_MIGRATE" envDefault:"false"`

	// HTTP middleware
	ALLOWED_ORIGINS     string        `env:"ALLOWED_ORIGINS" envDefault:"*"`
	RATE_LIMIT_REQUESTS int           `env:"RATE_LIMIT_REQUESTS" envDefault:"0"`
	RATE_LIMIT_WINDOW   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
	REDIS_URL           string        `env:"REDIS_URL"`

	// Tracing
	SERVICE_NAME  string `env:"SERVICE_NAME" envDefault:"todo-api"`
	OTEL_ENDPOINT string `env:"OTEL_ENDPOINT"`
	OTEL_ENABLED  bool   `env:"OTEL_ENABLED" envDefault:"true"`
}

func Get() (*EnvironmentVariable, error) {
	envVariables := &EnvironmentVariable{}
	if err := env.Parse(envVariables); err != nil {
		return nil, err
	}

	envVariables.DATABASE_URL = NormalizeDatabaseURL(envVariables.DATABASE_URL)

	return envVariables, nil
}

// IsProduction reports whether GO_ENV is "production"
func (e *EnvironmentVariable) IsProduction() bool {
	return e.GO_ENV == "production"
}

// NormalizeDatabaseURL falls back to DefaultDatabaseURL when url is empty and
// rewrites the legacy postgres:// scheme some hosting providers still hand out.
func NormalizeDatabaseURL(url string) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return DefaultDatabaseURL
	}
	if strings.HasPrefix(url, "postgres://") {
		return "postgresql://" + strings.TrimPrefix(url, "postgres://")
	}
	return url
}
