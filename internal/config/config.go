package config

import (
	"errors"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds everything the server reads from its environment at startup.
// The CORS fields exist so the allowed origin and header lists are deployment
// settings rather than literals baked into the middleware.
type Config struct {
	ListenAddr  string `env:"LISTEN_ADDR" env-default:":8000"`
	DatabaseURL string `env:"DATABASE_URL"`
	StaticDir   string `env:"STATIC_DIR" env-default:"./public"`

	JWTSecret   string `env:"JWT_SECRET"`
	JWTTTLHours int    `env:"JWT_TTL_HOURS" env-default:"24"`

	CORSOrigin      string `env:"CORS_ORIGIN" env-default:"http://localhost:5173"`
	CORSMethods     string `env:"CORS_METHODS" env-default:"GET,POST,PUT,DELETE"`
	CORSHeaders     string `env:"CORS_HEADERS" env-default:"Origin,Content-Type,Accept,Authorization,Cookie"`
	CORSCredentials bool   `env:"CORS_CREDENTIALS" env-default:"true"`

	// Pagination caps applied to the list endpoints and the raw log queries.
	PageLimit    int `env:"PAGE_LIMIT" env-default:"100"`
	PageLimitMax int `env:"PAGE_LIMIT_MAX" env-default:"500"`
	LogPageLimit int `env:"LOG_PAGE_LIMIT" env-default:"500"`
}

func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is not set")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is not set")
	}
	return cfg, nil
}

func (c Config) JWTTTL() time.Duration {
	return time.Duration(c.JWTTTLHours) * time.Hour
}
