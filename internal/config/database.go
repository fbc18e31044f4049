package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Database struct {
	Username     string `env:"POSTGRES_USER,required"`
	Password     string `env:"POSTGRES_PASSWORD"`
	PasswordFile string `env:"POSTGRES_PASSWORD_FILE,file"`
	Host         string `env:"POSTGRES_HOST,required"`
	Port         uint16 `env:"POSTGRES_PORT" envDefault:"5432"`
	DBName       string `env:"POSTGRES_DB,required"`
	SSLMode      string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
}

// DatabaseEnabled reports whether any database settings are present. Game
// history is only kept when they are.
func DatabaseEnabled() bool {
	for _, key := range []string{"DATABASE_URL", "POSTGRES_HOST"} {
		if _, ok := os.LookupEnv(key); ok {
			return true
		}
	}
	return false
}

func NewDatabase() (*Database, error) {
	var db Database
	if err := env.Parse(&db); err != nil {
		return nil, fmt.Errorf("unable to parse database config: %w", err)
	}
	if db.Password == "" {
		db.Password = strings.TrimSpace(db.PasswordFile)
	}
	if db.Password == "" {
		return nil, fmt.Errorf("no POSTGRES_PASSWORD or POSTGRES_PASSWORD_FILE env variable set")
	}
	return &db, nil
}

func (c Database) URL() string {
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.Username),
		url.QueryEscape(c.Password),
		c.Host,
		c.Port,
		c.DBName,
		c.SSLMode,
	)
}

func DbURL() (string, error) {
	dbURL, ok := os.LookupEnv("DATABASE_URL")
	if ok {
		return dbURL, nil
	}

	cfg, err := NewDatabase()
	if err != nil {
		return "", fmt.Errorf("no DATABASE_URL set; %w", err)
	}
	return cfg.URL(), nil
}

func NewPgxpoolConfig() (*pgxpool.Config, error) {
	dbURL, err := DbURL()
	if err != nil {
		return nil, err
	}
	return pgxpool.ParseConfig(dbURL)
}
