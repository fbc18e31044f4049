package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Session struct {
	IdleTimeout   time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"30m"`
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"1m"`
}

func NewSession() (*Session, error) {
	var s Session
	if err := env.Parse(&s); err != nil {
		return nil, fmt.Errorf("unable to parse session config: %w", err)
	}
	if s.IdleTimeout <= 0 || s.SweepInterval <= 0 {
		return nil, fmt.Errorf("session timeouts must be positive")
	}
	return &s, nil
}
