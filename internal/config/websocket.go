package config

import (
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/gorilla/websocket"
)

// WebSocket tunes game connections. Commands are short lines, so reads stay
// small while a full board may take several kilobytes to write.
type WebSocket struct {
	Upgrader  websocket.Upgrader
	ReadLimit int64
	PongWait  time.Duration
}

type webSocketEnv struct {
	ReadBufferSize  int           `env:"WS_READ_BUFFER" envDefault:"1024"`
	WriteBufferSize int           `env:"WS_WRITE_BUFFER" envDefault:"4096"`
	ReadLimit       int64         `env:"WS_READ_LIMIT" envDefault:"512"`
	PongWait        time.Duration `env:"WS_PONG_WAIT" envDefault:"1m"`
}

func (ws WebSocket) PingPeriod() time.Duration {
	return ws.PongWait * 9 / 10
}

// sameOrigins accepts the origins CORS accepts. Without a list any origin
// may connect.
func sameOrigins(origins []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return len(origins) == 0 || origin == "" || slices.Contains(origins, origin)
	}
}

func NewWebSocket() (*WebSocket, error) {
	var e webSocketEnv
	if err := env.Parse(&e); err != nil {
		return nil, fmt.Errorf("unable to parse websocket config: %w", err)
	}
	if e.PongWait <= 0 || e.ReadLimit <= 0 {
		return nil, fmt.Errorf("websocket pong wait and read limit must be positive")
	}
	return &WebSocket{
		Upgrader: websocket.Upgrader{
			ReadBufferSize:  e.ReadBufferSize,
			WriteBufferSize: e.WriteBufferSize,
			CheckOrigin:     sameOrigins(CorsOrigins()),
		},
		ReadLimit: e.ReadLimit,
		PongWait:  e.PongWait,
	}, nil
}
