package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/vancomm/minefield/internal/mines"
	"github.com/vancomm/minefield/internal/session"
)

const cmdRestart = "restart"

// ConnectWS plays a session over a websocket. Each text frame holds one
// command per line, either "row,col" or "restart", and every command is
// answered with the session state or an error. Errors never end the
// connection.
func (g GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	s, ok := g.lookup(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	c, err := g.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Error("unable to upgrade", slog.Any("error", err))
		return
	}
	defer c.Close()

	c.SetReadLimit(g.ws.ReadLimit)
	c.SetReadDeadline(time.Now().Add(g.ws.PongWait))
	c.SetPongHandler(func(string) error {
		return c.SetReadDeadline(time.Now().Add(g.ws.PongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go g.ping(c, done)

	var initial *GameSessionDTO
	_ = s.Do(func(st *session.State) error {
		initial = NewGameSessionDTO(st)
		return nil
	})
	if err := c.WriteJSON(initial); err != nil {
		g.logger.Error("unable to write json", slog.Any("error", err))
		return
	}

	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				g.logger.Warn("abnormal ws break", slog.Any("error", err))
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		text := strings.TrimSpace(string(message))
		g.logger.Debug(fmt.Sprintf("\t> %s", text))
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			var reply any
			resp, err := g.command(r, s, line)
			if err != nil {
				if status := g.moveErrorStatus(err); status == http.StatusInternalServerError {
					return
				}
				reply = wrapError(err)
			} else {
				reply = resp
			}
			if err := c.WriteJSON(reply); err != nil {
				g.logger.Error("unable to write json", slog.Any("error", err))
				return
			}
			g.logger.Debug("\t< <session data>")
		}
	}
}

func (g GameHandler) command(r *http.Request, s *session.Session, line string) (*GameSessionDTO, error) {
	if strings.EqualFold(line, cmdRestart) {
		return g.restart(r.Context(), s)
	}
	at, err := mines.ParseCoord(line)
	if err != nil {
		return nil, err
	}
	return g.dig(r.Context(), s, at)
}

func (g GameHandler) ping(c *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(g.ws.PingPeriod())
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			deadline := time.Now().Add(10 * time.Second)
			err := c.WriteControl(websocket.PingMessage, nil, deadline)
			if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
				g.logger.Debug("unable to ping", slog.Any("error", err))
				return
			}
		}
	}
}
