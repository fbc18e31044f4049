package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/vancomm/minefield/internal/config"
	"github.com/vancomm/minefield/internal/middleware"
	"github.com/vancomm/minefield/internal/mines"
	"github.com/vancomm/minefield/internal/repository"
	"github.com/vancomm/minefield/internal/session"
)

var (
	ErrGameOver        = errors.New("game is over, restart to play again")
	ErrHistoryDisabled = errors.New("game history is disabled")
	ErrNoSession       = errors.New("no current game session")
)

// History stores finished games. It is optional.
type History interface {
	CreateGameRecord(context.Context, repository.CreateGameRecordParams) (*repository.GameRecord, error)
	ListGameRecords(context.Context, repository.GameRecordFilter) ([]repository.GameRecord, error)
}

type GameHandler struct {
	logger  *slog.Logger
	store   *session.Store
	board   *config.Board
	cookies *config.Cookies
	ws      *config.WebSocket
	history History
	newRand func() *rand.Rand
}

// NewGameHandler wires the game endpoints. cookies and history may be nil, in
// which case the current-game cookie and the history are left out.
func NewGameHandler(
	logger *slog.Logger,
	store *session.Store,
	board *config.Board,
	cookies *config.Cookies,
	ws *config.WebSocket,
	history History,
	newRand func() *rand.Rand,
) *GameHandler {
	handler := &GameHandler{
		logger:  logger,
		store:   store,
		board:   board,
		cookies: cookies,
		ws:      ws,
		history: history,
		newRand: newRand,
	}

	return handler
}

func (g *GameHandler) Routes(router *mux.Router) {
	router.Methods(http.MethodPost).Path("/game").HandlerFunc(g.NewGame)
	router.Methods(http.MethodGet).Path("/game").HandlerFunc(g.Current)

	gameRouter := router.PathPrefix("/game/{id}").Subrouter()
	gameRouter.Methods(http.MethodGet).Path("").HandlerFunc(g.Fetch)
	gameRouter.Methods(http.MethodPost).Path("/dig").HandlerFunc(g.Dig)
	gameRouter.Methods(http.MethodPost).Path("/restart").HandlerFunc(g.Restart)
	gameRouter.Methods(http.MethodGet).Path("/connect").HandlerFunc(g.ConnectWS)

	router.Methods(http.MethodGet).Path("/history").HandlerFunc(g.History)
}

func (g GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseNewGameDTO(r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}

	params := mines.GameParams{
		DimSize:  g.board.DefaultSize,
		NumMines: g.board.DefaultMines,
	}
	if dto.DimSize != nil {
		params.DimSize = *dto.DimSize
	}
	if dto.NumMines != nil {
		params.NumMines = *dto.NumMines
	}
	if err := g.board.Check(params.DimSize, params.NumMines); err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}

	field, err := mines.New(params, g.newRand())
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}

	s := g.store.Create(field)
	g.logger.Debug("created game session",
		slog.String("session_id", s.ID.String()),
		slog.String("params", params.Seed()),
	)

	if g.cookies != nil {
		if err := g.cookies.Refresh(w, s.ID.String()); err != nil {
			g.logger.Error("unable to set session cookies", slog.Any("error", err))
		}
	}

	var resp *GameSessionDTO
	_ = s.Do(func(st *session.State) error {
		resp = NewGameSessionDTO(st)
		return nil
	})
	sendJSONOrLog(w, g.logger, http.StatusCreated, resp)
}

func (g GameHandler) lookup(w http.ResponseWriter, id string) (*session.Session, bool) {
	s, err := g.store.Lookup(id)
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusNotFound, err)
		return nil, false
	}
	return s, true
}

func (g GameHandler) respond(w http.ResponseWriter, s *session.Session) {
	var resp *GameSessionDTO
	_ = s.Do(func(st *session.State) error {
		resp = NewGameSessionDTO(st)
		return nil
	})
	sendJSONOrLog(w, g.logger, http.StatusOK, resp)
}

func (g GameHandler) Current(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.CtxSessionClaims).(*config.SessionClaims)
	if !ok {
		sendErrorOrLog(w, g.logger, http.StatusNotFound, ErrNoSession)
		return
	}
	if s, ok := g.lookup(w, claims.SessionId); ok {
		g.respond(w, s)
	}
}

func (g GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	if s, ok := g.lookup(w, mux.Vars(r)["id"]); ok {
		g.respond(w, s)
	}
}

// dig opens one cell. Bad coordinates and finished games leave the session
// untouched.
func (g GameHandler) dig(
	ctx context.Context, s *session.Session, at mines.Coord,
) (*GameSessionDTO, error) {
	var (
		resp   *GameSessionDTO
		record *repository.CreateGameRecordParams
	)
	err := s.Do(func(st *session.State) error {
		if st.Ended() {
			return ErrGameOver
		}
		res, err := st.Field.Dig(at.Row, at.Col)
		if err != nil {
			return err
		}
		if res == mines.Exploded {
			st.End(time.Now())
			g.logger.Debug("mine exploded",
				slog.String("session_id", st.ID.String()),
				slog.String("cell", at.String()),
				slog.Duration("playtime", playtime(st)),
			)
			record = newRecord(st)
		}
		resp = NewGameSessionDTO(st).withResult(res)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if record != nil {
		g.saveRecord(ctx, *record)
	}
	return resp, nil
}

// restart replaces the field with a fresh one of the same shape. A game
// abandoned before it exploded is recorded as such.
func (g GameHandler) restart(ctx context.Context, s *session.Session) (*GameSessionDTO, error) {
	var (
		resp   *GameSessionDTO
		record *repository.CreateGameRecordParams
	)
	err := s.Do(func(st *session.State) error {
		field, err := mines.New(st.Field.Params(), g.newRand())
		if err != nil {
			return err
		}
		if !st.Ended() && st.Field.RevealedCount() > 0 {
			st.End(time.Now())
			record = newRecord(st)
		}
		st.Restart(field, time.Now())
		resp = NewGameSessionDTO(st)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if record != nil {
		g.saveRecord(ctx, *record)
	}
	return resp, nil
}

func newRecord(st *session.State) *repository.CreateGameRecordParams {
	return &repository.CreateGameRecordParams{
		SessionId: st.ID.String(),
		Params:    st.Field.Params(),
		Exploded:  st.Field.IsExploded(),
		Revealed:  st.Field.RevealedCount(),
		StartedAt: st.StartedAt,
		EndedAt:   *st.EndedAt,
	}
}

func (g GameHandler) saveRecord(ctx context.Context, params repository.CreateGameRecordParams) {
	if g.history == nil {
		return
	}
	if _, err := g.history.CreateGameRecord(ctx, params); err != nil {
		g.logger.Error("unable to save game record",
			slog.String("session_id", params.SessionId),
			slog.Any("error", err),
		)
	}
}

func (g GameHandler) moveErrorStatus(err error) int {
	switch {
	case errors.Is(err, ErrGameOver):
		return http.StatusConflict
	case errors.Is(err, mines.ErrOutOfBounds), errors.Is(err, mines.ErrBadCoord):
		return http.StatusBadRequest
	default:
		g.logger.Error("unable to make a move", slog.Any("error", err))
		return http.StatusInternalServerError
	}
}

func (g GameHandler) Dig(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseDigDTO(r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}
	at, err := dto.Coord()
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}

	s, ok := g.lookup(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	resp, err := g.dig(r.Context(), s, at)
	if err != nil {
		sendErrorOrLog(w, g.logger, g.moveErrorStatus(err), err)
		return
	}
	sendJSONOrLog(w, g.logger, http.StatusOK, resp)
}

func (g GameHandler) Restart(w http.ResponseWriter, r *http.Request) {
	s, ok := g.lookup(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	resp, err := g.restart(r.Context(), s)
	if err != nil {
		sendErrorOrLog(w, g.logger, g.moveErrorStatus(err), err)
		return
	}
	sendJSONOrLog(w, g.logger, http.StatusOK, resp)
}

func (g GameHandler) History(w http.ResponseWriter, r *http.Request) {
	if g.history == nil {
		sendErrorOrLog(w, g.logger, http.StatusNotFound, ErrHistoryDisabled)
		return
	}

	dto, err := ParseHistoryDTO(r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}

	filter := repository.GameRecordFilter{Limit: dto.Limit}
	if dto.DimSize != nil {
		filter.Params = &mines.GameParams{DimSize: *dto.DimSize, NumMines: *dto.NumMines}
	}

	records, err := g.history.ListGameRecords(r.Context(), filter)
	if err != nil {
		status := dbErrorStatus(err)
		g.logger.Error("unable to list game records", slog.Any("error", err))
		sendErrorOrLog(w, g.logger, status, fmt.Errorf("unable to list game records"))
		return
	}
	if records == nil {
		records = []repository.GameRecord{}
	}
	sendJSONOrLog(w, g.logger, http.StatusOK, records)
}
