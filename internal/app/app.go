package app

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minefield/internal/config"
	"github.com/vancomm/minefield/internal/database"
	"github.com/vancomm/minefield/internal/handlers"
	"github.com/vancomm/minefield/internal/middleware"
	"github.com/vancomm/minefield/internal/repository"
	"github.com/vancomm/minefield/internal/session"
)

type App struct {
	logger     *slog.Logger
	router     *mux.Router
	migrations fs.FS
	store      *session.Store
	board      *config.Board
	cookies    *config.Cookies
	ws         *config.WebSocket
	history    handlers.History
}

func New(logger *slog.Logger, migrations fs.FS) *App {
	app := &App{
		logger:     logger,
		router:     mux.NewRouter(),
		migrations: migrations,
	}

	return app
}

// loadJWT falls back to a throwaway secret in development. Cookies signed
// with it do not outlive the process, and neither do the sessions.
func (a *App) loadJWT() (*config.JWT, error) {
	j, err := config.NewJWT()
	if err == nil || !config.Development() {
		return j, err
	}
	a.logger.Warn("using a random JWT secret", slog.Any("reason", err))
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, err
	}
	return config.NewJWTWithSecret(secret)
}

func (a *App) Start(ctx context.Context) error {
	board, err := config.NewBoard()
	if err != nil {
		return err
	}
	a.board = board

	sessionCfg, err := config.NewSession()
	if err != nil {
		return err
	}

	j, err := a.loadJWT()
	if err != nil {
		return fmt.Errorf("unable to load jwt config: %w", err)
	}

	cookies, err := config.NewCookies(j)
	if err != nil {
		return err
	}
	a.cookies = cookies

	ws, err := config.NewWebSocket()
	if err != nil {
		return err
	}
	a.ws = ws

	if config.DatabaseEnabled() {
		db, _, err := database.ConnectAndMigrate(ctx, a.migrations)
		if err != nil {
			return fmt.Errorf("unable to connect to db: %w", err)
		}
		defer db.Close()
		a.history = repository.New(db)
	} else {
		a.logger.Warn("no database configured, game history is disabled")
	}

	a.store = session.NewStore(a.logger, sessionCfg.IdleTimeout)

	a.loadRoutes()

	addr := config.Addr()
	server := &http.Server{
		Addr: addr,
		Handler: middleware.Wrap(
			a.router,
			middleware.Cors(config.CorsOrigins()),
			middleware.Logging(a.logger),
			middleware.Session(a.logger, cookies),
		),
		ReadTimeout: time.Second * 15,
		IdleTimeout: time.Second * 60,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("server listening", slog.String("addr", addr))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("unable to listen and serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return a.store.Run(gCtx, sessionCfg.SweepInterval)
	})
	g.Go(func() error {
		<-gCtx.Done()
		sCtx, cancel := context.WithTimeout(context.Background(), time.Second*15)
		defer cancel()
		return server.Shutdown(sCtx)
	})

	return g.Wait()
}
