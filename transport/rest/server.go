package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
	"github.com/rocketscienceinc/tictactoe-ai/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-ai/internal/usecase"
)

const shutdownTimeout = 5 * time.Second

type uGame interface {
	GetOrCreatePlayer(ctx context.Context, id, name string) (*entity.Player, error)
	GetPlayer(ctx context.Context, id string) (*entity.Player, error)

	NewGame(ctx context.Context, playerID string, params usecase.NewGameParams) (*entity.Game, error)
	JoinGame(ctx context.Context, gameID, playerID string) (*entity.Game, error)
	GetGame(ctx context.Context, playerID string) (*entity.Game, error)
	MakeTurn(ctx context.Context, playerID string, row, col int) (*entity.Game, error)
	RestartGame(ctx context.Context, playerID string) (*entity.Game, error)
	LeaveGame(ctx context.Context, playerID string) (*entity.Game, error)
	Hint(ctx context.Context, playerID string) (tictactoe.Move, error)

	History(ctx context.Context, playerID string) ([]*entity.GameResult, error)
	Stats(ctx context.Context, playerID string) (*entity.Stats, error)
}

type Server struct {
	logger *slog.Logger
	uGame  uGame
}

func New(logger *slog.Logger, uGame uGame) *Server {
	return &Server{
		logger: logger.With("component", "rest"),
		uGame:  uGame,
	}
}

// Router - all HTTP routes of the API.
func (that *Server) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.Get("/ping", NewPingHandler().PingHandler)

	router.Post("/players", that.createPlayer)
	router.Route("/players/{playerID}", func(r chi.Router) {
		r.Get("/", that.getPlayer)
		r.Get("/history", that.history)
		r.Get("/stats", that.stats)

		r.Route("/game", func(r chi.Router) {
			r.Get("/", that.getGame)
			r.Post("/", that.newGame)
			r.Delete("/", that.leaveGame)
			r.Post("/join", that.joinGame)
			r.Post("/turn", that.makeTurn)
			r.Post("/restart", that.restartGame)
			r.Get("/hint", that.hint)
		})
	})

	return router
}

// Start - serves the API until ctx is cancelled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
