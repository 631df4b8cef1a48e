package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
	"github.com/rocketscienceinc/tictactoe-ai/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-ai/internal/usecase"
)

var errBadRequest = errors.New("bad request")

type createPlayerRequest struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

type joinGameRequest struct {
	GameID string `json:"game_id"`
}

type turnRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

// gameResponse - the game without its seat list, plus the caller's own seat.
type gameResponse struct {
	*entity.Game
	Player *entity.Player `json:"player,omitempty"`
}

func newGameResponse(game *entity.Game, playerID string) gameResponse {
	return gameResponse{
		Game:   game.Public(),
		Player: game.PlayerByID(playerID),
	}
}

type hintResponse struct {
	Move tictactoe.Move `json:"move"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *Server) createPlayer(w http.ResponseWriter, r *http.Request) {
	var req createPlayerRequest
	if err := decodeBody(r, &req); err != nil {
		that.writeError(w, r, err)
		return
	}

	player, err := that.uGame.GetOrCreatePlayer(r.Context(), req.ID, req.Name)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, player)
}

func (that *Server) getPlayer(w http.ResponseWriter, r *http.Request) {
	player, err := that.uGame.GetPlayer(r.Context(), chi.URLParam(r, "playerID"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, player)
}

func (that *Server) getGame(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")

	game, err := that.uGame.GetGame(r.Context(), playerID)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newGameResponse(game, playerID))
}

func (that *Server) newGame(w http.ResponseWriter, r *http.Request) {
	var params usecase.NewGameParams
	if err := decodeBody(r, &params); err != nil {
		that.writeError(w, r, err)
		return
	}

	playerID := chi.URLParam(r, "playerID")

	game, err := that.uGame.NewGame(r.Context(), playerID, params)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, newGameResponse(game, playerID))
}

func (that *Server) joinGame(w http.ResponseWriter, r *http.Request) {
	var req joinGameRequest
	if err := decodeBody(r, &req); err != nil {
		that.writeError(w, r, err)
		return
	}

	if req.GameID == "" {
		that.writeError(w, r, fmt.Errorf("%w: game_id is required", errBadRequest))
		return
	}

	playerID := chi.URLParam(r, "playerID")

	game, err := that.uGame.JoinGame(r.Context(), req.GameID, playerID)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newGameResponse(game, playerID))
}

func (that *Server) makeTurn(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := decodeBody(r, &req); err != nil {
		that.writeError(w, r, err)
		return
	}

	if req.Row == nil || req.Col == nil {
		that.writeError(w, r, fmt.Errorf("%w: row and col are required", errBadRequest))
		return
	}

	playerID := chi.URLParam(r, "playerID")

	game, err := that.uGame.MakeTurn(r.Context(), playerID, *req.Row, *req.Col)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newGameResponse(game, playerID))
}

func (that *Server) restartGame(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")

	game, err := that.uGame.RestartGame(r.Context(), playerID)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newGameResponse(game, playerID))
}

func (that *Server) leaveGame(w http.ResponseWriter, r *http.Request) {
	if _, err := that.uGame.LeaveGame(r.Context(), chi.URLParam(r, "playerID")); err != nil {
		that.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *Server) hint(w http.ResponseWriter, r *http.Request) {
	move, err := that.uGame.Hint(r.Context(), chi.URLParam(r, "playerID"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, hintResponse{Move: move})
}

func (that *Server) history(w http.ResponseWriter, r *http.Request) {
	results, err := that.uGame.History(r.Context(), chi.URLParam(r, "playerID"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, results)
}

func (that *Server) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := that.uGame.Stats(r.Context(), chi.URLParam(r, "playerID"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// statusCode - maps application errors to HTTP statuses.
func statusCode(err error) int {
	switch {
	case errors.Is(err, apperror.ErrNotFound), errors.Is(err, apperror.ErrNoActiveGame):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrGameAlreadyExists), errors.Is(err, apperror.ErrGameIsFull),
		errors.Is(err, apperror.ErrGameFinished), errors.Is(err, apperror.ErrGameIsNotStarted):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrCellOccupied), errors.Is(err, apperror.ErrInvalidCell),
		errors.Is(err, apperror.ErrNotYourTurn):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errBadRequest), errors.Is(err, apperror.ErrInvalidMode),
		errors.Is(err, apperror.ErrInvalidMark), errors.Is(err, apperror.ErrInvalidDifficulty),
		errors.Is(err, apperror.ErrInvalidPlayerID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (that *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusCode(err)

	message := err.Error()
	if code == http.StatusInternalServerError {
		that.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		message = http.StatusText(code)
	}

	writeJSON(w, code, errorResponse{Error: message})
}

func decodeBody(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}

	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
