package websocket

import (
	"context"
	"errors"
	"time"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
	"github.com/rocketscienceinc/tictactoe-ai/internal/usecase"
)

const (
	gameStatusOpponentOut = "opponent_out"
	gameStatusLeave       = "leave"
)

var (
	errGameRequired = errors.New("game is required")
	errMoveRequired = errors.New("move is required")
)

func (that *Server) handleConnect(ctx context.Context, conn *client, payload *Payload) error {
	log := that.logger.With("method", "handleConnect")

	player, err := that.uGame.GetOrCreatePlayer(ctx, payload.Player.ID, payload.Player.Name)
	if err != nil {
		return err
	}

	that.register(player.ID, conn)
	that.playerReconnected(player.ID)

	response := Payload{Player: player}

	if player.InGame() {
		game, err := that.uGame.GetGame(ctx, player.ID)
		switch {
		case errors.Is(err, apperror.ErrNoActiveGame):
			response.Player.Leave()
		case err != nil:
			return err
		default:
			response.Game = game.Public()
		}
	}

	if err = that.send(conn, actionConnect, response); err != nil {
		return err
	}

	log.Info("successfully connected player", "playerID", player.ID)

	return nil
}

func (that *Server) handleNewGame(ctx context.Context, conn *client, payload *Payload) error {
	that.register(payload.Player.ID, conn)

	var params usecase.NewGameParams
	if payload.Params != nil {
		params = *payload.Params
	}

	game, err := that.uGame.NewGame(ctx, payload.Player.ID, params)
	if err != nil {
		return err
	}

	that.broadcast(actionNewGame, game)

	return nil
}

func (that *Server) handleJoinGame(ctx context.Context, conn *client, payload *Payload) error {
	if payload.Game == nil || payload.Game.ID == "" {
		return errGameRequired
	}

	that.register(payload.Player.ID, conn)

	game, err := that.uGame.JoinGame(ctx, payload.Game.ID, payload.Player.ID)
	if err != nil {
		return err
	}

	that.broadcast(actionJoinGame, game)

	return nil
}

func (that *Server) handleGameTurn(ctx context.Context, conn *client, payload *Payload) error {
	if payload.Move == nil {
		return errMoveRequired
	}

	that.register(payload.Player.ID, conn)

	game, err := that.uGame.MakeTurn(ctx, payload.Player.ID, payload.Move.Row, payload.Move.Col)
	if err != nil {
		return err
	}

	that.broadcast(actionTurn, game)

	return nil
}

func (that *Server) handleRestart(ctx context.Context, conn *client, payload *Payload) error {
	that.register(payload.Player.ID, conn)

	game, err := that.uGame.RestartGame(ctx, payload.Player.ID)
	if err != nil {
		return err
	}

	that.broadcast(actionRestart, game)

	return nil
}

func (that *Server) handleGameLeave(ctx context.Context, conn *client, payload *Payload) error {
	that.register(payload.Player.ID, conn)

	game, err := that.uGame.LeaveGame(ctx, payload.Player.ID)
	if err != nil {
		return err
	}

	that.notifyLeave(game, "", gameStatusLeave)

	return nil
}

// broadcast - sends the game to every connected human seated in it.
func (that *Server) broadcast(action string, game *entity.Game) {
	log := that.logger.With("method", "broadcast", "action", action, "gameID", game.ID)

	for _, player := range game.Humans() {
		conn, ok := that.connection(player.ID)
		if !ok {
			log.Warn("connection not found for player", "playerID", player.ID)
			continue
		}

		if err := that.send(conn, action, Payload{Player: player, Game: game.Public()}); err != nil {
			log.Error("failed to send game update", "playerID", player.ID, "error", err)
		}
	}
}

// notifyLeave - tells the humans of a removed game, except skipID, that it is gone.
func (that *Server) notifyLeave(game *entity.Game, skipID, status string) {
	log := that.logger.With("method", "notifyLeave", "gameID", game.ID)

	for _, player := range game.Humans() {
		if player.ID == skipID {
			continue
		}

		conn, ok := that.connection(player.ID)
		if !ok {
			continue
		}

		detached := *player
		detached.Leave()

		masked := game.Public()
		masked.Status = status

		if err := that.send(conn, actionLeave, Payload{Player: &detached, Game: masked}); err != nil {
			log.Error("failed to send game:leave message", "playerID", player.ID, "error", err)
		}
	}
}

// handleOpponentOut - ends the online game of a player whose connection did
// not come back in time.
func (that *Server) handleOpponentOut(ctx context.Context, playerID string) {
	log := that.logger.With("method", "handleOpponentOut", "playerID", playerID)

	game, err := that.uGame.GetGame(ctx, playerID)
	if err != nil {
		if !errors.Is(err, apperror.ErrNoActiveGame) && !errors.Is(err, apperror.ErrNotFound) {
			log.Error("failed to get game by player ID", "error", err)
		}

		return
	}

	if !game.IsOnline() {
		return
	}

	if game, err = that.uGame.LeaveGame(ctx, playerID); err != nil {
		log.Error("failed to finish game", "error", err)
		return
	}

	that.notifyLeave(game, playerID, gameStatusOpponentOut)

	log.Info("handled opponent out", "gameID", game.ID)
}

func (that *Server) playerDisconnected(ctx context.Context, playerID string) {
	disconnectedAt := time.Now()

	that.disconnectedMutex.Lock()
	that.disconnectedPlayers[playerID] = disconnectedAt
	that.disconnectedMutex.Unlock()

	time.AfterFunc(that.reconnectTimeout, func() {
		that.disconnectedMutex.Lock()
		at, ok := that.disconnectedPlayers[playerID]
		if ok && at.Equal(disconnectedAt) {
			delete(that.disconnectedPlayers, playerID)
		}
		that.disconnectedMutex.Unlock()

		if !ok || !at.Equal(disconnectedAt) || ctx.Err() != nil {
			return
		}

		that.handleOpponentOut(ctx, playerID)
	})
}

func (that *Server) playerReconnected(playerID string) {
	that.disconnectedMutex.Lock()
	defer that.disconnectedMutex.Unlock()

	delete(that.disconnectedPlayers, playerID)
}

func (that *Server) send(conn *client, action string, payload Payload) error {
	message, err := newMessage(action, payload)
	if err != nil {
		return err
	}

	return conn.send(message)
}
