package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
	"github.com/rocketscienceinc/tictactoe-ai/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-ai/internal/tictactoe"
)

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type botService interface {
	MakeTurn(game *entity.Game) error
	SuggestMove(state tictactoe.GameState) (tictactoe.Move, error)
}

type historyService interface {
	Record(ctx context.Context, game *entity.Game) error
	History(ctx context.Context, playerID string) ([]*entity.GameResult, error)
	Stats(ctx context.Context, playerID string) (*entity.Stats, error)
}

// NewGameParams - Mark is only used by bot games, an empty one is drawn at random.
type NewGameParams struct {
	Mode       string `json:"mode"`
	Difficulty string `json:"difficulty,omitempty"`
	Mark       string `json:"mark,omitempty"`
}

type GameManager struct {
	logger *slog.Logger

	playerRepo     playerRepo
	gameRepo       gameRepo
	botService     botService
	historyService historyService
}

func NewGameManager(
	logger *slog.Logger,
	playerRepo playerRepo,
	gameRepo gameRepo,
	botService botService,
	historyService historyService,
) *GameManager {
	return &GameManager{
		logger: logger,

		playerRepo:     playerRepo,
		gameRepo:       gameRepo,
		botService:     botService,
		historyService: historyService,
	}
}

// GetOrCreatePlayer - returns the player with id, registering it when the id
// is empty or unknown. A non-empty name renames the player. Ids the server
// did not generate are rejected, bot seats included.
func (that *GameManager) GetOrCreatePlayer(ctx context.Context, id, name string) (*entity.Player, error) {
	if id == "" {
		return that.createPlayer(ctx, pkg.GenerateNewID(), name)
	}

	if !pkg.IsValidID(id) {
		return nil, fmt.Errorf("%w: %q", apperror.ErrInvalidPlayerID, id)
	}

	player, err := that.playerRepo.GetByID(ctx, id)
	if errors.Is(err, apperror.ErrNotFound) {
		return that.createPlayer(ctx, id, name)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	if name != "" && name != player.Name {
		player.Name = name
		if err = that.updatePlayer(ctx, player); err != nil {
			return nil, err
		}
	}

	return player, nil
}

func (that *GameManager) GetPlayer(ctx context.Context, id string) (*entity.Player, error) {
	return that.getPlayerByID(ctx, id)
}

// NewGame - creates a game of the requested mode with the player in it.
func (that *GameManager) NewGame(ctx context.Context, playerID string, params NewGameParams) (*entity.Game, error) {
	log := that.logger.With("method", "NewGame", "playerID", playerID)

	if err := entity.ValidateMode(params.Mode); err != nil {
		return nil, err
	}

	if params.Mode == entity.BotMode && params.Difficulty != "" {
		if err := entity.ValidateDifficulty(params.Difficulty); err != nil {
			return nil, err
		}
	}

	mark, err := tictactoe.ParseMark(params.Mark)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", apperror.ErrInvalidMark, params.Mark)
	}

	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if err = that.releaseFinishedGame(ctx, player); err != nil {
		return nil, err
	}

	game := entity.NewGame(pkg.GenerateNewID(), params.Mode)
	player.GameID = game.ID
	game.Players = []*entity.Player{player}

	switch params.Mode {
	case entity.LocalMode:
		player.Mark = ""
		game.Status = entity.StatusOngoing
	case entity.OnlineMode:
		player.Mark = entity.PlayerX
	case entity.BotMode:
		botMark := entity.PlayerO
		if mark == tictactoe.Empty {
			player.Mark, botMark = game.GetRandomMarks()
		} else {
			player.Mark = mark.String()
			botMark = mark.Opponent().String()
		}

		game.Difficulty = params.Difficulty
		game.Status = entity.StatusOngoing
		game.Players = append(game.Players, entity.NewBotPlayer(game.ID, botMark))

		if err = that.makeBotTurn(game); err != nil {
			return nil, err
		}
	}

	if err = that.updatePlayer(ctx, player); err != nil {
		return nil, err
	}

	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	log.Info("game created", "gameID", game.ID, "mode", game.Mode)

	return game, nil
}

// JoinGame - seats the player as O in a waiting online game.
func (that *GameManager) JoinGame(ctx context.Context, gameID, playerID string) (*entity.Game, error) {
	log := that.logger.With("method", "JoinGame", "playerID", playerID, "gameID", gameID)

	game, err := that.getGameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}

	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if player.GameID == game.ID {
		return game, nil
	}

	if !game.IsOnline() {
		return nil, fmt.Errorf("%w: only online games can be joined", apperror.ErrInvalidMode)
	}

	if !game.IsWaiting() || len(game.Players) >= 2 {
		return nil, fmt.Errorf("%w: game id %s", apperror.ErrGameIsFull, gameID)
	}

	if err = that.releaseFinishedGame(ctx, player); err != nil {
		return nil, err
	}

	player.GameID = game.ID
	player.Mark = entity.PlayerO
	if err = that.updatePlayer(ctx, player); err != nil {
		return nil, err
	}

	game.Status = entity.StatusOngoing
	game.Players = append(game.Players, player)
	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	log.Info("player joined game")

	return game, nil
}

// MakeTurn - plays the player's move and, in bot games, the bot's answer.
func (that *GameManager) MakeTurn(ctx context.Context, playerID string, row, col int) (*entity.Game, error) {
	log := that.logger.With("method", "MakeTurn", "playerID", playerID)

	_, game, err := that.activeGame(ctx, playerID)
	if err != nil {
		return nil, err
	}

	player := game.PlayerByID(playerID)
	if player == nil {
		return nil, fmt.Errorf("%w: player %s is not seated in game %s", apperror.ErrNoActiveGame, playerID, game.ID)
	}

	if err = game.MakeTurn(player.Mark, row, col); err != nil {
		return nil, fmt.Errorf("failed to make turn: %w", err)
	}

	if err = that.makeBotTurn(game); err != nil {
		return nil, err
	}

	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	if game.IsFinished() {
		if err = that.historyService.Record(ctx, game); err != nil {
			log.Error("failed to record game result", "gameID", game.ID, "error", err)
		}

		log.Info("game finished", "gameID", game.ID, "winner", game.Winner)
	}

	return game, nil
}

// RestartGame - clears the board of the player's game for a rematch.
func (that *GameManager) RestartGame(ctx context.Context, playerID string) (*entity.Game, error) {
	_, game, err := that.activeGame(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if game.IsWaiting() {
		return nil, apperror.ErrGameIsNotStarted
	}

	game.Restart()

	if err = that.makeBotTurn(game); err != nil {
		return nil, err
	}

	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	return game, nil
}

// LeaveGame - removes the player's game and detaches everyone from it.
func (that *GameManager) LeaveGame(ctx context.Context, playerID string) (*entity.Game, error) {
	_, game, err := that.activeGame(ctx, playerID)
	if err != nil {
		return nil, err
	}

	that.deleteGame(ctx, game)

	return game, nil
}

func (that *GameManager) GetGame(ctx context.Context, playerID string) (*entity.Game, error) {
	_, game, err := that.activeGame(ctx, playerID)

	return game, err
}

// Hint - the move the engine would play for the player.
func (that *GameManager) Hint(ctx context.Context, playerID string) (tictactoe.Move, error) {
	_, game, err := that.activeGame(ctx, playerID)
	if err != nil {
		return tictactoe.NoMove, err
	}

	if err = game.ConfirmOngoingState(); err != nil {
		return tictactoe.NoMove, err
	}

	if player := game.PlayerByID(playerID); !game.IsLocal() && (player == nil || player.Mark != game.Turn()) {
		return tictactoe.NoMove, apperror.ErrNotYourTurn
	}

	move, err := that.botService.SuggestMove(game.State)
	if err != nil {
		return tictactoe.NoMove, fmt.Errorf("failed to suggest move: %w", err)
	}

	return move, nil
}

func (that *GameManager) History(ctx context.Context, playerID string) ([]*entity.GameResult, error) {
	if _, err := that.getPlayerByID(ctx, playerID); err != nil {
		return nil, err
	}

	results, err := that.historyService.History(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	return results, nil
}

func (that *GameManager) Stats(ctx context.Context, playerID string) (*entity.Stats, error) {
	if _, err := that.getPlayerByID(ctx, playerID); err != nil {
		return nil, err
	}

	stats, err := that.historyService.Stats(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	return stats, nil
}

// activeGame - loads the player and the game it is attached to.
func (that *GameManager) activeGame(ctx context.Context, playerID string) (*entity.Player, *entity.Game, error) {
	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, nil, err
	}

	if !player.InGame() {
		return nil, nil, apperror.ErrNoActiveGame
	}

	game, err := that.getGameByID(ctx, player.GameID)
	if errors.Is(err, apperror.ErrNotFound) {
		player.Leave()
		if err = that.updatePlayer(ctx, player); err != nil {
			return nil, nil, err
		}

		return nil, nil, apperror.ErrNoActiveGame
	}

	if err != nil {
		return nil, nil, err
	}

	return player, game, nil
}

// releaseFinishedGame - frees the player from a finished game so it can start
// or join another one. Unfinished games are kept and reported as a conflict.
func (that *GameManager) releaseFinishedGame(ctx context.Context, player *entity.Player) error {
	if !player.InGame() {
		return nil
	}

	game, err := that.getGameByID(ctx, player.GameID)
	if errors.Is(err, apperror.ErrNotFound) {
		player.Leave()
		return nil
	}

	if err != nil {
		return err
	}

	if !game.IsFinished() {
		return fmt.Errorf("%w: game id %s", apperror.ErrGameAlreadyExists, game.ID)
	}

	that.deleteGame(ctx, game)
	player.Leave()

	return nil
}

func (that *GameManager) makeBotTurn(game *entity.Game) error {
	if !game.IsWithBot() || !game.IsBotTurn() {
		return nil
	}

	if err := that.botService.MakeTurn(game); err != nil {
		return fmt.Errorf("bot failed to make turn: %w", err)
	}

	return nil
}

func (that *GameManager) getGameByID(ctx context.Context, id string) (*entity.Game, error) {
	existingGame, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return existingGame, nil
}

func (that *GameManager) updateGame(ctx context.Context, game *entity.Game) error {
	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}

func (that *GameManager) deleteGame(ctx context.Context, game *entity.Game) {
	log := that.logger.With("method", "deleteGame", "gameID", game.ID)

	if err := that.gameRepo.DeleteByID(ctx, game.ID); err != nil && !errors.Is(err, apperror.ErrNotFound) {
		log.Error("failed to delete game", "error", err)
	}

	for _, seat := range game.Humans() {
		player, err := that.playerRepo.GetByID(ctx, seat.ID)
		if err != nil {
			log.Error("failed to get player", "playerID", seat.ID, "error", err)
			continue
		}

		if player.GameID != game.ID {
			continue
		}

		player.Leave()
		if err = that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
			log.Error("failed to update player", "playerID", seat.ID, "error", err)
		}
	}

	log.Info("game deleted")
}

func (that *GameManager) createPlayer(ctx context.Context, id, name string) (*entity.Player, error) {
	player := &entity.Player{
		ID:   id,
		Name: name,
	}

	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	return player, nil
}

func (that *GameManager) getPlayerByID(ctx context.Context, id string) (*entity.Player, error) {
	player, err := that.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return player, nil
}

func (that *GameManager) updatePlayer(ctx context.Context, player *entity.Player) error {
	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}

	return nil
}
