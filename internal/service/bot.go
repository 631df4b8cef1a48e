package service

import (
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/rocketscienceinc/tictactoe-ai/internal/ai"
	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
	"github.com/rocketscienceinc/tictactoe-ai/internal/tictactoe"
)

var (
	ErrBotNotFound       = errors.New("bot player not found")
	ErrNoAvailableMoves  = errors.New("no available moves")
	ErrUnknownDifficulty = fmt.Errorf("unknown %w", apperror.ErrInvalidDifficulty)
)

type BotService interface {
	MakeTurn(game *entity.Game) error
	SuggestMove(state tictactoe.GameState) (tictactoe.Move, error)
}

type botService struct {
	defaultDifficulty string
}

// NewBotService - defaultDifficulty is used for games created without one.
func NewBotService(defaultDifficulty string) BotService {
	return &botService{
		defaultDifficulty: defaultDifficulty,
	}
}

// MakeTurn - plays the bot's mark on the board of a bot game.
func (that *botService) MakeTurn(game *entity.Game) error {
	if len(game.State.LegalMoves()) == 0 {
		return ErrNoAvailableMoves
	}

	botPlayer := game.BotPlayer()
	if botPlayer == nil {
		return ErrBotNotFound
	}

	mark, err := tictactoe.ParseMark(botPlayer.Mark)
	if err != nil {
		return fmt.Errorf("bot has %w", err)
	}

	difficulty := game.Difficulty
	if difficulty == "" {
		difficulty = that.defaultDifficulty
	}

	move, err := that.chooseMove(game.State, mark, difficulty)
	if err != nil {
		return err
	}

	if err = game.MakeTurn(botPlayer.Mark, move.Row, move.Col); err != nil {
		return fmt.Errorf("bot failed to make turn: %w", err)
	}

	return nil
}

// SuggestMove - the hard tier's choice for the side to move.
func (that *botService) SuggestMove(state tictactoe.GameState) (tictactoe.Move, error) {
	if state.IsOver() {
		return tictactoe.NoMove, ErrNoAvailableMoves
	}

	return that.chooseMove(state, state.CurrentPlayer(), entity.DifficultyHard)
}

func (that *botService) chooseMove(state tictactoe.GameState, mark tictactoe.Mark, difficulty string) (tictactoe.Move, error) {
	legal := state.LegalMoves()
	if len(legal) == 0 {
		return tictactoe.NoMove, ErrNoAvailableMoves
	}

	switch difficulty {
	case entity.DifficultyEasy:
		return lo.Sample(legal), nil
	case entity.DifficultyMedium:
		if move, ok := ai.WinningMove(state, mark); ok {
			return move, nil
		}

		if move, ok := ai.WinningMove(state, mark.Opponent()); ok {
			return move, nil
		}

		return lo.Sample(legal), nil
	case entity.DifficultyHard:
		engine, err := ai.New(mark)
		if err != nil {
			return tictactoe.NoMove, fmt.Errorf("failed to create engine: %w", err)
		}

		return engine.FindBestMove(state), nil
	default:
		return tictactoe.NoMove, fmt.Errorf("%w: %q", ErrUnknownDifficulty, difficulty)
	}
}
