package entity

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ai/internal/tictactoe"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
	StatusWaiting  = "waiting"

	PlayerX   = "X"
	PlayerO   = "O"
	PlayerTie = "-"
)

const (
	// LocalMode - one client plays both marks on the same board.
	LocalMode = "local"
	// OnlineMode - a second player joins the game by its id.
	OnlineMode = "online"
	// BotMode - a human plays against the engine.
	BotMode = "bot"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

var ErrUnknownGameStatus = errors.New("unknown game status")

type Game struct {
	ID         string              `json:"id"`
	Mode       string              `json:"mode"`
	Difficulty string              `json:"difficulty,omitempty"`
	Status     string              `json:"status"`
	Winner     string              `json:"winner"`
	State      tictactoe.GameState `json:"state"`
	Players    []*Player           `json:"players,omitempty"`
}

func NewGame(id, mode string) *Game {
	return &Game{
		ID:     id,
		Mode:   mode,
		Status: StatusWaiting,
		State:  tictactoe.New(),
	}
}

// ValidateMode - checks that mode is one of the supported game modes.
func ValidateMode(mode string) error {
	switch mode {
	case LocalMode, OnlineMode, BotMode:
		return nil
	default:
		return fmt.Errorf("%w: %q", apperror.ErrInvalidMode, mode)
	}
}

// ValidateDifficulty - checks that difficulty is one of the bot tiers.
func ValidateDifficulty(difficulty string) error {
	switch difficulty {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return nil
	default:
		return fmt.Errorf("%w: %q", apperror.ErrInvalidDifficulty, difficulty)
	}
}

// DetermineGameResult - returns the winning mark, PlayerTie for a draw and
// an empty string while the game goes on.
func (that *Game) DetermineGameResult() string {
	if winner := that.State.Winner(); winner != tictactoe.Empty {
		return winner.String()
	}

	if that.State.IsDraw() {
		return PlayerTie
	}

	return ""
}

func (that *Game) UpdateGameState() {
	switch winner := that.DetermineGameResult(); winner {
	// one player wins
	case PlayerX, PlayerO:
		that.Winner = winner
		that.Status = StatusFinished
	// tie
	case PlayerTie:
		that.Winner = PlayerTie
		that.Status = StatusFinished
	// game continue
	default:
		that.Winner = ""
		that.Status = StatusOngoing
	}
}

// MakeTurn - plays mark at (row, col). Local games accept the mark of whoever
// is to move, other modes only the player holding that mark.
func (that *Game) MakeTurn(playerMark string, row, col int) error {
	if err := that.ConfirmOngoingState(); err != nil {
		return err
	}

	if !that.IsLocal() && that.Turn() != playerMark {
		return apperror.ErrNotYourTurn
	}

	if err := that.State.ApplyMove(row, col); err != nil {
		switch {
		case errors.Is(err, tictactoe.ErrCellOccupied):
			return fmt.Errorf("%w: %w", apperror.ErrCellOccupied, err)
		case errors.Is(err, tictactoe.ErrInvalidCell):
			return fmt.Errorf("%w: %w", apperror.ErrInvalidCell, err)
		default:
			return fmt.Errorf("failed to apply move: %w", err)
		}
	}

	that.UpdateGameState()

	return nil
}

// Restart - clears the board of the same game and puts it back in play.
func (that *Game) Restart() {
	that.State.Reset()
	that.Winner = ""
	that.Status = StatusOngoing
}

// Turn - returns the mark to move, or an empty string once the game is over.
func (that *Game) Turn() string {
	if that.IsFinished() {
		return ""
	}

	return that.State.CurrentPlayer().String()
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsWaiting():
		return apperror.ErrGameIsNotStarted
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

func (that *Game) IsLocal() bool {
	return that.Mode == LocalMode
}

func (that *Game) IsOnline() bool {
	return that.Mode == OnlineMode
}

func (that *Game) IsWithBot() bool {
	return that.Mode == BotMode
}

// BotPlayer - returns the bot seat of the game, nil when there is none.
func (that *Game) BotPlayer() *Player {
	for _, player := range that.Players {
		if player.IsBot() {
			return player
		}
	}

	return nil
}

// Humans - returns the players that are not bots.
func (that *Game) Humans() []*Player {
	humans := make([]*Player, 0, len(that.Players))
	for _, player := range that.Players {
		if !player.IsBot() {
			humans = append(humans, player)
		}
	}

	return humans
}

func (that *Game) PlayerByID(id string) *Player {
	for _, player := range that.Players {
		if player.ID == id {
			return player
		}
	}

	return nil
}

// Public - copy of the game without the seat list, so players never see each
// other's ids. The board is a value and is copied with it.
func (that *Game) Public() *Game {
	public := *that
	public.Players = nil

	return &public
}

// IsBotTurn - reports whether the bot holds the mark to move.
func (that *Game) IsBotTurn() bool {
	bot := that.BotPlayer()

	return bot != nil && that.IsOngoing() && bot.Mark == that.Turn()
}

func (that *Game) GetRandomMarks() (string, string) {
	if rand.Intn(2) == 0 { //nolint: gosec // it's ok
		return PlayerX, PlayerO
	}
	return PlayerO, PlayerX
}
