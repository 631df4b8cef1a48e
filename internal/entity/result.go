package entity

import "time"

const (
	OutcomeWin  = "win"
	OutcomeLoss = "loss"
	OutcomeDraw = "draw"

	OpponentLocal = "local"
)

// GameResult - one finished game as seen by one player.
type GameResult struct {
	GameID   string    `json:"game_id"`
	Mode     string    `json:"mode"`
	Mark     string    `json:"mark"`
	Outcome  string    `json:"outcome"`
	Opponent string    `json:"opponent"`
	PlayedAt time.Time `json:"played_at"`
}

type Stats struct {
	Played int `json:"played"`
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Draws  int `json:"draws"`
}

// NewGameResult - builds the result of a finished game for the given player.
// In local games the player holds both marks, so the winning mark is
// recorded and the outcome is a win unless the game was a draw.
func NewGameResult(game *Game, player *Player, now time.Time) *GameResult {
	result := &GameResult{
		GameID:   game.ID,
		Mode:     game.Mode,
		Mark:     player.Mark,
		PlayedAt: now,
	}

	switch {
	case game.IsLocal():
		result.Opponent = OpponentLocal
		result.Mark = game.Winner
		result.Outcome = OutcomeWin
		if game.Winner == PlayerTie {
			result.Mark = ""
			result.Outcome = OutcomeDraw
		}

		return result
	case game.Winner == PlayerTie:
		result.Outcome = OutcomeDraw
	case game.Winner == player.Mark:
		result.Outcome = OutcomeWin
	default:
		result.Outcome = OutcomeLoss
	}

	for _, other := range game.Players {
		if other.ID != player.ID {
			result.Opponent = other.Name
			if result.Opponent == "" {
				result.Opponent = other.ID
			}
		}
	}

	return result
}

// Add - accounts one result in the stats.
func (that *Stats) Add(result *GameResult) {
	that.Played++

	switch result.Outcome {
	case OutcomeWin:
		that.Wins++
	case OutcomeLoss:
		that.Losses++
	case OutcomeDraw:
		that.Draws++
	}
}
