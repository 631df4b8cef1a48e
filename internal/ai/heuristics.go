package ai

import (
	"github.com/samber/lo"

	"github.com/rocketscienceinc/tictactoe-ai/internal/tictactoe"
)

var (
	center  = tictactoe.Move{Row: 1, Col: 1}
	corners = []tictactoe.Move{{Row: 0, Col: 0}, {Row: 0, Col: 2}, {Row: 2, Col: 0}, {Row: 2, Col: 2}}

	// center 4, corner 3, edge 1
	positionWeights = [tictactoe.Size][tictactoe.Size]int{
		{3, 1, 3},
		{1, 4, 1},
		{3, 1, 3},
	}

	// indexed by the number of marks one side has on an otherwise empty line
	lineWeights = [4]int{0, 1, 10, 100}
)

// breakTie chooses among moves with the same minimax score.
func (that *Engine) breakTie(state tictactoe.GameState, candidates []tictactoe.Move) tictactoe.Move {
	switch len(candidates) {
	case 0:
		return tictactoe.NoMove
	case 1:
		return candidates[0]
	}

	if lo.Contains(candidates, center) {
		return center
	}

	if state.At(center.Row, center.Col) == that.opponent {
		if corner, ok := lo.Find(candidates, isCorner); ok {
			return corner
		}
	}

	best := candidates[0]
	for _, move := range candidates[1:] {
		if PositionWeight(move) > PositionWeight(best) {
			best = move
		}
	}

	return best
}

// Evaluate is the static score of a position for the engine: every line held
// only by the engine adds 1, 10 or 100 for one, two or three marks, lines held
// only by the opponent subtract the same, mixed lines are dead.
func (that *Engine) Evaluate(state tictactoe.GameState) int {
	score := 0
	grid := state.Grid()

	for _, line := range tictactoe.Lines {
		own, theirs := 0, 0

		for _, cell := range line {
			switch grid[cell.Row][cell.Col] {
			case that.mark:
				own++
			case that.opponent:
				theirs++
			}
		}

		switch {
		case own > 0 && theirs > 0:
		case own > 0:
			score += lineWeights[own]
		case theirs > 0:
			score -= lineWeights[theirs]
		}
	}

	return score
}

// PositionWeight is the static value of a cell: center 4, corner 3, edge 1.
func PositionWeight(move tictactoe.Move) int {
	if !move.InBounds() {
		return 0
	}

	return positionWeights[move.Row][move.Col]
}

func isCorner(move tictactoe.Move) bool {
	return lo.Contains(corners, move)
}
