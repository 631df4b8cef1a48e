// Package ai picks moves for one side of a tic-tac-toe game.
//
// FindBestMove runs a fixed pipeline: take an immediate win, otherwise block
// the opponent's immediate win, otherwise run an exhaustive minimax search
// with alpha-beta pruning and break ties between equally scored moves by
// position (center, then corners when the opponent holds the center, then
// positional weight). The pipeline is deterministic: the same board always
// yields the same move.
package ai

import (
	"errors"
	"fmt"
	"math"

	"github.com/rocketscienceinc/tictactoe-ai/internal/tictactoe"
)

const (
	// maxDepth bounds the recursion. Nine plies cover every game, so the
	// static evaluator below it never runs on a real 3x3 board.
	maxDepth = 9
	winScore = 10
)

var ErrInvalidMark = errors.New("engine mark must be X or O")

// ScoredMove is a legal move with its exact minimax value.
type ScoredMove struct {
	Move  tictactoe.Move `json:"move"`
	Score int            `json:"score"`
}

// Engine is stateless apart from the side it plays, so one value can serve
// any number of games and goroutines.
type Engine struct {
	mark     tictactoe.Mark
	opponent tictactoe.Mark
}

func New(mark tictactoe.Mark) (*Engine, error) {
	if mark != tictactoe.X && mark != tictactoe.O {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidMark, mark)
	}

	return &Engine{
		mark:     mark,
		opponent: mark.Opponent(),
	}, nil
}

func (that *Engine) Mark() tictactoe.Mark {
	return that.mark
}

// FindBestMove returns the move to play, or tictactoe.NoMove on a full board.
// The state is passed by value and never modified.
func (that *Engine) FindBestMove(state tictactoe.GameState) tictactoe.Move {
	moves := state.LegalMoves()

	switch len(moves) {
	case 0:
		return tictactoe.NoMove
	case 1:
		return moves[0]
	}

	if move, ok := WinningMove(state, that.mark); ok {
		return move
	}

	if move, ok := WinningMove(state, that.opponent); ok {
		return move
	}

	return that.breakTie(state, bestMoves(that.Analyze(state)))
}

// Analyze scores every legal move in row-major order. Each root move gets a
// fresh window, so the scores are exact and can be compared for ties.
func (that *Engine) Analyze(state tictactoe.GameState) []ScoredMove {
	moves := state.LegalMoves()
	scored := make([]ScoredMove, 0, len(moves))

	for _, move := range moves {
		next := state
		if err := next.ApplyMove(move.Row, move.Col); err != nil {
			continue
		}

		scored = append(scored, ScoredMove{
			Move:  move,
			Score: that.minimax(next, 0, math.MinInt, math.MaxInt),
		})
	}

	return scored
}

// minimax scores state from the engine's point of view. Faster wins and
// slower losses score higher.
func (that *Engine) minimax(state tictactoe.GameState, depth, alpha, beta int) int {
	switch state.Winner() {
	case that.mark:
		return winScore - depth
	case that.opponent:
		return depth - winScore
	}

	if state.IsDraw() {
		return 0
	}

	if depth >= maxDepth {
		return that.Evaluate(state)
	}

	if state.CurrentPlayer() == that.mark {
		best := math.MinInt
		for _, move := range state.LegalMoves() {
			next := state
			if err := next.ApplyMove(move.Row, move.Col); err != nil {
				continue
			}

			score := that.minimax(next, depth+1, alpha, beta)
			best = max(best, score)
			alpha = max(alpha, score)

			if beta <= alpha {
				break
			}
		}

		return best
	}

	best := math.MaxInt
	for _, move := range state.LegalMoves() {
		next := state
		if err := next.ApplyMove(move.Row, move.Col); err != nil {
			continue
		}

		score := that.minimax(next, depth+1, alpha, beta)
		best = min(best, score)
		beta = min(beta, score)

		if beta <= alpha {
			break
		}
	}

	return best
}

// WinningMove returns the first legal move, in row-major order, with which
// mark would complete a line.
func WinningMove(state tictactoe.GameState, mark tictactoe.Mark) (tictactoe.Move, bool) {
	for _, move := range state.LegalMoves() {
		if state.CompletesLine(move, mark) {
			return move, true
		}
	}

	return tictactoe.NoMove, false
}

func bestMoves(scored []ScoredMove) []tictactoe.Move {
	best := math.MinInt
	for _, candidate := range scored {
		best = max(best, candidate.Score)
	}

	moves := make([]tictactoe.Move, 0, len(scored))
	for _, candidate := range scored {
		if candidate.Score == best {
			moves = append(moves, candidate.Move)
		}
	}

	return moves
}
