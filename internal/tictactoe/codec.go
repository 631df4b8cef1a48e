package tictactoe

import (
	"encoding/json"
	"fmt"
	"strings"
)

type stateJSON struct {
	Board     [Size][Size]Mark `json:"board"`
	Turn      Mark             `json:"turn"`
	MoveCount int              `json:"move_count"`
}

func (that GameState) MarshalJSON() ([]byte, error) {
	return json.Marshal(stateJSON{
		Board:     that.grid,
		Turn:      that.CurrentPlayer(),
		MoveCount: that.moveCount,
	})
}

func (that *GameState) UnmarshalJSON(data []byte) error {
	var raw stateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to unmarshal game state: %w", err)
	}

	state, err := FromGrid(raw.Board)
	if err != nil {
		return err
	}

	if raw.Turn != Empty && raw.Turn != state.CurrentPlayer() {
		return fmt.Errorf("%w: turn %q does not match board", ErrInvalidState, raw.Turn)
	}

	*that = state

	return nil
}

// Parse reads a board written row by row with X, O and "." for empty cells.
// Whitespace and "/" are ignored, so "XX./OO./..." and the output of String
// are both accepted.
func Parse(board string) (GameState, error) {
	var grid [Size][Size]Mark

	cell := 0
	for _, ch := range board {
		if ch == ' ' || ch == '\n' || ch == '\t' || ch == '/' {
			continue
		}

		if cell >= Size*Size {
			return GameState{}, fmt.Errorf("%w: more than %d cells", ErrInvalidState, Size*Size)
		}

		var mark Mark
		switch ch {
		case 'X', 'x':
			mark = X
		case 'O', 'o':
			mark = O
		case '.', '-', '_':
			mark = Empty
		default:
			return GameState{}, fmt.Errorf("%w: unexpected %q", ErrInvalidState, ch)
		}

		grid[cell/Size][cell%Size] = mark
		cell++
	}

	if cell != Size*Size {
		return GameState{}, fmt.Errorf("%w: got %d cells", ErrInvalidState, cell)
	}

	return FromGrid(grid)
}

// MustParse is Parse for fixed boards known to be valid.
func MustParse(board string) GameState {
	state, err := Parse(board)
	if err != nil {
		panic(fmt.Sprintf("tictactoe: %v in %s", err, strings.TrimSpace(board)))
	}

	return state
}
