package tictactoe

import (
	"errors"
	"fmt"
	"strings"
)

const Size = 3

var (
	ErrCellOccupied = errors.New("cell is already occupied")
	ErrInvalidCell  = errors.New("invalid cell index")
	ErrInvalidState = errors.New("invalid game state")
)

// Move is a board coordinate.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// NoMove is returned when there is nothing left to play.
var NoMove = Move{Row: -1, Col: -1}

func (that Move) InBounds() bool {
	return that.Row >= 0 && that.Row < Size && that.Col >= 0 && that.Col < Size
}

func (that Move) String() string {
	return fmt.Sprintf("(%d,%d)", that.Row, that.Col)
}

// Lines are the 8 winning lines: rows, columns, then both diagonals.
var Lines = [8][3]Move{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// GameState is a 3x3 board plus the side to move. It is a plain value:
// assigning it copies the whole board, which is how hypothetical positions
// are explored. The zero value is an empty board with X to move.
type GameState struct {
	grid      [Size][Size]Mark
	moveCount int
}

// New returns an empty board with X to move.
func New() GameState {
	return GameState{}
}

// FromGrid builds a state from a board, deriving the side to move.
// X moves first, so X must have as many marks as O or exactly one more.
func FromGrid(grid [Size][Size]Mark) (GameState, error) {
	var xCount, oCount int

	for _, row := range grid {
		for _, cell := range row {
			switch cell {
			case X:
				xCount++
			case O:
				oCount++
			case Empty:
			default:
				return GameState{}, fmt.Errorf("%w: %w", ErrInvalidState, ErrInvalidMark)
			}
		}
	}

	if xCount != oCount && xCount != oCount+1 {
		return GameState{}, fmt.Errorf("%w: %d X marks against %d O marks", ErrInvalidState, xCount, oCount)
	}

	return GameState{grid: grid, moveCount: xCount + oCount}, nil
}

// Reset - clears the board and gives the move back to X.
func (that *GameState) Reset() {
	*that = New()
}

// ApplyMove - places the mark of the side to move and passes the turn.
// The state is left untouched when the move is rejected.
func (that *GameState) ApplyMove(row, col int) error {
	move := Move{Row: row, Col: col}
	if !move.InBounds() {
		return fmt.Errorf("%w: %s", ErrInvalidCell, move)
	}

	if that.grid[row][col] != Empty {
		return fmt.Errorf("%w: %s", ErrCellOccupied, move)
	}

	that.grid[row][col] = that.CurrentPlayer()
	that.moveCount++

	return nil
}

func (that GameState) At(row, col int) Mark {
	if !(Move{Row: row, Col: col}).InBounds() {
		return Empty
	}

	return that.grid[row][col]
}

// CurrentPlayer - X moves on even move counts, O on odd ones.
func (that GameState) CurrentPlayer() Mark {
	if that.moveCount%2 == 1 {
		return O
	}

	return X
}

func (that GameState) MoveCount() int {
	return that.moveCount
}

func (that GameState) Grid() [Size][Size]Mark {
	return that.grid
}

func (that GameState) IsWinner(mark Mark) bool {
	if mark == Empty {
		return false
	}

	for _, line := range Lines {
		if that.lineOwnedBy(line, mark) {
			return true
		}
	}

	return false
}

// Winner returns X or O when that side has a full line, Empty otherwise.
func (that GameState) Winner() Mark {
	switch {
	case that.IsWinner(X):
		return X
	case that.IsWinner(O):
		return O
	default:
		return Empty
	}
}

func (that GameState) IsDraw() bool {
	return that.moveCount == Size*Size && that.Winner() == Empty
}

func (that GameState) IsOver() bool {
	return that.Winner() != Empty || that.IsDraw()
}

// LegalMoves lists the empty cells in row-major order.
func (that GameState) LegalMoves() []Move {
	moves := make([]Move, 0, Size*Size-that.moveCount)

	for row := range Size {
		for col := range Size {
			if that.grid[row][col] == Empty {
				moves = append(moves, Move{Row: row, Col: col})
			}
		}
	}

	return moves
}

// CompletesLine reports whether putting mark on the (empty) cell would finish
// one of the lines passing through that cell.
func (that GameState) CompletesLine(move Move, mark Mark) bool {
	if mark == Empty || !move.InBounds() || that.grid[move.Row][move.Col] != Empty {
		return false
	}

	probe := that.grid
	probe[move.Row][move.Col] = mark

	for _, line := range Lines {
		if !lineContains(line, move) {
			continue
		}

		if probe[line[0].Row][line[0].Col] == mark &&
			probe[line[1].Row][line[1].Col] == mark &&
			probe[line[2].Row][line[2].Col] == mark {
			return true
		}
	}

	return false
}

// String renders the board as three rows, "." for empty cells.
func (that GameState) String() string {
	var sb strings.Builder

	for row := range Size {
		if row > 0 {
			sb.WriteByte('\n')
		}

		for col := range Size {
			if col > 0 {
				sb.WriteByte(' ')
			}

			if cell := that.grid[row][col]; cell == Empty {
				sb.WriteByte('.')
			} else {
				sb.WriteString(cell.String())
			}
		}
	}

	return sb.String()
}

func (that GameState) lineOwnedBy(line [3]Move, mark Mark) bool {
	for _, cell := range line {
		if that.grid[cell.Row][cell.Col] != mark {
			return false
		}
	}

	return true
}

func lineContains(line [3]Move, move Move) bool {
	return line[0] == move || line[1] == move || line[2] == move
}
