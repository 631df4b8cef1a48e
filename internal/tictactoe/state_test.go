package tictactoe

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	// When: create a new game state
	state := New()

	// Then: the board is empty and X moves first
	assert.Equal(t, X, state.CurrentPlayer())
	assert.Equal(t, 0, state.MoveCount())
	assert.Equal(t, Empty, state.Winner())
	assert.False(t, state.IsDraw())
	assert.Len(t, state.LegalMoves(), 9)

	for row := range Size {
		for col := range Size {
			assert.Equal(t, Empty, state.At(row, col))
		}
	}
}

func TestGameState_ApplyMove(t *testing.T) {
	t.Run("Places marks and alternates turns", func(t *testing.T) {
		// Given: a new game state
		state := New()

		// When: X and O make their moves
		require.NoError(t, state.ApplyMove(0, 0))
		require.NoError(t, state.ApplyMove(1, 1))

		// Then: both marks are on the board and it is X's turn again
		assert.Equal(t, X, state.At(0, 0))
		assert.Equal(t, O, state.At(1, 1))
		assert.Equal(t, X, state.CurrentPlayer())
		assert.Equal(t, 2, state.MoveCount())
		assert.Len(t, state.LegalMoves(), 7)
	})

	t.Run("Current player follows parity of successful moves", func(t *testing.T) {
		// Given: a new game state
		state := New()

		for i, move := range []Move{{0, 0}, {0, 1}, {0, 2}, {1, 1}, {1, 0}, {1, 2}} {
			// When: the next move is applied
			require.NoError(t, state.ApplyMove(move.Row, move.Col))

			// Then: X is to move after an even number of moves, O after an odd number
			if (i+1)%2 == 0 {
				assert.Equal(t, X, state.CurrentPlayer())
			} else {
				assert.Equal(t, O, state.CurrentPlayer())
			}
		}
	})

	t.Run("Error on cell already occupied", func(t *testing.T) {
		// Given: a game where X took the center
		state := New()
		require.NoError(t, state.ApplyMove(1, 1))
		before := state

		// When: O tries the same cell twice
		firstErr := state.ApplyMove(1, 1)
		secondErr := state.ApplyMove(1, 1)

		// Then: both attempts fail and the state is unchanged
		require.ErrorIs(t, firstErr, ErrCellOccupied)
		require.ErrorIs(t, secondErr, ErrCellOccupied)
		require.Equal(t, before, state)
		assert.Equal(t, O, state.CurrentPlayer())
	})

	t.Run("Error on invalid cell", func(t *testing.T) {
		for _, move := range []Move{{-1, 0}, {0, -1}, {3, 0}, {0, 3}, {20, 20}} {
			// Given: a new game state
			state := New()

			// When: a move outside the board is applied
			err := state.ApplyMove(move.Row, move.Col)

			// Then: ErrInvalidCell is returned and nothing changes
			require.ErrorIs(t, err, ErrInvalidCell, move.String())
			require.Equal(t, New(), state)
		}
	})
}

func TestGameState_Reset(t *testing.T) {
	// Given: a game in progress
	state := MustParse("XO./.X./..O")

	// When: the game is reset
	state.Reset()

	// Then: it matches a fresh state
	assert.Equal(t, New(), state)
}

func TestGameState_IsWinner(t *testing.T) {
	for i, line := range Lines {
		for _, mark := range []Mark{X, O} {
			// Given: a board where one line belongs entirely to mark
			state := New()
			for _, cell := range line {
				state.grid[cell.Row][cell.Col] = mark
			}

			// Then: mark is the winner and its opponent is not
			assert.True(t, state.IsWinner(mark), "line %d mark %s", i, mark)
			assert.False(t, state.IsWinner(mark.Opponent()), "line %d mark %s", i, mark)
			assert.Equal(t, mark, state.Winner(), "line %d mark %s", i, mark)
		}
	}

	t.Run("Empty never wins", func(t *testing.T) {
		assert.False(t, New().IsWinner(Empty))
	})
}

func TestGameState_WinnerFromPlay(t *testing.T) {
	t.Run("Horizontal", func(t *testing.T) {
		state := play(t, Move{0, 0}, Move{1, 0}, Move{0, 1}, Move{1, 1}, Move{0, 2})
		assert.Equal(t, X, state.Winner())
		assert.False(t, state.IsDraw())
		assert.True(t, state.IsOver())
	})

	t.Run("Vertical", func(t *testing.T) {
		state := play(t, Move{1, 1}, Move{0, 0}, Move{1, 2}, Move{1, 0}, Move{2, 2}, Move{2, 0})
		assert.Equal(t, O, state.Winner())
	})

	t.Run("Anti diagonal", func(t *testing.T) {
		state := play(t, Move{0, 0}, Move{0, 2}, Move{0, 1}, Move{1, 1}, Move{1, 0}, Move{2, 0})
		assert.Equal(t, O, state.Winner())
	})
}

func TestGameState_IsDraw(t *testing.T) {
	// Given: a full board without a line
	state := play(t,
		Move{0, 0}, Move{0, 1}, Move{0, 2},
		Move{1, 0}, Move{1, 2}, Move{2, 0},
		Move{2, 1}, Move{2, 2}, Move{1, 1},
	)

	// Then: the game is a draw with no winner
	assert.True(t, state.IsDraw())
	assert.True(t, state.IsOver())
	assert.Equal(t, Empty, state.Winner())
	assert.False(t, state.IsWinner(X))
	assert.False(t, state.IsWinner(O))
	assert.Empty(t, state.LegalMoves())
}

func TestGameState_LegalMoves(t *testing.T) {
	// Given: a board with a few marks
	state := MustParse("X.O/.X./O..")

	// When: listing legal moves
	moves := state.LegalMoves()

	// Then: the empty cells come back in row-major order
	expected := []Move{{0, 1}, {1, 0}, {1, 2}, {2, 1}, {2, 2}}
	assert.Equal(t, expected, moves)
}

func TestGameState_CompletesLine(t *testing.T) {
	// Given: X X . / O O . / . . .
	state := MustParse("XX./OO./...")

	// Then: only the cells finishing a line through them count
	assert.True(t, state.CompletesLine(Move{0, 2}, X))
	assert.True(t, state.CompletesLine(Move{1, 2}, O))
	assert.False(t, state.CompletesLine(Move{1, 2}, X))
	assert.False(t, state.CompletesLine(Move{2, 2}, X))
	assert.False(t, state.CompletesLine(Move{0, 0}, X), "occupied cell")
	assert.False(t, state.CompletesLine(Move{3, 0}, X), "out of bounds")
	assert.False(t, state.CompletesLine(Move{0, 2}, Empty))

	// Then: the probe does not touch the board
	assert.Equal(t, Empty, state.At(0, 2))
}

func TestGameState_At(t *testing.T) {
	state := MustParse("X../.../...")

	assert.Equal(t, X, state.At(0, 0))
	assert.Equal(t, Empty, state.At(-1, 0))
	assert.Equal(t, Empty, state.At(0, 3))
}

func TestFromGrid(t *testing.T) {
	t.Run("Derives turn and move count", func(t *testing.T) {
		// Given: a grid with two X marks and one O mark
		grid := [Size][Size]Mark{{X, O, Empty}, {Empty, X, Empty}, {Empty, Empty, Empty}}

		// When: building the state
		state, err := FromGrid(grid)

		// Then: it is O's turn after three moves
		require.NoError(t, err)
		assert.Equal(t, O, state.CurrentPlayer())
		assert.Equal(t, 3, state.MoveCount())
		assert.Equal(t, grid, state.Grid())
	})

	t.Run("Grid is a copy", func(t *testing.T) {
		state := MustParse("X../.../...")

		grid := state.Grid()
		grid[0][0] = O

		assert.Equal(t, X, state.At(0, 0))
	})

	t.Run("Rejects impossible mark counts", func(t *testing.T) {
		grid := [Size][Size]Mark{{O, O, Empty}, {Empty, X, Empty}, {Empty, Empty, Empty}}

		_, err := FromGrid(grid)

		require.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("Rejects unknown marks", func(t *testing.T) {
		grid := [Size][Size]Mark{{Mark(7), Empty, Empty}}

		_, err := FromGrid(grid)

		require.ErrorIs(t, err, ErrInvalidState)
		require.ErrorIs(t, err, ErrInvalidMark)
	})
}

func TestParse(t *testing.T) {
	t.Run("Accepts its own rendering", func(t *testing.T) {
		state := MustParse("XO./.X./..O")

		parsed, err := Parse(state.String())

		require.NoError(t, err)
		assert.Equal(t, state, parsed)
		assert.Equal(t, "X O .\n. X .\n. . O", state.String())
	})

	t.Run("Rejects short boards", func(t *testing.T) {
		_, err := Parse("XO.")

		require.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("Rejects unknown symbols", func(t *testing.T) {
		_, err := Parse("XO?/.../...")

		require.ErrorIs(t, err, ErrInvalidState)
	})
}

func TestGameState_JSON(t *testing.T) {
	t.Run("Round trip", func(t *testing.T) {
		// Given: a game in progress
		state := MustParse("XO./.X./...")

		// When: encoding and decoding it
		data, err := json.Marshal(state)
		require.NoError(t, err)

		var decoded GameState
		require.NoError(t, json.Unmarshal(data, &decoded))

		// Then: the decoded state is identical
		assert.Equal(t, state, decoded)
		assert.JSONEq(t, `{"board":[["X","O",""],["","X",""],["","",""]],"turn":"O","move_count":3}`, string(data))
	})

	t.Run("Zero value decodes as a new game", func(t *testing.T) {
		var decoded GameState

		err := json.Unmarshal([]byte(`{"board":[["","",""],["","",""],["","",""]]}`), &decoded)

		require.NoError(t, err)
		assert.Equal(t, New(), decoded)
		assert.Equal(t, X, decoded.CurrentPlayer())
	})

	t.Run("Rejects turn that contradicts the board", func(t *testing.T) {
		var decoded GameState

		err := json.Unmarshal([]byte(`{"board":[["X","",""],["","",""],["","",""]],"turn":"X"}`), &decoded)

		require.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("Rejects unknown marks", func(t *testing.T) {
		var decoded GameState

		err := json.Unmarshal([]byte(`{"board":[["Z","",""],["","",""],["","",""]],"turn":"O"}`), &decoded)

		require.Error(t, err)
	})
}

func TestMark(t *testing.T) {
	assert.Equal(t, O, X.Opponent())
	assert.Equal(t, X, O.Opponent())
	assert.Equal(t, Empty, Empty.Opponent())

	mark, err := ParseMark("o")
	require.NoError(t, err)
	assert.Equal(t, O, mark)

	_, err = ParseMark("Z")
	require.ErrorIs(t, err, ErrInvalidMark)
}

func play(t *testing.T, moves ...Move) GameState {
	t.Helper()

	state := New()
	for _, move := range moves {
		require.NoError(t, state.ApplyMove(move.Row, move.Col))
	}

	return state
}
