package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-ai/internal/tictactoe"
)

func newEngine(t *testing.T, mark tictactoe.Mark) *Engine {
	t.Helper()

	engine, err := New(mark)
	require.NoError(t, err)

	return engine
}

func TestNew(t *testing.T) {
	t.Run("Accepts X and O", func(t *testing.T) {
		assert.Equal(t, tictactoe.X, newEngine(t, tictactoe.X).Mark())
		assert.Equal(t, tictactoe.O, newEngine(t, tictactoe.O).Mark())
	})

	t.Run("Rejects Empty", func(t *testing.T) {
		engine, err := New(tictactoe.Empty)

		require.ErrorIs(t, err, ErrInvalidMark)
		assert.Nil(t, engine)
	})
}

func TestEngine_FindBestMove(t *testing.T) {
	t.Run("Takes the center on an empty board", func(t *testing.T) {
		// Given: an empty board and an engine playing X
		engine := newEngine(t, tictactoe.X)

		// When: asking for the first move
		move := engine.FindBestMove(tictactoe.New())

		// Then: the center is chosen
		assert.Equal(t, tictactoe.Move{Row: 1, Col: 1}, move)
	})

	t.Run("Answers a corner opening with the center", func(t *testing.T) {
		// Given: X opened in a corner
		state := tictactoe.MustParse("X../.../...")
		engine := newEngine(t, tictactoe.O)

		// When: O looks for its reply
		move := engine.FindBestMove(state)

		// Then: the center is the reply
		assert.Equal(t, tictactoe.Move{Row: 1, Col: 1}, move)
	})

	t.Run("Takes a corner when the opponent holds the center", func(t *testing.T) {
		// Given: X opened in the center
		state := tictactoe.MustParse(".../.X./...")
		engine := newEngine(t, tictactoe.O)

		// When: O looks for its reply
		move := engine.FindBestMove(state)

		// Then: the first corner is chosen
		assert.Equal(t, tictactoe.Move{Row: 0, Col: 0}, move)
	})

	t.Run("Takes an immediate win", func(t *testing.T) {
		// Given: X X . / O O . / . . . with X to move
		state := tictactoe.MustParse("XX./OO./...")
		engine := newEngine(t, tictactoe.X)

		// When: X looks for its move
		move := engine.FindBestMove(state)

		// Then: X completes the top row
		assert.Equal(t, tictactoe.Move{Row: 0, Col: 2}, move)
	})

	t.Run("Takes a vertical win", func(t *testing.T) {
		state := tictactoe.MustParse("XOO/X../...")

		move := newEngine(t, tictactoe.X).FindBestMove(state)

		assert.Equal(t, tictactoe.Move{Row: 2, Col: 0}, move)
	})

	t.Run("Takes a diagonal win", func(t *testing.T) {
		state := tictactoe.MustParse("XOO/.X./...")

		move := newEngine(t, tictactoe.X).FindBestMove(state)

		assert.Equal(t, tictactoe.Move{Row: 2, Col: 2}, move)
	})

	t.Run("Blocks the opponent when it cannot win", func(t *testing.T) {
		// Given: X X . / O . . / . . . with O to move
		state := tictactoe.MustParse("XX./O../...")
		engine := newEngine(t, tictactoe.O)

		// When: O looks for its move
		move := engine.FindBestMove(state)

		// Then: O blocks the top row
		assert.Equal(t, tictactoe.Move{Row: 0, Col: 2}, move)
	})

	t.Run("Prefers its own win over a block", func(t *testing.T) {
		// Given: X X . / O O . / X . . with O to move; X threatens (0,2), O can finish row 1
		state := tictactoe.MustParse("XX./OO./X..")
		engine := newEngine(t, tictactoe.O)

		// When: O looks for its move
		move := engine.FindBestMove(state)

		// Then: O wins instead of blocking
		assert.Equal(t, tictactoe.Move{Row: 1, Col: 2}, move)

		next := state
		require.NoError(t, next.ApplyMove(move.Row, move.Col))
		assert.Equal(t, tictactoe.O, next.Winner())
	})

	t.Run("Blocks the first threat in row-major order", func(t *testing.T) {
		// Given: X O O / X X . / . . . where X has three threats
		state := tictactoe.MustParse("XOO/XX./...")
		engine := newEngine(t, tictactoe.O)

		// When: O looks for its move
		move := engine.FindBestMove(state)

		// Then: the first threatened cell is blocked
		assert.Equal(t, tictactoe.Move{Row: 1, Col: 2}, move)
	})

	t.Run("Plays the only legal move", func(t *testing.T) {
		// Given: a board with a single empty cell
		state := tictactoe.MustParse("OXO/XXO/O.X")
		engine := newEngine(t, tictactoe.X)

		// When: X looks for its move
		move := engine.FindBestMove(state)

		// Then: the last cell is returned
		assert.Equal(t, tictactoe.Move{Row: 2, Col: 1}, move)
	})

	t.Run("Returns NoMove on a full board", func(t *testing.T) {
		// Given: a drawn board
		state := tictactoe.MustParse("XOX/XOO/OXX")
		require.True(t, state.IsDraw())

		// When: either engine looks for a move
		moveX := newEngine(t, tictactoe.X).FindBestMove(state)
		moveO := newEngine(t, tictactoe.O).FindBestMove(state)

		// Then: the sentinel comes back
		assert.Equal(t, tictactoe.NoMove, moveX)
		assert.Equal(t, tictactoe.Move{Row: -1, Col: -1}, moveO)
	})

	t.Run("Returns a legal move on an already decided board", func(t *testing.T) {
		// Given: X has already won
		state := tictactoe.MustParse("XXX/OO./...")
		require.Equal(t, tictactoe.X, state.Winner())

		// When: O is asked for a move anyway
		move := newEngine(t, tictactoe.O).FindBestMove(state)

		// Then: the move is one of the empty cells
		assert.Contains(t, state.LegalMoves(), move)
	})

	t.Run("Does not modify the caller's state", func(t *testing.T) {
		state := tictactoe.MustParse("X../.O./..X")
		before := state

		newEngine(t, tictactoe.O).FindBestMove(state)

		assert.Equal(t, before, state)
	})

	t.Run("Finishes the empty board search quickly", func(t *testing.T) {
		engine := newEngine(t, tictactoe.X)

		start := time.Now()
		move := engine.FindBestMove(tictactoe.New())

		assert.Less(t, time.Since(start), 5*time.Second)
		assert.True(t, move.InBounds())
	})
}

func TestEngine_SelfPlayDraws(t *testing.T) {
	// Given: two engines, one per side
	engines := map[tictactoe.Mark]*Engine{
		tictactoe.X: newEngine(t, tictactoe.X),
		tictactoe.O: newEngine(t, tictactoe.O),
	}
	state := tictactoe.New()

	// When: they play each other to the end
	for !state.IsOver() {
		move := engines[state.CurrentPlayer()].FindBestMove(state)
		require.NoError(t, state.ApplyMove(move.Row, move.Col), state.String())
	}

	// Then: the game is a draw
	assert.True(t, state.IsDraw(), state.String())
}

func TestEngine_NeverLoses(t *testing.T) {
	if testing.Short() {
		t.Skip("exhaustive game tree walk")
	}

	for _, mark := range []tictactoe.Mark{tictactoe.X, tictactoe.O} {
		t.Run(mark.String(), func(t *testing.T) {
			// Given: an engine and every possible line of play by its opponent
			engine := newEngine(t, mark)

			// When: all games are played out
			games := walkGames(t, engine, tictactoe.New())

			// Then: none of them was lost
			assert.Positive(t, games)
		})
	}
}

// walkGames plays every opponent reply against the engine's choices and fails
// on the first lost game. It returns the number of finished games.
func walkGames(t *testing.T, engine *Engine, state tictactoe.GameState) int {
	t.Helper()

	if state.IsOver() {
		if state.Winner() == engine.opponent {
			t.Fatalf("engine %s lost:\n%s", engine.Mark(), state)
		}

		return 1
	}

	if state.CurrentPlayer() == engine.Mark() {
		move := engine.FindBestMove(state)
		if err := state.ApplyMove(move.Row, move.Col); err != nil {
			t.Fatalf("engine chose illegal move %s: %v\n%s", move, err, state)
		}

		return walkGames(t, engine, state)
	}

	games := 0
	for _, move := range state.LegalMoves() {
		next := state
		if err := next.ApplyMove(move.Row, move.Col); err != nil {
			t.Fatalf("legal move %s rejected: %v", move, err)
		}

		games += walkGames(t, engine, next)
	}

	return games
}

func TestEngine_Analyze(t *testing.T) {
	t.Run("Every opening draws with perfect play", func(t *testing.T) {
		scored := newEngine(t, tictactoe.X).Analyze(tictactoe.New())

		require.Len(t, scored, 9)
		for _, candidate := range scored {
			assert.Zero(t, candidate.Score, candidate.Move.String())
		}
	})

	t.Run("An immediate win scores highest", func(t *testing.T) {
		scored := newEngine(t, tictactoe.X).Analyze(tictactoe.MustParse("XX./OO./..."))

		require.NotEmpty(t, scored)
		assert.Equal(t, ScoredMove{Move: tictactoe.Move{Row: 0, Col: 2}, Score: winScore}, scored[0])
		for _, candidate := range scored[1:] {
			assert.Less(t, candidate.Score, winScore)
		}
	})

	t.Run("Edge replies to a center opening lose", func(t *testing.T) {
		scored := newEngine(t, tictactoe.O).Analyze(tictactoe.MustParse(".../.X./..."))

		for _, candidate := range scored {
			if isCorner(candidate.Move) {
				assert.Zero(t, candidate.Score, candidate.Move.String())
			} else {
				assert.Negative(t, candidate.Score, candidate.Move.String())
			}
		}
	})
}

func TestEngine_Evaluate(t *testing.T) {
	t.Run("Empty board is neutral", func(t *testing.T) {
		assert.Zero(t, newEngine(t, tictactoe.X).Evaluate(tictactoe.New()))
	})

	t.Run("Scores open lines by mark count", func(t *testing.T) {
		// Given: X X . / O O . / . . .
		// row 0 is X's two-in-line (+10), row 1 is O's (-10), the anti diagonal holds one O (-1)
		state := tictactoe.MustParse("XX./OO./...")

		assert.Equal(t, -1, newEngine(t, tictactoe.X).Evaluate(state))
		assert.Equal(t, 1, newEngine(t, tictactoe.O).Evaluate(state))
	})

	t.Run("Completed line scores a hundred", func(t *testing.T) {
		// row 0 +100, col 2 +1, anti diagonal mixed, row 1 -10, col 0/1 mixed, main diagonal mixed
		state := tictactoe.MustParse("XXX/OO./...")

		assert.Equal(t, 91, newEngine(t, tictactoe.X).Evaluate(state))
	})
}

func TestEngine_breakTie(t *testing.T) {
	engine := newEngine(t, tictactoe.X)

	t.Run("Center first", func(t *testing.T) {
		candidates := []tictactoe.Move{{Row: 0, Col: 0}, {Row: 1, Col: 1}}

		assert.Equal(t, center, engine.breakTie(tictactoe.New(), candidates))
	})

	t.Run("Corner when the opponent holds the center", func(t *testing.T) {
		state := tictactoe.MustParse("X../.O./...")
		candidates := []tictactoe.Move{{Row: 0, Col: 1}, {Row: 2, Col: 0}, {Row: 2, Col: 2}}

		assert.Equal(t, tictactoe.Move{Row: 2, Col: 0}, engine.breakTie(state, candidates))
	})

	t.Run("Highest positional weight, first found on ties", func(t *testing.T) {
		candidates := []tictactoe.Move{{Row: 0, Col: 1}, {Row: 2, Col: 0}, {Row: 2, Col: 2}}

		assert.Equal(t, tictactoe.Move{Row: 2, Col: 0}, engine.breakTie(tictactoe.New(), candidates))
	})

	t.Run("Single candidate", func(t *testing.T) {
		candidates := []tictactoe.Move{{Row: 1, Col: 0}}

		assert.Equal(t, tictactoe.Move{Row: 1, Col: 0}, engine.breakTie(tictactoe.New(), candidates))
	})
}

func TestPositionWeight(t *testing.T) {
	assert.Equal(t, 4, PositionWeight(tictactoe.Move{Row: 1, Col: 1}))
	assert.Equal(t, 3, PositionWeight(tictactoe.Move{Row: 2, Col: 2}))
	assert.Equal(t, 1, PositionWeight(tictactoe.Move{Row: 1, Col: 2}))
	assert.Zero(t, PositionWeight(tictactoe.NoMove))
}

func TestWinningMove(t *testing.T) {
	state := tictactoe.MustParse("XX./OO./...")

	move, ok := WinningMove(state, tictactoe.O)
	require.True(t, ok)
	assert.Equal(t, tictactoe.Move{Row: 1, Col: 2}, move)

	_, ok = WinningMove(tictactoe.New(), tictactoe.X)
	assert.False(t, ok)
}
