package tictactoe

import (
	"errors"
	"fmt"
)

var ErrInvalidMark = errors.New("invalid mark")

// Mark is the content of a board cell and the identity of a side.
type Mark uint8

const (
	Empty Mark = iota
	X
	O
)

// Opponent returns the other side. Empty has no opponent.
func (that Mark) Opponent() Mark {
	switch that {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

func (that Mark) String() string {
	switch that {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return ""
	}
}

func (that Mark) MarshalText() ([]byte, error) {
	if that > O {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMark, that)
	}

	return []byte(that.String()), nil
}

func (that *Mark) UnmarshalText(text []byte) error {
	mark, err := ParseMark(string(text))
	if err != nil {
		return err
	}

	*that = mark

	return nil
}

// ParseMark - converts "X", "O" or "" into a Mark.
func ParseMark(value string) (Mark, error) {
	switch value {
	case "X", "x":
		return X, nil
	case "O", "o":
		return O, nil
	case "":
		return Empty, nil
	default:
		return Empty, fmt.Errorf("%w: %q", ErrInvalidMark, value)
	}
}
