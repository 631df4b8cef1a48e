package apperror

import "errors"

var (
	ErrGameFinished      = errors.New("game is already finished")
	ErrGameIsNotStarted  = errors.New("game is not started")
	ErrNotYourTurn       = errors.New("it's not your turn")
	ErrNoActiveGame      = errors.New("no active game")
	ErrCellOccupied      = errors.New("cell is already occupied")
	ErrInvalidCell       = errors.New("invalid cell")
	ErrGameAlreadyExists = errors.New("game already exists")
	ErrGameIsFull        = errors.New("game is full")
	ErrNotFound          = errors.New("not found")
	ErrInvalidMode       = errors.New("invalid game mode")
	ErrInvalidMark       = errors.New("invalid mark")
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	ErrInvalidPlayerID   = errors.New("invalid player id")
)
