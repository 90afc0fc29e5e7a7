package apperror

import (
	"errors"
	"fmt"
)

// ErrInvalidMove is the only error kind a move can fail with. Every specific cause wraps it.
var ErrInvalidMove = errors.New("invalid move")

var (
	ErrGameFinished = fmt.Errorf("%w: game is already finished", ErrInvalidMove)
	ErrNotYourTurn  = fmt.Errorf("%w: it's not your turn", ErrInvalidMove)
	ErrCellOccupied = fmt.Errorf("%w: cell is already occupied", ErrInvalidMove)
	ErrInvalidCell  = fmt.Errorf("%w: invalid cell index", ErrInvalidMove)
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrInvalidMode      = errors.New("invalid game mode")
	ErrNoAvailableMoves = errors.New("no available moves")
)
