package apperror

import "errors"

var (
	ErrRoundFinished      = errors.New("round is already finished")
	ErrCellOccupied       = errors.New("cell is already occupied")
	ErrInvalidCell        = errors.New("invalid cell")
	ErrInvalidRules       = errors.New("invalid rules")
	ErrCorruptMatch       = errors.New("corrupt match snapshot")
	ErrMatchNotFound      = errors.New("match not found")
	ErrPlayerNameRequired = errors.New("player name is required")
	ErrUnknownMode        = errors.New("unknown game mode")
)
