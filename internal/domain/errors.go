package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrRoomNotFound is returned when no live game matches a PIN.
	ErrRoomNotFound = errors.New("game not found")
	// ErrInvalidName is returned when a join name sanitizes to nothing.
	ErrInvalidName = errors.New("invalid player name")
	// ErrNameTaken is returned when a name is already in use in the room.
	ErrNameTaken = errors.New("name taken")
)
