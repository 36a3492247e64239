package component

import (
	"errors"
	"fmt"
	"strings"
)

// Direction is a single player move.
type Direction string

const (
	DirWait  Direction = "wait"
	DirUp    Direction = "up"
	DirRight Direction = "right"
	DirDown  Direction = "down"
	DirLeft  Direction = "left"
)

// Offset returns the tile delta of d. Unknown directions do not move.
func (d Direction) Offset() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirRight:
		return 1, 0
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	default:
		return 0, 0
	}
}

// Valid reports whether d is one of the known directions.
func (d Direction) Valid() bool {
	switch d {
	case DirWait, DirUp, DirRight, DirDown, DirLeft:
		return true
	}
	return false
}

// PlayerControl drives the player. A non-empty Script names a tengo script
// that picks every move; otherwise Moves is replayed in order and the player
// waits once it runs out.
type PlayerControl struct {
	Script string
	Moves  []Direction
	Cursor int
	Last   Direction
}

var PlayerControlComponent = NewComponent[PlayerControl]()

var ErrUnknownDirection = errors.New("component: unknown direction")

// ParseDirection accepts the lower-case direction names. An empty string is
// a wait.
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	if d == "" {
		return DirWait, nil
	}
	if !d.Valid() {
		return DirWait, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
	}
	return d, nil
}
