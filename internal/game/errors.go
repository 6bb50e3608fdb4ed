package game

import "errors"

// Guard errors. Each is returned before anything is written.
var (
	ErrNoCourse       = errors.New("no course selected")
	ErrNoHoles        = errors.New("selected course has no holes")
	ErrNoPlayers      = errors.New("no players selected")
	ErrNotActive      = errors.New("no active game")
	ErrAlreadyActive  = errors.New("game already started")
	ErrUnknownHole    = errors.New("hole is not part of this game")
	ErrCourseNotFound = errors.New("course not found")
	ErrPlayerNotFound = errors.New("player not found")
	ErrGameNotFound   = errors.New("game not found")
)
