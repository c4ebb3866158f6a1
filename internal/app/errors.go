package app

import "errors"

var (
	ErrNoGame            = errors.New("no game has been initialized")
	ErrWrongPlayerCount  = errors.New("exactly four players are required")
	ErrUnknownPlayer     = errors.New("player not found")
	ErrMatchStillRunning = errors.New("current match has not ended")
	ErrGameOver          = errors.New("game is over")
)
