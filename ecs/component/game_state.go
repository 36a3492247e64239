package component

// GameState is the singleton outcome of a run.
type GameState struct {
	Caught     bool
	CaughtBy   string
	CaughtTurn int
	PlayerTurn int
}

var GameStateComponent = NewComponent[GameState]()
