package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

type OpponentTag struct{}

var OpponentTagComponent = NewComponent[OpponentTag]()
