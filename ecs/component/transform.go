package component

// Transform is a world-space position. Grid entities keep it at a tile
// center, but nothing requires that.
type Transform struct {
	X float64
	Y float64
}

var TransformComponent = NewComponent[Transform]()
