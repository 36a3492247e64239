package ecs

import "strconv"

// Entity packs an id in the low 32 bits and a generation in the high 32.
// A destroyed id is reused with a bumped generation, so stale handles stop
// matching.
type Entity uint64

type entityID uint32
type generation uint32

const entityIDBits = 32

func makeEntity(id entityID, gen generation) Entity {
	return Entity(uint64(gen)<<entityIDBits | uint64(id))
}

func (e Entity) id() entityID {
	return entityID(uint32(e))
}

func (e Entity) generation() generation {
	return generation(uint32(uint64(e) >> entityIDBits))
}

func (e Entity) String() string {
	return strconv.FormatUint(uint64(e.id()), 10) + "v" + strconv.FormatUint(uint64(e.generation()), 10)
}

// Valid reports whether e could name an entity. It says nothing about
// whether that entity is still alive.
func (e Entity) Valid() bool {
	return e.id() > 0
}
