package ecs

// EventType names an event kind.
type EventType string

const (
	// EventPlayerMoved is pushed once per turn after the player has moved
	// (or waited). Data is PlayerMoved.
	EventPlayerMoved EventType = "player_moved"
	// EventCaught is pushed when an opponent ends its move on the player.
	// Data is Caught.
	EventCaught EventType = "caught"
)

// Event is a queued world event.
type Event struct {
	Type EventType
	Data any
}

// PlayerMoved carries the player's world position after its turn.
type PlayerMoved struct {
	Entity Entity
	Turn   int
	X, Y   float64
}

// Caught names the opponent that reached the player.
type Caught struct {
	Opponent Entity
	ID       string
	Turn     int
}

// EventQueue is a FIFO queue flushed at the end of every world update.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Take removes and returns the events of type t, leaving the rest queued in
// their original order.
func (q *EventQueue) Take(t EventType) []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	var out []Event
	kept := q.items[:0]
	for _, evt := range q.items {
		if evt.Type == t {
			out = append(out, evt)
			continue
		}
		kept = append(kept, evt)
	}
	for i := len(kept); i < len(q.items); i++ {
		q.items[i] = Event{}
	}
	q.items = kept
	return out
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
