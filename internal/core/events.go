package core

// EventKind identifies something that happened during a tick.
// The platform uses events for audio cues and result bookkeeping.
type EventKind int

const (
	EventThrust   EventKind = iota // Thrust pressed (edge, not level)
	EventStart                     // Run left the idle phase
	EventPass                      // Vehicle cleared an obstacle pair
	EventHit                       // A life was lost
	EventDead                      // Last life lost
	EventRevive                    // Dead session revived
	EventComplete                  // Goal reached
)

// String returns a short name for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventThrust:
		return "thrust"
	case EventStart:
		return "start"
	case EventPass:
		return "pass"
	case EventHit:
		return "hit"
	case EventDead:
		return "dead"
	case EventRevive:
		return "revive"
	case EventComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Event is a single occurrence with an optional numeric payload
// (remaining lives for hits, stars for completion, score for passes).
type Event struct {
	Kind  EventKind
	Value int
}

// HasEvent reports whether events contains at least one of kind.
func HasEvent(events []Event, kind EventKind) bool {
	for _, e := range events {
		if e.Kind == kind {
			return true
		}
	}
	return false
}
