package resource

// ID is a protocol object id chosen by the client.
// ID 0 is reserved and always invalid.
type ID uint32

// Event types for object lifecycle notifications.
type EventType uint8

const (
	EventCreated EventType = iota
	EventDestroyed
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// Event represents an object lifecycle event.
type Event struct {
	Value     any
	Interface string
	ID        ID
	Type      EventType
}

// Observer receives notifications about object lifecycle events.
type Observer interface {
	OnResourceEvent(Event)
}

// Backend provides the underlying storage mechanism for objects.
type Backend interface {
	// Create stores a value under a client-chosen id.
	Create(id ID, iface string, value any) error

	// Get retrieves a value by id.
	Get(id ID) (any, bool)

	// Drop removes an object and returns (value, true) if the destructor should run.
	Drop(id ID) (any, bool)

	// Close releases all objects held by the backend.
	Close() error
}

// Dropper is optionally implemented by stored values that need cleanup.
type Dropper interface {
	Drop()
}
