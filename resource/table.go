package resource

import (
	"sync"
)

// Table maps a client's object ids to values and runs destructors on removal.
type Table struct {
	backend   *LocalBackend
	observers []Observer
	obsMu     sync.RWMutex
	closed    bool
	closeMu   sync.RWMutex
}

// NewTable creates a new table holding at most limit live objects.
// limit <= 0 means no limit.
func NewTable(limit int) *Table {
	return &Table{
		backend: NewLocalBackend(limit),
	}
}

// Insert stores value under id.
func (t *Table) Insert(id ID, iface string, value any) error {
	t.closeMu.RLock()
	if t.closed {
		t.closeMu.RUnlock()
		return ErrClosed
	}
	t.closeMu.RUnlock()

	if err := t.backend.Create(id, iface, value); err != nil {
		return err
	}

	t.notify(Event{
		Type:      EventCreated,
		ID:        id,
		Interface: iface,
		Value:     value,
	})

	return nil
}

// Get retrieves a value by id.
func (t *Table) Get(id ID) (any, bool) {
	return t.backend.Get(id)
}

// GetTyped retrieves a value only if it was created with the expected interface.
func (t *Table) GetTyped(id ID, iface string) (any, bool) {
	actual, ok := t.backend.Interface(id)
	if !ok || actual != iface {
		return nil, false
	}
	return t.backend.Get(id)
}

// Remove drops an object, runs its destructor and returns (value, true) if found.
func (t *Table) Remove(id ID) (any, bool) {
	iface, _ := t.backend.Interface(id)
	value, ok := t.backend.Drop(id)
	if !ok {
		return nil, false
	}

	if d, ok := value.(Dropper); ok {
		d.Drop()
	}

	t.notify(Event{
		Type:      EventDestroyed,
		ID:        id,
		Interface: iface,
		Value:     value,
	})

	return value, true
}

// Subscribe adds an observer for lifecycle events.
func (t *Table) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *Table) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Len returns the number of live objects.
func (t *Table) Len() int {
	return t.backend.Len()
}

// Each iterates over all live objects in id order.
func (t *Table) Each(fn func(ID, string, any) bool) {
	t.backend.Each(fn)
}

// Clear destroys all objects in id order.
func (t *Table) Clear() {
	// Collect ids first to avoid holding the lock during Remove
	var ids []ID
	t.backend.Each(func(id ID, _ string, _ any) bool {
		ids = append(ids, id)
		return true
	})
	for _, id := range ids {
		t.Remove(id)
	}
}

// Close destroys all objects and stops accepting new ones.
func (t *Table) Close() error {
	t.closeMu.Lock()
	if t.closed {
		t.closeMu.Unlock()
		return nil
	}
	t.closed = true
	t.closeMu.Unlock()

	t.Clear()
	return t.backend.Close()
}

func (t *Table) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnResourceEvent(e)
	}
}
