package resource

import (
	"errors"
	"maps"
	"slices"
	"sync"
)

var (
	ErrClosed    = errors.New("object table closed")
	ErrInvalidID = errors.New("invalid object id")
	ErrIDInUse   = errors.New("object id already in use")
	ErrFull      = errors.New("object table full")
)

// LocalBackend is an in-memory object store keyed by client id.
type LocalBackend struct {
	entries map[ID]entry
	limit   int
	mu      sync.RWMutex
	closed  bool
}

type entry struct {
	value any
	iface string
}

// NewLocalBackend creates a new in-memory backend holding at most limit
// live objects. limit <= 0 means no limit.
func NewLocalBackend(limit int) *LocalBackend {
	return &LocalBackend{
		entries: make(map[ID]entry, 64),
		limit:   limit,
	}
}

// Create stores a value under id.
func (b *LocalBackend) Create(id ID, iface string, value any) error {
	if id == 0 {
		return ErrInvalidID
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}
	if _, ok := b.entries[id]; ok {
		return ErrIDInUse
	}
	if b.limit > 0 && len(b.entries) >= b.limit {
		return ErrFull
	}

	b.entries[id] = entry{
		value: value,
		iface: iface,
	}
	return nil
}

// Get retrieves a value by id.
func (b *LocalBackend) Get(id ID) (any, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e, ok := b.entries[id]
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Interface returns the interface name an id was created with.
func (b *LocalBackend) Interface(id ID) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e, ok := b.entries[id]
	if !ok {
		return "", false
	}
	return e.iface, true
}

// Drop removes an object and returns (value, true) if the destructor should run.
func (b *LocalBackend) Drop(id ID) (any, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.entries[id]
	if !ok {
		return nil, false
	}
	delete(b.entries, id)
	return e.value, true
}

// Close releases all objects without running their destructors.
// Callers that need destructors use Table.Close instead.
func (b *LocalBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	clear(b.entries)
	return nil
}

// Len returns the number of live objects.
func (b *LocalBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

// Each iterates over all live objects in id order.
func (b *LocalBackend) Each(fn func(ID, string, any) bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, id := range slices.Sorted(maps.Keys(b.entries)) {
		e := b.entries[id]
		if !fn(id, e.iface, e.value) {
			break
		}
	}
}
