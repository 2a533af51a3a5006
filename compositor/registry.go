package compositor

import (
	"github.com/wippyai/wlegl/errors"
	"github.com/wippyai/wlegl/protocol"
)

// Registry is an in-memory Compositor.
type Registry struct {
	display *protocol.Display
	types   map[string]BufferType
	buffers map[*protocol.Resource]BufferType
	// MaxBuffers caps registered buffers. Zero means no limit.
	MaxBuffers int
}

var _ Compositor = (*Registry)(nil)

// NewRegistry creates a registry serving display d.
func NewRegistry(d *protocol.Display) *Registry {
	return &Registry{
		display: d,
		types:   make(map[string]BufferType),
		buffers: make(map[*protocol.Resource]BufferType),
	}
}

func (r *Registry) Display() *protocol.Display { return r.display }

func (r *Registry) AddBufferType(t BufferType) error {
	if t == nil {
		return errors.InvalidInput(errors.PhaseRegister, "nil buffer type")
	}
	if _, ok := r.types[t.Name()]; ok {
		return errors.New(errors.PhaseRegister, errors.KindInvalidInput).
			Object(t.Name()).
			Detail("buffer type already added").
			Build()
	}
	r.types[t.Name()] = t
	return nil
}

// BufferType returns the added type with the given name.
func (r *Registry) BufferType(name string) (BufferType, bool) {
	t, ok := r.types[name]
	return t, ok
}

func (r *Registry) RegisterBuffer(res *protocol.Resource, t BufferType) error {
	if res == nil || t == nil {
		return errors.InvalidInput(errors.PhaseRegister, "nil buffer or buffer type")
	}
	if known, ok := r.types[t.Name()]; !ok || known != t {
		return errors.New(errors.PhaseRegister, errors.KindNotFound).
			Object(t.Name()).
			Detail("buffer type not added").
			Build()
	}
	if _, ok := r.buffers[res]; ok {
		return errors.New(errors.PhaseRegister, errors.KindInvalidInput).
			Object(res.Interface().Name).
			Value(res.ID()).
			Detail("buffer %d already registered", res.ID()).
			Build()
	}
	if r.MaxBuffers > 0 && len(r.buffers) >= r.MaxBuffers {
		return errors.New(errors.PhaseRegister, errors.KindOutOfMemory).
			Object(t.Name()).
			Detail("registry holds %d buffers", len(r.buffers)).
			Build()
	}
	r.buffers[res] = t
	return nil
}

func (r *Registry) UnregisterBuffer(res *protocol.Resource) {
	delete(r.buffers, res)
}

// Len returns the number of registered buffers.
func (r *Registry) Len() int {
	return len(r.buffers)
}

// Lookup returns the native buffer behind a registered resource.
func (r *Registry) Lookup(res *protocol.Resource) (any, bool) {
	t, ok := r.buffers[res]
	if !ok {
		return nil, false
	}
	return t.NativeBuffer(res)
}

// Release hands a registered buffer back to its client.
func (r *Registry) Release(res *protocol.Resource) error {
	t, ok := r.buffers[res]
	if !ok {
		return errors.NotFound(errors.PhaseRegister, "buffer", uint32(res.ID()))
	}
	t.Release(res)
	return nil
}
