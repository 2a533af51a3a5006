package protocol

import (
	"github.com/wippyai/wlegl/errors"
	"github.com/wippyai/wlegl/resource"
)

// Dispatcher handles requests sent to a resource.
type Dispatcher func(r *Resource, opcode uint32, args Args) error

// DestroyFunc runs once when a resource is destroyed, by request or by
// client disconnect.
type DestroyFunc func(r *Resource)

// Resource is a live protocol object owned by a client.
type Resource struct {
	client    *Client
	impl      Dispatcher
	data      any
	destroy   DestroyFunc
	iface     Interface
	id        resource.ID
	version   uint32
	destroyed bool
}

func (r *Resource) ID() resource.ID      { return r.id }
func (r *Resource) Interface() Interface { return r.iface }
func (r *Resource) Version() uint32      { return r.version }
func (r *Resource) Client() *Client      { return r.client }
func (r *Resource) Data() any            { return r.data }
func (r *Resource) Destroyed() bool      { return r.destroyed }

// SetImplementation installs the request handler, user data and destructor.
func (r *Resource) SetImplementation(impl Dispatcher, data any, destroy DestroyFunc) {
	r.impl = impl
	r.data = data
	r.destroy = destroy
}

// Send posts event opcode with args to the owning client.
func (r *Resource) Send(opcode uint32, args ...any) error {
	if r.destroyed {
		return errors.Closed(errors.PhaseDispatch, r.iface.Name)
	}
	r.client.events = append(r.client.events, Event{
		Kind:      EventMessage,
		Object:    r.id,
		Interface: r.iface.Name,
		Opcode:    opcode,
		Args:      args,
	})
	return nil
}

// PostError posts a protocol error about r.
func (r *Resource) PostError(code uint32, format string, args ...any) {
	r.client.PostError(r, code, format, args...)
}

// Destroy removes r from its client, running the destructor.
func (r *Resource) Destroy() {
	if r.destroyed {
		return
	}
	// The id may already name a newer object.
	if v, ok := r.client.table.Get(r.id); !ok || v != r {
		r.Drop()
		return
	}
	r.client.table.Remove(r.id)
}

// Drop implements resource.Dropper.
func (r *Resource) Drop() {
	if r.destroyed {
		return
	}
	r.destroyed = true
	if r.destroy != nil {
		r.destroy(r)
	}
}
