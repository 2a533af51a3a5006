package protocol

import (
	"fmt"

	"github.com/wippyai/wlegl/errors"
	"github.com/wippyai/wlegl/resource"
)

// EventKind classifies what was sent to a client.
type EventKind uint8

const (
	EventMessage EventKind = iota
	EventError
	EventNoMemory
)

func (k EventKind) String() string {
	switch k {
	case EventMessage:
		return "message"
	case EventError:
		return "error"
	case EventNoMemory:
		return "no_memory"
	default:
		return "unknown"
	}
}

// Event is a message, protocol error or out-of-memory notice sent to a
// client.
type Event struct {
	Interface string
	Message   string
	Args      []any
	Object    resource.ID
	Opcode    uint32
	Code      uint32
	Kind      EventKind
}

// Client is a connected protocol client.
type Client struct {
	display   *Display
	table     *resource.Table
	events    []Event
	destroyed bool
}

// Display returns the display the client is connected to.
func (c *Client) Display() *Display { return c.display }

// Bind binds global name at version to the new object id.
func (c *Client) Bind(name, version uint32, id resource.ID) error {
	if c.destroyed {
		return errors.Closed(errors.PhaseBind, "client")
	}
	g, ok := c.display.globals[name]
	if !ok {
		return errors.NotFound(errors.PhaseBind, "global", name)
	}
	if version == 0 || version > g.iface.Version {
		return errors.New(errors.PhaseBind, errors.KindInvalidInput).
			Object(g.iface.Name).
			Value(version).
			Detail("version %d not supported, have %d", version, g.iface.Version).
			Build()
	}
	g.bind(c, g.data, version, id)
	return nil
}

// CreateResource creates the object id for iface at version. Failure to
// store the object is reported as out of memory.
func (c *Client) CreateResource(iface Interface, version uint32, id resource.ID) (*Resource, error) {
	if c.destroyed {
		return nil, errors.Closed(errors.PhaseBind, "client")
	}
	r := &Resource{
		client:  c,
		id:      id,
		iface:   iface,
		version: version,
	}
	if err := c.table.Insert(id, iface.Name, r); err != nil {
		return nil, errors.OutOfMemory(iface.Name, err)
	}
	return r, nil
}

// Resource returns the live object id.
func (c *Client) Resource(id resource.ID) (*Resource, bool) {
	v, ok := c.table.Get(id)
	if !ok {
		return nil, false
	}
	r, ok := v.(*Resource)
	return r, ok
}

// Objects returns the number of live objects.
func (c *Client) Objects() int {
	return c.table.Len()
}

// Table returns the client's object table.
func (c *Client) Table() *resource.Table {
	return c.table
}

// Dispatch delivers request opcode with args to object id.
func (c *Client) Dispatch(id resource.ID, opcode uint32, args ...any) error {
	if c.destroyed {
		return errors.Closed(errors.PhaseDispatch, "client")
	}
	r, ok := c.Resource(id)
	if !ok {
		return errors.NotFound(errors.PhaseDispatch, "object", uint32(id))
	}
	if r.impl == nil {
		return errors.New(errors.PhaseDispatch, errors.KindUnsupported).
			Object(r.iface.Name).
			Detail("object %d has no implementation", id).
			Build()
	}
	return r.impl(r, opcode, Args(args))
}

// PostError sends a protocol error about r. The client stays connected.
func (c *Client) PostError(r *Resource, code uint32, format string, args ...any) {
	ev := Event{
		Kind:    EventError,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
	if r != nil {
		ev.Object = r.id
		ev.Interface = r.iface.Name
	}
	c.events = append(c.events, ev)
}

// PostNoMemory tells the client the server ran out of memory.
func (c *Client) PostNoMemory() {
	c.events = append(c.events, Event{Kind: EventNoMemory, Message: "no memory"})
}

// Events returns everything sent to the client so far.
func (c *Client) Events() []Event {
	return append([]Event(nil), c.events...)
}

// Destroyed reports whether the client was disconnected.
func (c *Client) Destroyed() bool { return c.destroyed }

// Destroy disconnects the client, destroying all of its objects in id
// order. A second call is a no-op.
func (c *Client) Destroy() error {
	if c.destroyed {
		return nil
	}
	c.destroyed = true
	delete(c.display.clients, c)
	return c.table.Close()
}
