package protocol

import (
	"fmt"
	"maps"
	"slices"

	"go.uber.org/multierr"

	"github.com/wippyai/wlegl/errors"
	"github.com/wippyai/wlegl/resource"
)

// Interface names a protocol interface and its highest supported version.
type Interface struct {
	Name    string
	Version uint32
}

func (i Interface) String() string {
	return fmt.Sprintf("%s v%d", i.Name, i.Version)
}

// BindFunc is called when a client binds a global. It is expected to create
// the resource for id, or to post an error to the client.
type BindFunc func(c *Client, data any, version uint32, id resource.ID)

// Options configures a Display.
type Options struct {
	// MaxGlobals caps the number of live globals. Zero means no limit.
	MaxGlobals int
	// MaxObjects caps the live objects of each client. Zero means no limit.
	MaxObjects int
}

// DefaultOptions returns the default display configuration.
func DefaultOptions() Options {
	return Options{
		MaxObjects: 1 << 16,
	}
}

// Display owns globals and connected clients.
type Display struct {
	globals   map[uint32]*Global
	clients   map[*Client]struct{}
	observers []resource.Observer
	options   Options
	nextName  uint32
}

// NewDisplay creates a display with the given options.
func NewDisplay(opts Options) *Display {
	return &Display{
		globals: make(map[uint32]*Global),
		clients: make(map[*Client]struct{}),
		options: opts,
	}
}

// Options returns the configuration.
func (d *Display) Options() Options {
	return d.options
}

// CreateGlobal advertises iface to clients. Binding it calls bind with data.
func (d *Display) CreateGlobal(iface Interface, data any, bind BindFunc) (*Global, error) {
	if iface.Name == "" || iface.Version == 0 {
		return nil, errors.InvalidInput(errors.PhaseBind, "global needs a name and a version")
	}
	if bind == nil {
		return nil, errors.InvalidInput(errors.PhaseBind, "global "+iface.Name+" has no bind function")
	}
	if d.options.MaxGlobals > 0 && len(d.globals) >= d.options.MaxGlobals {
		return nil, errors.OutOfMemory(iface.Name, fmt.Errorf("display holds %d globals", len(d.globals)))
	}

	d.nextName++
	g := &Global{
		display: d,
		name:    d.nextName,
		iface:   iface,
		data:    data,
		bind:    bind,
	}
	d.globals[g.name] = g
	return g, nil
}

// Global returns the live global with the given name.
func (d *Display) Global(name uint32) (*Global, bool) {
	g, ok := d.globals[name]
	return g, ok
}

// Globals returns the live globals ordered by name.
func (d *Display) Globals() []*Global {
	out := make([]*Global, 0, len(d.globals))
	for _, name := range slices.Sorted(maps.Keys(d.globals)) {
		out = append(out, d.globals[name])
	}
	return out
}

// Subscribe registers an observer on the object table of every client
// created afterwards.
func (d *Display) Subscribe(o resource.Observer) {
	d.observers = append(d.observers, o)
}

// NewClient connects a new client.
func (d *Display) NewClient() *Client {
	c := &Client{
		display: d,
		table:   resource.NewTable(d.options.MaxObjects),
	}
	for _, o := range d.observers {
		c.table.Subscribe(o)
	}
	d.clients[c] = struct{}{}
	return c
}

// Clients returns the number of connected clients.
func (d *Display) Clients() int {
	return len(d.clients)
}

// Destroy disconnects every client and removes every global.
func (d *Display) Destroy() error {
	var err error
	for c := range d.clients {
		err = multierr.Append(err, c.Destroy())
	}
	for _, g := range d.globals {
		g.Destroy()
	}
	return err
}

// Global is an advertised protocol interface.
type Global struct {
	display   *Display
	data      any
	bind      BindFunc
	iface     Interface
	name      uint32
	destroyed bool
}

// Name returns the numeric name clients bind with.
func (g *Global) Name() uint32 { return g.name }

// Interface returns the advertised interface.
func (g *Global) Interface() Interface { return g.iface }

// Destroyed reports whether Destroy was called.
func (g *Global) Destroyed() bool { return g.destroyed }

// Destroy withdraws the global. Resources already bound stay alive.
func (g *Global) Destroy() {
	if g.destroyed {
		return
	}
	g.destroyed = true
	delete(g.display.globals, g.name)
}
