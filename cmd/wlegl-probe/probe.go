package main

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/wlegl"
	"github.com/wippyai/wlegl/compositor"
	"github.com/wippyai/wlegl/gralloc"
	"github.com/wippyai/wlegl/hardware"
	"github.com/wippyai/wlegl/native"
	"github.com/wippyai/wlegl/protocol"
	"github.com/wippyai/wlegl/resource"
)

const (
	wleglID  resource.ID = 1
	handleID resource.ID = 2
	bufferID resource.ID = 3
)

type probeOptions struct {
	loader *hardware.Loader
	log    *zap.Logger
	width  int32
	height int32
	format gralloc.Format
	usage  gralloc.Usage
}

type step struct {
	run  func() (string, error)
	name string
}

// probe drives one in-process client through the whole buffer lifecycle
// against the real allocator.
type probe struct {
	opts      probeOptions
	display   *protocol.Display
	reg       *compositor.Registry
	bridge    *wlegl.Bridge
	client    *protocol.Client
	allocated *native.Handle
	steps     []step
	stride    int32
}

func newProbe(opts probeOptions) (*probe, error) {
	display := protocol.NewDisplay(protocol.DefaultOptions())
	reg := compositor.NewRegistry(display)

	bridge, err := wlegl.New(reg, wlegl.Config{Loader: opts.loader, Logger: opts.log})
	if err != nil {
		return nil, err
	}

	p := &probe{
		opts:    opts,
		display: display,
		reg:     reg,
		bridge:  bridge,
	}
	p.steps = []step{
		{name: "bind", run: p.bind},
		{name: "allocate", run: p.allocate},
		{name: "create_handle", run: p.createHandle},
		{name: "create_buffer", run: p.createBuffer},
		{name: "lookup", run: p.lookup},
		{name: "release", run: p.release},
		{name: "destroy_buffer", run: p.destroyBuffer},
		{name: "destroy_handle", run: p.destroyHandle},
		{name: "free", run: p.free},
	}
	return p, nil
}

func (p *probe) Steps() []step { return p.steps }

// SetDesc changes the geometry used by later allocate and create_buffer
// steps.
func (p *probe) SetDesc(width, height int32, format gralloc.Format, usage gralloc.Usage) {
	p.opts.width, p.opts.height = width, height
	p.opts.format, p.opts.usage = format, usage
}

func (p *probe) ModuleInfo() string {
	m := p.bridge.Module()
	moduleAPI, halAPI := m.APIVersion()
	return fmt.Sprintf("%s (%s by %s, module API %d.%d, HAL API %d.%d)",
		m.ID(), m.Name(), m.Author(),
		moduleAPI>>8, moduleAPI&0xff, halAPI>>8, halAPI&0xff)
}

func (p *probe) Stats() wlegl.Stats { return p.bridge.Stats() }

func (p *probe) bind() (string, error) {
	if p.client != nil {
		return "", fmt.Errorf("already bound")
	}
	c := p.display.NewClient()
	if err := c.Bind(p.bridge.Global().Name(), wlegl.Version, wleglID); err != nil {
		return "", err
	}
	if _, ok := c.Resource(wleglID); !ok {
		_ = c.Destroy()
		return "", fmt.Errorf("bind posted %v", lastEvent(c))
	}
	p.client = c
	return fmt.Sprintf("android_wlegl v%d as object %d", wlegl.Version, wleglID), nil
}

func (p *probe) allocate() (string, error) {
	if p.allocated != nil {
		return "", fmt.Errorf("buffer already allocated, free it first")
	}
	h, stride, err := p.bridge.Session().Allocate(p.opts.width, p.opts.height, p.opts.format, p.opts.usage)
	if err != nil {
		return "", err
	}
	p.allocated, p.stride = h, stride
	return fmt.Sprintf("stride %d, %d fds, %d ints", stride, h.NumFDs(), h.NumInts()), nil
}

func (p *probe) createHandle() (string, error) {
	if err := p.needClient(); err != nil {
		return "", err
	}
	if p.allocated == nil {
		return "", fmt.Errorf("no buffer allocated")
	}
	// The bridge takes ownership of the descriptors it receives.
	clone, err := p.allocated.Clone()
	if err != nil {
		return "", err
	}
	numFDs, ints := clone.Wire()
	if err := p.client.Dispatch(wleglID, wlegl.RequestCreateHandle, handleID, numFDs, ints); err != nil {
		return "", err
	}
	return fmt.Sprintf("object %d from %d ints", handleID, len(ints)), nil
}

func (p *probe) createBuffer() (string, error) {
	if err := p.needClient(); err != nil {
		return "", err
	}
	err := p.client.Dispatch(wleglID, wlegl.RequestCreateBuffer, bufferID,
		p.opts.width, p.opts.height, p.stride,
		int32(p.opts.format), int32(p.opts.usage),
		handleID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("object %d registered, %d in registry", bufferID, p.reg.Len()), nil
}

func (p *probe) lookup() (string, error) {
	res, err := p.buffer()
	if err != nil {
		return "", err
	}
	v, ok := p.reg.Lookup(res)
	if !ok {
		return "", fmt.Errorf("buffer %d not in registry", bufferID)
	}
	buf := v.(*wlegl.Buffer)
	return buf.Desc().String(), nil
}

func (p *probe) release() (string, error) {
	res, err := p.buffer()
	if err != nil {
		return "", err
	}
	if err := p.reg.Release(res); err != nil {
		return "", err
	}
	ev := lastEvent(p.client)
	if ev.Object != bufferID || ev.Opcode != wlegl.BufferEventRelease {
		return "", fmt.Errorf("expected release event, got %v", ev)
	}
	return "release event sent", nil
}

func (p *probe) destroyBuffer() (string, error) {
	if err := p.needClient(); err != nil {
		return "", err
	}
	if err := p.client.Dispatch(bufferID, wlegl.BufferRequestDestroy); err != nil {
		return "", err
	}
	return fmt.Sprintf("%d in registry", p.reg.Len()), nil
}

func (p *probe) destroyHandle() (string, error) {
	if err := p.needClient(); err != nil {
		return "", err
	}
	if err := p.client.Dispatch(handleID, wlegl.HandleRequestDestroy); err != nil {
		return "", err
	}
	return fmt.Sprintf("%d live handles", p.bridge.Stats().Handles), nil
}

func (p *probe) free() (string, error) {
	if p.allocated == nil {
		return "", fmt.Errorf("no buffer allocated")
	}
	err := p.bridge.Session().Free(p.allocated)
	p.allocated = nil
	if err != nil {
		return "", err
	}
	return "freed", nil
}

func (p *probe) needClient() error {
	if p.client == nil {
		return fmt.Errorf("not bound")
	}
	return nil
}

func (p *probe) buffer() (*protocol.Resource, error) {
	if err := p.needClient(); err != nil {
		return nil, err
	}
	res, ok := p.client.Resource(bufferID)
	if !ok {
		return nil, fmt.Errorf("no buffer object %d", bufferID)
	}
	return res, nil
}

// Close disconnects the client, frees the allocated buffer and destroys the
// bridge.
func (p *probe) Close() error {
	var err error
	if p.client != nil {
		err = multierr.Append(err, p.client.Destroy())
		p.client = nil
	}
	if p.allocated != nil {
		err = multierr.Append(err, p.bridge.Session().Free(p.allocated))
		p.allocated = nil
	}
	return multierr.Append(err, p.bridge.Destroy())
}

func lastEvent(c *protocol.Client) protocol.Event {
	events := c.Events()
	if len(events) == 0 {
		return protocol.Event{}
	}
	return events[len(events)-1]
}
