package wlegl

import (
	"go.uber.org/zap"

	"github.com/wippyai/wlegl/errors"
	"github.com/wippyai/wlegl/gralloc"
	"github.com/wippyai/wlegl/native"
	"github.com/wippyai/wlegl/protocol"
	"github.com/wippyai/wlegl/resource"
)

// Buffer is a wl_buffer backed by an imported allocator buffer.
type Buffer struct {
	bridge   *Bridge
	native   *gralloc.Buffer
	resource *protocol.Resource
}

// Native returns the allocator buffer.
func (b *Buffer) Native() *gralloc.Buffer { return b.native }

// Handle returns the registered native handle.
func (b *Buffer) Handle() *native.Handle { return b.native.Handle() }

// Desc returns the buffer geometry and usage.
func (b *Buffer) Desc() gralloc.BufferDesc { return b.native.Desc() }

// Resource returns the wl_buffer resource.
func (b *Buffer) Resource() *protocol.Resource { return b.resource }

func (b *Bridge) createBuffer(res *protocol.Resource, id resource.ID, width, height, stride, format, usage int32, handleID resource.ID) error {
	log := b.requestLog(res, "create_buffer").With(zap.Uint32("id", uint32(id)))
	c := res.Client()

	ho, ok := b.lookupHandle(c, handleID)
	if !ok {
		err := errors.InvalidHandleReference(uint32(handleID))
		log.Warn("unknown handle", zap.Uint32("handle", uint32(handleID)))
		return b.fail(res, ErrorBadHandle, err)
	}

	desc := gralloc.BufferDesc{
		Width:  width,
		Height: height,
		Stride: stride,
		Format: gralloc.Format(format),
		Usage:  gralloc.Usage(usage),
	}
	_, err := b.newBuffer(c, id, ho.handle, desc)
	if err != nil {
		log.Warn("create buffer", zap.Stringer("desc", desc), zap.Error(err))
		switch {
		case errors.Is(err, errors.ErrOutOfMemory), errors.Is(err, errors.ErrRegistration):
			return b.failNoMemory(c, err)
		default:
			return b.fail(res, ErrorBadValue, err)
		}
	}
	log.Debug("buffer created", zap.Stringer("desc", desc))
	return nil
}

// newBuffer imports h with desc, binds the result to a new wl_buffer id and
// publishes it in the compositor registry. Whatever step fails, nothing
// stays imported.
func (b *Bridge) newBuffer(c *protocol.Client, id resource.ID, h *native.Handle, desc gralloc.BufferDesc) (*Buffer, error) {
	nb, err := b.session.Import(h, desc)
	if err != nil {
		return nil, err
	}

	bres, err := c.CreateResource(bufferInterface, 1, id)
	if err != nil {
		b.releaseNative(nb)
		return nil, err
	}

	buf := &Buffer{bridge: b, native: nb, resource: bres}
	bres.SetImplementation(b.dispatchBuffer, buf, nil)

	if err := b.comp.RegisterBuffer(bres, b.bufferType); err != nil {
		bres.Destroy()
		b.releaseNative(nb)
		return nil, errors.Registration(BufferInterfaceName, err)
	}

	bres.SetImplementation(b.dispatchBuffer, buf, b.destroyBuffer)
	b.stats.buffers.Add(1)
	b.stats.buffersCreated.Add(1)
	return buf, nil
}

func (b *Bridge) dispatchBuffer(res *protocol.Resource, opcode uint32, _ protocol.Args) error {
	if opcode != BufferRequestDestroy {
		return invalidOpcode(res, opcode)
	}
	res.Destroy()
	return nil
}

// destroyBuffer releases the native reference before withdrawing the
// buffer from the compositor registry.
func (b *Bridge) destroyBuffer(res *protocol.Resource) {
	buf := res.Data().(*Buffer)
	b.releaseNative(buf.native)
	b.comp.UnregisterBuffer(res)
	b.stats.buffers.Add(-1)
}

func (b *Bridge) releaseNative(nb *gralloc.Buffer) {
	if err := b.session.Release(nb); err != nil {
		b.log.Warn("release buffer", zap.Stringer("desc", nb.Desc()), zap.Error(err))
	}
}

// bufferType is the descriptor the compositor uses to reach wl_buffers
// created by the bridge.
type bufferType struct {
	bridge *Bridge
}

func (t *bufferType) Name() string { return BufferTypeName }

func (t *bufferType) NativeBuffer(res *protocol.Resource) (any, bool) {
	buf, ok := t.buffer(res)
	if !ok {
		return nil, false
	}
	return buf, true
}

func (t *bufferType) Release(res *protocol.Resource) {
	if _, ok := t.buffer(res); !ok {
		return
	}
	if err := res.Send(BufferEventRelease); err != nil {
		t.bridge.log.Debug("release event", zap.Uint32("id", uint32(res.ID())), zap.Error(err))
	}
}

func (t *bufferType) buffer(res *protocol.Resource) (*Buffer, bool) {
	if res == nil || res.Destroyed() || res.Interface().Name != BufferInterfaceName {
		return nil, false
	}
	buf, ok := res.Data().(*Buffer)
	if !ok || buf.bridge != t.bridge || buf.native.Released() {
		return nil, false
	}
	return buf, true
}
