package wlegl

import (
	"sync/atomic"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/wlegl/compositor"
	"github.com/wippyai/wlegl/errors"
	"github.com/wippyai/wlegl/gralloc"
	"github.com/wippyai/wlegl/protocol"
	"github.com/wippyai/wlegl/resource"
)

// Bridge owns the allocator session and the android_wlegl global of one
// compositor.
type Bridge struct {
	comp       compositor.Compositor
	module     gralloc.Module
	session    *gralloc.Session
	global     *protocol.Global
	bufferType *bufferType
	log        *zap.Logger
	policy     MalformedHandlePolicy
	stats      stats
	destroyed  bool
}

// Stats counts the bridge's protocol objects.
type Stats struct {
	// Live objects.
	Handles int64
	Buffers int64

	// Totals since creation.
	HandlesCreated uint64
	BuffersCreated uint64
	RequestErrors  uint64
}

type stats struct {
	handles        atomic.Int64
	buffers        atomic.Int64
	handlesCreated atomic.Uint64
	buffersCreated atomic.Uint64
	requestErrors  atomic.Uint64
}

// New loads the allocator module, opens the allocator device, advertises
// the android_wlegl global on comp's display and registers the buffer type
// with comp. On any failure nothing stays allocated and the error is
// returned; the compositor is expected to run on without the bridge.
func New(comp compositor.Compositor, cfg Config) (*Bridge, error) {
	if comp == nil || comp.Display() == nil {
		return nil, errors.InvalidInput(errors.PhaseLoad, "compositor has no display")
	}
	cfg = cfg.withDefaults()
	log := cfg.Logger.Named(InterfaceName)

	if cfg.GlobalVersion > Version {
		return nil, errors.New(errors.PhaseBind, errors.KindInvalidInput).
			Object(InterfaceName).
			Value(cfg.GlobalVersion).
			Detail("version %d not supported, have %d", cfg.GlobalVersion, Version).
			Build()
	}

	hw, err := cfg.Loader.Load()
	if err != nil {
		log.Error("load allocator module",
			zap.String("path", cfg.Loader.Path()),
			zap.String("module", cfg.Loader.ModuleID()),
			zap.Error(err))
		return nil, err
	}

	mod, err := gralloc.FromHardware(hw)
	if err != nil {
		log.Error("bind allocator module", zap.String("module", hw.ID()), zap.Error(err))
		return nil, err
	}
	moduleAPI, halAPI := mod.APIVersion()
	log.Info("allocator module",
		zap.String("id", mod.ID()),
		zap.String("name", mod.Name()),
		zap.String("author", mod.Author()),
		zap.Uint16("module_api", moduleAPI),
		zap.Uint16("hal_api", halAPI))

	session, err := gralloc.Open(mod)
	if err != nil {
		log.Error("open allocator", zap.String("module", mod.ID()), zap.Error(err))
		return nil, err
	}

	b := &Bridge{
		comp:    comp,
		module:  mod,
		session: session,
		log:     log,
		policy:  cfg.MalformedHandlePolicy,
	}
	b.bufferType = &bufferType{bridge: b}

	iface := protocol.Interface{Name: InterfaceName, Version: cfg.GlobalVersion}
	b.global, err = comp.Display().CreateGlobal(iface, b, b.bind)
	if err != nil {
		err = multierr.Append(err, session.Close())
		log.Error("create global", zap.Error(err))
		return nil, err
	}

	if err := comp.AddBufferType(b.bufferType); err != nil {
		b.global.Destroy()
		err = multierr.Append(errors.Registration(BufferTypeName, err), session.Close())
		log.Error("add buffer type", zap.Error(err))
		return nil, err
	}

	log.Debug("bridge created", zap.Uint32("global", b.global.Name()))
	return b, nil
}

// Module returns the allocator module.
func (b *Bridge) Module() gralloc.Module { return b.module }

// Session returns the allocator session.
func (b *Bridge) Session() *gralloc.Session { return b.session }

// Global returns the android_wlegl global.
func (b *Bridge) Global() *protocol.Global { return b.global }

// BufferType returns the descriptor registered with the compositor.
func (b *Bridge) BufferType() compositor.BufferType { return b.bufferType }

// Stats returns a snapshot of the object counters.
func (b *Bridge) Stats() Stats {
	return Stats{
		Handles:        b.stats.handles.Load(),
		Buffers:        b.stats.buffers.Load(),
		HandlesCreated: b.stats.handlesCreated.Load(),
		BuffersCreated: b.stats.buffersCreated.Load(),
		RequestErrors:  b.stats.requestErrors.Load(),
	}
}

// Destroy withdraws the global and closes the allocator device. Objects
// clients still hold stay valid until they are destroyed. A second call is
// a no-op.
func (b *Bridge) Destroy() error {
	if b == nil || b.destroyed {
		return nil
	}
	b.destroyed = true

	b.global.Destroy()
	err := b.session.Close()
	if err != nil {
		b.log.Warn("close allocator", zap.Error(err))
	}
	b.log.Debug("bridge destroyed", zap.Int64("handles", b.stats.handles.Load()), zap.Int64("buffers", b.stats.buffers.Load()))
	return err
}

func (b *Bridge) bind(c *protocol.Client, _ any, version uint32, id resource.ID) {
	res, err := c.CreateResource(protocol.Interface{Name: InterfaceName, Version: Version}, version, id)
	if err != nil {
		b.log.Warn("bind", zap.Uint32("id", uint32(id)), zap.Error(err))
		c.PostNoMemory()
		return
	}
	res.SetImplementation(b.dispatch, b, nil)
}

// fail records a failed request and posts code to the client.
func (b *Bridge) fail(res *protocol.Resource, code uint32, err error) error {
	b.stats.requestErrors.Add(1)
	res.PostError(code, "%v", err)
	return err
}

func (b *Bridge) failNoMemory(c *protocol.Client, err error) error {
	b.stats.requestErrors.Add(1)
	c.PostNoMemory()
	return err
}
