package wlegl

import (
	"go.uber.org/zap"

	"github.com/wippyai/wlegl/native"
	"github.com/wippyai/wlegl/protocol"
	"github.com/wippyai/wlegl/resource"
)

// handleObject is the android_wlegl_handle behind a protocol resource. It
// owns the translated native handle until the resource is destroyed.
type handleObject struct {
	bridge *Bridge
	handle *native.Handle
}

func (b *Bridge) createHandle(res *protocol.Resource, id resource.ID, numFDs int32, ints []int32) error {
	log := b.requestLog(res, "create_handle")
	c := res.Client()

	h, err := native.FromWire(numFDs, ints)
	if err != nil {
		log.Warn("malformed handle",
			zap.Uint32("id", uint32(id)),
			zap.Int32("num_fds", numFDs),
			zap.Int("num_ints", len(ints)),
			zap.Stringer("policy", b.policy),
			zap.Error(err))
		err = b.fail(res, ErrorBadHandle, err)
		if b.policy == Disconnect {
			_ = c.Destroy()
		}
		return err
	}

	hres, err := c.CreateResource(handleInterface, res.Version(), id)
	if err != nil {
		log.Warn("create handle object", zap.Uint32("id", uint32(id)), zap.Error(err))
		_ = b.session.ReleaseHandle(h)
		return b.failNoMemory(c, err)
	}

	hres.SetImplementation(b.dispatchHandle, &handleObject{bridge: b, handle: h}, b.destroyHandle)
	b.stats.handles.Add(1)
	b.stats.handlesCreated.Add(1)
	log.Debug("handle created",
		zap.Uint32("id", uint32(id)),
		zap.Int("num_fds", h.NumFDs()),
		zap.Int("num_ints", h.NumInts()))
	return nil
}

func (b *Bridge) dispatchHandle(res *protocol.Resource, opcode uint32, _ protocol.Args) error {
	if opcode != HandleRequestDestroy {
		return invalidOpcode(res, opcode)
	}
	res.Destroy()
	return nil
}

func (b *Bridge) destroyHandle(res *protocol.Resource) {
	ho := res.Data().(*handleObject)
	if err := b.session.ReleaseHandle(ho.handle); err != nil {
		b.log.Warn("release handle", zap.Uint32("id", uint32(res.ID())), zap.Error(err))
	}
	ho.handle = nil
	b.stats.handles.Add(-1)
}

// lookupHandle resolves id to a live handle object created by b.
func (b *Bridge) lookupHandle(c *protocol.Client, id resource.ID) (*handleObject, bool) {
	res, ok := c.Resource(id)
	if !ok || res.Destroyed() || res.Interface().Name != HandleInterfaceName {
		return nil, false
	}
	ho, ok := res.Data().(*handleObject)
	if !ok || ho.bridge != b || ho.handle == nil {
		return nil, false
	}
	return ho, true
}
