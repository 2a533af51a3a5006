package wlegl

import (
	"go.uber.org/zap"

	"github.com/wippyai/wlegl/errors"
	"github.com/wippyai/wlegl/protocol"
)

const (
	InterfaceName       = "android_wlegl"
	HandleInterfaceName = "android_wlegl_handle"
	BufferInterfaceName = "wl_buffer"

	// Version is the highest android_wlegl version implemented.
	Version uint32 = 1

	// BufferTypeName names the buffer type registered with the compositor.
	BufferTypeName = InterfaceName
)

// android_wlegl requests.
const (
	RequestCreateHandle uint32 = 0
	RequestCreateBuffer uint32 = 1
)

// android_wlegl_handle and wl_buffer requests.
const (
	HandleRequestDestroy uint32 = 0
	BufferRequestDestroy uint32 = 0
)

// wl_buffer events.
const (
	BufferEventRelease uint32 = 0
)

// android_wlegl error codes.
const (
	ErrorBadHandle uint32 = 0
	ErrorBadValue  uint32 = 1
)

var (
	handleInterface = protocol.Interface{Name: HandleInterfaceName, Version: Version}
	bufferInterface = protocol.Interface{Name: BufferInterfaceName, Version: 1}
)

func (b *Bridge) dispatch(res *protocol.Resource, opcode uint32, args protocol.Args) error {
	switch opcode {
	case RequestCreateHandle:
		id, err := args.ID(0)
		if err != nil {
			return err
		}
		numFDs, err := args.Int(1)
		if err != nil {
			return err
		}
		ints, err := args.Array(2)
		if err != nil {
			return err
		}
		return b.createHandle(res, id, numFDs, ints)

	case RequestCreateBuffer:
		id, err := args.ID(0)
		if err != nil {
			return err
		}
		var geom [5]int32
		for i := range geom {
			if geom[i], err = args.Int(1 + i); err != nil {
				return err
			}
		}
		handleID, err := args.ID(6)
		if err != nil {
			return err
		}
		return b.createBuffer(res, id, geom[0], geom[1], geom[2], geom[3], geom[4], handleID)
	}

	return invalidOpcode(res, opcode)
}

func invalidOpcode(res *protocol.Resource, opcode uint32) error {
	return errors.New(errors.PhaseDispatch, errors.KindInvalidInput).
		Object(res.Interface().Name).
		Value(opcode).
		Detail("invalid opcode %d", opcode).
		Build()
}

func (b *Bridge) requestLog(res *protocol.Resource, request string) *zap.Logger {
	return b.log.With(
		zap.String("request", request),
		zap.Uint32("object", uint32(res.ID())))
}
