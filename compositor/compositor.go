//go:generate mockgen -source=compositor.go -destination=../internal/mock/compositor/compositor.go -package=mock_compositor

// Package compositor defines the compositor's generic buffer registry, the
// collaborator protocol extensions publish client buffers into.
package compositor

import (
	"github.com/wippyai/wlegl/protocol"
)

// BufferType describes one kind of client buffer. The compositor consults it
// to reach the native buffer behind a buffer resource, and to hand the
// buffer back to the client.
type BufferType interface {
	// Name identifies the buffer type.
	Name() string

	// NativeBuffer returns the native buffer behind res, if res is of this
	// type.
	NativeBuffer(res *protocol.Resource) (any, bool)

	// Release tells the client the compositor is done reading res.
	Release(res *protocol.Resource)
}

// Compositor is the part of the compositor a buffer extension talks to.
type Compositor interface {
	// Display returns the protocol display globals are created on.
	Display() *protocol.Display

	// AddBufferType makes t known to the compositor.
	AddBufferType(t BufferType) error

	// RegisterBuffer publishes res as a buffer of type t.
	RegisterBuffer(res *protocol.Resource, t BufferType) error

	// UnregisterBuffer withdraws res. Unknown resources are ignored.
	UnregisterBuffer(res *protocol.Resource)
}
