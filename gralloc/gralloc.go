// Package gralloc binds the platform graphics allocator (gralloc) and
// provides the allocator session all buffer operations go through.
//
// The allocator is reached through two small interfaces. Module is the
// gralloc HAL module: it opens the allocator device and imports
// (registers) buffer handles created elsewhere. Device is the opened
// allocator device, able to allocate and free buffers itself.
// FromHardware returns the production binding for a module resolved by the
// hardware package; the gralloctest package provides an in-memory fake.
package gralloc

import (
	"github.com/wippyai/wlegl/errors"
	"github.com/wippyai/wlegl/hardware"
	"github.com/wippyai/wlegl/native"
)

// DeviceName is the allocator device opened by Open.
const DeviceName = "gpu0"

// Module is the graphics allocator module.
type Module interface {
	hardware.Module

	// OpenDevice opens the allocator device (gralloc_open).
	OpenDevice() (Device, error)

	// RegisterBuffer imports a handle allocated by another process.
	RegisterBuffer(h *native.Handle) error

	// UnregisterBuffer undoes RegisterBuffer.
	UnregisterBuffer(h *native.Handle) error

	// CloseHandle releases a handle's descriptors (native_handle_close).
	CloseHandle(h *native.Handle) error
}

// Device is an open allocator device.
type Device interface {
	// Alloc allocates a buffer and returns its handle and stride in pixels.
	Alloc(width, height int32, format Format, usage Usage) (*native.Handle, int32, error)

	// Free releases a buffer returned by Alloc.
	Free(h *native.Handle) error

	// Close closes the device (gralloc_close).
	Close() error
}

// FromHardware returns the allocator binding for a module resolved from
// the hardware registry. Modules that already implement Module are
// returned as is.
func FromHardware(m hardware.Module) (Module, error) {
	if m == nil {
		return nil, errors.InvalidInput(errors.PhaseLoad, "nil hardware module")
	}
	if gm, ok := m.(Module); ok {
		return gm, nil
	}
	return bindHAL(m)
}
