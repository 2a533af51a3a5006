package gralloc

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/wippyai/wlegl/errors"
	"github.com/wippyai/wlegl/native"
)

var (
	ErrSessionClosed  = errors.Closed(errors.PhaseOpen, "allocator session")
	ErrBufferReleased = errors.Closed(errors.PhaseAllocate, "buffer")
)

// BufferDesc is the geometry and usage of a buffer.
type BufferDesc struct {
	Width  int32
	Height int32
	Stride int32
	Format Format
	Usage  Usage
}

// Validate rejects geometry no allocator can import.
func (d BufferDesc) Validate() error {
	switch {
	case d.Width <= 0 || d.Height <= 0:
		return errors.New(errors.PhaseAllocate, errors.KindAllocation).
			Value(d).
			Detail("invalid size %dx%d", d.Width, d.Height).
			Build()
	case d.Stride < d.Width:
		return errors.New(errors.PhaseAllocate, errors.KindAllocation).
			Value(d).
			Detail("stride %d smaller than width %d", d.Stride, d.Width).
			Build()
	}
	return nil
}

func (d BufferDesc) String() string {
	return fmt.Sprintf("%dx%d stride %d %s usage %s", d.Width, d.Height, d.Stride, d.Format, d.Usage)
}

// Buffer is an imported allocator buffer. It owns a registered clone of the
// handle it was imported from.
type Buffer struct {
	desc     BufferDesc
	handle   *native.Handle
	released bool
}

func (b *Buffer) Desc() BufferDesc       { return b.desc }
func (b *Buffer) Width() int32           { return b.desc.Width }
func (b *Buffer) Height() int32          { return b.desc.Height }
func (b *Buffer) Stride() int32          { return b.desc.Stride }
func (b *Buffer) Format() Format         { return b.desc.Format }
func (b *Buffer) Usage() Usage           { return b.desc.Usage }
func (b *Buffer) Handle() *native.Handle { return b.handle }
func (b *Buffer) Released() bool         { return b.released }

// Session owns the one open allocator device.
type Session struct {
	module Module
	device Device
	closed bool
}

// Open opens the allocator device of m.
func Open(m Module) (*Session, error) {
	if m == nil {
		return nil, errors.InvalidInput(errors.PhaseOpen, "nil allocator module")
	}
	dev, err := m.OpenDevice()
	if err != nil {
		return nil, errors.AllocatorOpen(m.ID(), err)
	}
	if dev == nil {
		return nil, errors.AllocatorOpen(m.ID(), nil)
	}
	return &Session{module: m, device: dev}, nil
}

// Module returns the module the session was opened from.
func (s *Session) Module() Module { return s.module }

// Import clones h and registers the clone with the allocator. The caller
// keeps ownership of h; the returned Buffer owns the clone.
func (s *Session) Import(h *native.Handle, desc BufferDesc) (*Buffer, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	if h == nil {
		return nil, errors.InvalidInput(errors.PhaseAllocate, "nil handle")
	}
	if err := desc.Validate(); err != nil {
		return nil, err
	}

	clone, err := h.Clone()
	if err != nil {
		return nil, err
	}
	if err := s.module.RegisterBuffer(clone); err != nil {
		return nil, multierr.Append(
			errors.Allocation("register buffer "+desc.String(), err),
			s.module.CloseHandle(clone),
		)
	}

	return &Buffer{desc: desc, handle: clone}, nil
}

// Release unregisters b and closes its handle. Releasing twice returns
// ErrBufferReleased without touching the allocator. Registration lives on
// the module, so Release still works after Close.
func (s *Session) Release(b *Buffer) error {
	if b == nil {
		return errors.InvalidInput(errors.PhaseAllocate, "nil buffer")
	}
	if b.released {
		return ErrBufferReleased
	}
	b.released = true

	return multierr.Append(
		s.module.UnregisterBuffer(b.handle),
		s.module.CloseHandle(b.handle),
	)
}

// ReleaseHandle closes a handle owned by a protocol handle object.
func (s *Session) ReleaseHandle(h *native.Handle) error {
	if h == nil {
		return nil
	}
	return s.module.CloseHandle(h)
}

// Allocate allocates a new buffer on the device.
func (s *Session) Allocate(width, height int32, format Format, usage Usage) (*native.Handle, int32, error) {
	if s.closed {
		return nil, 0, ErrSessionClosed
	}
	h, stride, err := s.device.Alloc(width, height, format, usage)
	if err != nil {
		return nil, 0, errors.Allocation(fmt.Sprintf("alloc %dx%d %s usage %s", width, height, format, usage), err)
	}
	return h, stride, nil
}

// Free releases a buffer returned by Allocate.
func (s *Session) Free(h *native.Handle) error {
	if s.closed {
		return ErrSessionClosed
	}
	return s.device.Free(h)
}

// Close closes the device. The bridge calls it exactly once; a second call
// returns ErrSessionClosed.
func (s *Session) Close() error {
	if s.closed {
		return ErrSessionClosed
	}
	s.closed = true
	if err := s.device.Close(); err != nil {
		return errors.Wrap(errors.PhaseOpen, errors.KindAllocatorOpen, err, "close allocator device")
	}
	return nil
}
