// Package gralloctest provides an in-memory graphics allocator for tests.
//
// Module and Device count every call so tests can assert exact allocator
// traffic. CloseHandle really closes descriptors, so handles built from
// pipes behave like allocator handles.
package gralloctest

import (
	"sync"

	"golang.org/x/sys/unix"

	"github.com/wippyai/wlegl/gralloc"
	"github.com/wippyai/wlegl/hardware"
	"github.com/wippyai/wlegl/native"
)

// Counts is a snapshot of allocator calls.
type Counts struct {
	Opens        int
	Registers    int
	Unregisters  int
	CloseHandles int
	Allocs       int
	Frees        int
	Closes       int
}

// Module is a fake gralloc module.
type Module struct {
	// Injected failures. A nil value means the call succeeds.
	OpenErr       error
	RegisterErr   error
	UnregisterErr error
	AllocErr      error
	CloseErr      error

	mu         sync.Mutex
	counts     Counts
	registered map[*native.Handle]struct{}
	device     *Device
}

var _ gralloc.Module = (*Module)(nil)

// NewModule returns a fake module with no injected failures.
func NewModule() *Module {
	return &Module{registered: make(map[*native.Handle]struct{})}
}

func (m *Module) ID() string                   { return hardware.GrallocModuleID }
func (m *Module) Name() string                 { return "gralloctest" }
func (m *Module) Author() string               { return "wlegl" }
func (m *Module) APIVersion() (uint16, uint16) { return 1, 0 }

// Counts returns the calls made so far.
func (m *Module) Counts() Counts {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts
}

// Registered returns the number of handles registered and not yet
// unregistered.
func (m *Module) Registered() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.registered)
}

// Device returns the last device opened, or nil.
func (m *Module) Device() *Device {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.device
}

func (m *Module) OpenDevice() (gralloc.Device, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts.Opens++
	if m.OpenErr != nil {
		return nil, m.OpenErr
	}
	m.device = &Device{module: m, allocated: make(map[*native.Handle]struct{})}
	return m.device, nil
}

func (m *Module) RegisterBuffer(h *native.Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts.Registers++
	if m.RegisterErr != nil {
		return m.RegisterErr
	}
	m.registered[h] = struct{}{}
	return nil
}

func (m *Module) UnregisterBuffer(h *native.Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts.Unregisters++
	if m.UnregisterErr != nil {
		return m.UnregisterErr
	}
	if _, ok := m.registered[h]; !ok {
		return hardware.Status(-int32(unix.EINVAL))
	}
	delete(m.registered, h)
	return nil
}

func (m *Module) CloseHandle(h *native.Handle) error {
	m.mu.Lock()
	m.counts.CloseHandles++
	m.mu.Unlock()
	return h.Close()
}

// Device is a fake allocator device. Alloc hands out handles backed by
// pipes.
type Device struct {
	module    *Module
	allocated map[*native.Handle]struct{}
	closed    bool
}

// Closed reports whether Close was called.
func (d *Device) Closed() bool {
	d.module.mu.Lock()
	defer d.module.mu.Unlock()
	return d.closed
}

func (d *Device) Alloc(width, height int32, format gralloc.Format, usage gralloc.Usage) (*native.Handle, int32, error) {
	d.module.mu.Lock()
	defer d.module.mu.Unlock()
	d.module.counts.Allocs++
	if d.module.AllocErr != nil {
		return nil, 0, d.module.AllocErr
	}
	if width <= 0 || height <= 0 {
		return nil, 0, hardware.Status(-int32(unix.EINVAL))
	}

	var p [2]int
	if err := unix.Pipe2(p[:], unix.O_CLOEXEC); err != nil {
		return nil, 0, err
	}
	_ = unix.Close(p[1])

	stride := (width + 15) &^ 15
	h := &native.Handle{
		FDs:  []int{p[0]},
		Ints: []int32{width, height, stride, int32(format), int32(usage)},
	}
	d.allocated[h] = struct{}{}
	return h, stride, nil
}

func (d *Device) Free(h *native.Handle) error {
	d.module.mu.Lock()
	defer d.module.mu.Unlock()
	d.module.counts.Frees++
	if _, ok := d.allocated[h]; !ok {
		return hardware.Status(-int32(unix.EINVAL))
	}
	delete(d.allocated, h)
	return h.Close()
}

func (d *Device) Close() error {
	d.module.mu.Lock()
	defer d.module.mu.Unlock()
	d.module.counts.Closes++
	d.closed = true
	return d.module.CloseErr
}

// Library is a fake hardware library serving one module.
type Library struct {
	// Module is returned for any id when non-nil.
	Module hardware.Module
	// LookupErr fails symbol resolution.
	LookupErr error
	// Status is returned by the lookup entry point when non-zero.
	Status int32

	mu      sync.Mutex
	opens   int
	lookups int
}

// Open returns an OpenFunc serving l.
func (l *Library) Open() hardware.OpenFunc {
	return func(string) (hardware.Library, error) {
		l.mu.Lock()
		l.opens++
		l.mu.Unlock()
		return l, nil
	}
}

// Opens returns how many times the library was opened.
func (l *Library) Opens() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.opens
}

// Lookups returns how many modules were looked up.
func (l *Library) Lookups() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lookups
}

func (l *Library) Lookup(symbol string) (hardware.GetModuleFunc, error) {
	if l.LookupErr != nil {
		return nil, l.LookupErr
	}
	return func(string) (hardware.Module, error) {
		l.mu.Lock()
		l.lookups++
		l.mu.Unlock()
		if l.Status != 0 {
			return nil, hardware.Status(l.Status)
		}
		return l.Module, nil
	}, nil
}

// MissingLibrary is an OpenFunc for a library that is not installed.
func MissingLibrary(path string) (hardware.Library, error) {
	return nil, unix.ENOENT
}

// Loader returns a loader resolving m through a fake library.
func Loader(m hardware.Module) *hardware.Loader {
	lib := &Library{Module: m}
	return hardware.NewLoader("/fake/libhardware.so", hardware.GrallocModuleID, lib.Open())
}

// Pipe returns a native handle with n open read descriptors and the given
// ints appended. The write ends are closed.
func Pipe(n int, ints ...int32) (*native.Handle, error) {
	h := &native.Handle{Ints: append([]int32(nil), ints...)}
	for range n {
		var p [2]int
		if err := unix.Pipe2(p[:], unix.O_CLOEXEC); err != nil {
			_ = h.Close()
			return nil, err
		}
		_ = unix.Close(p[1])
		h.FDs = append(h.FDs, p[0])
	}
	return h, nil
}
