//go:build cgo && linux

package gralloc

/*
#include <stdint.h>
#include <stdlib.h>

typedef struct wlegl_native_handle {
	int version;
	int numFds;
	int numInts;
	int data[];
} wlegl_native_handle;

struct wlegl_hw_module;
struct wlegl_hw_device;

typedef struct wlegl_hw_module_methods {
	int (*open)(const struct wlegl_hw_module *module, const char *id, struct wlegl_hw_device **device);
} wlegl_hw_module_methods;

// Mirrors hw_module_t from hardware/hardware.h.
typedef struct wlegl_hw_module {
	uint32_t tag;
	uint16_t module_api_version;
	uint16_t hal_api_version;
	const char *id;
	const char *name;
	const char *author;
	wlegl_hw_module_methods *methods;
	void *dso;
#ifdef __LP64__
	uint64_t reserved[32 - 7];
#else
	uint32_t reserved[32 - 7];
#endif
} wlegl_hw_module;

// Mirrors hw_device_t.
typedef struct wlegl_hw_device {
	uint32_t tag;
	uint32_t version;
	struct wlegl_hw_module *module;
#ifdef __LP64__
	uint64_t reserved[12];
#else
	uint32_t reserved[12];
#endif
	int (*close)(struct wlegl_hw_device *device);
} wlegl_hw_device;

// Leading part of gralloc_module_t.
typedef struct wlegl_gralloc_module {
	wlegl_hw_module common;
	int (*registerBuffer)(const struct wlegl_gralloc_module *module, const wlegl_native_handle *handle);
	int (*unregisterBuffer)(const struct wlegl_gralloc_module *module, const wlegl_native_handle *handle);
} wlegl_gralloc_module;

// Leading part of alloc_device_t.
typedef struct wlegl_alloc_device {
	wlegl_hw_device common;
	int (*alloc)(struct wlegl_alloc_device *dev, int w, int h, int format, int usage,
		     const wlegl_native_handle **handle, int *stride);
	int (*free)(struct wlegl_alloc_device *dev, const wlegl_native_handle *handle);
} wlegl_alloc_device;

static int wlegl_gralloc_open(const wlegl_gralloc_module *m, const char *name, wlegl_alloc_device **dev) {
	return m->common.methods->open(&m->common, name, (wlegl_hw_device **)dev);
}

static int wlegl_gralloc_close(wlegl_alloc_device *dev) {
	return dev->common.close(&dev->common);
}

static int wlegl_gralloc_register(const wlegl_gralloc_module *m, const wlegl_native_handle *h) {
	return m->registerBuffer(m, h);
}

static int wlegl_gralloc_unregister(const wlegl_gralloc_module *m, const wlegl_native_handle *h) {
	return m->unregisterBuffer(m, h);
}

static int wlegl_gralloc_alloc(wlegl_alloc_device *dev, int w, int h, int format, int usage,
			       const wlegl_native_handle **handle, int *stride) {
	return dev->alloc(dev, w, h, format, usage, handle, stride);
}

static int wlegl_gralloc_free(wlegl_alloc_device *dev, const wlegl_native_handle *h) {
	return dev->free(dev, h);
}

static wlegl_native_handle *wlegl_handle_new(int numFds, int numInts) {
	wlegl_native_handle *h = calloc(1, sizeof(*h) + sizeof(int) * (numFds + numInts));
	if (h) {
		h->version = sizeof(*h);
		h->numFds = numFds;
		h->numInts = numInts;
	}
	return h;
}

static void wlegl_handle_set(wlegl_native_handle *h, int i, int v) { h->data[i] = v; }
static int wlegl_handle_get(const wlegl_native_handle *h, int i) { return h->data[i]; }
*/
import "C"

import (
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/wippyai/wlegl/errors"
	"github.com/wippyai/wlegl/hardware"
	"github.com/wippyai/wlegl/native"
)

type halPointer interface {
	Pointer() unsafe.Pointer
}

// halModule binds a gralloc_module_t. It keeps the C copy of every handle
// it registered or allocated, keyed by the Go handle.
type halModule struct {
	hardware.Module
	ptr     *C.wlegl_gralloc_module
	handles map[*native.Handle]*C.wlegl_native_handle
}

func bindHAL(m hardware.Module) (Module, error) {
	p, ok := m.(halPointer)
	if !ok {
		return nil, errors.Unsupported(errors.PhaseLoad, "module "+m.ID()+" has no HAL binding")
	}
	return &halModule{
		Module:  m,
		ptr:     (*C.wlegl_gralloc_module)(p.Pointer()),
		handles: make(map[*native.Handle]*C.wlegl_native_handle),
	}, nil
}

func (m *halModule) OpenDevice() (Device, error) {
	name := C.CString(DeviceName)
	defer C.free(unsafe.Pointer(name))

	var dev *C.wlegl_alloc_device
	if err := hardware.Err(int32(C.wlegl_gralloc_open(m.ptr, name, &dev))); err != nil {
		return nil, err
	}
	return &halDevice{module: m, ptr: dev}, nil
}

func (m *halModule) RegisterBuffer(h *native.Handle) error {
	ch := toC(h)
	if ch == nil {
		return hardware.Status(-int32(unix.ENOMEM))
	}
	if err := hardware.Err(int32(C.wlegl_gralloc_register(m.ptr, ch))); err != nil {
		C.free(unsafe.Pointer(ch))
		return err
	}
	m.handles[h] = ch
	return nil
}

func (m *halModule) UnregisterBuffer(h *native.Handle) error {
	ch, ok := m.handles[h]
	if !ok {
		return hardware.Status(-int32(unix.EINVAL))
	}
	delete(m.handles, h)
	err := hardware.Err(int32(C.wlegl_gralloc_unregister(m.ptr, ch)))
	C.free(unsafe.Pointer(ch))
	return err
}

func (m *halModule) CloseHandle(h *native.Handle) error {
	return h.Close()
}

type halDevice struct {
	module *halModule
	ptr    *C.wlegl_alloc_device
}

func (d *halDevice) Alloc(width, height int32, format Format, usage Usage) (*native.Handle, int32, error) {
	var (
		ch     *C.wlegl_native_handle
		stride C.int
	)
	rc := C.wlegl_gralloc_alloc(d.ptr, C.int(width), C.int(height), C.int(format), C.int(usage), &ch, &stride)
	if err := hardware.Err(int32(rc)); err != nil {
		return nil, 0, err
	}
	h := fromC(ch)
	d.module.handles[h] = ch
	return h, int32(stride), nil
}

func (d *halDevice) Free(h *native.Handle) error {
	ch, ok := d.module.handles[h]
	if !ok {
		return hardware.Status(-int32(unix.EINVAL))
	}
	delete(d.module.handles, h)
	// The allocator owns and closes the descriptors of buffers it allocated.
	h.FDs = nil
	return hardware.Err(int32(C.wlegl_gralloc_free(d.ptr, ch)))
}

func (d *halDevice) Close() error {
	return hardware.Err(int32(C.wlegl_gralloc_close(d.ptr)))
}

func toC(h *native.Handle) *C.wlegl_native_handle {
	ch := C.wlegl_handle_new(C.int(len(h.FDs)), C.int(len(h.Ints)))
	if ch == nil {
		return nil
	}
	i := 0
	for _, fd := range h.FDs {
		C.wlegl_handle_set(ch, C.int(i), C.int(fd))
		i++
	}
	for _, v := range h.Ints {
		C.wlegl_handle_set(ch, C.int(i), C.int(v))
		i++
	}
	return ch
}

func fromC(ch *C.wlegl_native_handle) *native.Handle {
	numFDs, numInts := int(ch.numFds), int(ch.numInts)
	h := &native.Handle{
		FDs:  make([]int, numFDs),
		Ints: make([]int32, numInts),
	}
	for i := range numFDs {
		h.FDs[i] = int(C.wlegl_handle_get(ch, C.int(i)))
	}
	for i := range numInts {
		h.Ints[i] = int32(C.wlegl_handle_get(ch, C.int(numFDs+i)))
	}
	return h
}
