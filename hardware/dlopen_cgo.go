//go:build cgo && linux

package hardware

/*
#cgo LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdint.h>
#include <stdlib.h>

// Mirrors hw_module_t from hardware/hardware.h.
typedef struct wlegl_hw_module {
	uint32_t tag;
	uint16_t module_api_version;
	uint16_t hal_api_version;
	const char *id;
	const char *name;
	const char *author;
	void *methods;
	void *dso;
#ifdef __LP64__
	uint64_t reserved[32 - 7];
#else
	uint32_t reserved[32 - 7];
#endif
} wlegl_hw_module;

typedef int (*wlegl_get_module_fn)(const char *id, const wlegl_hw_module **module);

static int wlegl_call_get_module(void *fn, const char *id, const wlegl_hw_module **module) {
	return ((wlegl_get_module_fn)fn)(id, module);
}
*/
import "C"

import (
	"unsafe"
)

type dlError string

func (e dlError) Error() string { return string(e) }

func lastDLError(fallback string) error {
	if msg := C.dlerror(); msg != nil {
		return dlError(C.GoString(msg))
	}
	return dlError(fallback)
}

type dlLibrary struct {
	handle unsafe.Pointer
	path   string
}

// Dlopen opens the library with dlopen(RTLD_LAZY). The handle is never closed.
func Dlopen(path string) (Library, error) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	handle := C.dlopen(cpath, C.RTLD_LAZY)
	if handle == nil {
		return nil, lastDLError("dlopen " + path)
	}
	return &dlLibrary{handle: handle, path: path}, nil
}

func (l *dlLibrary) Lookup(symbol string) (GetModuleFunc, error) {
	csym := C.CString(symbol)
	defer C.free(unsafe.Pointer(csym))

	// Clear any stale error so a NULL result can be told apart.
	C.dlerror()
	sym := C.dlsym(l.handle, csym)
	if sym == nil {
		return nil, lastDLError("dlsym " + symbol)
	}

	return func(id string) (Module, error) {
		cid := C.CString(id)
		defer C.free(unsafe.Pointer(cid))

		var mod *C.wlegl_hw_module
		if rc := C.wlegl_call_get_module(sym, cid, &mod); rc != 0 {
			return nil, Status(rc)
		}
		if mod == nil {
			return nil, nil
		}
		return &halModule{ptr: mod}, nil
	}, nil
}

// halModule is a hw_module_t owned by the hardware library.
type halModule struct {
	ptr *C.wlegl_hw_module
}

func (m *halModule) ID() string     { return C.GoString(m.ptr.id) }
func (m *halModule) Name() string   { return C.GoString(m.ptr.name) }
func (m *halModule) Author() string { return C.GoString(m.ptr.author) }

func (m *halModule) APIVersion() (uint16, uint16) {
	return uint16(m.ptr.module_api_version), uint16(m.ptr.hal_api_version)
}

// Pointer returns the hw_module_t for HAL-specific bindings.
func (m *halModule) Pointer() unsafe.Pointer { return unsafe.Pointer(m.ptr) }
