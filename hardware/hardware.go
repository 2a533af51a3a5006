// Package hardware locates the platform's hardware-module registry and looks
// up HAL modules in it.
//
// The registry lives in a shared library (libhardware) that exports
// hw_get_module. A Loader opens that library once, resolves the entry point,
// looks up one module by id and caches the outcome for the life of the
// process. Nothing here unloads the library.
package hardware

import (
	"runtime"
	"sync"

	"github.com/wippyai/wlegl/errors"
)

const (
	// GetModuleSymbol is the registry's module-lookup entry point.
	GetModuleSymbol = "hw_get_module"

	// GrallocModuleID is the well-known id of the graphics allocator module.
	GrallocModuleID = "gralloc"
)

// DefaultLibraryPath is where the platform keeps libhardware.
var DefaultLibraryPath = libraryPath(runtime.GOARCH)

func libraryPath(arch string) string {
	switch arch {
	case "arm64", "amd64", "riscv64":
		return "/system/lib64/libhardware.so"
	default:
		return "/system/lib/libhardware.so"
	}
}

// Module is a HAL module resolved from the registry.
type Module interface {
	ID() string
	Name() string
	Author() string
	// APIVersion returns the module and HAL API versions.
	APIVersion() (module, hal uint16)
}

// GetModuleFunc looks up a module by id.
type GetModuleFunc func(id string) (Module, error)

// Library is an opened hardware library.
type Library interface {
	// Lookup resolves the module-lookup entry point by symbol name.
	Lookup(symbol string) (GetModuleFunc, error)
}

// OpenFunc opens the hardware library at path.
type OpenFunc func(path string) (Library, error)

// Loader resolves one module from one hardware library, exactly once.
type Loader struct {
	open   OpenFunc
	path   string
	id     string
	once   sync.Once
	module Module
	err    error
}

// NewLoader creates a loader for module id in the library at path.
// A nil open uses Dlopen.
func NewLoader(path, id string, open OpenFunc) *Loader {
	if open == nil {
		open = Dlopen
	}
	return &Loader{
		open: open,
		path: path,
		id:   id,
	}
}

var (
	defaultLoader     *Loader
	defaultLoaderOnce sync.Once
)

// Default returns the process-wide gralloc loader.
func Default() *Loader {
	defaultLoaderOnce.Do(func() {
		defaultLoader = NewLoader(DefaultLibraryPath, GrallocModuleID, Dlopen)
	})
	return defaultLoader
}

// Path returns the library path.
func (l *Loader) Path() string { return l.path }

// ModuleID returns the id of the module the loader resolves.
func (l *Loader) ModuleID() string { return l.id }

// Load returns the module, loading it on the first call.
// The first call's outcome, success or failure, is returned by every later
// call; there is no retry.
func (l *Loader) Load() (Module, error) {
	l.once.Do(func() {
		l.module, l.err = l.load()
	})
	return l.module, l.err
}

func (l *Loader) load() (Module, error) {
	lib, err := l.open(l.path)
	if err != nil {
		return nil, errors.ModuleLoad(l.path, errors.StatusOf(err), err)
	}

	getModule, err := lib.Lookup(GetModuleSymbol)
	if err != nil || getModule == nil {
		return nil, errors.SymbolNotFound(l.path, GetModuleSymbol, err)
	}

	mod, err := getModule(l.id)
	if err != nil {
		return nil, errors.New(errors.PhaseLoad, errors.KindModuleLoad).
			Object(l.id).
			Status(errors.StatusOf(err)).
			Cause(err).
			Detail("module lookup failed").
			Build()
	}
	if mod == nil {
		return nil, errors.New(errors.PhaseLoad, errors.KindModuleLoad).
			Object(l.id).
			Detail("registry returned no module").
			Build()
	}
	return mod, nil
}
