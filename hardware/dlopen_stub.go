//go:build !cgo || !linux

package hardware

import (
	"github.com/wippyai/wlegl/errors"
)

// Dlopen is unavailable without cgo on Linux.
func Dlopen(path string) (Library, error) {
	return nil, errors.Unsupported(errors.PhaseLoad, "dynamic loading requires cgo on linux")
}
