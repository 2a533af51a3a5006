//go:build !cgo || !linux

package gralloc

import (
	"github.com/wippyai/wlegl/errors"
	"github.com/wippyai/wlegl/hardware"
)

func bindHAL(m hardware.Module) (Module, error) {
	return nil, errors.Unsupported(errors.PhaseLoad, "gralloc binding requires cgo on linux")
}
