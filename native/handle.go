// Package native translates the flat integer arrays carried by the
// android_wlegl protocol into native buffer handles and back.
//
// A native handle is a set of file descriptors followed by opaque integers,
// the same shape as Android's native_handle_t. Translation is a move: the
// Handle returned by FromWire owns the descriptors and closes them in Close.
package native

import (
	"go.uber.org/multierr"
	"golang.org/x/sys/unix"

	"github.com/wippyai/wlegl/errors"
)

// Limits of native_handle_t.
const (
	MaxFDs  = 1024
	MaxInts = 1024
)

// Handle is a native buffer handle: descriptors plus opaque integers.
type Handle struct {
	FDs  []int
	Ints []int32
}

// FromWire interprets ints as numFDs descriptors followed by opaque integers.
// The returned Handle takes ownership of the descriptors.
//
// Count errors close nothing, since the values cannot be trusted as
// descriptors. If a declared descriptor is not open or is listed twice,
// every distinct open descriptor is closed before returning because
// ownership already moved.
func FromWire(numFDs int32, ints []int32) (*Handle, error) {
	if numFDs < 0 {
		return nil, errors.MalformedHandle("negative descriptor count %d", numFDs)
	}
	if int(numFDs) > len(ints) {
		return nil, errors.MalformedHandle("num_fds %d exceeds %d ints", numFDs, len(ints))
	}
	numInts := len(ints) - int(numFDs)
	if numFDs > MaxFDs || numInts > MaxInts {
		return nil, errors.MalformedHandle("handle too large: %d fds, %d ints", numFDs, numInts)
	}

	h := &Handle{
		FDs:  make([]int, numFDs),
		Ints: make([]int32, numInts),
	}
	for i := range h.FDs {
		h.FDs[i] = int(ints[i])
	}
	copy(h.Ints, ints[numFDs:])

	seen := make(map[int]struct{}, len(h.FDs))
	for i, fd := range h.FDs {
		if !validFD(fd) {
			err := errors.New(errors.PhaseTranslate, errors.KindMalformedHandle).
				Value(fd).
				Detail("descriptor %d (index %d) is not open", fd, i).
				Build()
			closeValid(h.FDs)
			return nil, err
		}
		if _, dup := seen[fd]; dup {
			closeValid(h.FDs)
			return nil, errors.MalformedHandle("descriptor %d listed twice", fd)
		}
		seen[fd] = struct{}{}
	}

	return h, nil
}

// Wire returns the flat representation consumed by FromWire.
// The Handle keeps ownership of its descriptors.
func (h *Handle) Wire() (int32, []int32) {
	ints := make([]int32, 0, len(h.FDs)+len(h.Ints))
	for _, fd := range h.FDs {
		ints = append(ints, int32(fd))
	}
	ints = append(ints, h.Ints...)
	return int32(len(h.FDs)), ints
}

// NumFDs returns the number of descriptors.
func (h *Handle) NumFDs() int { return len(h.FDs) }

// NumInts returns the number of opaque integers.
func (h *Handle) NumInts() int { return len(h.Ints) }

// Clone duplicates the descriptors and copies the integers.
// The clone is independent: closing either handle leaves the other valid.
func (h *Handle) Clone() (*Handle, error) {
	c := &Handle{
		FDs:  make([]int, 0, len(h.FDs)),
		Ints: append([]int32(nil), h.Ints...),
	}
	for _, fd := range h.FDs {
		dup, err := unix.FcntlInt(uintptr(fd), unix.F_DUPFD_CLOEXEC, 0)
		if err != nil {
			_ = c.Close()
			return nil, errors.Wrap(errors.PhaseAllocate, errors.KindAllocation, err, "duplicate descriptor")
		}
		c.FDs = append(c.FDs, dup)
	}
	return c, nil
}

// Close closes every descriptor. The Handle is empty afterwards, so a
// second Close is a no-op.
func (h *Handle) Close() error {
	var err error
	for _, fd := range h.FDs {
		err = multierr.Append(err, unix.Close(fd))
	}
	h.FDs = nil
	return err
}

func validFD(fd int) bool {
	if fd < 0 {
		return false
	}
	_, err := unix.FcntlInt(uintptr(fd), unix.F_GETFD, 0)
	return err == nil
}

// closeValid closes each distinct open descriptor once.
func closeValid(fds []int) {
	closed := make(map[int]struct{}, len(fds))
	for _, fd := range fds {
		if _, ok := closed[fd]; ok {
			continue
		}
		closed[fd] = struct{}{}
		if validFD(fd) {
			_ = unix.Close(fd)
		}
	}
}
