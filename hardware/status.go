package hardware

import (
	"strconv"

	"golang.org/x/sys/unix"
)

// Status is a negative errno returned by a HAL entry point.
type Status int32

func (s Status) Error() string {
	if s >= 0 {
		return "hal status " + strconv.Itoa(int(s))
	}
	return unix.Errno(-s).Error()
}

// StatusCode returns the raw status.
func (s Status) StatusCode() int32 { return int32(s) }

// Err returns nil for a zero status and the Status otherwise.
func Err(rc int32) error {
	if rc == 0 {
		return nil
	}
	return Status(rc)
}
