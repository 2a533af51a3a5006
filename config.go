package wlegl

import (
	"go.uber.org/zap"

	"github.com/wippyai/wlegl/hardware"
)

// MalformedHandlePolicy decides what happens to a client that sends a
// malformed create_handle.
type MalformedHandlePolicy uint8

const (
	// FailRequest posts bad_handle and leaves the new id unbound.
	FailRequest MalformedHandlePolicy = iota
	// Disconnect posts bad_handle and destroys the client.
	Disconnect
)

func (p MalformedHandlePolicy) String() string {
	switch p {
	case FailRequest:
		return "fail-request"
	case Disconnect:
		return "disconnect"
	default:
		return "unknown"
	}
}

// Config configures a Bridge. The zero value is usable.
type Config struct {
	// Loader resolves the allocator module. Nil means hardware.Default().
	Loader *hardware.Loader

	// Logger receives bridge logs. Nil means Logger().
	Logger *zap.Logger

	// GlobalVersion is the advertised android_wlegl version. Zero means
	// Version.
	GlobalVersion uint32

	MalformedHandlePolicy MalformedHandlePolicy
}

func (c Config) withDefaults() Config {
	if c.Loader == nil {
		c.Loader = hardware.Default()
	}
	if c.Logger == nil {
		c.Logger = Logger()
	}
	if c.GlobalVersion == 0 {
		c.GlobalVersion = Version
	}
	return c
}
