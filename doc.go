// Package wlegl bridges the android_wlegl protocol extension to the platform
// graphics allocator.
//
// A client turns a flat array of descriptors and integers into a handle
// object (create_handle), then wraps that handle with geometry, format and
// usage into a wl_buffer (create_buffer). The bridge imports the buffer into
// the allocator, publishes it in the compositor's generic buffer registry and
// releases it again when the client destroys it or disconnects.
//
// # Architecture Overview
//
// The module is organized into several packages with distinct responsibilities:
//
//	wlegl/               Bridge, buffer objects and the android_wlegl binding
//	├── hardware/        Hardware-module registry loader (libhardware)
//	├── gralloc/         Allocator module/device and the allocator session
//	├── native/          Wire ints <-> native buffer handles
//	├── protocol/        In-process display, globals, clients and resources
//	├── compositor/      Generic buffer-type registry
//	├── resource/        Per-client object table
//	├── errors/          Structured error types
//	└── cmd/wlegl-probe/ On-device diagnostic tool
//
// # Quick Start
//
// Create the bridge once per compositor:
//
//	reg := compositor.NewRegistry(protocol.NewDisplay(protocol.DefaultOptions()))
//
//	bridge, err := wlegl.New(reg, wlegl.Config{})
//	if err != nil {
//	    // The compositor runs without hardware buffers.
//	    log.Print(err)
//	}
//	defer bridge.Destroy()
//
// A zero Config loads the gralloc module from the default libhardware path.
// Tests pass a Config with a hardware.Loader over a fake library, see
// gralloc/gralloctest.
//
// # Errors
//
// Construction failures (module load, symbol lookup, allocator open) abort
// New. Per-request failures are posted to the requesting client as
// android_wlegl errors and returned from protocol.Client.Dispatch; the bridge
// itself is unaffected:
//
//   - malformed handle, unknown handle object: bad_handle
//   - allocator rejection: bad_value
//   - object or registry exhaustion: no_memory
//
// # Thread Safety
//
// A Bridge is driven by the compositor's dispatch goroutine and takes no
// locks. Bridge.Stats is the only method meant for other goroutines.
package wlegl
