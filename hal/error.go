package hal

import "errors"

// Errors a backend itself may detect and return, distinct from the
// types.Result codes the engine layer reports to callers (spec §7
// draws this same line: the HAL only ever sees "can't do it", the
// engine decides whether that's a validation failure or an
// out-of-memory condition).
var (
	// ErrBackendNotFound indicates the requested backend is not registered.
	ErrBackendNotFound = errors.New("hal: backend not found")

	// ErrDeviceOutOfMemory indicates the GPU has exhausted its memory.
	ErrDeviceOutOfMemory = errors.New("hal: device out of memory")

	// ErrDeviceLost indicates the GPU device has been lost (driver
	// crash, hardware disconnect, TDR timeout) and cannot be
	// recovered; the context must be recreated.
	ErrDeviceLost = errors.New("hal: device lost")

	// ErrSurfaceLost indicates the presentation surface backing a
	// context's default render target has been destroyed.
	ErrSurfaceLost = errors.New("hal: surface lost")

	// ErrSurfaceOutdated indicates the surface needs reconfiguration
	// (window resize, display mode change).
	ErrSurfaceOutdated = errors.New("hal: surface outdated")

	// ErrTimeout indicates a wait operation timed out.
	ErrTimeout = errors.New("hal: timeout")

	// ErrInvalidCmdBufferState indicates a CmdBuffer method was
	// called out of order relative to its state machine (C11).
	ErrInvalidCmdBufferState = errors.New("hal: command buffer used out of state order")
)
