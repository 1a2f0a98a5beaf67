package hal

import "errors"

// Common HAL errors representing unrecoverable GPU states, surfaced
// verbatim by the executor when a device rejects a submission.
var (
	// ErrDeviceOutOfMemory indicates the GPU has exhausted its memory.
	// This is unrecoverable for the current allocation - the caller should
	// reduce transient resource usage or gracefully terminate.
	ErrDeviceOutOfMemory = errors.New("hal: device out of memory")

	// ErrDeviceLost indicates the GPU device has been lost.
	// This can happen due to:
	//   - GPU driver crash or reset
	//   - GPU hardware disconnection
	//   - Driver timeout (TDR on Windows)
	// The device cannot be recovered and must be recreated by the host.
	ErrDeviceLost = errors.New("hal: device lost")

	// ErrTimeout indicates a Wait operation timed out.
	ErrTimeout = errors.New("hal: timeout")
)
