package rendergraph

import (
	"errors"
	"fmt"
)

// Sentinel error kinds (spec §7). Compare with errors.Is; compile-time
// failures additionally wrap one of these in a *CompileError.
var (
	// ErrInvalidHandle is returned when a view references an
	// out-of-range handle index.
	ErrInvalidHandle = errors.New("rendergraph: invalid handle")

	// ErrStaleHandle is returned when a handle's generation does not
	// match its slot's current generation.
	ErrStaleHandle = errors.New("rendergraph: stale handle")

	// ErrWriteConflict is returned only in strict validation mode; the
	// planner's default behavior is to resolve a same-batch write
	// conflict by opening a new batch rather than failing.
	ErrWriteConflict = errors.New("rendergraph: write conflict within batch")

	// ErrResourceExhausted is returned when a handle space has reached
	// its 2^24-slot capacity.
	ErrResourceExhausted = errors.New("rendergraph: resource handle space exhausted")

	// ErrDeviceOutOfMemory is returned when transient allocation fails.
	ErrDeviceOutOfMemory = errors.New("rendergraph: device out of memory")

	// ErrDeviceError wraps an opaque device-reported submission
	// failure; the underlying code is preserved via Unwrap.
	ErrDeviceError = errors.New("rendergraph: device error")

	// ErrNotCompiled is returned by Execute when called before Compile.
	ErrNotCompiled = errors.New("rendergraph: graph has not been compiled")

	// ErrReentrant is returned when Compile or Execute is called while
	// another call on the same graph is already in progress.
	ErrReentrant = errors.New("rendergraph: graph is not reentrant")
)

// CompileError wraps a compile-time failure with the task index that
// triggered it, when known. Graph.Compile returns one of these rather
// than a bare sentinel; it sets TaskIndex to -1 for every failure it
// reports, since the analyzer and allocator errors it wraps carry no
// task index.
type CompileError struct {
	// TaskIndex is the declaration-order index of the offending task,
	// or -1 if the failure is not attributable to one task.
	TaskIndex int
	Err       error
}

func (e *CompileError) Error() string {
	if e.TaskIndex < 0 {
		return fmt.Sprintf("rendergraph: compile failed: %v", e.Err)
	}
	return fmt.Sprintf("rendergraph: compile failed at task %d: %v", e.TaskIndex, e.Err)
}

func newCompileError(taskIndex int, err error) *CompileError {
	return &CompileError{TaskIndex: taskIndex, Err: err}
}

func (e *CompileError) Unwrap() error { return e.Err }
