package hal

import "github.com/gogpu/gputypes"

// MemoryTypeMask is a bitmask of device memory types a resource is
// compatible with, intersected across every resource assigned to a
// pool (spec §4.F).
type MemoryTypeMask uint32

// Compatible reports whether the mask shares at least one memory type
// with other.
func (m MemoryTypeMask) Compatible(other MemoryTypeMask) bool {
	return m&other != 0
}

// PoolRequest describes one memory pool the transient allocator wants
// bound to concrete device memory: a contiguous byte range sized to the
// largest concurrently-live set of resources packed into it.
type PoolRequest struct {
	Size          uint64
	MemoryTypeBits MemoryTypeMask
	Label         string
}

// MemoryBlock is an opaque handle to the device memory backing one pool.
type MemoryBlock interface {
	Resource
}

// BufferBinding describes where in a pool a transient buffer lives.
type BufferBinding struct {
	Size   uint64
	Offset uint64
	Usage  gputypes.BufferUsage
	Label  string
}

// TextureBinding describes where in a pool a transient texture lives.
type TextureBinding struct {
	Extent   Extent3D
	Format   gputypes.TextureFormat
	MipLevelCount, ArrayLayerCount, SampleCount uint32
	Usage    gputypes.TextureUsage
	Label    string
	Offset   uint64
}

// MemoryAllocator binds the transient allocator's computed pool layout
// to real device memory. The render graph computes pool sizes and
// resource offsets (spec §4.F); the host-supplied MemoryAllocator is
// the only component that actually talks to the device's memory
// management API, the same separation hal.Device draws between
// resource description and backend-specific creation in the teacher.
type MemoryAllocator interface {
	// AllocatePool reserves a contiguous device memory block for req.
	// Returns ErrDeviceOutOfMemory (wrapped) if it cannot be satisfied.
	AllocatePool(req PoolRequest) (MemoryBlock, error)

	// BindBuffer creates a buffer bound at the given offset within block.
	BindBuffer(block MemoryBlock, binding BufferBinding) (Buffer, error)

	// BindTexture creates a texture bound at the given offset within block.
	BindTexture(block MemoryBlock, binding TextureBinding) (Texture, error)

	// FreePool releases a pool and every resource bound within it.
	FreePool(block MemoryBlock)
}
