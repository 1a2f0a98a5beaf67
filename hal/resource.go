// Package hal defines the narrow device, command, and barrier contracts
// the render graph executor records into. It deliberately does not cover
// instance/adapter/surface creation, pipeline or shader objects, or
// swap-chain presentation - those remain host collaborators (spec §1).
package hal

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/rendergraph/types"
)

// Resource is the base interface for host-owned GPU objects the render
// graph references but never creates: persistent buffers and textures
// supplied via use_persistent_*.
type Resource interface {
	// Destroy releases the GPU resource. The render graph never calls
	// this for persistent resources - only a MemoryAllocator calls it
	// for resources it bound itself, on graph teardown.
	Destroy()
}

// Buffer represents a GPU buffer, persistent or transient-bound.
type Buffer interface {
	Resource
}

// Texture represents a GPU texture, persistent or transient-bound.
type Texture interface {
	Resource
}

// CommandEncoder records GPU commands for one compiled batch list (a
// whole frame on one device). The render graph only ever drives the
// barrier- and label-recording surface of an encoder; actual
// draw/dispatch/copy commands are issued by task callbacks, and
// TaskInterface carries only this CommandEncoder for them.
type CommandEncoder interface {
	// BeginEncoding begins command recording with an optional label.
	BeginEncoding(label string) error

	// EndEncoding finishes command recording and returns a command buffer.
	// After this call, the encoder cannot be used again.
	EndEncoding() (CommandBuffer, error)

	// DiscardEncoding discards the encoder without creating a command buffer.
	DiscardEncoding()

	// PipelineBarrier records one synchronization barrier, covering a set
	// of buffer and image transitions that share a src/dst stage pair.
	PipelineBarrier(barrier PipelineBarrier)

	// PushDebugLabel pushes a debug label bracketing the following
	// commands. The executor calls it only when the graph was created
	// with Options.EnableDebugLabels.
	PushDebugLabel(label string)

	// PopDebugLabel pops the most recently pushed debug label.
	PopDebugLabel()
}

// CommandBuffer holds recorded GPU commands ready for submission.
type CommandBuffer interface {
	Resource
}

// Fence is a GPU synchronization primitive used to detect submission
// completion; semantics mirror a binary or timeline fence depending on
// the backend.
type Fence interface {
	Resource
}

// TimelineWait is a host-supplied timeline semaphore wait attached to a
// submission (spec §4.G / §5).
type TimelineWait struct {
	Semaphore Fence
	Value     uint64
	Stage     types.PipelineStage
}

// TimelineSignal is a host-supplied timeline semaphore signal attached
// to a submission.
type TimelineSignal struct {
	Semaphore Fence
	Value     uint64
}

// Queue submits recorded command buffers to a device.
type Queue interface {
	// Submit submits command buffers for execution, optionally waiting on
	// and signaling host-supplied timeline semaphores.
	Submit(buffers []CommandBuffer, waits []TimelineWait, signal *TimelineSignal) error
}

// Device is the host-supplied collaborator the executor records
// against for one physical or logical GPU.
type Device interface {
	// CreateCommandEncoder creates a command encoder for recording one
	// batch list's worth of commands.
	CreateCommandEncoder(label string) (CommandEncoder, error)

	// Queue returns the device's command queue.
	Queue() Queue

	// Index identifies this device within the graph's device list, used
	// to apply GPU-affinity masks and to label per-device submissions.
	Index() int
}

// BufferBarrier defines a buffer state transition.
type BufferBarrier struct {
	Buffer               Buffer
	Offset, Size         uint64
	SrcStage, DstStage   types.PipelineStage
	SrcAccess, DstAccess gputypes.BufferUsage
}

// ImageBarrier defines an image state transition, including an optional
// layout change and aspect mask.
type ImageBarrier struct {
	Texture              Texture
	Aspect               gputypes.TextureAspect
	BaseMipLevel         uint32
	MipLevelCount        uint32
	BaseArrayLayer       uint32
	ArrayLayerCount      uint32
	SrcStage, DstStage   types.PipelineStage
	OldLayout, NewLayout types.ImageLayout
	SrcAccess, DstAccess gputypes.TextureUsage
}

// Extent3D is a 3D extent, mirrored locally because gputypes does not
// export one usable outside a full texture descriptor.
type Extent3D struct {
	Width              uint32
	Height             uint32
	DepthOrArrayLayers uint32
}

// PipelineBarrier bundles every buffer and image transition that share
// a single synchronization point (spec §3 "Barrier"). Release and
// Acquire mark one half of a split barrier; both false means an
// ordinary immediate barrier.
type PipelineBarrier struct {
	BufferBarriers []BufferBarrier
	ImageBarriers  []ImageBarrier
	Release        bool
	Acquire        bool
	Label          string
}
