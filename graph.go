package rendergraph

import (
	"bytes"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/rendergraph/hal"
)

// Graph is a frame-scoped render graph: tasks are recorded against it,
// compiled once into batches and barriers, then executed against one or
// more devices every frame (spec §2).
//
// A Graph is not safe for concurrent use; record, Compile, and Execute
// are non-reentrant and must be serialized by the caller (spec §5).
type Graph struct {
	devices      []hal.Device
	memAllocator hal.MemoryAllocator
	options      Options

	registry registry
	tasks    []Task

	conditions uint32

	compiled        bool
	compiling       bool
	executing       bool
	compiledBatches []Batch

	frameIndex   uint64
	submitWaits  []hal.TimelineWait
	submitSignal *hal.TimelineSignal

	debugInfo []byte
}

// Create constructs a Graph bound to the given devices (spec §6
// "create(devices[], options)"). memAllocator is the host collaborator
// the transient allocator binds pool layouts against.
func Create(devices []hal.Device, memAllocator hal.MemoryAllocator, options Options) (*Graph, error) {
	if len(devices) == 0 {
		return nil, fmt.Errorf("rendergraph: create requires at least one device")
	}
	return &Graph{
		devices:      devices,
		memAllocator: memAllocator,
		options:      options,
	}, nil
}

// UsePersistentBuffer registers a host-owned buffer the graph will
// reference but never allocate or free (spec §6
// "use_persistent_buffer").
func (g *Graph) UsePersistentBuffer(device hal.Buffer, size uint64, usage gputypes.BufferUsage, gpuMask GPUMask) (BufferView, error) {
	return g.registry.registerPersistentBuffer(device, size, usage, gpuMask)
}

// UsePersistentImage registers a host-owned image.
func (g *Graph) UsePersistentImage(device hal.Texture, extent hal.Extent3D, format gputypes.TextureFormat, usage gputypes.TextureUsage, gpuMask GPUMask) (ImageView, error) {
	return g.registry.registerPersistentImage(device, extent, format, usage, gpuMask)
}

// CreateTransientBuffer declares a frame-scoped buffer the transient
// allocator will bind to pooled memory at compile time.
func (g *Graph) CreateTransientBuffer(info TransientBufferInfo) (BufferView, error) {
	return g.registry.createTransientBuffer(info)
}

// CreateTransientImage declares a frame-scoped image.
func (g *Graph) CreateTransientImage(info TransientImageInfo) (ImageView, error) {
	return g.registry.createTransientImage(info)
}

// Compile runs the dependency analyzer, batch planner, synchronization
// planner, and (for each configured device) the transient allocator,
// producing the plan Execute and ExecuteOnAllGPUs walk. Compile is
// idempotent and deterministic given the same task list and condition
// vector (spec §2), and non-reentrant with itself or Execute (spec §5).
func (g *Graph) Compile() error {
	if g.compiling || g.executing {
		return ErrReentrant
	}
	g.compiling = true
	defer func() { g.compiling = false }()

	a, err := g.analyze()
	if err != nil {
		return newCompileError(-1, err)
	}

	batches := g.planBatches(a)
	g.compiledBatches = batches
	g.planBarriers(g.compiledBatches)

	for _, device := range g.devices {
		if err := g.allocateTransients(device, g.memAllocator); err != nil {
			return newCompileError(-1, err)
		}
	}

	if g.options.RecordDebugInfo {
		g.recordDebugInfo()
	}

	g.compiled = true
	return nil
}

// recordDebugInfo renders the compiled batch list into a human-readable
// trace (batch index, task names, barrier counts), both logging it at
// debug level through the shared logger and retaining it for
// DebugInfo. The format is not stable across versions.
func (g *Graph) recordDebugInfo() {
	var buf bytes.Buffer
	for bi, b := range g.compiledBatches {
		fmt.Fprintf(&buf, "batch %d (queue %d): %d pre-barrier(s), %d post-barrier(s)\n",
			bi, b.QueueIndex, len(b.preBarriers), len(b.postBarriers))
		for _, ti := range b.TaskIndices {
			t := g.tasks[ti]
			fmt.Fprintf(&buf, "  task %d: %s (%s)\n", ti, t.Name, t.Kind)
		}
	}
	g.debugInfo = buf.Bytes()
	logger().Debug("rendergraph: compiled", "batches", len(g.compiledBatches), "tasks", len(g.tasks))
}

// DebugInfo returns the accumulated human-readable trace recorded when
// Options.RecordDebugInfo is set (spec §6 "get_debug_info"). The format
// is intentionally non-stable across versions.
func (g *Graph) DebugInfo() []byte {
	return g.debugInfo
}
