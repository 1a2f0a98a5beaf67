package rendergraph

// DefaultScratchMemorySize is the default size of the per-execution
// scratch buffer handed to each task callback (spec §6).
const DefaultScratchMemorySize = 128 * 1024

// Options configures a Graph at construction time (spec §6 "create").
type Options struct {
	// EnableReordering lets the batch planner topologically sort tasks
	// within a batch instead of keeping declaration order.
	EnableReordering bool

	// EnableAliasing switches the transient allocator from one-block-
	// per-resource to lifetime-interval-coloring pool packing.
	EnableAliasing bool

	// UseSplitBarriers lets the synchronization planner split a barrier
	// into a release/acquire pair when the latency-hiding heuristic
	// applies.
	UseSplitBarriers bool

	// EnableMultiQueue lets the batch planner route tasks to more than
	// one queue family based on task kind.
	EnableMultiQueue bool

	// ScratchMemorySize overrides DefaultScratchMemorySize when nonzero.
	ScratchMemorySize uint32

	// EnableDebugLabels pushes/pops a debug label around each task's
	// recorded commands.
	EnableDebugLabels bool

	// RecordDebugInfo makes Compile record a human-readable trace of the
	// compiled batches, retrievable via Graph.DebugInfo. Execute adds
	// nothing to it.
	RecordDebugInfo bool
}

// scratchSize returns the effective scratch buffer size for o.
func (o Options) scratchSize() uint32 {
	if o.ScratchMemorySize == 0 {
		return DefaultScratchMemorySize
	}
	return o.ScratchMemorySize
}
