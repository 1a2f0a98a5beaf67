package rendergraph

import (
	"fmt"

	"github.com/gogpu/rendergraph/hal"
	"golang.org/x/sync/errgroup"
)

// TaskInterface is the object passed to a task's ExecuteFunc, scoped to
// a single invocation (spec §4.G / §6). It must not be retained past
// the callback's return.
type TaskInterface struct {
	Device      hal.Device
	Encoder     hal.CommandEncoder
	Attachments []Attachment
	Scratch     []byte
	FrameIndex  uint64
	GPUIndex    int

	graph *Graph
}

// GetBuffer resolves a buffer view to its device handle, validating the
// handle's generation. A stale handle during execute is a fatal logic
// error per spec §4.G and is reported via the returned error rather
// than panicking.
func (ti *TaskInterface) GetBuffer(v BufferView) (hal.Buffer, error) {
	rec, err := ti.graph.registry.resolveBuffer(v.Handle)
	if err != nil {
		return nil, err
	}
	return rec.device, nil
}

// GetImage resolves an image view to its device handle.
func (ti *TaskInterface) GetImage(v ImageView) (hal.Texture, error) {
	rec, err := ti.graph.registry.resolveImage(v.Handle)
	if err != nil {
		return nil, err
	}
	return rec.device, nil
}

// Execute performs the compiled plan against a single device (spec
// §4.G). gpuIndex selects which of the graph's configured devices to
// run against and which resources' GPU-affinity masks apply.
func (g *Graph) Execute(gpuIndex int) error {
	if !g.compiled {
		return ErrNotCompiled
	}
	if g.executing {
		return ErrReentrant
	}
	g.executing = true
	defer func() { g.executing = false }()
	return g.executeDevice(gpuIndex)
}

// executeDevice runs the compiled plan against one device without
// touching the graph-wide reentrancy guard; ExecuteOnAllGPUs holds the
// guard itself and calls this concurrently per device.
func (g *Graph) executeDevice(gpuIndex int) error {
	device := g.devices[gpuIndex]
	encoder, err := device.CreateCommandEncoder(fmt.Sprintf("rendergraph-frame-%d", g.frameIndex))
	if err != nil {
		return fmt.Errorf("rendergraph: begin encoding: %w", err)
	}
	if err := encoder.BeginEncoding(""); err != nil {
		return fmt.Errorf("rendergraph: begin encoding: %w", err)
	}

	for _, b := range g.compiledBatches {
		if !g.batchEnabled(b) {
			continue
		}
		for _, pb := range b.preBarriers {
			encoder.PipelineBarrier(g.lowerBarrier(pb, "rendergraph-barrier"))
		}
		for _, ti := range b.TaskIndices {
			t := &g.tasks[ti]
			if !t.enabled(g.conditions) {
				continue
			}
			if g.options.EnableDebugLabels {
				encoder.PushDebugLabel(t.Name)
			}
			iface := &TaskInterface{
				Device:      device,
				Encoder:     encoder,
				Attachments: t.Attachments,
				Scratch:     make([]byte, g.options.scratchSize()),
				FrameIndex:  g.frameIndex,
				GPUIndex:    gpuIndex,
				graph:       g,
			}
			t.Execute(iface)
			if g.options.EnableDebugLabels {
				encoder.PopDebugLabel()
			}
		}
		for _, pb := range b.postBarriers {
			encoder.PipelineBarrier(g.lowerBarrier(pb, "rendergraph-release"))
		}
	}

	buf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDeviceError, err)
	}
	if err := device.Queue().Submit([]hal.CommandBuffer{buf}, g.submitWaits, g.submitSignal); err != nil {
		return fmt.Errorf("%w: %w", ErrDeviceError, err)
	}
	return nil
}

// ExecuteOnAllGPUs runs the compiled plan independently against every
// configured device (spec §4.G "Multi-GPU"), fanning out with
// errgroup.Group so a failure on one device is reported without
// blocking the others' completion. The reentrancy guard is held once
// for the whole fan-out rather than per device, since the concurrent
// per-device calls are the sanctioned use of Execute's machinery, not
// an accidental reentrant call.
func (g *Graph) ExecuteOnAllGPUs() error {
	if !g.compiled {
		return ErrNotCompiled
	}
	if g.executing {
		return ErrReentrant
	}
	g.executing = true
	defer func() { g.executing = false }()

	var eg errgroup.Group
	for i := range g.devices {
		gpuIndex := i
		eg.Go(func() error {
			return g.executeDevice(gpuIndex)
		})
	}
	return eg.Wait()
}

// batchEnabled reports whether at least one task in b is enabled by the
// current condition vector; an all-disabled batch is skipped entirely,
// including its barriers (spec §4.G step 2.a).
func (g *Graph) batchEnabled(b Batch) bool {
	for _, ti := range b.TaskIndices {
		if g.tasks[ti].enabled(g.conditions) {
			return true
		}
	}
	return false
}

// SetCondition toggles bit index of the graph's 32-bit condition
// vector consulted at execute time (spec §6 "Permutation").
func (g *Graph) SetCondition(index int, value bool) {
	bit := uint32(1) << uint(index)
	if value {
		g.conditions |= bit
	} else {
		g.conditions &^= bit
	}
}

// SetSubmitSync attaches timeline-semaphore waits and an optional
// signal to every subsequent Execute call's submission (spec §5 "A
// submission with timeline-semaphore waits carries the host-supplied
// timeout semantics").
func (g *Graph) SetSubmitSync(waits []hal.TimelineWait, signal *hal.TimelineSignal) {
	g.submitWaits = waits
	g.submitSignal = signal
}
