package rendergraph

import "github.com/gogpu/rendergraph/hal"

// fakeResource is the shared Destroy() implementation for every fake
// device object used across this package's tests.
type fakeResource struct{ destroyed bool }

func (r *fakeResource) Destroy() { r.destroyed = true }

type fakeBuffer struct{ fakeResource }

type fakeTexture struct{ fakeResource }

type fakeCommandBuffer struct{ fakeResource }

// fakeEncoder records every barrier and label call it receives so tests
// can assert on the executor's recorded command stream without a real
// backend.
type fakeEncoder struct {
	barriers    []hal.PipelineBarrier
	labels      []string
	begun       bool
	ended       bool
	discarded   bool
	endEncoding func() (hal.CommandBuffer, error)
}

func (e *fakeEncoder) BeginEncoding(label string) error {
	e.begun = true
	return nil
}

func (e *fakeEncoder) EndEncoding() (hal.CommandBuffer, error) {
	e.ended = true
	if e.endEncoding != nil {
		return e.endEncoding()
	}
	return &fakeCommandBuffer{}, nil
}

func (e *fakeEncoder) DiscardEncoding() { e.discarded = true }

func (e *fakeEncoder) PipelineBarrier(b hal.PipelineBarrier) {
	e.barriers = append(e.barriers, b)
}

func (e *fakeEncoder) PushDebugLabel(label string) { e.labels = append(e.labels, "+"+label) }
func (e *fakeEncoder) PopDebugLabel()               { e.labels = append(e.labels, "-") }

type fakeQueue struct {
	submitErr error
	submitted [][]hal.CommandBuffer
	signals   []*hal.TimelineSignal
}

func (q *fakeQueue) Submit(buffers []hal.CommandBuffer, waits []hal.TimelineWait, signal *hal.TimelineSignal) error {
	q.submitted = append(q.submitted, buffers)
	q.signals = append(q.signals, signal)
	return q.submitErr
}

// fakeDevice is the minimal hal.Device a test needs: one encoder per
// call, a shared queue, and a configurable index for GPU-affinity tests.
type fakeDevice struct {
	index       int
	queue       fakeQueue
	encoders    []*fakeEncoder
	encoderErr  error
}

func (d *fakeDevice) CreateCommandEncoder(label string) (hal.CommandEncoder, error) {
	if d.encoderErr != nil {
		return nil, d.encoderErr
	}
	enc := &fakeEncoder{}
	d.encoders = append(d.encoders, enc)
	return enc, nil
}

func (d *fakeDevice) Queue() hal.Queue { return &d.queue }
func (d *fakeDevice) Index() int       { return d.index }

// fakeMemoryBlock is the opaque handle fakeMemAllocator hands back from
// AllocatePool.
type fakeMemoryBlock struct{ fakeResource }

// fakeMemAllocator binds every pool request to an in-memory fake rather
// than real device memory, and can be told to fail after N successful
// allocations to exercise DeviceOutOfMemory propagation.
type fakeMemAllocator struct {
	// failOnCall, when nonzero, makes the call-numbered (1-based)
	// AllocatePool invocation fail with hal.ErrDeviceOutOfMemory.
	failOnCall int
	allocCount int
	pools      []hal.PoolRequest
}

func (a *fakeMemAllocator) AllocatePool(req hal.PoolRequest) (hal.MemoryBlock, error) {
	a.allocCount++
	if a.failOnCall != 0 && a.allocCount >= a.failOnCall {
		return nil, hal.ErrDeviceOutOfMemory
	}
	a.pools = append(a.pools, req)
	return &fakeMemoryBlock{}, nil
}

func (a *fakeMemAllocator) BindBuffer(block hal.MemoryBlock, binding hal.BufferBinding) (hal.Buffer, error) {
	return &fakeBuffer{}, nil
}

func (a *fakeMemAllocator) BindTexture(block hal.MemoryBlock, binding hal.TextureBinding) (hal.Texture, error) {
	return &fakeTexture{}, nil
}

func (a *fakeMemAllocator) FreePool(block hal.MemoryBlock) {}
