package rendergraph

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/rendergraph/hal"
	"github.com/gogpu/rendergraph/internal/slot"
	"github.com/gogpu/rendergraph/types"
)

// GPUMask selects which devices in a graph's device list a resource is
// visible on; bit i corresponds to devices[i]. A zero mask means every
// device.
type GPUMask uint32

// includes reports whether mask selects device index i.
func (m GPUMask) includes(i int) bool {
	if m == 0 {
		return true
	}
	return m&(1<<uint(i)) != 0
}

// lifetimeWindow tracks first/last use per spec §3, initialized so that
// a resource never touched by the analyzer reads as unused
// (first > last).
type lifetimeWindow struct {
	firstUseBatch, lastUseBatch int
	firstQueue, lastQueue       int
}

const unsetBatch = int(^uint(0) >> 1) // math.MaxInt, avoided to not import math for one constant

func newLifetimeWindow() lifetimeWindow {
	return lifetimeWindow{firstUseBatch: unsetBatch, lastUseBatch: 0}
}

// unused reports whether the resource was never referenced by any task.
func (w lifetimeWindow) unused() bool { return w.lastUseBatch < w.firstUseBatch }

// bufferRecord is the registry's per-buffer bookkeeping (spec §3
// "Resource record").
type bufferRecord struct {
	handle     BufferHandle
	device     hal.Buffer // nil until transient allocation binds it
	size       uint64
	usage      gputypes.BufferUsage
	gpuMask    GPUMask
	transient  bool
	lifetime   lifetimeWindow
	generation uint32
}

// imageRecord is the registry's per-image bookkeeping.
type imageRecord struct {
	handle     ImageHandle
	device     hal.Texture
	extent     hal.Extent3D
	format     gputypes.TextureFormat
	usage      gputypes.TextureUsage
	mipLevels  uint32
	arrayLayers uint32
	samples    uint32
	gpuMask    GPUMask
	transient  bool
	lifetime   lifetimeWindow
	generation uint32
	layout     types.ImageLayout
}

// registry owns the four disjoint handle spaces and the resource tables
// they index into. It generalizes core/track's per-type
// TrackerIndexAllocator plus the teacher's resource-table-per-kind
// layout, adapted to the render graph's notion of a resource (a
// descriptor plus lifetime window, not a live device object).
type registry struct {
	bufferSlots slot.Allocator
	imageSlots  slot.Allocator
	blasSlots   slot.Allocator
	tlasSlots   slot.Allocator

	buffers []bufferRecord
	images  []imageRecord
}

// TransientBufferInfo describes a frame-scoped buffer the allocator will
// bind to pooled memory at compile time.
type TransientBufferInfo struct {
	Size    uint64
	Usage   gputypes.BufferUsage
	Name    string
	GPUMask GPUMask
}

// TransientImageInfo describes a frame-scoped image the allocator will
// bind to pooled memory at compile time.
type TransientImageInfo struct {
	Extent      hal.Extent3D
	Format      gputypes.TextureFormat
	Usage       gputypes.TextureUsage
	MipLevels   uint32
	ArrayLayers uint32
	Samples     uint32
	Name        string
	GPUMask     GPUMask
}

// BufferView is a handle plus an ephemeral sub-range (spec §3 "Resource
// view"). Views are never registered themselves, only passed into task
// attachments.
type BufferView struct {
	Handle BufferHandle
	Offset uint64
	Size   uint64
}

// ImageView is a handle plus an ephemeral mip/array sub-range.
type ImageView struct {
	Handle          ImageHandle
	BaseMipLevel    uint32
	MipLevelCount   uint32
	BaseArrayLayer  uint32
	ArrayLayerCount uint32
}

func (r *registry) registerPersistentBuffer(device hal.Buffer, size uint64, usage gputypes.BufferUsage, mask GPUMask) (BufferView, error) {
	idx, gen, err := r.bufferSlots.Alloc(maxHandleIndex)
	if err != nil {
		return BufferView{}, ErrResourceExhausted
	}
	rec := bufferRecord{
		handle:     newHandle[bufferMarker](idx, gen),
		device:     device,
		size:       size,
		usage:      usage,
		gpuMask:    mask,
		lifetime:   newLifetimeWindow(),
		generation: gen,
	}
	r.setBuffer(idx, rec)
	return BufferView{Handle: rec.handle, Offset: 0, Size: size}, nil
}

func (r *registry) registerPersistentImage(device hal.Texture, extent hal.Extent3D, format gputypes.TextureFormat, usage gputypes.TextureUsage, mask GPUMask) (ImageView, error) {
	idx, gen, err := r.imageSlots.Alloc(maxHandleIndex)
	if err != nil {
		return ImageView{}, ErrResourceExhausted
	}
	rec := imageRecord{
		handle:      newHandle[imageMarker](idx, gen),
		device:      device,
		extent:      extent,
		format:      format,
		usage:       usage,
		mipLevels:   1,
		arrayLayers: 1,
		samples:     1,
		gpuMask:     mask,
		lifetime:    newLifetimeWindow(),
		generation:  gen,
		layout:      types.LayoutUndefined,
	}
	r.setImage(idx, rec)
	return ImageView{Handle: rec.handle, MipLevelCount: 1, ArrayLayerCount: 1}, nil
}

func (r *registry) createTransientBuffer(info TransientBufferInfo) (BufferView, error) {
	idx, gen, err := r.bufferSlots.Alloc(maxHandleIndex)
	if err != nil {
		return BufferView{}, ErrResourceExhausted
	}
	rec := bufferRecord{
		handle:     newHandle[bufferMarker](idx, gen),
		size:       info.Size,
		usage:      info.Usage,
		gpuMask:    info.GPUMask,
		transient:  true,
		lifetime:   newLifetimeWindow(),
		generation: gen,
	}
	r.setBuffer(idx, rec)
	return BufferView{Handle: rec.handle, Offset: 0, Size: info.Size}, nil
}

func (r *registry) createTransientImage(info TransientImageInfo) (ImageView, error) {
	idx, gen, err := r.imageSlots.Alloc(maxHandleIndex)
	if err != nil {
		return ImageView{}, ErrResourceExhausted
	}
	mips, layers, samples := info.MipLevels, info.ArrayLayers, info.Samples
	if mips == 0 {
		mips = 1
	}
	if layers == 0 {
		layers = 1
	}
	if samples == 0 {
		samples = 1
	}
	rec := imageRecord{
		handle:      newHandle[imageMarker](idx, gen),
		extent:      info.Extent,
		format:      info.Format,
		usage:       info.Usage,
		mipLevels:   mips,
		arrayLayers: layers,
		samples:     samples,
		gpuMask:     info.GPUMask,
		transient:   true,
		lifetime:    newLifetimeWindow(),
		generation:  gen,
		layout:      types.LayoutUndefined,
	}
	r.setImage(idx, rec)
	return ImageView{Handle: rec.handle, MipLevelCount: mips, ArrayLayerCount: layers}, nil
}

func (r *registry) setBuffer(idx uint32, rec bufferRecord) {
	for uint32(len(r.buffers)) <= idx {
		r.buffers = append(r.buffers, bufferRecord{})
	}
	r.buffers[idx] = rec
}

func (r *registry) setImage(idx uint32, rec imageRecord) {
	for uint32(len(r.images)) <= idx {
		r.images = append(r.images, imageRecord{})
	}
	r.images[idx] = rec
}

// resolveBuffer validates a handle's generation and returns its record.
func (r *registry) resolveBuffer(h BufferHandle) (*bufferRecord, error) {
	idx, gen := h.raw.unzip()
	if int(idx) >= len(r.buffers) {
		return nil, ErrInvalidHandle
	}
	if !r.bufferSlots.IsLive(idx, gen) {
		return nil, ErrStaleHandle
	}
	return &r.buffers[idx], nil
}

// resolveImage validates a handle's generation and returns its record.
func (r *registry) resolveImage(h ImageHandle) (*imageRecord, error) {
	idx, gen := h.raw.unzip()
	if int(idx) >= len(r.images) {
		return nil, ErrInvalidHandle
	}
	if !r.imageSlots.IsLive(idx, gen) {
		return nil, ErrStaleHandle
	}
	return &r.images[idx], nil
}
