package rendergraph

import (
	"github.com/gogpu/rendergraph/hal"
	"github.com/gogpu/rendergraph/internal/pool"
)

// allocateTransients runs the transient allocator (spec §4.F) against
// the registry's buffer and image tables, binding each transient
// resource's device field via the graph's configured hal.MemoryAllocator.
// Only called once per device, since transient handles are per-device
// bindings over a shared, device-independent pool layout.
func (g *Graph) allocateTransients(device hal.Device, memAllocator hal.MemoryAllocator) error {
	if !g.options.EnableAliasing {
		return g.allocateTransientsSimple(device, memAllocator)
	}

	var bufferResources, imageResources []pool.Resource
	for i, rec := range g.registry.buffers {
		if !rec.transient || rec.lifetime.unused() || !rec.gpuMask.includes(device.Index()) {
			continue
		}
		bufferResources = append(bufferResources, pool.Resource{
			Key:            i,
			Size:           rec.size,
			FirstUseBatch:  rec.lifetime.firstUseBatch,
			LastUseBatch:   rec.lifetime.lastUseBatch,
			MemoryTypeBits: 0xFFFFFFFF,
		})
	}
	for i, rec := range g.registry.images {
		if !rec.transient || rec.lifetime.unused() || !rec.gpuMask.includes(device.Index()) {
			continue
		}
		imageResources = append(imageResources, pool.Resource{
			Key:            i,
			Size:           imageByteSize(rec),
			FirstUseBatch:  rec.lifetime.firstUseBatch,
			LastUseBatch:   rec.lifetime.lastUseBatch,
			MemoryTypeBits: 0xFFFFFFFF,
		})
	}

	if err := g.bindPool(memAllocator, bufferResources, true); err != nil {
		return err
	}
	if err := g.bindPool(memAllocator, imageResources, false); err != nil {
		return err
	}
	return nil
}

// bindPool packs resources and binds each to the resulting pool layout.
// Buffers and images are packed in independent pool sets: they never
// share a memory-type-compatible pool in this implementation, since
// gputypes exposes no common memory-type predicate across the two.
func (g *Graph) bindPool(memAllocator hal.MemoryAllocator, resources []pool.Resource, isBuffer bool) error {
	if len(resources) == 0 {
		return nil
	}
	layouts, placements := pool.Pack(resources)

	blocks := make([]hal.MemoryBlock, len(layouts))
	for i, layout := range layouts {
		block, err := memAllocator.AllocatePool(hal.PoolRequest{
			Size:           layout.Size,
			MemoryTypeBits: hal.MemoryTypeMask(layout.MemoryTypeBits),
			Label:          "rendergraph-transient-pool",
		})
		if err != nil {
			return ErrDeviceOutOfMemory
		}
		blocks[i] = block
	}

	for _, r := range resources {
		placement := placements[r.Key]
		if isBuffer {
			rec := &g.registry.buffers[r.Key]
			buf, err := memAllocator.BindBuffer(blocks[placement.PoolIndex], hal.BufferBinding{
				Size:   rec.size,
				Offset: placement.Offset,
				Usage:  rec.usage,
			})
			if err != nil {
				return ErrDeviceOutOfMemory
			}
			rec.device = buf
		} else {
			rec := &g.registry.images[r.Key]
			tex, err := memAllocator.BindTexture(blocks[placement.PoolIndex], hal.TextureBinding{
				Extent:          rec.extent,
				Format:          rec.format,
				MipLevelCount:   rec.mipLevels,
				ArrayLayerCount: rec.arrayLayers,
				SampleCount:     rec.samples,
				Usage:           rec.usage,
				Offset:          placement.Offset,
			})
			if err != nil {
				return ErrDeviceOutOfMemory
			}
			rec.device = tex
		}
	}
	return nil
}

// allocateTransientsSimple implements the "Simple" mode (spec §4.F):
// one memory block per resource, sized to the resource, offset 0.
func (g *Graph) allocateTransientsSimple(device hal.Device, memAllocator hal.MemoryAllocator) error {
	for i := range g.registry.buffers {
		rec := &g.registry.buffers[i]
		if !rec.transient || rec.lifetime.unused() || !rec.gpuMask.includes(device.Index()) {
			continue
		}
		block, err := memAllocator.AllocatePool(hal.PoolRequest{Size: rec.size, MemoryTypeBits: 0xFFFFFFFF})
		if err != nil {
			return ErrDeviceOutOfMemory
		}
		buf, err := memAllocator.BindBuffer(block, hal.BufferBinding{Size: rec.size, Usage: rec.usage})
		if err != nil {
			return ErrDeviceOutOfMemory
		}
		rec.device = buf
	}
	for i := range g.registry.images {
		rec := &g.registry.images[i]
		if !rec.transient || rec.lifetime.unused() || !rec.gpuMask.includes(device.Index()) {
			continue
		}
		size := imageByteSize(*rec)
		block, err := memAllocator.AllocatePool(hal.PoolRequest{Size: size, MemoryTypeBits: 0xFFFFFFFF})
		if err != nil {
			return ErrDeviceOutOfMemory
		}
		tex, err := memAllocator.BindTexture(block, hal.TextureBinding{
			Extent:          rec.extent,
			Format:          rec.format,
			MipLevelCount:   rec.mipLevels,
			ArrayLayerCount: rec.arrayLayers,
			SampleCount:     rec.samples,
			Usage:           rec.usage,
		})
		if err != nil {
			return ErrDeviceOutOfMemory
		}
		rec.device = tex
	}
	return nil
}

// imageByteSize estimates an image's backing size for pool sizing
// purposes. Real byte-per-texel costs are format-dependent and owned by
// the backend; the allocator only needs a size proportional across
// images of the graph for correct packing, so a fixed per-texel
// estimate is deliberately conservative rather than exact.
func imageByteSize(rec imageRecord) uint64 {
	const bytesPerTexelEstimate = 4
	texels := uint64(rec.extent.Width) * uint64(rec.extent.Height) * uint64(rec.extent.DepthOrArrayLayers)
	return texels * bytesPerTexelEstimate * uint64(rec.arrayLayers) * uint64(rec.samples)
}
