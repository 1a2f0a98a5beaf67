package rendergraph

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/rendergraph/hal"
	"github.com/gogpu/rendergraph/internal/hazard"
	"github.com/gogpu/rendergraph/types"
)

// splitDistanceThreshold and splitMinBatchTasks implement the split
// barrier heuristic's numeric thresholds (spec §4.E).
const (
	splitDistanceThreshold = 3
	splitMinBatchTasks     = 5
)

// plannedBarrier is a Batch's pre- or post-barrier entry before it is
// lowered into a hal.PipelineBarrier at execute time.
type plannedBarrier struct {
	key     resourceKey
	isImage bool

	srcStage, dstStage   types.PipelineStage
	srcAccess, dstAccess types.Access
	oldLayout, newLayout types.ImageLayout

	release bool
	acquire bool
}

// resourceState is the synchronization planner's per-resource running
// state across batches (spec §4.E "Maintains per-resource state").
type resourceState struct {
	hazard.State
	touched bool
}

// planBarriers runs the synchronization planner over the compiled batch
// list, mutating each batch's pre/post barrier lists in place.
func (g *Graph) planBarriers(batches []Batch) {
	bufferState := make(map[uint32]*resourceState)
	imageState := make(map[uint32]*resourceState)

	for bi := range batches {
		b := &batches[bi]
		bufferAgg := make(map[uint32][]hazard.Attachment)
		imageAgg := make(map[uint32][]hazard.Attachment)
		// First-seen order of each resource, so barriers are emitted in a
		// deterministic order rather than map iteration order.
		var bufferOrder, imageOrder []uint32

		for _, ti := range b.TaskIndices {
			t := g.tasks[ti]
			for _, att := range t.Attachments {
				if bv, ok := att.Buffer(); ok {
					idx := bv.Handle.Index()
					if _, seen := bufferAgg[idx]; !seen {
						bufferOrder = append(bufferOrder, idx)
					}
					bufferAgg[idx] = append(bufferAgg[idx], hazard.Attachment{Stage: att.Stage, Access: att.Access})
				} else if iv, ok := att.Image(); ok {
					idx := iv.Handle.Index()
					if _, seen := imageAgg[idx]; !seen {
						imageOrder = append(imageOrder, idx)
					}
					imageAgg[idx] = append(imageAgg[idx], hazard.Attachment{Stage: att.Stage, Access: att.Access})
				}
			}
		}

		for _, idx := range bufferOrder {
			atts := bufferAgg[idx]
			incoming := hazard.Aggregate(atts, false)
			key := resourceKey{kind: resourceBuffer, index: idx}
			prev := bufferState[idx]
			if prev == nil {
				prev = &resourceState{}
				bufferState[idx] = prev
			}
			if prev.touched && hazard.NeedsBufferBarrier(prev.State, incoming) {
				g.emitBarrier(batches, bi, key, false, prev.State, incoming, len(b.TaskIndices))
			}
			prev.State, prev.touched = incoming, true
		}

		for _, idx := range imageOrder {
			atts := imageAgg[idx]
			incoming := hazard.Aggregate(atts, true)
			key := resourceKey{kind: resourceImage, index: idx}
			prev := imageState[idx]
			if prev == nil {
				prev = &resourceState{State: hazard.State{Layout: types.LayoutUndefined}}
				imageState[idx] = prev
			}
			if hazard.NeedsImageBarrier(prev.State, incoming) {
				g.emitBarrier(batches, bi, key, true, prev.State, incoming, len(b.TaskIndices))
			}
			prev.State, prev.touched = incoming, true
		}
	}
}

// emitBarrier decides single-vs-split form and appends the resulting
// barrier(s) to the producer and/or consumer batch (spec §4.E "Split
// barriers").
func (g *Graph) emitBarrier(batches []Batch, consumerBatch int, key resourceKey, isImage bool, prev, next hazard.State, consumerSize int) {
	pb := plannedBarrier{
		key:       key,
		isImage:   isImage,
		srcStage:  prev.Stage,
		dstStage:  next.Stage,
		srcAccess: prev.Access,
		dstAccess: next.Access,
		oldLayout: prev.Layout,
		newLayout: next.Layout,
	}

	if !g.options.UseSplitBarriers || !g.shouldSplit(prev, next, consumerBatch, consumerSize) {
		batches[consumerBatch].preBarriers = append(batches[consumerBatch].preBarriers, pb)
		return
	}

	release := pb
	release.release = true
	producerBatch := g.producerBatchFor(consumerBatch)
	if producerBatch >= 0 {
		batches[producerBatch].postBarriers = append(batches[producerBatch].postBarriers, release)
	}
	acquire := pb
	acquire.acquire = true
	batches[consumerBatch].preBarriers = append(batches[consumerBatch].preBarriers, acquire)
}

// producerBatchFor returns the batch a split barrier's release half
// attaches to. Correctness only requires the release precede the
// acquire (spec invariant 6), and the immediately preceding batch
// always satisfies that, so no further search is needed.
func (g *Graph) producerBatchFor(consumerBatch int) int {
	if consumerBatch > 0 {
		return consumerBatch - 1
	}
	return -1
}

// shouldSplit implements spec §4.E's split-barrier heuristic exactly:
// stage distance beyond the threshold, or an expensive layout
// transition; neither side concurrent; both adjacent batches large
// enough to amortize the event resource.
func (g *Graph) shouldSplit(prev, next hazard.State, consumerBatch, consumerSize int) bool {
	if prev.Access.IsConcurrent() || next.Access.IsConcurrent() {
		return false
	}
	if consumerSize < splitMinBatchTasks {
		return false
	}
	producerBatch := consumerBatch - 1
	if producerBatch < 0 || len(g.compiledBatches[producerBatch].TaskIndices) < splitMinBatchTasks {
		return false
	}
	distant := types.Distance(prev.Stage, next.Stage) > splitDistanceThreshold
	expensive := types.IsExpensiveTransition(prev.Layout, next.Layout)
	return distant || expensive
}

// aspectFor derives the barrier's image aspect mask from the image's
// format (spec §4.E "Aspect inference").
func (g *Graph) aspectFor(idx uint32) gputypes.TextureAspect {
	rec := &g.registry.images[idx]
	return types.AspectForFormat(rec.format)
}

// lowerBarrier converts a plannedBarrier into the hal.PipelineBarrier
// the executor records, resolving the resource key back to a device
// handle via the registry.
func (g *Graph) lowerBarrier(pb plannedBarrier, label string) hal.PipelineBarrier {
	out := hal.PipelineBarrier{Release: pb.release, Acquire: pb.acquire, Label: label}
	if pb.isImage {
		rec := &g.registry.images[pb.key.index]
		out.ImageBarriers = []hal.ImageBarrier{{
			Texture:         rec.device,
			Aspect:          g.aspectFor(pb.key.index),
			MipLevelCount:   rec.mipLevels,
			ArrayLayerCount: rec.arrayLayers,
			SrcStage:        pb.srcStage,
			DstStage:        pb.dstStage,
			OldLayout:       pb.oldLayout,
			NewLayout:       pb.newLayout,
			SrcAccess:       accessToTextureUsage(pb.srcAccess),
			DstAccess:       accessToTextureUsage(pb.dstAccess),
		}}
		return out
	}
	rec := &g.registry.buffers[pb.key.index]
	out.BufferBarriers = []hal.BufferBarrier{{
		Buffer:    rec.device,
		Size:      rec.size,
		SrcStage:  pb.srcStage,
		DstStage:  pb.dstStage,
		SrcAccess: accessToBufferUsage(pb.srcAccess),
		DstAccess: accessToBufferUsage(pb.dstAccess),
	}}
	return out
}

// accessToBufferUsage maps the render graph's Access flags onto the
// nearest gputypes.BufferUsage bits for barrier reporting; the mapping
// is necessarily lossy (Access has no notion of vertex/index/uniform
// bind points) and exists only to satisfy hal.BufferBarrier's fields.
func accessToBufferUsage(a types.Access) gputypes.BufferUsage {
	var u gputypes.BufferUsage
	if a.IsWrite() {
		u |= gputypes.BufferUsageStorage
	}
	if a.IsRead() {
		u |= gputypes.BufferUsageCopySrc
	}
	return u
}

// accessToTextureUsage maps Access flags onto gputypes.TextureUsage
// bits for barrier reporting, same caveat as accessToBufferUsage.
func accessToTextureUsage(a types.Access) gputypes.TextureUsage {
	var u gputypes.TextureUsage
	if a.IsWrite() {
		u |= gputypes.TextureUsageRenderAttachment
	}
	if a.IsSampled() {
		u |= gputypes.TextureUsageTextureBinding
	}
	return u
}
