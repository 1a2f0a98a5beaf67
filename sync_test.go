package rendergraph

import (
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/rendergraph/internal/hazard"
	"github.com/gogpu/rendergraph/types"
)

func TestPlanBarriersEmitsOnReadAfterWrite(t *testing.T) {
	g := &Graph{}
	view, err := g.registry.createTransientBuffer(TransientBufferInfo{Size: 64})
	if err != nil {
		t.Fatalf("createTransientBuffer: %v", err)
	}
	g.Compute("produce").Writes(types.StageCompute, view).Executes(func(*TaskInterface) {})
	g.Transfer("consume").Reads(types.StageTransfer, view).Executes(func(*TaskInterface) {})

	a, err := g.analyze()
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	batches := g.planBatches(a)
	g.compiledBatches = batches
	g.planBarriers(g.compiledBatches)

	total := 0
	for _, b := range g.compiledBatches {
		total += len(b.preBarriers) + len(b.postBarriers)
	}
	if total == 0 {
		t.Error("expected at least one barrier between a producer batch and a consumer batch")
	}
}

func TestShouldSplitRequiresBothBatchesLargeEnough(t *testing.T) {
	g := &Graph{options: Options{UseSplitBarriers: true}, compiledBatches: []Batch{
		{TaskIndices: make([]int, splitMinBatchTasks)},
		{TaskIndices: make([]int, splitMinBatchTasks)},
	}}
	prev := hazard.State{Stage: types.StageColorAttachment, Layout: types.LayoutColorAttachmentOptimal, Access: types.AccessWrite}
	next := hazard.State{Stage: types.StageFragment, Access: types.AccessRead | types.AccessSampled, Layout: types.LayoutShaderReadOnlyOptimal}

	if !g.shouldSplit(prev, next, 1, splitMinBatchTasks) {
		t.Error("expected split when both adjacent batches are large and the transition is expensive")
	}
}

func TestShouldSplitRejectsSmallBatches(t *testing.T) {
	g := &Graph{options: Options{UseSplitBarriers: true}, compiledBatches: []Batch{
		{TaskIndices: make([]int, 1)},
		{TaskIndices: make([]int, splitMinBatchTasks)},
	}}
	prev := hazard.State{Stage: types.StageColorAttachment, Layout: types.LayoutColorAttachmentOptimal, Access: types.AccessWrite}
	next := hazard.State{Stage: types.StageFragment, Access: types.AccessRead | types.AccessSampled, Layout: types.LayoutShaderReadOnlyOptimal}

	if g.shouldSplit(prev, next, 1, splitMinBatchTasks) {
		t.Error("should not split when the producer batch is too small to amortize the event")
	}
}

func TestShouldSplitRejectsConcurrentAccess(t *testing.T) {
	g := &Graph{options: Options{UseSplitBarriers: true}, compiledBatches: []Batch{
		{TaskIndices: make([]int, splitMinBatchTasks)},
		{TaskIndices: make([]int, splitMinBatchTasks)},
	}}
	prev := hazard.State{Stage: types.StageColorAttachment, Access: types.AccessWrite | types.AccessConcurrent}
	next := hazard.State{Stage: types.StageFragment, Access: types.AccessRead}

	if g.shouldSplit(prev, next, 1, splitMinBatchTasks) {
		t.Error("concurrent access on either side should never split")
	}
}

func TestEmitBarrierSplitsWhenConfigured(t *testing.T) {
	g := &Graph{options: Options{UseSplitBarriers: true}, compiledBatches: []Batch{
		{TaskIndices: make([]int, splitMinBatchTasks)},
		{TaskIndices: make([]int, splitMinBatchTasks)},
	}}
	batches := g.compiledBatches
	prev := hazard.State{Stage: types.StageColorAttachment, Layout: types.LayoutColorAttachmentOptimal, Access: types.AccessWrite}
	next := hazard.State{Stage: types.StageFragment, Access: types.AccessRead | types.AccessSampled, Layout: types.LayoutShaderReadOnlyOptimal}

	g.emitBarrier(batches, 1, resourceKey{kind: resourceImage, index: 0}, true, prev, next, splitMinBatchTasks)

	if len(batches[0].postBarriers) != 1 {
		t.Fatalf("expected 1 release barrier on the producer batch, got %d", len(batches[0].postBarriers))
	}
	if len(batches[1].preBarriers) != 1 {
		t.Fatalf("expected 1 acquire barrier on the consumer batch, got %d", len(batches[1].preBarriers))
	}
	if !batches[0].postBarriers[0].release {
		t.Error("the producer-side barrier should be marked release")
	}
	if !batches[1].preBarriers[0].acquire {
		t.Error("the consumer-side barrier should be marked acquire")
	}
}

func TestAccessToBufferUsageMapping(t *testing.T) {
	u := accessToBufferUsage(types.AccessWrite)
	if u&gputypes.BufferUsageStorage == 0 {
		t.Error("a write access should map onto BufferUsageStorage")
	}
	u = accessToBufferUsage(types.AccessRead)
	if u&gputypes.BufferUsageCopySrc == 0 {
		t.Error("a read access should map onto BufferUsageCopySrc")
	}
}

func TestAccessToTextureUsageMapping(t *testing.T) {
	u := accessToTextureUsage(types.AccessWrite)
	if u&gputypes.TextureUsageRenderAttachment == 0 {
		t.Error("a write access should map onto TextureUsageRenderAttachment")
	}
	u = accessToTextureUsage(types.AccessRead | types.AccessSampled)
	if u&gputypes.TextureUsageTextureBinding == 0 {
		t.Error("a sampled access should map onto TextureUsageTextureBinding")
	}
}
