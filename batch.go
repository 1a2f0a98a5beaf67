package rendergraph

import (
	"sort"

	"github.com/gogpu/rendergraph/internal/hazard"
	"github.com/gogpu/rendergraph/types"
)

// Batch is a set of tasks compiled to execute between two barrier
// epochs, sharing a queue (spec §3 "Batch").
type Batch struct {
	TaskIndices []int
	QueueIndex  int

	preBarriers  []plannedBarrier
	postBarriers []plannedBarrier
}

// queueFamilyFor maps a task kind to a queue family index when
// Options.EnableMultiQueue is set; all tasks share queue 0 otherwise.
func queueFamilyFor(kind TaskKind, multiQueue bool) int {
	if !multiQueue {
		return 0
	}
	switch kind {
	case TaskTransfer:
		return 1
	case TaskCompute:
		return 2
	default:
		return 0
	}
}

// planBatches runs the greedy batching pass (spec §4.D), then applies
// optional reordering and adjacent-batch merging.
func (g *Graph) planBatches(a *analysis) []Batch {
	var batches []Batch
	var taskToBatch []int // index by declaration-order task index

	var openWrites map[resourceKey]types.Access
	openQueue := -1

	for i, t := range g.tasks {
		queue := queueFamilyFor(t.Kind, g.options.EnableMultiQueue)

		needsNewBatch := len(batches) == 0 || openQueue != queue
		if !needsNewBatch {
			for _, att := range t.Attachments {
				existing, ok := openWrites[attachmentKey(att)]
				if ok && hazard.IsHazard(existing, att.Access) {
					needsNewBatch = true
					break
				}
			}
		}

		if needsNewBatch {
			batches = append(batches, Batch{QueueIndex: queue})
			openWrites = make(map[resourceKey]types.Access)
			openQueue = queue
		}

		bi := len(batches) - 1
		batches[bi].TaskIndices = append(batches[bi].TaskIndices, i)
		for key, access := range t.writeSet() {
			openWrites[key] |= access
		}
		taskToBatch = append(taskToBatch, bi)
	}

	if g.options.EnableReordering {
		for bi := range batches {
			reorderBatch(&batches[bi], g.tasks, a)
		}
	}

	batches = mergeAdjacent(batches, g.tasks, a, taskToBatch)

	g.remapLifetimesToBatches(batches)
	return batches
}

// reorderBatch topologically sorts a batch's tasks by the intra-batch
// hazard sub-graph, breaking ties to prefer transfer before compute
// before raster (spec §4.D).
func reorderBatch(b *Batch, tasks []Task, a *analysis) {
	members := make(map[int]bool, len(b.TaskIndices))
	for _, ti := range b.TaskIndices {
		members[ti] = true
	}

	deps := make(map[int][]int) // task -> tasks it must follow
	for _, e := range a.edges {
		if members[e.from] && members[e.to] {
			deps[e.to] = append(deps[e.to], e.from)
		}
	}

	order := append([]int(nil), b.TaskIndices...)
	sort.SliceStable(order, func(i, j int) bool {
		return kindRank(tasks[order[i]].Kind) < kindRank(tasks[order[j]].Kind)
	})

	var sorted []int
	visited := make(map[int]bool, len(order))
	var visit func(n int)
	visit = func(n int) {
		if visited[n] {
			return
		}
		visited[n] = true
		for _, dep := range deps[n] {
			visit(dep)
		}
		sorted = append(sorted, n)
	}
	for _, n := range order {
		visit(n)
	}
	b.TaskIndices = sorted
}

// kindRank gives the tie-break priority spec §4.D names explicitly:
// transfer before compute before raster. Other kinds sort after raster,
// in declaration order amongst themselves.
func kindRank(k TaskKind) int {
	switch k {
	case TaskTransfer:
		return 0
	case TaskCompute:
		return 1
	case TaskRaster:
		return 2
	default:
		return 3
	}
}

// mergeAdjacent merges two adjacent batches sharing a queue when no
// task in the later batch depends on a task in the earlier one (spec
// §4.D "Optional batch merging").
func mergeAdjacent(batches []Batch, tasks []Task, a *analysis, taskToBatch []int) []Batch {
	if len(batches) == 0 {
		return batches
	}
	crossesBatches := make(map[[2]int]bool)
	for _, e := range a.edges {
		fb, tb := taskToBatch[e.from], taskToBatch[e.to]
		if fb != tb {
			crossesBatches[[2]int{fb, tb}] = true
		}
	}

	merged := []Batch{batches[0]}
	groups := [][]int{{0}} // original batch indices absorbed into each merged entry

	for i := 1; i < len(batches); i++ {
		prev := &merged[len(merged)-1]
		cur := batches[i]
		group := groups[len(groups)-1]

		canMerge := cur.QueueIndex == prev.QueueIndex
		if canMerge {
			for _, absorbed := range group {
				if crossesBatches[[2]int{absorbed, i}] {
					canMerge = false
					break
				}
			}
		}

		if canMerge {
			prev.TaskIndices = append(prev.TaskIndices, cur.TaskIndices...)
			groups[len(groups)-1] = append(group, i)
			continue
		}
		merged = append(merged, cur)
		groups = append(groups, []int{i})
	}
	return merged
}

// remapLifetimesToBatches converts each resource's lifetime window from
// declaration-order task indices (what analyze() recorded) to batch
// indices, since spec §3 defines first_use_batch/last_use_batch in
// terms of batches, not tasks.
func (g *Graph) remapLifetimesToBatches(batches []Batch) {
	taskBatch := make(map[int]int)
	for bi, b := range batches {
		for _, ti := range b.TaskIndices {
			taskBatch[ti] = bi
		}
	}

	for i := range g.registry.buffers {
		g.remapOneBuffer(i, taskBatch)
	}
	for i := range g.registry.images {
		g.remapOneImage(i, taskBatch)
	}
}

func (g *Graph) remapOneBuffer(idx int, taskBatch map[int]int) {
	rec := &g.registry.buffers[idx]
	if rec.lifetime.unused() {
		return
	}
	first, last := g.batchRangeFor(resourceKey{kind: resourceBuffer, index: uint32(idx)}, taskBatch)
	if first < 0 {
		rec.lifetime = newLifetimeWindow()
		return
	}
	rec.lifetime.firstUseBatch, rec.lifetime.lastUseBatch = first, last
}

func (g *Graph) remapOneImage(idx int, taskBatch map[int]int) {
	rec := &g.registry.images[idx]
	if rec.lifetime.unused() {
		return
	}
	first, last := g.batchRangeFor(resourceKey{kind: resourceImage, index: uint32(idx)}, taskBatch)
	if first < 0 {
		rec.lifetime = newLifetimeWindow()
		return
	}
	rec.lifetime.firstUseBatch, rec.lifetime.lastUseBatch = first, last
}

// batchRangeFor scans every task's attachments for the first and last
// batch that touches key. Used once per resource during compile, not on
// a hot path.
func (g *Graph) batchRangeFor(key resourceKey, taskBatch map[int]int) (first, last int) {
	first, last = -1, -1
	for ti, t := range g.tasks {
		for _, att := range t.Attachments {
			if attachmentKey(att) != key {
				continue
			}
			bi := taskBatch[ti]
			if first < 0 || bi < first {
				first = bi
			}
			if bi > last {
				last = bi
			}
			break
		}
	}
	return first, last
}
