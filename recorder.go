package rendergraph

import "github.com/gogpu/rendergraph/types"

// TaskBuilder accumulates one task's attachments before it is sealed
// onto the graph's task list by Executes (spec §4.B). Modeled on the
// teacher's per-verb encoder methods, generalized to return the builder
// itself so calls chain: g.Compute("blur").Reads(...).Writes(...).Executes(...).
type TaskBuilder struct {
	graph *Graph
	task  Task
	sealed bool
}

func newTaskBuilder(g *Graph, name string, kind TaskKind) *TaskBuilder {
	return &TaskBuilder{
		graph: g,
		task:  Task{Name: name, Kind: kind},
	}
}

// Reads declares a read-only attachment to a buffer view at the given
// stage.
func (b *TaskBuilder) Reads(stage types.PipelineStage, view BufferView) *TaskBuilder {
	return b.attach(stage, types.AccessRead, view, ImageView{}, resourceBuffer)
}

// ReadsImage declares a read-only attachment to an image view.
func (b *TaskBuilder) ReadsImage(stage types.PipelineStage, view ImageView) *TaskBuilder {
	return b.attach(stage, types.AccessRead, BufferView{}, view, resourceImage)
}

// Writes declares a write attachment to a buffer view. Pass
// types.AccessConcurrent via WritesConcurrent instead when the writes
// are known-disjoint and safe to run unsynchronized (spec S3).
func (b *TaskBuilder) Writes(stage types.PipelineStage, view BufferView) *TaskBuilder {
	return b.attach(stage, types.AccessWrite, view, ImageView{}, resourceBuffer)
}

// WritesConcurrent declares a concurrent write attachment, waiving the
// exclusive-write invariant for this resource within the batch.
func (b *TaskBuilder) WritesConcurrent(stage types.PipelineStage, view BufferView) *TaskBuilder {
	return b.attach(stage, types.AccessWrite|types.AccessConcurrent, view, ImageView{}, resourceBuffer)
}

// WritesImage declares a write attachment to an image view.
func (b *TaskBuilder) WritesImage(stage types.PipelineStage, view ImageView) *TaskBuilder {
	return b.attach(stage, types.AccessWrite, BufferView{}, view, resourceImage)
}

// Samples declares a sampled-read attachment to an image view (implies
// read plus a shader-read-only layout requirement).
func (b *TaskBuilder) Samples(stage types.PipelineStage, view ImageView) *TaskBuilder {
	return b.attach(stage, types.AccessRead|types.AccessSampled, BufferView{}, view, resourceImage)
}

func (b *TaskBuilder) attach(stage types.PipelineStage, access types.Access, bv BufferView, iv ImageView, kind resourceKind) *TaskBuilder {
	if b.sealed {
		return b
	}
	b.task.Attachments = append(b.task.Attachments, Attachment{
		Access:     access,
		Stage:      stage,
		kind:       kind,
		bufferView: bv,
		imageView:  iv,
	})
	return b
}

// When restricts the task to execute only when the graph's condition
// vector satisfies (conditions & mask) == value (spec §3 / §6
// set_condition). Defaults to always-enabled (mask=0, value=0).
func (b *TaskBuilder) When(mask, value uint32) *TaskBuilder {
	b.task.ConditionMask = mask
	b.task.ConditionValue = value
	return b
}

// Executes seals the task with its callback and appends it to the
// graph's task list. The builder must not be used after this call.
func (b *TaskBuilder) Executes(fn ExecuteFunc) {
	if b.sealed {
		return
	}
	b.task.Execute = fn
	b.sealed = true
	b.graph.tasks = append(b.graph.tasks, b.task)
}

// Compute begins recording a compute task.
func (g *Graph) Compute(name string) *TaskBuilder { return newTaskBuilder(g, name, TaskCompute) }

// Raster begins recording a raster (graphics) task.
func (g *Graph) Raster(name string) *TaskBuilder { return newTaskBuilder(g, name, TaskRaster) }

// Transfer begins recording a copy/transfer task.
func (g *Graph) Transfer(name string) *TaskBuilder { return newTaskBuilder(g, name, TaskTransfer) }

// RayTracing begins recording an acceleration-structure task.
func (g *Graph) RayTracing(name string) *TaskBuilder { return newTaskBuilder(g, name, TaskRayTracing) }

// AddTask appends a fully constructed task record directly, bypassing
// the builder (spec §4.B "alternative direct form").
func (g *Graph) AddTask(t Task) {
	g.tasks = append(g.tasks, t)
}
