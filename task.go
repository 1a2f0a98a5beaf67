package rendergraph

import "github.com/gogpu/rendergraph/types"

// TaskKind identifies which queue family and execution semantics a task
// requires (spec §3 "Task").
type TaskKind uint8

const (
	TaskGeneral TaskKind = iota
	TaskCompute
	TaskRaster
	TaskTransfer
	TaskRayTracing
)

func (k TaskKind) String() string {
	switch k {
	case TaskGeneral:
		return "general"
	case TaskCompute:
		return "compute"
	case TaskRaster:
		return "raster"
	case TaskTransfer:
		return "transfer"
	case TaskRayTracing:
		return "ray-tracing"
	default:
		return "unknown-kind"
	}
}

// resourceKind tags which handle space an attachment's view belongs to
// (spec §9 "Resource view union" - a tagged variant, not type punning).
type resourceKind uint8

const (
	resourceBuffer resourceKind = iota
	resourceImage
	resourceBLAS
	resourceTLAS
)

// Attachment is one declared access a task makes to a resource (spec §3
// "Attachment"). Exactly one of the view fields is meaningful,
// discriminated by kind.
type Attachment struct {
	Name   string
	Access types.Access
	Stage  types.PipelineStage

	kind       resourceKind
	bufferView BufferView
	imageView  ImageView
}

// Buffer returns the attachment's buffer view and true if kind matches.
func (a Attachment) Buffer() (BufferView, bool) {
	return a.bufferView, a.kind == resourceBuffer
}

// Image returns the attachment's image view and true if kind matches.
func (a Attachment) Image() (ImageView, bool) {
	return a.imageView, a.kind == resourceImage
}

// ExecuteFunc is a task's callback, invoked once per execution with a
// TaskInterface scoped to that single invocation (spec §9 "Dynamic
// dispatch of task callbacks" - an opaque, single-argument callable;
// a Go closure is the natural representation of that requirement).
type ExecuteFunc func(*TaskInterface)

// Task is one unit of recorded work (spec §3 "Task").
type Task struct {
	Name        string
	Kind        TaskKind
	Attachments []Attachment
	Execute     ExecuteFunc

	ConditionMask  uint32
	ConditionValue uint32
}

// enabled reports whether conditions selects t for execution (spec §3:
// "(graph.condition_vector & condition_mask) == condition_value").
func (t *Task) enabled(conditions uint32) bool {
	return conditions&t.ConditionMask == t.ConditionValue
}

// writeSet returns, for each resource key t writes, the access flags it
// declared there, used by the batch planner's hazard bookkeeping.
func (t *Task) writeSet() map[resourceKey]types.Access {
	set := make(map[resourceKey]types.Access)
	for _, a := range t.Attachments {
		if !a.Access.IsWrite() {
			continue
		}
		set[attachmentKey(a)] |= a.Access
	}
	return set
}

// resourceKey identifies one resource across attachments regardless of
// kind, for building the hazard and write-set tables.
type resourceKey struct {
	kind  resourceKind
	index uint32
}

func attachmentKey(a Attachment) resourceKey {
	switch a.kind {
	case resourceImage:
		return resourceKey{kind: resourceImage, index: a.imageView.Handle.Index()}
	default:
		return resourceKey{kind: resourceBuffer, index: a.bufferView.Handle.Index()}
	}
}
