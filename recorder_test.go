package rendergraph

import (
	"testing"

	"github.com/gogpu/rendergraph/types"
)

func TestTaskBuilderChainingAndSealing(t *testing.T) {
	g := &Graph{}
	bufView := BufferView{Handle: newHandle[bufferMarker](1, 0), Size: 64}

	ran := false
	g.Compute("blur").
		Reads(types.StageCompute, bufView).
		Writes(types.StageCompute, bufView).
		When(0b1, 0b1).
		Executes(func(ti *TaskInterface) { ran = true })

	if len(g.tasks) != 1 {
		t.Fatalf("expected 1 recorded task, got %d", len(g.tasks))
	}
	task := g.tasks[0]
	if task.Name != "blur" || task.Kind != TaskCompute {
		t.Errorf("got name=%q kind=%v, want name=blur kind=compute", task.Name, task.Kind)
	}
	if len(task.Attachments) != 2 {
		t.Fatalf("expected 2 attachments, got %d", len(task.Attachments))
	}
	if task.ConditionMask != 0b1 || task.ConditionValue != 0b1 {
		t.Error("When() should set the task's condition mask and value")
	}
	task.Execute(nil)
	if !ran {
		t.Error("Execute callback should be invoked when called directly")
	}
}

func TestTaskBuilderExecutesIsIdempotentAfterSeal(t *testing.T) {
	g := &Graph{}
	b := g.Compute("once")
	b.Executes(func(ti *TaskInterface) {})
	// A second call after sealing must not append a duplicate task.
	b.Executes(func(ti *TaskInterface) {})
	if len(g.tasks) != 1 {
		t.Errorf("expected exactly 1 task after a sealed builder is reused, got %d", len(g.tasks))
	}
}

func TestTaskBuilderAttachAfterSealIsNoOp(t *testing.T) {
	g := &Graph{}
	view := BufferView{Handle: newHandle[bufferMarker](2, 0)}
	b := g.Compute("sealed")
	b.Executes(func(ti *TaskInterface) {})
	b.Reads(types.StageCompute, view)
	if len(g.tasks[0].Attachments) != 0 {
		t.Error("attaching to a sealed builder must not mutate the already-recorded task")
	}
}

func TestSamplesSetsReadAndSampledAccess(t *testing.T) {
	g := &Graph{}
	iv := ImageView{Handle: newHandle[imageMarker](1, 0)}
	g.Raster("present").
		Samples(types.StageFragment, iv).
		Executes(func(ti *TaskInterface) {})

	att := g.tasks[0].Attachments[0]
	if !att.Access.IsRead() || !att.Access.IsSampled() {
		t.Errorf("Samples() access = %v, want read|sampled", att.Access)
	}
}

func TestWritesConcurrentSetsConcurrentFlag(t *testing.T) {
	g := &Graph{}
	bv := BufferView{Handle: newHandle[bufferMarker](1, 0)}
	g.Compute("scatter").
		WritesConcurrent(types.StageCompute, bv).
		Executes(func(ti *TaskInterface) {})

	att := g.tasks[0].Attachments[0]
	if !att.Access.IsWrite() || !att.Access.IsConcurrent() {
		t.Errorf("WritesConcurrent() access = %v, want write|concurrent", att.Access)
	}
}

func TestAddTaskBypassesBuilder(t *testing.T) {
	g := &Graph{}
	g.AddTask(Task{Name: "direct", Kind: TaskTransfer})
	if len(g.tasks) != 1 || g.tasks[0].Name != "direct" {
		t.Error("AddTask should append the task record as-is")
	}
}
