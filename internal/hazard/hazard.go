// Package hazard implements the resource-state model the dependency
// analyzer and synchronization planner use to decide when a barrier is
// needed. It generalizes the teacher's per-submission BufferTracker
// (core/track/buffer.go) from "current usage of a live command buffer"
// to "aggregated usage of a batch", since the render graph compiles a
// whole frame up front rather than tracking state command-by-command.
package hazard

import "github.com/gogpu/rendergraph/types"

// State is the tracked (stage, access, layout) triple for one resource
// as of the end of some batch. Layout is meaningless for buffers and
// left at its zero value (types.LayoutUndefined) for them.
type State struct {
	Stage  types.PipelineStage
	Access types.Access
	Layout types.ImageLayout
}

// Aggregate unions the stage and access of every attachment a batch
// makes to one resource into a single incoming State, per spec §4.E
// "aggregated incoming access set". isImage selects whether Layout is
// computed via types.RequiredLayout.
func Aggregate(attachments []Attachment, isImage bool) State {
	var s State
	first := true
	for _, a := range attachments {
		if first {
			s.Stage = a.Stage
			first = false
		} else {
			s.Stage = types.CombineStages(s.Stage, a.Stage)
		}
		s.Access |= a.Access &^ types.AccessConcurrent
		if a.Access.IsConcurrent() {
			s.Access |= types.AccessConcurrent
		}
	}
	if isImage && len(attachments) > 0 {
		s.Layout = types.RequiredLayout(attachments[0].Stage, attachments[0].Access)
		for _, a := range attachments[1:] {
			l := types.RequiredLayout(a.Stage, a.Access)
			if l != s.Layout {
				// The batch planner splits on read-after-write and
				// non-concurrent write-after-write, but a write that
				// follows a read within one batch can still reach here
				// with a different layout (spec §9's "Open question:
				// write-merging policy"); the layout of the first
				// declared attachment is kept deterministically.
				break
			}
		}
	}
	return s
}

// Attachment is the minimal view hazard.Aggregate needs of a task
// attachment; the synchronization planner adapts its richer Attachment type down to
// this before calling in, keeping this package free of a dependency on
// the task recording API.
type Attachment struct {
	Stage  types.PipelineStage
	Access types.Access
}

// NeedsBufferBarrier implements spec §4.E's buffer rule: emit iff the
// persisted state OR the new state contains a write access.
// Read-after-read is a no-op.
func NeedsBufferBarrier(prev, next State) bool {
	if prev.Access == 0 {
		// First use: nothing to synchronize against.
		return false
	}
	return prev.Access.IsWrite() || next.Access.IsWrite()
}

// NeedsImageBarrier implements spec §4.E's image rule: the buffer rule
// OR a layout change, and the very first use always transitions out of
// undefined.
func NeedsImageBarrier(prev, next State) bool {
	if prev.Layout == types.LayoutUndefined {
		return true
	}
	if prev.Access.IsWrite() || next.Access.IsWrite() {
		return true
	}
	return prev.Layout != next.Layout
}

// IsHazard classifies the pairwise hazard between two accesses to the
// same resource in declaration order (a before b), per spec §4.C:
// W->R, R->W, W->W are hazards; concurrent on both sides removes W->W.
func IsHazard(a, b types.Access) bool {
	aw, bw := a.IsWrite(), b.IsWrite()
	switch {
	case aw && bw:
		return !(a.IsConcurrent() && b.IsConcurrent())
	case aw && !bw:
		return true // W -> R
	case !aw && bw:
		return true // R -> W
	default:
		return false // R -> R never hazards
	}
}
