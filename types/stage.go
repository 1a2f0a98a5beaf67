// Package types holds the GPU vocabulary the render graph compiles
// against: pipeline stages, access flags, and image layouts. Texture
// formats, texture aspect, and buffer/texture usage bits are not
// redefined here — callers use the same github.com/gogpu/gputypes
// values the rest of the gogpu stack uses for those.
package types

// PipelineStage identifies a position in the device's command pipeline
// where a memory access occurs. Values combine via LUB (least upper
// bound) when a batch aggregates attachments from multiple stages; see
// CombineStages.
type PipelineStage uint32

const (
	StageTopOfPipe PipelineStage = iota
	StageDrawIndirect
	StageVertexInput
	StageVertex
	StageHost
	StageTransfer
	StageCompute
	StageAccelerationStructureBuild
	StageFragment
	StageColorAttachment
	StageResolve
	StageDepthStencil
	StageBottomOfPipe

	// StageAllGraphics dominates the graphics stages listed in
	// graphicsStages (VertexInput, Vertex, Fragment, ColorAttachment,
	// Resolve, DepthStencil) in the combination lattice.
	StageAllGraphics
	// StageAllCommands dominates every stage, including AllGraphics.
	StageAllCommands
)

func (s PipelineStage) String() string {
	switch s {
	case StageTopOfPipe:
		return "top-of-pipe"
	case StageDrawIndirect:
		return "draw-indirect"
	case StageVertexInput:
		return "vertex-input"
	case StageVertex:
		return "vertex"
	case StageHost:
		return "host"
	case StageTransfer:
		return "transfer"
	case StageCompute:
		return "compute"
	case StageAccelerationStructureBuild:
		return "acceleration-structure-build"
	case StageFragment:
		return "fragment"
	case StageColorAttachment:
		return "color-attachment"
	case StageResolve:
		return "resolve"
	case StageDepthStencil:
		return "depth-stencil"
	case StageBottomOfPipe:
		return "bottom-of-pipe"
	case StageAllGraphics:
		return "all-graphics"
	case StageAllCommands:
		return "all-commands"
	default:
		return "unknown-stage"
	}
}

// linearRank gives the canonical earliest-to-latest ordering of the
// concrete (non-dominating) stages used both for LUB combination and
// for the split-barrier pipeline-stage-distance heuristic.
var linearRank = map[PipelineStage]int{
	StageTopOfPipe:                  0,
	StageDrawIndirect:               1,
	StageVertexInput:                2,
	StageVertex:                     3,
	StageHost:                       4,
	StageTransfer:                   5,
	StageCompute:                    6,
	StageAccelerationStructureBuild: 7,
	StageFragment:                   8,
	StageColorAttachment:            9,
	StageResolve:                    10,
	StageDepthStencil:               11,
	StageBottomOfPipe:               12,
}

// graphicsStages is the set of stages StageAllGraphics dominates.
var graphicsStages = map[PipelineStage]bool{
	StageVertexInput:     true,
	StageVertex:          true,
	StageFragment:        true,
	StageColorAttachment: true,
	StageResolve:         true,
	StageDepthStencil:    true,
}

// Dominates reports whether s is a dominating (lattice-top) stage that
// subsumes other. AllCommands dominates everything; AllGraphics
// dominates the graphics-pipeline stages.
func (s PipelineStage) Dominates(other PipelineStage) bool {
	if s == StageAllCommands {
		return true
	}
	if s == StageAllGraphics {
		return other == StageAllGraphics || graphicsStages[other]
	}
	return s == other
}

// CombineStages computes the least-upper-bound of two stages: the
// narrowest stage value that dominates, or is ordered after, both
// inputs. Used when a batch aggregates multiple attachments on the
// same resource.
func CombineStages(a, b PipelineStage) PipelineStage {
	if a == b {
		return a
	}
	if a.Dominates(b) {
		return a
	}
	if b.Dominates(a) {
		return b
	}
	ra, aok := linearRank[a]
	rb, bok := linearRank[b]
	if !aok || !bok {
		// Either side is a dominating stage not covering the other
		// (e.g. AllGraphics vs Transfer) - escalate to AllCommands.
		return StageAllCommands
	}
	if ra > rb {
		return a
	}
	return b
}

// Distance returns the canonical pipeline-stage distance used by the
// split-barrier heuristic. Dominating stages are treated as maximally
// distant from every concrete stage.
func Distance(from, to PipelineStage) int {
	rf, fok := linearRank[from]
	rt, tok := linearRank[to]
	if !fok || !tok {
		return len(linearRank)
	}
	d := rt - rf
	if d < 0 {
		d = -d
	}
	return d
}
