package types

import "github.com/gogpu/gputypes"

// ImageLayout is the logical layout an image subresource must be in for
// a given access. The synchronization planner computes transitions
// between these; the device backend maps them to native layout enums.
type ImageLayout uint8

const (
	// LayoutUndefined is the implicit starting layout of every image
	// before its first use.
	LayoutUndefined ImageLayout = iota
	LayoutGeneral
	LayoutColorAttachmentOptimal
	LayoutDepthStencilAttachmentOptimal
	LayoutDepthStencilReadOnlyOptimal
	LayoutShaderReadOnlyOptimal
	LayoutTransferSrcOptimal
	LayoutTransferDstOptimal
	LayoutPresentSource
)

func (l ImageLayout) String() string {
	switch l {
	case LayoutUndefined:
		return "undefined"
	case LayoutGeneral:
		return "general"
	case LayoutColorAttachmentOptimal:
		return "color-attachment-optimal"
	case LayoutDepthStencilAttachmentOptimal:
		return "depth-stencil-attachment-optimal"
	case LayoutDepthStencilReadOnlyOptimal:
		return "depth-stencil-read-only-optimal"
	case LayoutShaderReadOnlyOptimal:
		return "shader-read-only-optimal"
	case LayoutTransferSrcOptimal:
		return "transfer-src-optimal"
	case LayoutTransferDstOptimal:
		return "transfer-dst-optimal"
	case LayoutPresentSource:
		return "present-source"
	default:
		return "unknown-layout"
	}
}

// RequiredLayout implements the spec §4.E layout inference table: the
// required layout for an image access is a pure function of the stage
// and access flags of the attachment.
func RequiredLayout(stage PipelineStage, access Access) ImageLayout {
	switch {
	case stage == StageColorAttachment && access.IsWrite():
		return LayoutColorAttachmentOptimal
	case stage == StageDepthStencil && access.IsWrite():
		return LayoutDepthStencilAttachmentOptimal
	case stage == StageDepthStencil && access.IsRead():
		return LayoutDepthStencilReadOnlyOptimal
	case access.IsSampled():
		return LayoutShaderReadOnlyOptimal
	case stage == StageTransfer && access.IsWrite():
		return LayoutTransferDstOptimal
	case stage == StageTransfer && access.IsRead():
		return LayoutTransferSrcOptimal
	case stage == StageCompute && access.IsWrite():
		return LayoutGeneral
	default:
		return LayoutGeneral
	}
}

// expensiveTransitions is the set of layout transitions the split
// barrier heuristic treats as worth latency-hiding regardless of stage
// distance (spec §4.E).
var expensiveTransitions = map[[2]ImageLayout]bool{
	{LayoutColorAttachmentOptimal, LayoutShaderReadOnlyOptimal}:        true,
	{LayoutDepthStencilAttachmentOptimal, LayoutShaderReadOnlyOptimal}: true,
	{LayoutTransferDstOptimal, LayoutShaderReadOnlyOptimal}:            true,
	{LayoutGeneral, LayoutShaderReadOnlyOptimal}:                       true,
}

// IsExpensiveTransition reports whether old->new is one of the
// known-expensive layout transitions called out in spec §4.E.
func IsExpensiveTransition(old, new_ ImageLayout) bool {
	return expensiveTransitions[[2]ImageLayout{old, new_}]
}

// AspectForFormat infers the image aspect mask from a texture format,
// per spec §4.E "Aspect inference": depth-only formats select the
// depth aspect, combined depth/stencil formats select both, stencil-only
// formats select stencil, and every other format selects color.
func AspectForFormat(format gputypes.TextureFormat) gputypes.TextureAspect {
	switch format {
	case gputypes.TextureFormatStencil8:
		return gputypes.TextureAspectStencilOnly
	case gputypes.TextureFormatDepth16Unorm,
		gputypes.TextureFormatDepth24Plus,
		gputypes.TextureFormatDepth32Float:
		return gputypes.TextureAspectDepthOnly
	case gputypes.TextureFormatDepth24PlusStencil8,
		gputypes.TextureFormatDepth32FloatStencil8:
		// Combined depth/stencil formats carry both aspects; callers
		// that need a single aspect value select DepthOnly explicitly
		// via TextureView and this is the default full-resource aspect.
		return gputypes.TextureAspectAll
	default:
		return gputypes.TextureAspectAll
	}
}

// IsDepthStencilFormat reports whether format carries a depth and/or
// stencil aspect rather than color.
func IsDepthStencilFormat(format gputypes.TextureFormat) bool {
	switch format {
	case gputypes.TextureFormatStencil8,
		gputypes.TextureFormatDepth16Unorm,
		gputypes.TextureFormatDepth24Plus,
		gputypes.TextureFormatDepth24PlusStencil8,
		gputypes.TextureFormatDepth32Float,
		gputypes.TextureFormatDepth32FloatStencil8:
		return true
	default:
		return false
	}
}
