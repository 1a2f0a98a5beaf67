package hazard

import (
	"testing"

	"github.com/gogpu/rendergraph/types"
)

func TestIsHazard(t *testing.T) {
	tests := []struct {
		name string
		a, b types.Access
		want bool
	}{
		{"read then read", types.AccessRead, types.AccessRead, false},
		{"write then read", types.AccessWrite, types.AccessRead, true},
		{"read then write", types.AccessRead, types.AccessWrite, true},
		{"write then write", types.AccessWrite, types.AccessWrite, true},
		{"concurrent writes", types.AccessWrite | types.AccessConcurrent, types.AccessWrite | types.AccessConcurrent, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsHazard(tt.a, tt.b); got != tt.want {
				t.Errorf("IsHazard(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestNeedsBufferBarrier(t *testing.T) {
	first := State{}
	readOnly := State{Access: types.AccessRead}
	written := State{Access: types.AccessWrite}

	if NeedsBufferBarrier(first, readOnly) {
		t.Error("first use should never need a barrier")
	}
	if NeedsBufferBarrier(readOnly, readOnly) {
		t.Error("read-after-read should not need a barrier")
	}
	if !NeedsBufferBarrier(written, readOnly) {
		t.Error("read-after-write should need a barrier")
	}
	if !NeedsBufferBarrier(readOnly, written) {
		t.Error("write-after-read should need a barrier")
	}
}

func TestNeedsImageBarrier(t *testing.T) {
	undefined := State{Layout: types.LayoutUndefined}
	sampled := State{Access: types.AccessRead | types.AccessSampled, Layout: types.LayoutShaderReadOnlyOptimal}

	if !NeedsImageBarrier(undefined, sampled) {
		t.Error("first use must transition out of undefined")
	}
	if NeedsImageBarrier(sampled, sampled) {
		t.Error("identical repeated read should not need a barrier")
	}
}

func TestAggregate(t *testing.T) {
	atts := []Attachment{
		{Stage: types.StageVertex, Access: types.AccessRead},
		{Stage: types.StageFragment, Access: types.AccessRead},
	}
	got := Aggregate(atts, false)
	if got.Stage != types.CombineStages(types.StageVertex, types.StageFragment) {
		t.Errorf("Aggregate stage = %v, want combined stage", got.Stage)
	}
	if !got.Access.IsRead() {
		t.Error("Aggregate should carry read access through")
	}
}
