package types

import "testing"

func TestCombineStages(t *testing.T) {
	tests := []struct {
		name string
		a, b PipelineStage
		want PipelineStage
	}{
		{"identical stages", StageCompute, StageCompute, StageCompute},
		{"earlier then later picks later", StageVertex, StageFragment, StageFragment},
		{"later then earlier picks later", StageFragment, StageVertex, StageFragment},
		{"all-commands dominates", StageAllCommands, StageVertex, StageAllCommands},
		{"all-graphics dominates a graphics stage", StageAllGraphics, StageFragment, StageAllGraphics},
		{"all-graphics does not dominate compute", StageAllGraphics, StageCompute, StageAllCommands},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CombineStages(tt.a, tt.b); got != tt.want {
				t.Errorf("CombineStages(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		name     string
		from, to PipelineStage
		want     int
	}{
		{"same stage", StageVertex, StageVertex, 0},
		{"adjacent stages", StageVertex, StageHost, 1},
		{"symmetric", StageFragment, StageVertex, Distance(StageVertex, StageFragment)},
		{"dominating stage is maximally distant", StageAllCommands, StageVertex, len(linearRank)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Distance(tt.from, tt.to); got != tt.want {
				t.Errorf("Distance(%v, %v) = %d, want %d", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestPipelineStageDominates(t *testing.T) {
	if !StageAllCommands.Dominates(StageCompute) {
		t.Error("StageAllCommands should dominate StageCompute")
	}
	if !StageAllGraphics.Dominates(StageColorAttachment) {
		t.Error("StageAllGraphics should dominate StageColorAttachment")
	}
	if StageAllGraphics.Dominates(StageCompute) {
		t.Error("StageAllGraphics should not dominate StageCompute")
	}
}
