package render

import "testing"

func TestJobOutputPath(t *testing.T) {
	tests := []struct {
		name string
		job  Job
		want string
	}{
		{
			"explicit output wins",
			Job{Input: "flow.mmd", Output: "out/flow.svg", Format: FormatSVG},
			"out/flow.svg",
		},
		{
			"derived from input",
			Job{Input: "docs/flow.mmd", Format: FormatSVG},
			"docs/flow.svg",
		},
		{
			"derived png",
			Job{Input: "seq.puml", Format: FormatPNG},
			"seq.png",
		},
		{
			"input without extension",
			Job{Input: "diagram", Format: FormatSVG},
			"diagram.svg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.job.OutputPath(); got != tt.want {
				t.Errorf("OutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewJobAssignsID(t *testing.T) {
	j1 := NewJob("a.mmd", "", FormatSVG, "")
	j2 := NewJob("a.mmd", "", FormatSVG, "")
	if j1.ID == "" || j1.ID == j2.ID {
		t.Errorf("expected distinct non-empty IDs, got %q and %q", j1.ID, j2.ID)
	}
}
