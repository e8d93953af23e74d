package launcher

import "testing"

func TestResolveImage(t *testing.T) {
	tests := []struct {
		name         string
		headImage    string
		podImage     string
		wantImage    string
		wantWarnings int
	}{
		{
			name:      "head image only",
			headImage: "nextflow/head:latest",
			wantImage: "nextflow/head:latest",
		},
		{
			name:         "both set, head wins, warning still emitted",
			headImage:    "a",
			podImage:     "b",
			wantImage:    "a",
			wantWarnings: 1,
		},
		{
			name:         "deprecated alias fills the gap",
			podImage:     "b",
			wantImage:    "b",
			wantWarnings: 1,
		},
		{
			name:      "neither set",
			wantImage: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			image, warnings := ResolveImage(tt.headImage, tt.podImage)
			if image != tt.wantImage {
				t.Errorf("image = %q, want %q", image, tt.wantImage)
			}
			if len(warnings) != tt.wantWarnings {
				t.Errorf("warnings = %d, want %d: %v", len(warnings), tt.wantWarnings, warnings)
			}
		})
	}
}
