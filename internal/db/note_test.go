package db

import "testing"

func TestDeriveTitleFromContentStripsEmphasis(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "strip bold heading",
			content: "# **Bold quest**\nbody",
			want:    "Bold quest",
		},
		{
			name:    "strip italic heading",
			content: "# *Italic quest* \nbody",
			want:    "Italic quest",
		},
		{
			name:    "strip emphasis without heading",
			content: "*untitled scroll*\nmore",
			want:    "untitled scroll",
		},
		{
			name:    "strip mixed emphasis",
			content: "# ***mixed***",
			want:    "mixed",
		},
		{
			name:    "skip blank lines",
			content: "\n   \n## second line",
			want:    "second line",
		},
		{
			name:    "empty content",
			content: "  ",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveTitleFromContent(tt.content)
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
