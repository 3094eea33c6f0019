// ABOUTME: Tests for graph-resource name validation.
// ABOUTME: Table-driven over legal and illegal name forms.

package naming

import "testing"

func TestIsLegalName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "empty is legal", input: "", want: true},
		{name: "bare name", input: "camera", want: true},
		{name: "global name", input: "/sensors/camera", want: true},
		{name: "private name", input: "~camera", want: true},
		{name: "underscores and digits", input: "cam_2/frame_id", want: true},
		{name: "root", input: "/", want: true},
		{name: "leading digit", input: "123bad!", want: false},
		{name: "illegal punctuation", input: "cam!", want: false},
		{name: "space", input: "a b", want: false},
		{name: "dash", input: "a-b", want: false},
		{name: "dot", input: "a.b", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsLegalName(tt.input); got != tt.want {
				t.Errorf("IsLegalName(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
