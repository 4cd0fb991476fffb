package settlement

import "testing"

func TestParseSelection(t *testing.T) {
	tests := []struct {
		in   string
		want []int
	}{
		{"7 - Storm", []int{7}},
		{"12,3", []int{12, 3}},
		{"7 - Ex Machina, 3 - Galopin", []int{7, 3}},
		{"abc", nil},
		{"", nil},
		{"0,7", []int{7}},
		{"  5 ,  9  ", []int{5, 9}},
		{"14bis", []int{14}},
		{"-3,4", []int{4}},
	}
	for _, tt := range tests {
		got := ParseSelection(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("ParseSelection(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ParseSelection(%q) = %v, want %v", tt.in, got, tt.want)
				break
			}
		}
	}
}

func TestJoinNumbers(t *testing.T) {
	if got := joinNumbers([]int{2, 9}); got != "2-9" {
		t.Errorf("joinNumbers = %q, want 2-9", got)
	}
	if got := joinNumbers([]int{7}); got != "7" {
		t.Errorf("single number should render bare, got %q", got)
	}
}

func TestSortedCopyLeavesInputAlone(t *testing.T) {
	in := []int{9, 2, 5}
	out := sortedCopy(in)
	if out[0] != 2 || out[1] != 5 || out[2] != 9 {
		t.Errorf("sortedCopy = %v", out)
	}
	if in[0] != 9 {
		t.Errorf("input mutated: %v", in)
	}
}
