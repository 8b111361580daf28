package numbering

import "testing"

func TestNext(t *testing.T) {
	cases := []struct {
		name     string
		existing []string
		want     string
	}{
		{"mixed numeric and junk", []string{"3", "10", "7a", "x"}, "11"},
		{"empty", []string{}, "1"},
		{"nil", nil, "1"},
		{"no numeric records", []string{"abc"}, "1"},
		{"single", []string{"41"}, "42"},
		{"prefix before digits", []string{"CH-0007", "CH-12"}, "13"},
		{"first digit run wins", []string{"5x9"}, "6"},
		{"leading zeros", []string{"007"}, "8"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Next(tc.existing); got != tc.want {
				t.Errorf("Next(%v) = %q, want %q", tc.existing, got, tc.want)
			}
		})
	}
}

func TestNextIgnoresUnparsableRuns(t *testing.T) {
	// a digit run that overflows int must not poison the max scan
	got := Next([]string{"99999999999999999999999999", "12"})
	if got != "13" {
		t.Errorf("Next = %q, want %q", got, "13")
	}
}
