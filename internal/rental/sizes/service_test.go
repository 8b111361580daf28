package sizes

import "testing"

func TestParseBoolish(t *testing.T) {
	cases := map[string]bool{
		"1": true, "true": true, "YES": true, "all": true, " All ": true,
		"": false, "0": false, "no": false,
	}
	for in, want := range cases {
		if got := parseBoolish(in); got != want {
			t.Errorf("parseBoolish(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNormalizeLabel(t *testing.T) {
	if got, err := normalizeLabel("  2 X 3  "); err != nil || got != "2 X 3" {
		t.Errorf("normalizeLabel trimmed = %q, err %v", got, err)
	}
	if _, err := normalizeLabel("   "); err == nil {
		t.Error("blank label should be rejected")
	}
}
