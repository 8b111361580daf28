package i18n

import "testing"

func TestParseLocale(t *testing.T) {
	cases := []struct {
		in   string
		want Locale
	}{
		{"en", LocaleEnglish},
		{"en-IN", LocaleEnglish},
		{"gu", LocaleGujarati},
		{"gu-IN", LocaleGujarati},
		{"", LocaleGujarati},
		{"fr", LocaleGujarati},
		{"not a tag", LocaleGujarati},
	}
	for _, tc := range cases {
		if got := ParseLocale(tc.in); got != tc.want {
			t.Errorf("ParseLocale(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestResolverLookup(t *testing.T) {
	en := NewResolver(LocaleEnglish)
	if got := en.T("doc.challan_no"); got != "Challan No" {
		t.Errorf("en doc.challan_no = %q", got)
	}
	gu := NewResolver(LocaleGujarati)
	if got := gu.T("doc.date"); got != "તારીખ" {
		t.Errorf("gu doc.date = %q", got)
	}
}

func TestResolverUnknownKeyPassesThrough(t *testing.T) {
	r := NewResolver(LocaleEnglish)
	if got := r.T("no.such.key"); got != "no.such.key" {
		t.Errorf("unknown key = %q, want passthrough", got)
	}
}
