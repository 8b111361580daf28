package docgen

import (
	"reflect"
	"strings"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

func testFace(t *testing.T, size float64) font.Face {
	t.Helper()
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{Size: size, DPI: 72})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { face.Close() })
	return face
}

func TestWrapTextFitsColumn(t *testing.T) {
	face := testFace(t, 14)
	max := fixed.I(120)

	lines := wrapText(face, "short words break into several narrow lines here", max)
	if len(lines) < 2 {
		t.Fatalf("expected wrapping, got %q", lines)
	}

	d := font.Drawer{Face: face}
	for _, l := range lines {
		if d.MeasureString(l) > max {
			t.Errorf("line %q exceeds column width", l)
		}
	}
	joined := strings.Join(lines, " ")
	if joined != "short words break into several narrow lines here" {
		t.Errorf("wrapping dropped words: %q", joined)
	}
}

func TestWrapTextLongWordGetsOwnLine(t *testing.T) {
	face := testFace(t, 14)
	lines := wrapText(face, "a pneumonoultramicroscopicsilicovolcanoconiosis b", fixed.I(60))
	want := []string{"a", "pneumonoultramicroscopicsilicovolcanoconiosis", "b"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("lines = %q, want %q", lines, want)
	}
}

func TestWrapTextEmpty(t *testing.T) {
	face := testFace(t, 14)
	if lines := wrapText(face, "   ", fixed.I(100)); lines != nil {
		t.Errorf("blank input should produce no lines, got %q", lines)
	}
}

func TestDocumentFilename(t *testing.T) {
	d := Document{Type: TypeIssue, Number: "42"}
	if got := d.Filename(); got != "issue-challan-42.jpg" {
		t.Errorf("Filename = %q", got)
	}
}

func TestTotalQuantity(t *testing.T) {
	d := Document{Lines: []Line{{Quantity: 10}, {Quantity: 5}, {Quantity: 0}}}
	if got := d.TotalQuantity(); got != 15 {
		t.Errorf("TotalQuantity = %d", got)
	}
}
