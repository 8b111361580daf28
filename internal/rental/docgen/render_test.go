package docgen

import (
	"bytes"
	"image/color"
	"image/jpeg"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"

	"CPMS-backend/internal/platform/i18n"
)

func TestRenderProducesJPEG(t *testing.T) {
	dir := t.TempDir()
	tmpl := filepath.Join(dir, "issue.png")
	if err := imaging.Save(imaging.New(400, 600, color.White), tmpl); err != nil {
		t.Fatal(err)
	}

	r, err := NewRenderer(tmpl, tmpl, "")
	if err != nil {
		t.Fatal(err)
	}

	doc := &Document{
		Type:       TypeIssue,
		Number:     "42",
		Date:       time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		ClientID:   "C1",
		ClientName: "Ramesh Patel",
		Site:       "Vesu Surat",
		Mobile:     "9876543210",
		Lines: []Line{
			{PlateSize: "2 X 3", Quantity: 10},
			{PlateSize: "3 X 3", Quantity: 4, Note: "bent corner"},
		},
	}

	out, err := r.Render(doc, i18n.NewResolver(i18n.LocaleEnglish))
	if err != nil {
		t.Fatal(err)
	}

	img, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not a decodable jpeg: %v", err)
	}
	if img.Bounds().Dx() != 400 || img.Bounds().Dy() != 600 {
		t.Errorf("dimensions = %v, want template size", img.Bounds())
	}
}

func TestRenderMissingTemplateFails(t *testing.T) {
	r, err := NewRenderer("/nonexistent/issue.png", "/nonexistent/return.png", "")
	if err != nil {
		t.Fatal(err)
	}
	doc := &Document{Type: TypeIssue, Number: "1", Date: time.Now()}
	if _, err := r.Render(doc, i18n.NewResolver(i18n.LocaleGujarati)); err == nil {
		t.Fatal("render with missing template should fail")
	}
}
