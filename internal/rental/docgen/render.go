package docgen

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"os"
	"strconv"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"CPMS-backend/internal/platform/i18n"
	"CPMS-backend/internal/platform/logging"
)

// Renderer composites challan data onto the configured background
// templates. Templates are re-read per render so a replaced image file
// takes effect without a restart.
type Renderer struct {
	issueTemplate  string
	returnTemplate string
	fnt            *opentype.Font
}

// NewRenderer parses the configured TTF once. An empty or unreadable
// font file falls back to Go Regular, which renders Latin text only.
func NewRenderer(issueTemplate, returnTemplate, fontFile string) (*Renderer, error) {
	fnt, err := loadFont(fontFile)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		issueTemplate:  issueTemplate,
		returnTemplate: returnTemplate,
		fnt:            fnt,
	}, nil
}

func loadFont(path string) (*opentype.Font, error) {
	if path == "" {
		return opentype.Parse(goregular.TTF)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		logging.LogError("docgen", "loadFont", err)
		return opentype.Parse(goregular.TTF)
	}
	fnt, err := opentype.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	return fnt, nil
}

func (r *Renderer) templateFor(docType string) string {
	if docType == TypeReturn {
		return r.returnTemplate
	}
	return r.issueTemplate
}

// Render draws the document onto its template and returns the JPEG
// bytes. Any failure, template missing included, fails the whole render.
func (r *Renderer) Render(doc *Document, res *i18n.Resolver) ([]byte, error) {
	tmpl, err := imaging.Open(r.templateFor(doc.Type))
	if err != nil {
		return nil, fmt.Errorf("open template: %w", err)
	}

	canvas := imaging.Clone(tmpl)
	w := canvas.Bounds().Dx()
	h := canvas.Bounds().Dy()

	// face sizes scale with the template so the same layout works for
	// any resolution scan of the printed book
	bodyFace, err := r.face(float64(w) * 0.024)
	if err != nil {
		return nil, err
	}
	defer bodyFace.Close()
	smallFace, err := r.face(float64(w) * 0.017)
	if err != nil {
		return nil, err
	}
	defer smallFace.Close()

	p := painter{dst: canvas, w: w, h: h}

	title := res.T("doc.title.issue")
	if doc.Type == TypeReturn {
		title = res.T("doc.title.return")
	}
	p.text(bodyFace, title, 0.40, 0.055)

	p.text(bodyFace, res.T("doc.challan_no")+": "+doc.Number, 0.68, 0.115)
	p.text(bodyFace, res.T("doc.date")+": "+doc.Date.Format("02-01-2006"), 0.68, 0.155)

	p.wrapped(bodyFace, res.T("doc.client")+": "+doc.ClientName, 0.06, 0.115, 0.55)
	p.text(smallFace, doc.ClientID, 0.06, 0.155)
	p.wrapped(smallFace, res.T("doc.site")+": "+doc.Site, 0.06, 0.19, 0.55)
	p.text(smallFace, res.T("doc.mobile")+": "+doc.Mobile, 0.06, 0.225)

	// item table: size, qty, optional note per row
	y := 0.30
	const step = 0.042
	for _, line := range doc.Lines {
		p.text(bodyFace, line.PlateSize, 0.08, y)
		p.text(bodyFace, strconv.Itoa(line.Quantity), 0.70, y)
		if line.Note != "" {
			p.text(smallFace, line.Note, 0.80, y)
		}
		y += step
	}

	p.text(bodyFace, res.T("doc.total")+": "+strconv.Itoa(doc.TotalQuantity()), 0.68, 0.92)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) face(size float64) (font.Face, error) {
	return opentype.NewFace(r.fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// painter draws at coordinates given as fractions of the template size.
type painter struct {
	dst  *image.NRGBA
	w, h int
}

func (p *painter) drawer(face font.Face) *font.Drawer {
	return &font.Drawer{
		Dst:  p.dst,
		Src:  image.NewUniform(color.Black),
		Face: face,
	}
}

func (p *painter) text(face font.Face, s string, fx, fy float64) {
	d := p.drawer(face)
	d.Dot = fixed.P(int(fx*float64(p.w)), int(fy*float64(p.h)))
	d.DrawString(s)
}

func (p *painter) wrapped(face font.Face, s string, fx, fy, fmaxw float64) {
	maxWidth := fixed.I(int(fmaxw * float64(p.w)))
	lineHeight := face.Metrics().Height

	d := p.drawer(face)
	dot := fixed.P(int(fx*float64(p.w)), int(fy*float64(p.h)))
	for _, line := range wrapText(face, s, maxWidth) {
		d.Dot = dot
		d.DrawString(line)
		dot.Y += lineHeight
	}
}
