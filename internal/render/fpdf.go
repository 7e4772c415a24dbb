package render

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/ginjaninja78/receipts/internal/coords"
)

// FPDF renders with gofpdf. gofpdf places its origin at the top left, so
// every canvas call flips y against the page height.
type FPDF struct {
	// Compress enables stream compression in the output
	Compress bool
}

// NewFPDF creates a gofpdf backend with compression enabled
func NewFPDF() *FPDF {
	return &FPDF{Compress: true}
}

// NewCanvas opens a single page of the given size
func (b *FPDF) NewCanvas(page PageSize) (Canvas, error) {
	if page.W <= 0 || page.H <= 0 {
		return nil, fmt.Errorf("invalid page size %.2fx%.2f mm", page.W, page.H)
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: page.W, Ht: page.H},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(b.Compress)
	pdf.SetCatalogSort(true)
	pdf.AddPage()
	if err := pdf.Error(); err != nil {
		return nil, err
	}

	return &fpdfCanvas{
		pdf:       pdf,
		page:      page,
		utf8Fonts: make(map[string]bool),
		cp1252:    pdf.UnicodeTranslatorFromDescriptor(""),
	}, nil
}

type fpdfCanvas struct {
	pdf       *gofpdf.Fpdf
	page      PageSize
	utf8Fonts map[string]bool
	current   string
	cp1252    func(string) string
}

func (c *fpdfCanvas) RegisterFont(family, path string) error {
	c.pdf.AddUTF8Font(family, "", path)
	if err := c.pdf.Error(); err != nil {
		return fmt.Errorf("failed to load font %s: %w", path, err)
	}
	c.utf8Fonts[family] = true
	return nil
}

func (c *fpdfCanvas) DrawTemplate(path string) error {
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		return c.drawSVG(path)
	}
	c.pdf.ImageOptions(path, 0, 0, c.page.W, c.page.H, false, gofpdf.ImageOptions{}, 0, "")
	return c.pdf.Error()
}

// drawSVG renders the outline paths of a basic SVG file. The root element
// must carry unitless width and height attributes.
func (c *fpdfCanvas) drawSVG(path string) error {
	sig, err := gofpdf.SVGBasicFileParse(path)
	if err != nil {
		return fmt.Errorf("failed to parse svg template: %w", err)
	}
	if sig.Wd <= 0 {
		return fmt.Errorf("svg template %s has no usable width", path)
	}
	c.pdf.SetXY(0, 0)
	c.pdf.SetLineWidth(0.2)
	c.pdf.SVGBasicWrite(&sig, c.page.W/sig.Wd)
	return c.pdf.Error()
}

func (c *fpdfCanvas) SetFont(family string, sizePt float64) error {
	c.pdf.SetFont(family, "", sizePt)
	if err := c.pdf.Error(); err != nil {
		return err
	}
	c.current = family
	return nil
}

func (c *fpdfCanvas) DrawRightString(x, y float64, text string) error {
	if !c.utf8Fonts[c.current] {
		text = c.cp1252(text)
	}
	width := c.pdf.GetStringWidth(text)
	c.pdf.Text(x-width, c.page.H-y, text)
	return c.pdf.Error()
}

func (c *fpdfCanvas) DrawImage(path string, r coords.Rect) error {
	c.pdf.ImageOptions(path, r.X, c.page.H-r.Y-r.H, r.W, r.H, false, gofpdf.ImageOptions{}, 0, "")
	return c.pdf.Error()
}

func (c *fpdfCanvas) SetTitle(title string) {
	c.pdf.SetTitle(title, true)
}

// SetCreationDate fixes both document dates so identical input gives
// identical bytes
func (c *fpdfCanvas) SetCreationDate(t time.Time) {
	c.pdf.SetCreationDate(t)
	c.pdf.SetModificationDate(t)
}

func (c *fpdfCanvas) Output(w io.Writer) error {
	return c.pdf.Output(w)
}
