// Package render draws single-page receipt documents.
//
// Canvas coordinates are millimetres in render space: origin at the bottom
// left of the page, y growing upward. Backends convert to whatever their
// drawing library expects.
package render

import (
	"io"
	"time"

	"github.com/ginjaninja78/receipts/internal/coords"
)

// PageSize is a page's physical size in millimetres
type PageSize struct {
	W float64
	H float64
}

// Canvas is one page being drawn
type Canvas interface {
	// RegisterFont makes a TrueType font file available under family
	RegisterFont(family, path string) error
	// DrawTemplate draws the background image or SVG scaled to the full page
	DrawTemplate(path string) error
	// SetFont selects the font for subsequent text. Families that were not
	// registered are treated as built-in PDF fonts such as Helvetica
	SetFont(family string, sizePt float64) error
	// DrawRightString draws text whose baseline ends at (x, y)
	DrawRightString(x, y float64, text string) error
	// DrawImage draws an image file into r
	DrawImage(path string, r coords.Rect) error
	// SetTitle sets document metadata
	SetTitle(title string)
	// SetCreationDate fixes the creation timestamp embedded in the document
	SetCreationDate(t time.Time)
	// Output writes the finished document; the canvas is unusable afterwards
	Output(w io.Writer) error
}

// Backend creates canvases
type Backend interface {
	NewCanvas(page PageSize) (Canvas, error)
}
