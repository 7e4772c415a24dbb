// Package coords maps boxes authored in a top-left, y-down design tool onto
// the bottom-left, y-up space used by PDF renderers.
//
// All lengths are millimetres unless a name says otherwise. Font sizes are
// points.
package coords

// PointsPerMillimetre is the PDF user-space unit (1/72 inch) per millimetre.
const PointsPerMillimetre = 72.0 / 25.4

// Box is an authoring-space rectangle: X, Y is the top-left corner.
type Box struct {
	X, Y, W, H float64
}

// Point is a render-space position.
type Point struct {
	X, Y float64
}

// Rect is a render-space rectangle whose origin is its bottom-left corner.
type Rect struct {
	X, Y, W, H float64
}

// ToPoints converts millimetres to PDF points.
func ToPoints(mm float64) float64 {
	return mm * PointsPerMillimetre
}

// ToMillimetres converts PDF points to millimetres.
func ToMillimetres(pt float64) float64 {
	return pt / PointsPerMillimetre
}

// FontHeight returns the em height, in millimetres, of a font at sizePt.
func FontHeight(sizePt float64) float64 {
	return ToMillimetres(sizePt)
}

// TextAnchor returns the baseline anchor for right-aligned text inside box.
// The anchor sits on the box's right edge and centres a line of the given
// font size vertically within the box.
func TextAnchor(box Box, pageHeight, fontSizePt float64) Point {
	return Point{
		X: box.X + box.W,
		Y: pageHeight - box.Y - box.H/2 - FontHeight(fontSizePt)/2,
	}
}

// ImageRect returns the render-space rectangle for an image filling box.
func ImageRect(box Box, pageHeight float64) Rect {
	return Rect{
		X: box.X,
		Y: pageHeight - box.Y - box.H,
		W: box.W,
		H: box.H,
	}
}

// Points returns r converted to PDF points.
func (r Rect) Points() Rect {
	return Rect{
		X: ToPoints(r.X),
		Y: ToPoints(r.Y),
		W: ToPoints(r.W),
		H: ToPoints(r.H),
	}
}
