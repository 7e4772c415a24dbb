package composer

import (
	"github.com/ginjaninja78/receipts/internal/coords"
)

// FontHelvetica is the built-in PDF font used for numeric fields.
const FontHelvetica = "Helvetica"

// fontScript marks fields drawn with the configured TrueType family.
const fontScript = ""

// textKind selects how a field's value is prepared before drawing.
type textKind int

const (
	// asIs draws the value unchanged.
	asIs textKind = iota
	// logical values are in logical order and are reordered for display.
	logical
	// visual values are already in display order.
	visual
)

// Field is a text box on the receipt, measured in the authoring space.
type Field struct {
	Name string
	Box  coords.Box
	Font string
	Size float64
	kind textKind
}

// Field names used in logs and in the Field table.
const (
	FieldNumber       = "recipeNum"
	FieldPayment      = "payment"
	FieldMamVal       = "mamVal"
	FieldDescription1 = "discription"
	FieldDescription2 = "discription_2"
	FieldVariableLine = "variable_line"
	FieldDate         = "Date"
)

// Fields is the fixed page layout in drawing order.
var Fields = []Field{
	{Name: FieldNumber, Box: coords.Box{X: 60, Y: 26, W: 15, H: 5}, Font: FontHelvetica, Size: 10, kind: asIs},
	{Name: FieldPayment, Box: coords.Box{X: 11, Y: 100.75, W: 13, H: 3.5}, Font: FontHelvetica, Size: 10, kind: asIs},
	{Name: FieldMamVal, Box: coords.Box{X: 11, Y: 95.75, W: 13, H: 3.5}, Font: FontHelvetica, Size: 10, kind: asIs},
	{Name: FieldDescription1, Box: coords.Box{X: 32, Y: 55.75, W: 80, H: 3.5}, Font: fontScript, Size: 12, kind: logical},
	{Name: FieldDescription2, Box: coords.Box{X: 45, Y: 36, W: 60, H: 3.5}, Font: fontScript, Size: 12, kind: logical},
	{Name: FieldVariableLine, Box: coords.Box{X: 11, Y: 115, W: 104, H: 10}, Font: fontScript, Size: 10, kind: visual},
	{Name: FieldDate, Box: coords.Box{X: 80, Y: 130, W: 24, H: 6}, Font: fontScript, Size: 10, kind: asIs},
}

// SignatureBox is where the signature image goes.
var SignatureBox = coords.Box{X: 11, Y: 131, W: 24, H: 6}
