package shaper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShape(t *testing.T) {
	s := New(Options{})

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "latin only", in: "hello world", want: "hello world"},
		{name: "hebrew word", in: "שלום", want: "םולש"},
		{name: "hebrew sentence", in: "שלום עולם", want: "םלוע םולש"},
		{name: "hebrew then digits", in: "שלום 123", want: "123 םולש"},
		{name: "latin then hebrew", in: "abc שלום", want: "abc םולש"},
		{name: "brackets are mirrored", in: "(שלום)", want: "(םולש)"},
		{name: "date inside hebrew", in: "שכירות 7/2025", want: "7/2025 תוריכש"},
		{name: "decimal amount", in: "סכום 1,250.50", want: "1,250.50 םוכס"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Shape(tt.in))
		})
	}
}

func TestShape_WrapNumbersKeepsDigitOrder(t *testing.T) {
	for _, marker := range []NumberMarker{MarkerMark, MarkerOverride} {
		t.Run(string(marker), func(t *testing.T) {
			s := New(Options{WrapNumbers: true, NumberMarker: marker})

			out := s.Shape("סכום 12345 שקל")
			assert.Equal(t, "לקש 12345 םוכס", out)
			assert.Contains(t, out, "12345")

			out = s.Shape("תשלום 3.14 ו 2,000")
			assert.Contains(t, out, "3.14")
			assert.Contains(t, out, "2,000")
		})
	}
}

func TestShape_WrapNumbersKeepsDateOrder(t *testing.T) {
	s := New(Options{WrapNumbers: true})
	assert.Equal(t, MarkerOverride, s.Options().NumberMarker)
	assert.Equal(t, "5/7/2025 ךיראת", s.Shape("תאריך 5/7/2025"))
}

func TestShape_StripsControlCharacters(t *testing.T) {
	s := New(Options{WrapNumbers: true})
	out := s.Shape("חשבון 012909912")
	for _, r := range out {
		assert.False(t, isControl(r), "unexpected control rune %U", r)
	}
	assert.Equal(t, "012909912 ןובשח", out)
}

func TestShape_Deterministic(t *testing.T) {
	s := New(Options{WrapNumbers: true})
	in := "דליה 00007 jul 25 (חודשי)"
	first := s.Shape(in)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, s.Shape(in))
	}
}

func TestShape_ForcedDirection(t *testing.T) {
	ltr := New(Options{Direction: LeftToRight})
	rtl := New(Options{Direction: RightToLeft})

	assert.Equal(t, "abc 123", ltr.Shape("abc 123"))
	assert.Equal(t, "abc def", rtl.Shape("abc def"))
	assert.Equal(t, "abc!", ltr.Shape("abc!"))
	assert.Equal(t, "!abc", rtl.Shape("abc!"))
}

func TestShape_Multiline(t *testing.T) {
	s := New(Options{})
	assert.Equal(t, "אב\nabc", s.Shape("בא\nabc"))
}

func TestShapeVisual_KeepsPreorderedText(t *testing.T) {
	s := New(Options{WrapNumbers: true})
	line := "500" + reverse(" סכום: ") + "12" + reverse(" בנק: ")

	out := s.ShapeVisual(line)
	assert.Equal(t, line, out)
	assert.False(t, strings.ContainsRune(out, lro))
	assert.False(t, strings.ContainsRune(out, pdf))
}

func TestParseDirection(t *testing.T) {
	assert.Equal(t, LeftToRight, ParseDirection("LTR"))
	assert.Equal(t, RightToLeft, ParseDirection(" rtl "))
	assert.Equal(t, Auto, ParseDirection(""))
	assert.Equal(t, Auto, ParseDirection("auto"))
}

func reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}
