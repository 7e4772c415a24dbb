// Package shaper converts logical-order text that mixes right-to-left script
// with digits and Latin into the visual order expected by PDF backends that
// draw glyphs strictly left to right.
//
// Reordering follows the Unicode Bidirectional Algorithm (UAX #9) for a
// single line: explicit embeddings, overrides and isolates, weak and neutral
// type resolution, implicit levels, trailing whitespace reset and L2
// reversal. Paired-bracket resolution (N0) is not applied; brackets are
// resolved as ordinary neutrals and mirrored when they land on an odd level.
package shaper

import (
	"regexp"
	"strings"
)

// Direction selects the paragraph embedding level.
type Direction int

const (
	// Auto takes the direction of the first strong character (P2, P3).
	Auto Direction = iota
	LeftToRight
	RightToLeft
)

// NumberMarker selects how digit runs are protected when WrapNumbers is on.
type NumberMarker string

const (
	// MarkerMark surrounds a run with RIGHT-TO-LEFT MARK characters.
	MarkerMark NumberMarker = "mark"
	// MarkerOverride encloses a run in LEFT-TO-RIGHT OVERRIDE ... POP.
	MarkerOverride NumberMarker = "override"
)

// ParseDirection maps a configuration string onto a Direction.
func ParseDirection(s string) Direction {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ltr", "left-to-right":
		return LeftToRight
	case "rtl", "right-to-left":
		return RightToLeft
	default:
		return Auto
	}
}

// Options configures a Shaper.
type Options struct {
	Direction    Direction
	WrapNumbers  bool
	NumberMarker NumberMarker
}

// Shaper reorders text. A Shaper holds only its options and is safe for
// concurrent use.
type Shaper struct {
	opts Options
}

// New returns a Shaper for opts.
func New(opts Options) *Shaper {
	if opts.NumberMarker == "" {
		opts.NumberMarker = MarkerOverride
	}
	return &Shaper{opts: opts}
}

// Options returns the effective options.
func (s *Shaper) Options() Options {
	return s.opts
}

// Shape returns text in visual order using the configured direction.
func (s *Shaper) Shape(text string) string {
	return s.ShapeWith(text, s.opts.Direction)
}

// ShapeWith returns text in visual order using dir as the paragraph
// direction. Each line is reordered independently. Bidi control characters
// are removed from the result.
func (s *Shaper) ShapeWith(text string, dir Direction) string {
	if text == "" {
		return ""
	}
	if s.opts.WrapNumbers {
		text = wrapNumbers(text, s.opts.NumberMarker)
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = string(reorderLine([]rune(line), dir))
	}
	return strings.Join(lines, "\n")
}

// ShapeVisual passes through text that is already in visual order, such as a
// line assembled from pre-reversed labels, dropping only control characters.
func (s *Shaper) ShapeVisual(text string) string {
	return s.ShapeWith(Preordered(text), LeftToRight)
}

// Preordered encloses text in a left-to-right override so that reordering
// keeps its characters in their given sequence.
func Preordered(text string) string {
	return string(lro) + text + string(pdf)
}

const (
	lrm = '\u200E'
	rlm = '\u200F'
	alm = '\u061C'
	lre = '\u202A'
	rle = '\u202B'
	pdf = '\u202C'
	lro = '\u202D'
	rlo = '\u202E'
	lri = '\u2066'
	rli = '\u2067'
	fsi = '\u2068'
	pdi = '\u2069'
)

var numberRun = regexp.MustCompile(`[0-9]+(?:[.,][0-9]+)*`)

func wrapNumbers(text string, marker NumberMarker) string {
	head, tail := string(rlm), string(rlm)
	if marker == MarkerOverride {
		head, tail = string(lro), string(pdf)
	}
	return numberRun.ReplaceAllStringFunc(text, func(run string) string {
		return head + run + tail
	})
}

// isControl reports whether r is an invisible directional formatting
// character that fonts do not carry glyphs for.
func isControl(r rune) bool {
	switch {
	case r == lrm, r == rlm, r == alm:
		return true
	case r >= lre && r <= rlo:
		return true
	case r >= lri && r <= pdi:
		return true
	}
	return false
}

var mirrors = map[rune]rune{
	'(': ')', ')': '(',
	'[': ']', ']': '[',
	'{': '}', '}': '{',
	'<': '>', '>': '<',
	'«': '»', '»': '«',
	'‹': '›', '›': '‹',
	'⁅': '⁆', '⁆': '⁅',
	'≤': '≥', '≥': '≤',
}

func mirror(r rune) rune {
	if m, ok := mirrors[r]; ok {
		return m
	}
	return r
}
