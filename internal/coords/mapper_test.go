package coords

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextAnchor(t *testing.T) {
	tests := []struct {
		name     string
		box      Box
		pageH    float64
		fontSize float64
		want     Point
	}{
		{
			name:     "receipt number box",
			box:      Box{X: 60, Y: 26, W: 15, H: 5},
			pageH:    161,
			fontSize: 10,
			want:     Point{X: 75, Y: 161 - 26 - 2.5 - FontHeight(10)/2},
		},
		{
			name:     "zero size box",
			box:      Box{X: 10, Y: 20},
			pageH:    100,
			fontSize: 0,
			want:     Point{X: 10, Y: 80},
		},
		{
			name:     "box outside page is not clamped",
			box:      Box{X: -5, Y: 200, W: 10, H: 4},
			pageH:    100,
			fontSize: 0,
			want:     Point{X: 5, Y: -102},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TextAnchor(tt.box, tt.pageH, tt.fontSize)
			assert.InDelta(t, tt.want.X, got.X, 1e-9)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-9)
		})
	}
}

func TestTextAnchor_Deterministic(t *testing.T) {
	box := Box{X: 11, Y: 5*9 + 55.75, W: 13, H: 3.5}
	first := TextAnchor(box, 161, 10)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, TextAnchor(box, 161, 10))
	}
}

func TestImageRect(t *testing.T) {
	got := ImageRect(Box{X: 11, Y: 131, W: 24, H: 6}, 161)
	assert.Equal(t, Rect{X: 11, Y: 24, W: 24, H: 6}, got)

	assert.Equal(t, Rect{X: 3, Y: 50}, ImageRect(Box{X: 3, Y: 50}, 100))
}

func TestUnitConversion(t *testing.T) {
	assert.InDelta(t, 72.0, ToPoints(25.4), 1e-9)
	assert.InDelta(t, 25.4, ToMillimetres(72), 1e-9)
	assert.InDelta(t, 10*25.4/72, FontHeight(10), 1e-9)

	r := Rect{X: 25.4, Y: 0, W: 50.8, H: 12.7}.Points()
	assert.InDelta(t, 72.0, r.X, 1e-9)
	assert.InDelta(t, 144.0, r.W, 1e-9)
	assert.InDelta(t, 36.0, r.H, 1e-9)
}
