package video

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptimalIndex(t *testing.T) {
	variants := []Variant{
		{Width: 320, Height: 240},
		{Width: 640, Height: 480},
		{Width: 1280, Height: 720},
	}

	tests := []struct {
		name     string
		variants []Variant
		width    int
		height   int
		want     int
	}{
		{name: "width only", variants: variants, width: 700, want: 1},
		{name: "height only", variants: variants, height: 700, want: 2},
		{name: "both dimensions", variants: variants, width: 300, height: 300, want: 0},
		{name: "exact match", variants: variants, width: 1280, height: 720, want: 2},
		{name: "neither dimension", variants: variants, want: 0},
		{name: "tie keeps first", variants: []Variant{{Width: 100}, {Width: 300}}, width: 200, want: 0},
		{name: "single candidate", variants: []Variant{{Width: 10, Height: 10}}, width: 5000, height: 5000, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OptimalIndex(tt.variants, tt.width, tt.height)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOptimalIndexEmpty(t *testing.T) {
	_, err := OptimalIndex(nil, 100, 100)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Nil(t, Optimal(nil, 100, 100))
}

func TestOptimalIndexIsNearest(t *testing.T) {
	variants := []Variant{
		{Width: 100, Height: 75},
		{Width: 200, Height: 150},
		{Width: 295, Height: 166},
		{Width: 640, Height: 360},
		{Width: 960, Height: 540},
		{Width: 1280, Height: 720},
		{Width: 1920, Height: 1080},
	}
	dist := func(v Variant, w, h int) float64 {
		return math.Hypot(float64(v.Width-w), float64(v.Height-h))
	}

	for w := 50; w <= 2000; w += 37 {
		for h := 40; h <= 1200; h += 53 {
			idx, err := OptimalIndex(variants, w, h)
			require.NoError(t, err)
			best := dist(variants[idx], w, h)
			for i, v := range variants {
				assert.LessOrEqual(t, best, dist(v, w, h), "w=%d h=%d picked %d over %d", w, h, idx, i)
			}
		}
	}
}

func TestOptimalReturnsCopy(t *testing.T) {
	variants := []Variant{{Width: 320, Link: "a"}, {Width: 640, Link: "b"}}
	v := Optimal(variants, 600, 0)
	require.NotNil(t, v)
	assert.Equal(t, "b", v.Link)

	v.Link = "changed"
	assert.Equal(t, "b", variants[1].Link)
}
