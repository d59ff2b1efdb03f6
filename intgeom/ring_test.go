package intgeom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRing_Positions(t *testing.T) {
	tests := []struct {
		name string
		ring Ring
		want []Point
	}{
		{
			name: "square",
			ring: Ring{{2, 2}, {0, 10}, {10, 0}, {0, -10}},
			want: []Point{{2, 2}, {2, 12}, {12, 12}, {12, 2}},
		},
		{
			name: "anchor only",
			ring: Ring{{-1, 4}},
			want: []Point{{-1, 4}},
		},
		{
			name: "empty",
			ring: Ring{},
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ring.Positions())
		})
	}
}

func TestRing_Extent(t *testing.T) {
	e, ok := Ring{{2, 2}, {0, 10}, {10, 0}, {-15, -20}}.Extent()
	assert.True(t, ok)
	assert.Equal(t, Extent{-3, -8, 12, 12}, e)
	assert.Equal(t, int64(15), e.XSpan())
	assert.Equal(t, int64(20), e.YSpan())

	_, ok = Ring(nil).Extent()
	assert.False(t, ok)
}

func TestExtent_Union(t *testing.T) {
	a := Extent{0, 0, 10, 10}
	assert.Equal(t, Extent{-5, 0, 10, 20}, a.Union(Extent{-5, 2, 3, 20}))
	assert.Equal(t, a, a.Union(Extent{2, 2, 3, 3}))
	assert.Equal(t, Extent{-1, -2, 4, 3}, Extent{0, 0, 0, 0}.Expand(Point{-1, -2}).Expand(Point{4, 3}))
}

func TestPoint_SharesZeroAxis(t *testing.T) {
	tests := []struct {
		name string
		p    Point
		d    Point
		want bool
	}{
		{name: "both vertical", p: Point{0, 5}, d: Point{0, -2}, want: true},
		{name: "both horizontal", p: Point{3, 0}, d: Point{1, 0}, want: true},
		{name: "turn", p: Point{0, 5}, d: Point{3, 0}, want: false},
		{name: "diagonal", p: Point{1, 1}, d: Point{1, 1}, want: false},
		{name: "zero delta", p: Point{0, 0}, d: Point{4, 0}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.SharesZeroAxis(tt.d))
		})
	}
}
