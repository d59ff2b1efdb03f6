package geomhelp

import (
	"strings"
	"testing"

	"github.com/go-spatial/geom"
	"github.com/go-spatial/geom/encoding/wkt"
	"github.com/stretchr/testify/assert"
)

func TestWktMustEncode(t *testing.T) {
	polygon := geom.Polygon{{{0, 0}, {10, 0}, {10, 10}}}
	assert.Equal(t, wkt.MustEncode(polygon), WktMustEncode(polygon, 0))
	assert.Equal(t, wkt.MustEncode(geom.Point{1, 2}), WktMustEncode(geom.Point{1, 2}, 0))

	collapsed := WktMustEncode(geom.Polygon{{{0, 0}, {1, 1}}, {{5, 5}}, {}}, 0)
	assert.True(t, strings.HasPrefix(collapsed, "LINESTRING"), collapsed)
	assert.Contains(t, collapsed, "POINT")
	assert.NotContains(t, collapsed, "POLYGON")
}

func TestWktMustEncode_Truncated(t *testing.T) {
	got := WktMustEncode(geom.Polygon{{{0, 0}, {1000, 0}, {1000, 1000}, {0, 1000}}}, 12)
	assert.LessOrEqual(t, len([]rune(got)), 12)
	assert.True(t, strings.HasSuffix(got, "..."), got)
}
