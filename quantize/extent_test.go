package quantize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdok/quantizer/esri"
	"github.com/pdok/quantizer/intgeom"
)

func TestGridExtent(t *testing.T) {
	tests := []struct {
		name   string
		fs     *esri.EncodedFeatureSet
		want   intgeom.Extent
		wantOk bool
	}{
		{
			name: "points",
			fs: &esri.EncodedFeatureSet{Features: []esri.EncodedFeature{
				{Geometry: esri.EncodedPoint{X: 3, Y: 7}},
				{Geometry: esri.EncodedPoint{X: -1, Y: 9}},
			}},
			want:   intgeom.Extent{-1, 7, 3, 9},
			wantOk: true,
		},
		{
			name: "polygon rings over several features",
			fs: &esri.EncodedFeatureSet{Features: []esri.EncodedFeature{
				{Geometry: esri.EncodedPolygon{Rings: []intgeom.Ring{{{2, 2}, {0, 10}, {10, 0}, {0, -10}}}}},
				{},
				{Geometry: esri.EncodedPolygon{Rings: []intgeom.Ring{{{20, 0}, {5, 0}, {0, 5}}, {}}}},
			}},
			want:   intgeom.Extent{2, 0, 25, 12},
			wantOk: true,
		},
		{
			name: "polyline paths",
			fs: &esri.EncodedFeatureSet{Features: []esri.EncodedFeature{
				{Geometry: esri.EncodedPolyline{Paths: []intgeom.Ring{{{0, 0}, {-4, 6}}}}},
			}},
			want:   intgeom.Extent{-4, 0, 0, 6},
			wantOk: true,
		},
		{
			name:   "no geometry",
			fs:     &esri.EncodedFeatureSet{Features: []esri.EncodedFeature{{}}},
			wantOk: false,
		},
	}
	for _, tt := range append(tests, struct {
		name   string
		fs     *esri.EncodedFeatureSet
		want   intgeom.Extent
		wantOk bool
	}{name: "nil feature set"}) {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := GridExtent(tt.fs)
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
