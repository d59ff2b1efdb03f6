package gpkg

import (
	"testing"
	"time"

	"github.com/go-spatial/geom"
	"github.com/go-spatial/geom/encoding/gpkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdok/quantizer/esri"
)

func Test_toEsri(t *testing.T) {
	square := [][2]float64{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}
	hole := [][2]float64{{2, 2}, {4, 2}, {4, 4}, {2, 2}}
	tests := []struct {
		name    string
		geom    geom.Geometry
		want    []esri.Geometry
		wantErr bool
	}{
		{name: "nil", geom: nil, want: nil},
		{
			name: "point",
			geom: geom.Point{1, 2},
			want: []esri.Geometry{esri.Point{X: 1, Y: 2}},
		},
		{
			name: "multi point is flattened",
			geom: geom.MultiPoint{{1, 2}, {3, 4}},
			want: []esri.Geometry{esri.Point{X: 1, Y: 2}, esri.Point{X: 3, Y: 4}},
		},
		{
			name: "line string",
			geom: geom.LineString{{0, 0}, {1, 1}},
			want: []esri.Geometry{esri.Polyline{Paths: [][][2]float64{{{0, 0}, {1, 1}}}}},
		},
		{
			name: "multi line string",
			geom: geom.MultiLineString{{{0, 0}, {1, 1}}, {{2, 2}, {3, 3}}},
			want: []esri.Geometry{esri.Polyline{Paths: [][][2]float64{{{0, 0}, {1, 1}}, {{2, 2}, {3, 3}}}}},
		},
		{
			name: "polygon",
			geom: geom.Polygon{square, hole},
			want: []esri.Geometry{esri.Polygon{Rings: [][][2]float64{square, hole}}},
		},
		{
			name: "multi polygon rings are concatenated",
			geom: geom.MultiPolygon{{square}, {hole}},
			want: []esri.Geometry{esri.Polygon{Rings: [][][2]float64{square, hole}}},
		},
		{
			name: "collection",
			geom: geom.Collection{geom.Point{1, 2}, geom.Polygon{square}},
			want: []esri.Geometry{esri.Point{X: 1, Y: 2}, esri.Polygon{Rings: [][][2]float64{square}}},
		},
		{
			name:    "unsupported",
			geom:    geom.Extent{0, 0, 1, 1},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := toEsri(tt.geom)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_attributeValue(t *testing.T) {
	tests := []struct {
		name    string
		in      interface{}
		want    any
		wantErr bool
	}{
		{name: "bytes become text", in: []uint8("abc"), want: "abc"},
		{name: "int", in: int64(42), want: int64(42)},
		{name: "float", in: 1.5, want: 1.5},
		{name: "null", in: nil, want: nil},
		{name: "date as epoch millis", in: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), want: int64(1577836800000)},
		{name: "unexpected", in: struct{}{}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := attributeValue(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_esriGeometryType(t *testing.T) {
	tests := []struct {
		in     string
		want   esri.GeometryType
		wantOk bool
	}{
		{in: "point", want: esri.GeometryPoint, wantOk: true},
		{in: "MULTIPOINT", want: esri.GeometryPoint, wantOk: true},
		{in: "LINESTRING", want: esri.GeometryPolyline, wantOk: true},
		{in: "MultiLineString", want: esri.GeometryPolyline, wantOk: true},
		{in: "POLYGON", want: esri.GeometryPolygon, wantOk: true},
		{in: "MULTIPOLYGON", want: esri.GeometryPolygon, wantOk: true},
		{in: "GEOMETRY", wantOk: false},
		{in: "GEOMETRYCOLLECTION", wantOk: false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := esriGeometryType(geometryTypeFromString(tt.in))
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_spatialReference(t *testing.T) {
	assert.Equal(t, &esri.SpatialReference{WKID: 28992},
		spatialReference(gpkg.SpatialReferenceSystem{Organization: "EPSG", OrganizationCoordsysID: 28992}))
	assert.Equal(t, &esri.SpatialReference{WKT: "LOCAL_CS[\"x\"]"},
		spatialReference(gpkg.SpatialReferenceSystem{Organization: "NONE", OrganizationCoordsysID: 0, Definition: "LOCAL_CS[\"x\"]"}))
	assert.Nil(t, spatialReference(gpkg.SpatialReferenceSystem{Organization: "NONE", Definition: "undefined"}))
}

func Test_layerSuffix(t *testing.T) {
	assert.Equal(t, "polygon", layerSuffix(esri.GeometryPolygon))
	assert.Equal(t, "point", layerSuffix(esri.GeometryPoint))
}

func Test_selectSQL(t *testing.T) {
	tbl := table{name: "buildings", columns: []column{{name: "fid"}, {name: "geom"}}}
	assert.Equal(t, `SELECT "fid","geom" FROM "buildings";`, tbl.selectSQL())
}
