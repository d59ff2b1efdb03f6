package quantize

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdok/quantizer/esri"
	"github.com/pdok/quantizer/intgeom"
)

var transform10 = esri.Transform{OriginPosition: esri.UpperLeft, Scale: [2]float64{10, 10}, Translate: [2]float64{0, 100}}

func encodedPolygonSet(polygons ...[]intgeom.Ring) *esri.EncodedFeatureSet {
	transform := transform10
	fs := &esri.EncodedFeatureSet{GeometryType: esri.GeometryPolygon, Transform: &transform}
	for _, rings := range polygons {
		fs.Features = append(fs.Features, esri.EncodedFeature{Geometry: esri.EncodedPolygon{Rings: rings}})
	}
	return fs
}

func TestCleanup_Polygons(t *testing.T) {
	fs := encodedPolygonSet(
		[]intgeom.Ring{
			{{0, 0}, {0, 5}, {0, 5}, {3, 0}},
			{{4, 4}, {1, 0}, {1, 0}},
		},
		[]intgeom.Ring{
			{{1, 1}, {2, 0}},
		},
		[]intgeom.Ring{
			{{1, 1}, {2, 0}, {0, 2}, {-2, -2}},
		},
	)
	result, err := Cleanup(fs)
	require.NoError(t, err)

	want := encodedPolygonSet(
		[]intgeom.Ring{{{0, 0}, {0, 10}, {3, 0}}},
		[]intgeom.Ring{{{1, 1}, {2, 0}, {0, 2}, {-2, -2}}},
	)
	assert.Equal(t, want, result.FeatureSet)
	assert.NotSame(t, fs.Transform, result.FeatureSet.Transform)

	got := result.Statistics
	got.Elapsed = 0
	assert.Equal(t, Statistics{
		InputFeatureCount:    3,
		OutputFeatureCount:   2,
		InputVertexCount:     intPtr(13),
		OutputVertexCount:    intPtr(7),
		CollinearVertexCount: 2,
	}, got)
	ratio, ok := got.RemovedVertexRatio()
	require.True(t, ok)
	assert.InDelta(t, 6.0/13.0, ratio, 1e-9)
}

func TestCleanup_Idempotent(t *testing.T) {
	fs := encodedPolygonSet(
		[]intgeom.Ring{
			{{0, 0}, {0, 5}, {0, 5}, {3, 0}, {3, 0}, {1, 1}, {0, -10}, {-7, 0}, {0, 1}},
			{{2, 2}, {1, 0}, {1, 0}, {0, 1}},
		},
	)
	once, err := Cleanup(fs)
	require.NoError(t, err)
	twice, err := Cleanup(once.FeatureSet)
	require.NoError(t, err)

	assert.Equal(t, once.FeatureSet, twice.FeatureSet)
	assert.Equal(t, 0, twice.Statistics.CollinearVertexCount)
	assert.Equal(t, *once.Statistics.OutputVertexCount, *twice.Statistics.OutputVertexCount)
}

func TestCleanup_PassThrough(t *testing.T) {
	transform := transform10
	fs := &esri.EncodedFeatureSet{
		GeometryType: esri.GeometryPoint,
		Transform:    &transform,
		Features: []esri.EncodedFeature{
			{Geometry: esri.EncodedPoint{X: 1, Y: 2}},
			{Geometry: esri.EncodedPoint{X: 3, Y: 4}},
		},
	}
	result, err := Cleanup(fs)
	require.NoError(t, err)
	assert.Equal(t, fs, result.FeatureSet)
	assert.Equal(t, 2, result.Statistics.InputFeatureCount)
	assert.Equal(t, 2, result.Statistics.OutputFeatureCount)
	assert.Equal(t, intPtr(0), result.Statistics.InputVertexCount)
	assert.Equal(t, intPtr(0), result.Statistics.OutputVertexCount)
	assert.Equal(t, 0, result.Statistics.CollinearVertexCount)
}

func TestCleanup_MissingTransform(t *testing.T) {
	fs := encodedPolygonSet([]intgeom.Ring{{{0, 0}, {0, 5}, {3, 0}}})
	fs.Transform = nil
	_, err := Cleanup(fs)
	var configErr *ConfigurationError
	assert.True(t, errors.As(err, &configErr))
}

func TestCleanup_DoesNotModifyInput(t *testing.T) {
	fs := encodedPolygonSet([]intgeom.Ring{{{0, 0}, {0, 5}, {0, 5}, {3, 0}}})
	_, err := Cleanup(fs)
	require.NoError(t, err)
	assert.Equal(t, encodedPolygonSet([]intgeom.Ring{{{0, 0}, {0, 5}, {0, 5}, {3, 0}}}), fs)
}
