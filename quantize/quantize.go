// Package quantize converts feature sets in world coordinates into integer, delta encoded geometry
// on a grid defined by an extent and a tolerance, and compacts already encoded feature sets.
//
// A quantized polygon ring starts with the absolute grid cell of its first vertex,
// followed by the steps (deltas) from one vertex to the next.
// Consecutive steps along the same axis can be merged into one (collinear vertex removal).
package quantize

import (
	"fmt"
	"maps"
	"time"

	"github.com/pdok/quantizer/esri"
	"github.com/pdok/quantizer/intgeom"
)

// Result is the outcome of Quantize or Cleanup
type Result struct {
	FeatureSet *esri.EncodedFeatureSet
	Statistics Statistics
}

// Quantize encodes the features of fs on the grid described by params.
// Points are mapped to the grid cell they fall in. Polygon rings are delta encoded,
// rings with fewer than 3 encoded vertices are dropped, as are polygons without any rings left.
// Features without geometry are dropped.
// The output takes the spatial reference of the extent when fs has none.
// fs is not modified.
func Quantize(fs *esri.FeatureSet, params Parameters) (Result, error) {
	start := time.Now()
	if err := params.Validate(); err != nil {
		return Result{}, err
	}
	frame := NewFrame(params.Extent, params.Tolerance)
	transform := frame.Transform()
	out := &esri.EncodedFeatureSet{
		GeometryType:     fs.GeometryType,
		SpatialReference: fs.SpatialReference,
		Transform:        &transform,
		Extra:            maps.Clone(fs.Extra),
	}
	if out.SpatialReference == nil {
		out.SpatialReference = params.Extent.SpatialReference
	}
	statistics := Statistics{InputFeatureCount: len(fs.Features)}

	var err error
	switch fs.GeometryType {
	case esri.GeometryPoint:
		out.Features, err = quantizePoints(fs.Features, frame)
	case esri.GeometryPolygon:
		var c vertexCounter
		out.Features, err = quantizePolygons(fs.Features, frame, params.RemoveCollinearVertices, &c)
		statistics.InputVertexCount = intPtr(c.input)
		statistics.OutputVertexCount = intPtr(c.output)
		statistics.CollinearVertexCount = c.collinear
	default:
		err = &UnsupportedGeometryError{Operation: "quantize", GeometryType: fs.GeometryType}
	}
	if err != nil {
		return Result{}, err
	}

	statistics.OutputFeatureCount = len(out.Features)
	statistics.Elapsed = time.Since(start)
	return Result{FeatureSet: out, Statistics: statistics}, nil
}

func quantizePoints(features []esri.Feature, frame Frame) ([]esri.EncodedFeature, error) {
	encoded := make([]esri.EncodedFeature, 0, len(features))
	for i, f := range features {
		if f.Geometry == nil {
			continue
		}
		p, ok := f.Geometry.(esri.Point)
		if !ok {
			return nil, fmt.Errorf("feature %d: %w", i,
				&UnsupportedGeometryError{Operation: "quantize points", GeometryType: f.Geometry.GeometryType()})
		}
		anchor, ok := frame.Anchor(p.X, p.Y)
		if !ok {
			return nil, fmt.Errorf("feature %d: %w", i, outOfGrid(p.X, p.Y))
		}
		encoded = append(encoded, esri.EncodedFeature{
			Attributes: f.Attributes,
			Geometry:   esri.EncodedPoint{X: anchor.X(), Y: anchor.Y()},
		})
	}
	return encoded, nil
}

func quantizePolygons(features []esri.Feature, frame Frame, removeCollinear bool, c *vertexCounter) ([]esri.EncodedFeature, error) {
	encoded := make([]esri.EncodedFeature, 0, len(features))
	for i, f := range features {
		if f.Geometry == nil {
			continue
		}
		polygon, ok := f.Geometry.(esri.Polygon)
		if !ok {
			return nil, fmt.Errorf("feature %d: %w", i,
				&UnsupportedGeometryError{Operation: "quantize polygons", GeometryType: f.Geometry.GeometryType()})
		}
		rings := make([]intgeom.Ring, 0, len(polygon.Rings))
		for _, ring := range polygon.Rings {
			r, keep, err := encodeRing(ring, frame, removeCollinear, c)
			if err != nil {
				return nil, fmt.Errorf("feature %d: %w", i, err)
			}
			if keep {
				rings = append(rings, r)
			}
		}
		if len(rings) == 0 {
			continue
		}
		encoded = append(encoded, esri.EncodedFeature{
			Attributes: f.Attributes,
			Geometry:   esri.EncodedPolygon{Rings: rings},
		})
	}
	return encoded, nil
}

// Cleanup merges the collinear steps of the rings of an encoded polygon feature set,
// without touching its transform. Dropping rules are the same as for Quantize.
// Feature sets of other geometry types are passed through unchanged.
// fs is not modified.
func Cleanup(fs *esri.EncodedFeatureSet) (Result, error) {
	start := time.Now()
	statistics := Statistics{
		InputFeatureCount: len(fs.Features),
		InputVertexCount:  intPtr(0),
		OutputVertexCount: intPtr(0),
	}

	var out *esri.EncodedFeatureSet
	switch fs.GeometryType {
	case esri.GeometryPolygon:
		if fs.Transform == nil {
			return Result{}, &ConfigurationError{Reason: "cleanup of polygons requires a transform"}
		}
		transform := *fs.Transform
		out = &esri.EncodedFeatureSet{
			GeometryType:     fs.GeometryType,
			SpatialReference: fs.SpatialReference,
			Transform:        &transform,
			Extra:            maps.Clone(fs.Extra),
		}
		var c vertexCounter
		var err error
		out.Features, err = cleanupPolygons(fs.Features, &c)
		if err != nil {
			return Result{}, err
		}
		statistics.InputVertexCount = intPtr(c.input)
		statistics.OutputVertexCount = intPtr(c.output)
		statistics.CollinearVertexCount = c.collinear
	default:
		passThrough := *fs
		out = &passThrough
	}

	statistics.OutputFeatureCount = len(out.Features)
	statistics.Elapsed = time.Since(start)
	return Result{FeatureSet: out, Statistics: statistics}, nil
}

func cleanupPolygons(features []esri.EncodedFeature, c *vertexCounter) ([]esri.EncodedFeature, error) {
	cleaned := make([]esri.EncodedFeature, 0, len(features))
	for i, f := range features {
		if f.Geometry == nil {
			continue
		}
		polygon, ok := f.Geometry.(esri.EncodedPolygon)
		if !ok {
			return nil, fmt.Errorf("feature %d: %w", i,
				&UnsupportedGeometryError{Operation: "cleanup polygons", GeometryType: f.Geometry.GeometryType()})
		}
		rings := make([]intgeom.Ring, 0, len(polygon.Rings))
		for _, ring := range polygon.Rings {
			if r, keep := cleanupRing(ring, c); keep {
				rings = append(rings, r)
			}
		}
		if len(rings) == 0 {
			continue
		}
		cleaned = append(cleaned, esri.EncodedFeature{
			Attributes: f.Attributes,
			Geometry:   esri.EncodedPolygon{Rings: rings},
		})
	}
	return cleaned, nil
}
