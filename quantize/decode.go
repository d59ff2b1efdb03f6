package quantize

import (
	"fmt"
	"maps"

	"github.com/pdok/quantizer/esri"
	"github.com/pdok/quantizer/intgeom"
)

// Decode maps an encoded feature set back to world coordinates using its transform.
// Points come back as the upper left corner of their grid cell.
func Decode(fs *esri.EncodedFeatureSet) (*esri.FeatureSet, error) {
	if fs.Transform == nil {
		return nil, &ConfigurationError{Reason: "decoding requires a transform"}
	}
	if err := fs.Transform.Validate(); err != nil {
		return nil, &ConfigurationError{Reason: "decoding", Err: err}
	}
	frame := FrameFromTransform(*fs.Transform)
	out := &esri.FeatureSet{
		GeometryType:     fs.GeometryType,
		SpatialReference: fs.SpatialReference,
		Features:         make([]esri.Feature, len(fs.Features)),
		Extra:            maps.Clone(fs.Extra),
	}
	for i, f := range fs.Features {
		out.Features[i].Attributes = f.Attributes
		switch g := f.Geometry.(type) {
		case nil:
		case esri.EncodedPoint:
			xy := frame.ToWorld(intgeom.Point{g.X, g.Y})
			out.Features[i].Geometry = esri.Point{X: xy[0], Y: xy[1]}
		case esri.EncodedPolygon:
			out.Features[i].Geometry = esri.Polygon{Rings: decodeRings(g.Rings, frame)}
		case esri.EncodedPolyline:
			out.Features[i].Geometry = esri.Polyline{Paths: decodeRings(g.Paths, frame)}
		default:
			return nil, fmt.Errorf("feature %d: %w", i,
				&UnsupportedGeometryError{Operation: "decode", GeometryType: f.Geometry.GeometryType()})
		}
	}
	return out, nil
}

func decodeRings(rings []intgeom.Ring, frame Frame) [][][2]float64 {
	decoded := make([][][2]float64, len(rings))
	for i, ring := range rings {
		positions := ring.Positions()
		decoded[i] = make([][2]float64, len(positions))
		for j, p := range positions {
			decoded[i][j] = frame.ToWorld(p)
		}
	}
	return decoded
}
