package esri

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/perimeterx/marshmallow"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/pdok/quantizer/mapslicehelp"
)

const (
	keyGeometryType     = "geometryType"
	keySpatialReference = "spatialReference"
	keyTransform        = "transform"
	keyFeatures         = "features"
)

type featureJSON struct {
	Attributes *Attributes     `json:"attributes,omitempty"`
	Geometry   json.RawMessage `json:"geometry,omitempty"`
}

type header struct {
	GeometryType     GeometryType      `json:"geometryType"`
	SpatialReference *SpatialReference `json:"spatialReference,omitempty"`
	Transform        *Transform        `json:"transform,omitempty"`
	Features         []featureJSON     `json:"features"`
}

// knownKeys only exists to separate the interpreted keys from the rest with marshmallow
type knownKeys struct {
	GeometryType     string         `json:"geometryType"`
	SpatialReference map[string]any `json:"spatialReference"`
	Transform        map[string]any `json:"transform"`
	Features         []any          `json:"features"`
}

func unmarshalHeader(data []byte) (header, map[string]any, error) {
	var h header
	var known knownKeys
	extra, err := marshmallow.Unmarshal(data, &known, marshmallow.WithExcludeKnownFieldsFromMap(true))
	if err != nil {
		return h, nil, err
	}
	if len(extra) == 0 {
		extra = nil
	}
	if err = json.Unmarshal(data, &h); err != nil {
		return h, nil, err
	}
	if h.GeometryType == "" {
		return h, nil, fmt.Errorf(`missing key "%s"`, keyGeometryType)
	}
	return h, extra, nil
}

func marshalFeatureSet(geometryType GeometryType, sr *SpatialReference, t *Transform, features []featureJSON, extra map[string]any) ([]byte, error) {
	om := orderedmap.New[string, any]()
	om.Set(keyGeometryType, geometryType)
	if sr != nil {
		om.Set(keySpatialReference, sr)
	}
	if t != nil {
		om.Set(keyTransform, t)
	}
	keys := mapslicehelp.SortedKeys(extra)
	for _, k := range keys {
		switch k {
		case keyGeometryType, keySpatialReference, keyTransform, keyFeatures:
			continue
		}
		om.Set(k, extra[k])
	}
	om.Set(keyFeatures, features)
	return json.Marshal(om)
}

func isNullGeometry(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func decodeGeometry(t GeometryType, raw json.RawMessage) (Geometry, error) {
	switch t {
	case GeometryPoint:
		var p Point
		err := json.Unmarshal(raw, &p)
		return p, err
	case GeometryPolygon:
		var p Polygon
		err := json.Unmarshal(raw, &p)
		return p, err
	case GeometryPolyline:
		var p Polyline
		err := json.Unmarshal(raw, &p)
		return p, err
	default:
		return nil, fmt.Errorf("unknown geometry type %q", t)
	}
}

func decodeEncodedGeometry(t GeometryType, raw json.RawMessage) (EncodedGeometry, error) {
	switch t {
	case GeometryPoint:
		var p EncodedPoint
		err := json.Unmarshal(raw, &p)
		return p, err
	case GeometryPolygon:
		var p EncodedPolygon
		err := json.Unmarshal(raw, &p)
		return p, err
	case GeometryPolyline:
		var p EncodedPolyline
		err := json.Unmarshal(raw, &p)
		return p, err
	default:
		return nil, fmt.Errorf("unknown geometry type %q", t)
	}
}
