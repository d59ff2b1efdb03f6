package esri

import (
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Attributes are the (non geometry) properties of a feature, in their original order
type Attributes = orderedmap.OrderedMap[string, any]

// NewAttributes returns empty Attributes
func NewAttributes() *Attributes {
	return orderedmap.New[string, any]()
}

// FeatureSet is a set of features in world coordinates, all of the same geometry type
type FeatureSet struct {
	GeometryType     GeometryType
	SpatialReference *SpatialReference
	Features         []Feature
	// Extra holds the top level keys this package does not interpret (fields, objectIdFieldName, ...)
	Extra map[string]any
}

type Feature struct {
	Attributes *Attributes
	// Geometry is nil for features without a geometry
	Geometry Geometry
}

// EncodedFeatureSet is a set of quantized features, all of the same geometry type.
// The Transform maps their grid coordinates back to world coordinates.
type EncodedFeatureSet struct {
	GeometryType     GeometryType
	SpatialReference *SpatialReference
	Transform        *Transform
	Features         []EncodedFeature
	Extra            map[string]any
}

type EncodedFeature struct {
	Attributes *Attributes
	Geometry   EncodedGeometry
}

func (fs *FeatureSet) MarshalJSON() ([]byte, error) {
	features := make([]featureJSON, len(fs.Features))
	for i, f := range fs.Features {
		features[i] = featureJSON{Attributes: f.Attributes}
		if f.Geometry != nil {
			if f.Geometry.GeometryType() != fs.GeometryType {
				return nil, fmt.Errorf("feature %d has geometry type %s in a feature set of %s",
					i, f.Geometry.GeometryType(), fs.GeometryType)
			}
			raw, err := json.Marshal(f.Geometry)
			if err != nil {
				return nil, err
			}
			features[i].Geometry = raw
		}
	}
	return marshalFeatureSet(fs.GeometryType, fs.SpatialReference, nil, features, fs.Extra)
}

func (fs *FeatureSet) UnmarshalJSON(data []byte) error {
	h, extra, err := unmarshalHeader(data)
	if err != nil {
		return err
	}
	*fs = FeatureSet{
		GeometryType:     h.GeometryType,
		SpatialReference: h.SpatialReference,
		Features:         make([]Feature, len(h.Features)),
		Extra:            extra,
	}
	for i, f := range h.Features {
		fs.Features[i].Attributes = f.Attributes
		if isNullGeometry(f.Geometry) {
			continue
		}
		fs.Features[i].Geometry, err = decodeGeometry(h.GeometryType, f.Geometry)
		if err != nil {
			return fmt.Errorf("feature %d: %w", i, err)
		}
	}
	return nil
}

func (fs *EncodedFeatureSet) MarshalJSON() ([]byte, error) {
	features := make([]featureJSON, len(fs.Features))
	for i, f := range fs.Features {
		features[i] = featureJSON{Attributes: f.Attributes}
		if f.Geometry != nil {
			if f.Geometry.GeometryType() != fs.GeometryType {
				return nil, fmt.Errorf("feature %d has geometry type %s in a feature set of %s",
					i, f.Geometry.GeometryType(), fs.GeometryType)
			}
			raw, err := json.Marshal(f.Geometry)
			if err != nil {
				return nil, err
			}
			features[i].Geometry = raw
		}
	}
	return marshalFeatureSet(fs.GeometryType, fs.SpatialReference, fs.Transform, features, fs.Extra)
}

func (fs *EncodedFeatureSet) UnmarshalJSON(data []byte) error {
	h, extra, err := unmarshalHeader(data)
	if err != nil {
		return err
	}
	if h.Transform != nil {
		if err = h.Transform.Validate(); err != nil {
			return err
		}
	}
	*fs = EncodedFeatureSet{
		GeometryType:     h.GeometryType,
		SpatialReference: h.SpatialReference,
		Transform:        h.Transform,
		Features:         make([]EncodedFeature, len(h.Features)),
		Extra:            extra,
	}
	for i, f := range h.Features {
		fs.Features[i].Attributes = f.Attributes
		if isNullGeometry(f.Geometry) {
			continue
		}
		fs.Features[i].Geometry, err = decodeEncodedGeometry(h.GeometryType, f.Geometry)
		if err != nil {
			return fmt.Errorf("feature %d: %w", i, err)
		}
	}
	return nil
}

// IsEncoded reports whether the Esri JSON document carries a transform, and thus holds quantized geometry
func IsEncoded(data []byte) (bool, error) {
	var probe struct {
		Transform json.RawMessage `json:"transform"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return false, err
	}
	return !isNullGeometry(probe.Transform), nil
}
