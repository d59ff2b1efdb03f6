package fileio

import (
	"fmt"
	"os"

	geojson "github.com/paulmach/go.geojson"

	"github.com/pdok/quantizer/esri"
	"github.com/pdok/quantizer/mapslicehelp"
	"github.com/pdok/quantizer/processing"
)

// GeoJSONSource reads a GeoJSON feature collection.
// Its features are split into one layer per Esri geometry type, named <file>_<type>.
type GeoJSONSource struct {
	Path string
}

var layerOrder = []esri.GeometryType{esri.GeometryPoint, esri.GeometryPolyline, esri.GeometryPolygon}

func (s GeoJSONSource) ReadLayers(layers chan<- processing.Layer) error {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return err
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return fmt.Errorf("error reading %s: %w", s.Path, err)
	}
	sets, err := splitFeatureCollection(fc)
	if err != nil {
		return fmt.Errorf("error reading %s: %w", s.Path, err)
	}
	name := layerName(s.Path)
	for _, gt := range layerOrder {
		if fs, ok := sets[gt]; ok {
			layers <- processing.Layer{Name: name + "_" + suffix(gt), Raw: fs}
		}
	}
	return nil
}

func suffix(gt esri.GeometryType) string {
	switch gt {
	case esri.GeometryPoint:
		return "point"
	case esri.GeometryPolyline:
		return "polyline"
	default:
		return "polygon"
	}
}

// splitFeatureCollection groups the features by geometry type. GeoJSON coordinates are WGS84 (EPSG:4326).
// Features without a geometry are left out, there is no layer they unambiguously belong to.
func splitFeatureCollection(fc *geojson.FeatureCollection) (map[esri.GeometryType]*esri.FeatureSet, error) {
	sets := make(map[esri.GeometryType]*esri.FeatureSet)
	for i, f := range fc.Features {
		geometries, err := toEsri(f.Geometry)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		for _, g := range geometries {
			fs, ok := sets[g.GeometryType()]
			if !ok {
				fs = &esri.FeatureSet{
					GeometryType:     g.GeometryType(),
					SpatialReference: &esri.SpatialReference{WKID: 4326},
				}
				sets[g.GeometryType()] = fs
			}
			fs.Features = append(fs.Features, esri.Feature{Attributes: attributes(f), Geometry: g})
		}
	}
	return sets, nil
}

// attributes holds the feature's id (if any) followed by its properties in key order
func attributes(f *geojson.Feature) *esri.Attributes {
	a := esri.NewAttributes()
	if f.ID != nil {
		a.Set("id", f.ID)
	}
	for _, k := range mapslicehelp.SortedKeys(f.Properties) {
		a.Set(k, f.Properties[k])
	}
	return a
}

func toEsri(g *geojson.Geometry) ([]esri.Geometry, error) {
	if g == nil {
		return nil, nil
	}
	switch g.Type {
	case geojson.GeometryPoint:
		p, err := position(g.Point)
		if err != nil {
			return nil, err
		}
		return []esri.Geometry{esri.Point{X: p[0], Y: p[1]}}, nil
	case geojson.GeometryMultiPoint:
		points := make([]esri.Geometry, 0, len(g.MultiPoint))
		for _, c := range g.MultiPoint {
			p, err := position(c)
			if err != nil {
				return nil, err
			}
			points = append(points, esri.Point{X: p[0], Y: p[1]})
		}
		return points, nil
	case geojson.GeometryLineString:
		path, err := positions(g.LineString)
		if err != nil {
			return nil, err
		}
		return []esri.Geometry{esri.Polyline{Paths: [][][2]float64{path}}}, nil
	case geojson.GeometryMultiLineString:
		paths, err := positionLists(g.MultiLineString)
		if err != nil {
			return nil, err
		}
		return []esri.Geometry{esri.Polyline{Paths: paths}}, nil
	case geojson.GeometryPolygon:
		rings, err := positionLists(g.Polygon)
		if err != nil {
			return nil, err
		}
		return []esri.Geometry{esri.Polygon{Rings: rings}}, nil
	case geojson.GeometryMultiPolygon:
		var rings [][][2]float64
		for _, polygon := range g.MultiPolygon {
			r, err := positionLists(polygon)
			if err != nil {
				return nil, err
			}
			rings = append(rings, r...)
		}
		return []esri.Geometry{esri.Polygon{Rings: rings}}, nil
	case geojson.GeometryCollection:
		var geometries []esri.Geometry
		for _, member := range g.Geometries {
			converted, err := toEsri(member)
			if err != nil {
				return nil, err
			}
			geometries = append(geometries, converted...)
		}
		return geometries, nil
	default:
		return nil, fmt.Errorf("unsupported geometry type %s", g.Type)
	}
}

func position(c []float64) ([2]float64, error) {
	if len(c) < 2 {
		return [2]float64{}, fmt.Errorf("position needs at least two coordinates, got %d", len(c))
	}
	return [2]float64{c[0], c[1]}, nil
}

func positions(cs [][]float64) ([][2]float64, error) {
	out := make([][2]float64, len(cs))
	for i, c := range cs {
		p, err := position(c)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

func positionLists(css [][][]float64) ([][][2]float64, error) {
	out := make([][][2]float64, len(css))
	for i, cs := range css {
		ps, err := positions(cs)
		if err != nil {
			return nil, err
		}
		out[i] = ps
	}
	return out, nil
}
