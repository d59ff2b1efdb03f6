// Package esri models Esri (ArcGIS REST) feature sets, both in world coordinates
// and in their quantized, delta encoded form.
package esri

import (
	"github.com/go-spatial/geom"

	"github.com/pdok/quantizer/intgeom"
)

type GeometryType string

const (
	GeometryPoint    GeometryType = "esriGeometryPoint"
	GeometryPolygon  GeometryType = "esriGeometryPolygon"
	GeometryPolyline GeometryType = "esriGeometryPolyline"
)

// Geometry is a geometry in world coordinates.
// Implemented by Point, Polygon and Polyline only.
type Geometry interface {
	GeometryType() GeometryType
	// ToGeom converts the geometry for use with go-spatial/geom (e.g. WKT encoding)
	ToGeom() geom.Geometry
	worldGeometry()
}

// EncodedGeometry is a geometry on a quantization grid.
// Implemented by EncodedPoint, EncodedPolygon and EncodedPolyline only.
type EncodedGeometry interface {
	GeometryType() GeometryType
	encodedGeometry()
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (Point) GeometryType() GeometryType { return GeometryPoint }

func (p Point) ToGeom() geom.Geometry { return geom.Point{p.X, p.Y} }

func (Point) worldGeometry() {}

// Polygon consists of rings. Each ring is a sequence of vertices, (usually) closed by repeating the first.
type Polygon struct {
	Rings [][][2]float64 `json:"rings"`
}

func (Polygon) GeometryType() GeometryType { return GeometryPolygon }

func (p Polygon) ToGeom() geom.Geometry { return geom.Polygon(p.Rings) }

func (Polygon) worldGeometry() {}

type Polyline struct {
	Paths [][][2]float64 `json:"paths"`
}

func (Polyline) GeometryType() GeometryType { return GeometryPolyline }

func (p Polyline) ToGeom() geom.Geometry { return geom.MultiLineString(p.Paths) }

func (Polyline) worldGeometry() {}

// EncodedPoint is the grid cell a point falls in
type EncodedPoint struct {
	X int64 `json:"x"`
	Y int64 `json:"y"`
}

func (EncodedPoint) GeometryType() GeometryType { return GeometryPoint }

func (EncodedPoint) encodedGeometry() {}

type EncodedPolygon struct {
	Rings []intgeom.Ring `json:"rings"`
}

func (EncodedPolygon) GeometryType() GeometryType { return GeometryPolygon }

func (EncodedPolygon) encodedGeometry() {}

type EncodedPolyline struct {
	Paths []intgeom.Ring `json:"paths"`
}

func (EncodedPolyline) GeometryType() GeometryType { return GeometryPolyline }

func (EncodedPolyline) encodedGeometry() {}
