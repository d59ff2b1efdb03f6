package esri

import (
	"github.com/go-spatial/geom"
)

// Extent is an axis aligned bounding box in world units
type Extent struct {
	XMin             float64           `json:"xmin"`
	YMin             float64           `json:"ymin"`
	XMax             float64           `json:"xmax" validate:"gtefield=XMin"`
	YMax             float64           `json:"ymax" validate:"gtefield=YMin"`
	SpatialReference *SpatialReference `json:"spatialReference,omitempty"`
}

// FromGeomExtent converts a go-spatial extent (minx, miny, maxx, maxy)
func FromGeomExtent(e geom.Extent) Extent {
	return Extent{XMin: e.MinX(), YMin: e.MinY(), XMax: e.MaxX(), YMax: e.MaxY()}
}

func (e Extent) Width() float64 { return e.XMax - e.XMin }

func (e Extent) Height() float64 { return e.YMax - e.YMin }

type SpatialReference struct {
	WKID       int    `json:"wkid,omitempty"`
	LatestWKID int    `json:"latestWkid,omitempty"`
	WKT        string `json:"wkt,omitempty"`
}
