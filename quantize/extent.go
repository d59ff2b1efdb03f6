package quantize

import (
	"github.com/pdok/quantizer/esri"
	"github.com/pdok/quantizer/intgeom"
)

// GridExtent returns the grid cells covered by the encoded features of fs.
// ok is false when fs holds no geometry.
func GridExtent(fs *esri.EncodedFeatureSet) (extent intgeom.Extent, ok bool) {
	if fs == nil {
		return extent, false
	}
	add := func(e intgeom.Extent) {
		if !ok {
			extent, ok = e, true
			return
		}
		extent = extent.Union(e)
	}
	addRings := func(rings []intgeom.Ring) {
		for _, ring := range rings {
			if e, hasPositions := ring.Extent(); hasPositions {
				add(e)
			}
		}
	}
	for _, f := range fs.Features {
		switch g := f.Geometry.(type) {
		case esri.EncodedPoint:
			add(intgeom.Extent{g.X, g.Y, g.X, g.Y})
		case esri.EncodedPolygon:
			addRings(g.Rings)
		case esri.EncodedPolyline:
			addRings(g.Paths)
		}
	}
	return extent, ok
}
