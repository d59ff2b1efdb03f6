package quantize

import (
	"github.com/pdok/quantizer/esri"
	"github.com/pdok/quantizer/intgeom"
	"github.com/pdok/quantizer/mathhelp"
)

// Frame maps world coordinates onto a grid with its origin in the upper left corner.
// Grid y grows downwards while world y grows upwards.
type Frame struct {
	OriginX float64
	OriginY float64
	ScaleX  float64
	ScaleY  float64
}

// NewFrame anchors a grid with cells of tolerance world units at the upper left of extent
func NewFrame(extent esri.Extent, tolerance float64) Frame {
	return Frame{
		OriginX: extent.XMin,
		OriginY: extent.YMax,
		ScaleX:  tolerance,
		ScaleY:  tolerance,
	}
}

// FrameFromTransform returns the frame an encoded feature set was quantized with
func FrameFromTransform(t esri.Transform) Frame {
	return Frame{
		OriginX: t.Translate[0],
		OriginY: t.Translate[1],
		ScaleX:  t.Scale[0],
		ScaleY:  t.Scale[1],
	}
}

func (f Frame) Transform() esri.Transform {
	return esri.Transform{
		OriginPosition: esri.UpperLeft,
		Scale:          [2]float64{f.ScaleX, f.ScaleY},
		Translate:      [2]float64{f.OriginX, f.OriginY},
	}
}

// Anchor returns the cell (x, y) falls in. Used for absolute positions: points and the first vertex of a ring.
// ok is false when (x, y) is not finite or too far from the origin to be held by the grid.
func (f Frame) Anchor(x, y float64) (p intgeom.Point, ok bool) {
	gx, okX := mathhelp.FloorToGrid(x, f.OriginX, f.ScaleX)
	gy, okY := mathhelp.FloorToGrid(f.OriginY, y, f.ScaleY)
	return intgeom.Point{gx, gy}, okX && okY
}

// Cursor returns the grid line crossing closest to (x, y). Used for the vertices following a ring's anchor.
// ok is false when (x, y) is not finite or too far from the origin to be held by the grid.
func (f Frame) Cursor(x, y float64) (p intgeom.Point, ok bool) {
	gx, okX := mathhelp.RoundToGrid(x, f.OriginX, f.ScaleX)
	gy, okY := mathhelp.RoundToGrid(f.OriginY, y, f.ScaleY)
	return intgeom.Point{gx, gy}, okX && okY
}

// ToWorld returns the world coordinates of grid position p
func (f Frame) ToWorld(p intgeom.Point) [2]float64 {
	return [2]float64{
		f.OriginX + float64(p.X())*f.ScaleX,
		f.OriginY - float64(p.Y())*f.ScaleY,
	}
}
