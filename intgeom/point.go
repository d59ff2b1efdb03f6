// Package intgeom holds geometry on an integer grid.
// Coordinates are grid cells relative to a quantization origin, not world units.
package intgeom

// Point describes a 2D grid coordinate, or the step between two of them
type Point [2]int64

// X is the column of the point
func (p Point) X() int64 { return p[0] }

// Y is the row of the point, growing downwards from the origin
func (p Point) Y() int64 { return p[1] }

// Add returns the point moved by delta d
func (p Point) Add(d Point) Point {
	return Point{p[0] + d[0], p[1] + d[1]}
}

// Sub returns the delta that leads from q to p
func (p Point) Sub(q Point) Point {
	return Point{p[0] - q[0], p[1] - q[1]}
}

// SharesZeroAxis reports whether p and d are both purely vertical or both purely horizontal.
// A zero delta shares both axes.
func (p Point) SharesZeroAxis(d Point) bool {
	return (p[0] == 0 && d[0] == 0) || (p[1] == 0 && d[1] == 0)
}
