package intgeom

// Extent represents the minx, miny, maxx and maxy of a set of grid points
type Extent [4]int64

// Expand returns the smallest extent that holds both e and p
func (e Extent) Expand(p Point) Extent {
	return Extent{
		min(e[0], p[0]),
		min(e[1], p[1]),
		max(e[2], p[0]),
		max(e[3], p[1]),
	}
}

// Union returns the smallest extent that holds both e and o
func (e Extent) Union(o Extent) Extent {
	return e.Expand(Point{o[0], o[1]}).Expand(Point{o[2], o[3]})
}

// MaxX is the larger of the x values.
func (e Extent) MaxX() int64 {
	return e[2]
}

// MinX  is the smaller of the x values.
func (e Extent) MinX() int64 {
	return e[0]
}

// MaxY is the larger of the y values.
func (e Extent) MaxY() int64 {
	return e[3]
}

// MinY is the smaller of the y values.
func (e Extent) MinY() int64 {
	return e[1]
}

// XSpan is the number of grid cells the Extent covers in X
func (e Extent) XSpan() int64 {
	return e[2] - e[0]
}

// YSpan is the number of grid cells the Extent covers in Y
func (e Extent) YSpan() int64 {
	return e[3] - e[1]
}
