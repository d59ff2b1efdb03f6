package intgeom

// Ring is a delta encoded sequence of grid points.
// The first entry is an absolute position, every following entry is the step from the previous position.
type Ring []Point

// Positions returns the absolute grid position of every entry of the ring
func (r Ring) Positions() []Point {
	if len(r) == 0 {
		return nil
	}
	positions := make([]Point, len(r))
	cursor := r[0]
	positions[0] = cursor
	for i := 1; i < len(r); i++ {
		cursor = cursor.Add(r[i])
		positions[i] = cursor
	}
	return positions
}

// Extent returns the bounding box of the ring's positions. ok is false for an empty ring.
func (r Ring) Extent() (e Extent, ok bool) {
	positions := r.Positions()
	if len(positions) == 0 {
		return e, false
	}
	e = Extent{positions[0][0], positions[0][1], positions[0][0], positions[0][1]}
	for _, p := range positions[1:] {
		e = e.Expand(p)
	}
	return e, true
}
