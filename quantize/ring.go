package quantize

import (
	"github.com/pdok/quantizer/intgeom"
)

// rings with fewer entries cannot form a polygon
const minRingLength = 3

// vertexCounter accumulates the vertex statistics of one operation
type vertexCounter struct {
	input     int
	output    int
	collinear int
}

// runEncoder builds a delta encoded ring.
// The last step is held as an open run, so that collinear steps can be merged into it before it is emitted.
type runEncoder struct {
	ring  intgeom.Ring
	run   intgeom.Point
	open  bool
	merge bool
	// merged counts the steps that were absorbed into a run
	merged int
}

func newRunEncoder(anchor intgeom.Point, capacity int, merge bool) *runEncoder {
	ring := make(intgeom.Ring, 1, capacity)
	ring[0] = anchor
	return &runEncoder{ring: ring, merge: merge}
}

func (e *runEncoder) step(d intgeom.Point) {
	if e.merge && e.open && e.run.SharesZeroAxis(d) {
		e.run = e.run.Add(d)
		e.merged++
		return
	}
	e.flush()
	e.run = d
	e.open = true
}

func (e *runEncoder) flush() {
	if e.open {
		e.ring = append(e.ring, e.run)
		e.open = false
	}
}

func (e *runEncoder) finish() intgeom.Ring {
	e.flush()
	return e.ring
}

// keep adds the result of an encoded ring to the counter, and reports whether the ring survives
func (c *vertexCounter) keep(ring intgeom.Ring, merged int) bool {
	c.collinear += merged
	if len(ring) < minRingLength {
		return false
	}
	c.output += len(ring)
	return true
}

// encodeRing quantizes a ring of world coordinates into an anchor followed by deltas.
// Vertices that land on the same grid position as their predecessor are skipped.
func encodeRing(ring [][2]float64, frame Frame, removeCollinear bool, c *vertexCounter) (intgeom.Ring, bool, error) {
	c.input += len(ring)
	if len(ring) == 0 {
		return nil, false, nil
	}
	anchor, ok := frame.Anchor(ring[0][0], ring[0][1])
	if !ok {
		return nil, false, outOfGrid(ring[0][0], ring[0][1])
	}
	enc := newRunEncoder(anchor, len(ring), removeCollinear)
	prev := anchor
	for _, vertex := range ring[1:] {
		p, ok := frame.Cursor(vertex[0], vertex[1])
		if !ok {
			return nil, false, outOfGrid(vertex[0], vertex[1])
		}
		if p == prev {
			continue
		}
		enc.step(p.Sub(prev))
		prev = p
	}
	encoded := enc.finish()
	return encoded, c.keep(encoded, enc.merged), nil
}

// cleanupRing merges the collinear steps of a ring that is already delta encoded
func cleanupRing(ring intgeom.Ring, c *vertexCounter) (intgeom.Ring, bool) {
	c.input += len(ring)
	if len(ring) == 0 {
		return nil, false
	}
	enc := newRunEncoder(ring[0], len(ring), true)
	for _, d := range ring[1:] {
		enc.step(d)
	}
	cleaned := enc.finish()
	return cleaned, c.keep(cleaned, enc.merged)
}
