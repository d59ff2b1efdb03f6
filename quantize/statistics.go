package quantize

import (
	"time"
)

// Statistics describe what an operation did to a feature set
type Statistics struct {
	InputFeatureCount  int
	OutputFeatureCount int
	// InputVertexCount and OutputVertexCount are nil when vertex counts do not apply (points)
	InputVertexCount     *int
	OutputVertexCount    *int
	CollinearVertexCount int
	Elapsed              time.Duration
}

// ElapsedTimeMs returns the elapsed time in whole milliseconds
func (s Statistics) ElapsedTimeMs() int64 {
	return s.Elapsed.Milliseconds()
}

// RemovedVertexRatio returns the fraction of input vertices that did not make it to the output.
// ok is false when vertex counts do not apply or there were no input vertices.
func (s Statistics) RemovedVertexRatio() (ratio float64, ok bool) {
	if s.InputVertexCount == nil || s.OutputVertexCount == nil || *s.InputVertexCount == 0 {
		return 0, false
	}
	return 1 - float64(*s.OutputVertexCount)/float64(*s.InputVertexCount), true
}

// Add returns the sum of s and o. Vertex counts are summed over the operands that have them.
func (s Statistics) Add(o Statistics) Statistics {
	return Statistics{
		InputFeatureCount:    s.InputFeatureCount + o.InputFeatureCount,
		OutputFeatureCount:   s.OutputFeatureCount + o.OutputFeatureCount,
		InputVertexCount:     addOptional(s.InputVertexCount, o.InputVertexCount),
		OutputVertexCount:    addOptional(s.OutputVertexCount, o.OutputVertexCount),
		CollinearVertexCount: s.CollinearVertexCount + o.CollinearVertexCount,
		Elapsed:              s.Elapsed + o.Elapsed,
	}
}

func addOptional(a, b *int) *int {
	switch {
	case a == nil && b == nil:
		return nil
	case a == nil:
		return intPtr(*b)
	case b == nil:
		return intPtr(*a)
	default:
		return intPtr(*a + *b)
	}
}

func intPtr(i int) *int {
	return &i
}
