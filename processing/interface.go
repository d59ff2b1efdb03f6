package processing

import (
	"github.com/pdok/quantizer/esri"
	"github.com/pdok/quantizer/quantize"
)

// Layer is a named feature set read from a Source.
// Exactly one of Raw (world coordinates) and Encoded (quantized) is set.
type Layer struct {
	Name    string
	Raw     *esri.FeatureSet
	Encoded *esri.EncodedFeatureSet
}

// Output is the processed version of a Layer
type Output struct {
	Name   string
	Result quantize.Result
}

type Source interface {
	ReadLayers(chan<- Layer) error
}

type Target interface {
	WriteOutputs(<-chan Output) error
}
