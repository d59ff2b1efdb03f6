// Package processing takes care of the logistics around reading layers from a Source
// and writing them to a Target. Not the processing operation(s) itself.
package processing

import (
	"errors"
	"log"
	"sync"

	"github.com/pdok/quantizer/quantize"
)

// ProcessLayerFunc turns one layer into an output
type ProcessLayerFunc func(Layer) (quantize.Result, error)

// QuantizeLayers returns a ProcessLayerFunc that quantizes raw layers with params
func QuantizeLayers(params quantize.Parameters) ProcessLayerFunc {
	return func(layer Layer) (quantize.Result, error) {
		if layer.Raw == nil {
			return quantize.Result{}, errors.New("layer is already quantized")
		}
		return quantize.Quantize(layer.Raw, params)
	}
}

// CleanupLayers is a ProcessLayerFunc that removes collinear vertices from quantized layers
func CleanupLayers(layer Layer) (quantize.Result, error) {
	if layer.Encoded == nil {
		return quantize.Result{}, errors.New("layer is not quantized")
	}
	return quantize.Cleanup(layer.Encoded)
}

// Summary is what ProcessLayers did
type Summary struct {
	Layers     int
	Failed     int
	Statistics quantize.Statistics
}

// processLayers applies f to the incoming layers on a number of workers.
// A layer that fails is logged and skipped, it does not affect the others.
func processLayers(layersIn <-chan Layer, outputs chan<- Output, workers int, f ProcessLayerFunc) Summary {
	var summary Summary
	var mu sync.Mutex
	wg := sync.WaitGroup{}
	for i := 0; i < max(workers, 1); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for layer := range layersIn {
				result, err := f(layer)
				mu.Lock()
				summary.Layers++
				if err != nil {
					summary.Failed++
					mu.Unlock()
					log.Printf("  skipping %s: %v", layer.Name, err)
					continue
				}
				summary.Statistics = summary.Statistics.Add(result.Statistics)
				mu.Unlock()
				logResult(layer.Name, result)
				outputs <- Output{Name: layer.Name, Result: result}
			}
		}()
	}
	wg.Wait()
	close(outputs)
	return summary
}

func logResult(name string, result quantize.Result) {
	s := result.Statistics
	log.Printf("  %s", name)
	log.Printf("            input features: %d", s.InputFeatureCount)
	log.Printf("           output features: %d", s.OutputFeatureCount)
	if s.InputVertexCount != nil && s.OutputVertexCount != nil {
		log.Printf("            input vertices: %d", *s.InputVertexCount)
		log.Printf("           output vertices: %d", *s.OutputVertexCount)
	}
	log.Printf("collinear vertices removed: %d", s.CollinearVertexCount)
	if ratio, ok := s.RemovedVertexRatio(); ok {
		log.Printf("           percent removed: %.0f%%", ratio*100)
	}
	if e, ok := quantize.GridExtent(result.FeatureSet); ok {
		log.Printf("               grid extent: [%d,%d,%d,%d] (%d x %d cells)",
			e.MinX(), e.MinY(), e.MaxX(), e.MaxY(), e.XSpan(), e.YSpan())
	}
	log.Printf("                      time: %dms", s.ElapsedTimeMs())
}

// ProcessLayers reads all layers from source, applies f on workers goroutines and writes the outputs to target.
// The first error of the source or the target is returned. Layers that fail f are counted in the Summary.
func ProcessLayers(source Source, target Target, workers int, f ProcessLayerFunc) (Summary, error) {
	layers := make(chan Layer)
	outputs := make(chan Output)

	var readErr, writeErr error
	var summary Summary
	wg := sync.WaitGroup{}
	wg.Add(3)
	go func() {
		defer wg.Done()
		writeErr = target.WriteOutputs(outputs)
		// keep draining so the workers never block on a failed target
		for range outputs {
		}
	}()
	go func() {
		defer wg.Done()
		summary = processLayers(layers, outputs, workers, f)
	}()
	go func() {
		defer wg.Done()
		defer close(layers)
		readErr = source.ReadLayers(layers)
	}()
	wg.Wait()

	return summary, errors.Join(readErr, writeErr)
}
