// Package fileio reads layers from JSON files and writes processed layers back as Esri JSON.
package fileio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdok/quantizer/esri"
	"github.com/pdok/quantizer/processing"
)

// EsriJSONSource reads a single Esri JSON feature set.
// Whether it holds world or quantized geometry is decided by the presence of a transform.
type EsriJSONSource struct {
	Path string
}

func (s EsriJSONSource) ReadLayers(layers chan<- processing.Layer) error {
	layer, err := s.ReadLayer()
	if err != nil {
		return err
	}
	layers <- layer
	return nil
}

func (s EsriJSONSource) ReadLayer() (processing.Layer, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return processing.Layer{}, err
	}
	layer := processing.Layer{Name: layerName(s.Path)}
	encoded, err := esri.IsEncoded(data)
	if err != nil {
		return layer, fmt.Errorf("error reading %s: %w", s.Path, err)
	}
	if encoded {
		layer.Encoded = &esri.EncodedFeatureSet{}
		err = layer.Encoded.UnmarshalJSON(data)
	} else {
		layer.Raw = &esri.FeatureSet{}
		err = layer.Raw.UnmarshalJSON(data)
	}
	if err != nil {
		return layer, fmt.Errorf("error reading %s: %w", s.Path, err)
	}
	return layer, nil
}

// layerName is the file name without directory and extension
func layerName(p string) string {
	file := filepath.Base(p)
	return strings.TrimSuffix(file, filepath.Ext(file))
}
