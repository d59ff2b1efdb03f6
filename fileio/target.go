package fileio

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"syscall"

	"github.com/pdok/quantizer/processing"
)

// JSONTarget writes every output as an Esri JSON file.
// With InjectLayerName the layer name is added to the file name, e.g. target_buildings.json.
type JSONTarget struct {
	Path            string
	InjectLayerName bool
	Overwrite       bool
}

func (t JSONTarget) WriteOutputs(outputs <-chan processing.Output) error {
	for output := range outputs {
		p := t.Path
		if t.InjectLayerName {
			p = injectSuffixIntoPath(t.Path, output.Name)
		}
		if err := WriteJSON(p, output.Result.FeatureSet, t.Overwrite); err != nil {
			return err
		}
		log.Printf("  written %s", p)
	}
	return nil
}

// WriteJSON marshals v into a new file at p. An existing file is only replaced when overwrite is set.
func WriteJSON(p string, v any, overwrite bool) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("could not marshal %s: %w", p, err)
	}
	if overwrite {
		err := os.Remove(p)
		var pathError *os.PathError
		if err != nil && !(errors.As(err, &pathError) && errors.Is(pathError.Err, syscall.ENOENT)) {
			return fmt.Errorf("could not remove target file: %w", err)
		}
	}
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err = f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func injectSuffixIntoPath(p string, suffix string) string {
	dir, file := filepath.Split(p)
	ext := filepath.Ext(file)
	name := file[:len(file)-len(ext)]
	return filepath.Join(dir, name+"_"+suffix+ext)
}
