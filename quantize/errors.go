package quantize

import (
	"fmt"

	"github.com/pdok/quantizer/esri"
)

// ConfigurationError is returned when quantization parameters (or a transform) cannot produce a valid grid
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid configuration: %s: %v", e.Reason, e.Err)
	}
	return "invalid configuration: " + e.Reason
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// outOfGrid is the error for a vertex that cannot be put on the grid
func outOfGrid(x, y float64) error {
	return &ConfigurationError{Reason: fmt.Sprintf("coordinate (%v, %v) is not finite or outside the grid range", x, y)}
}

// UnsupportedGeometryError is returned when an operation has no encoding for a geometry type
type UnsupportedGeometryError struct {
	Operation    string
	GeometryType esri.GeometryType
}

func (e *UnsupportedGeometryError) Error() string {
	return fmt.Sprintf("%s does not support geometry type %q", e.Operation, e.GeometryType)
}
