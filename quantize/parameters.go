package quantize

import (
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"

	"github.com/pdok/quantizer/esri"
	"github.com/pdok/quantizer/mathhelp"
)

// Parameters determine the grid geometry is quantized onto
type Parameters struct {
	// Tolerance is the number of world units covered by one grid cell
	Tolerance float64 `validate:"gt=0"`
	// Extent is the frame of reference, its upper left corner becomes the grid's origin
	Extent esri.Extent
	// RemoveCollinearVertices merges consecutive purely horizontal (or purely vertical) steps of a ring
	RemoveCollinearVertices bool
}

// Validate returns a *ConfigurationError if p would result in NaN or infinite grid coordinates
func (p Parameters) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(p); err != nil {
		return &ConfigurationError{Reason: "quantization parameters", Err: err}
	}
	for _, f := range []float64{p.Tolerance, p.Extent.XMin, p.Extent.YMin, p.Extent.XMax, p.Extent.YMax} {
		if !mathhelp.IsFinite(f) {
			return &ConfigurationError{Reason: "tolerance and extent must be finite"}
		}
	}
	return nil
}

// ViewParameters derive Parameters from how an extent is displayed:
// the tolerance is the extent's width divided by the viewport size, times the display scale.
type ViewParameters struct {
	Extent esri.Extent
	// ViewportSize is the width of the view in pixels
	ViewportSize uint `default:"512" validate:"gt=0"`
	// DisplayScale is the number of pixels a grid cell should cover
	DisplayScale            float64 `default:"1" validate:"gt=0"`
	RemoveCollinearVertices bool
}

func (v ViewParameters) Parameters() (Parameters, error) {
	if err := defaults.Set(&v); err != nil {
		return Parameters{}, err
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(v); err != nil {
		return Parameters{}, &ConfigurationError{Reason: "view parameters", Err: err}
	}
	p := Parameters{
		Tolerance:               v.Extent.Width() / float64(v.ViewportSize) * v.DisplayScale,
		Extent:                  v.Extent,
		RemoveCollinearVertices: v.RemoveCollinearVertices,
	}
	return p, p.Validate()
}
