package esri

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

type OriginPosition string

const UpperLeft OriginPosition = "upperLeft"

// Transform describes how grid coordinates of an encoded feature set map back to world coordinates:
// world x = translate x + grid x * scale x, world y = translate y - grid y * scale y.
type Transform struct {
	OriginPosition OriginPosition `json:"originPosition" validate:"oneof=upperLeft"`
	Scale          [2]float64     `json:"scale" validate:"dive,gt=0"`
	Translate      [2]float64     `json:"translate"`
}

func (t Transform) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("invalid transform: %w", err)
	}
	return nil
}
