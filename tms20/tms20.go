// Package tms20 implements the parts of the OGC Tile Matrix Set standard (v2.0)
// needed to derive quantization frames from tiles.
// See https://www.ogc.org/standard/tms/
package tms20

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/go-spatial/geom"
	"github.com/go-spatial/geom/slippy"
	"github.com/perimeterx/marshmallow"
)

// TMID is the (integer-like) identifier of a tile matrix within its set
type TMID = int

var (
	//go:embed tilematrixsets/*.json
	embeddedTileMatrixSetsJSONFS embed.FS
	embeddedTileMatrixSetsCache  = make(map[string]*TileMatrixSet)
)

func LoadJSONTileMatrixSet(path string) (TileMatrixSet, error) {
	var tms TileMatrixSet
	tmsJSON, err := os.ReadFile(path)
	if err != nil {
		return tms, err
	}
	err = json.Unmarshal(tmsJSON, &tms)
	return tms, err
}

func LoadEmbeddedTileMatrixSet(id string) (TileMatrixSet, error) {
	var tms TileMatrixSet
	cached, ok := embeddedTileMatrixSetsCache[id]
	if ok {
		return *cached, nil
	}
	tmsJSON, err := embeddedTileMatrixSetsJSONFS.ReadFile("tilematrixsets/" + id + ".json")
	if err != nil {
		return tms, err
	}
	err = json.Unmarshal(tmsJSON, &tms)
	if err != nil {
		return tms, err
	}
	embeddedTileMatrixSetsCache[id] = &tms
	return tms, nil
}

// TileMatrixSet is a definition of a tile matrix set following the Tile Matrix Set standard.
type TileMatrixSet struct {
	// Tile matrix set identifier
	ID string `json:"id,omitempty"`
	// Title of this tile matrix set, normally used for display to a human
	Title string `json:"title,omitempty"`
	// Reference to an official source for this TileMatrixSet
	URI         string   `validate:"omitempty,uri" json:"uri,omitempty"`
	OrderedAxes []string `validate:"omitnil,min=1" json:"orderedAxes"`
	// Coordinate Reference System (CRS)
	CRS URICRS `json:"-"`
	// Reference to a well-known scale set
	WellKnownScaleSet string `validate:"omitempty,uri" json:"wellKnownScaleSet,omitempty"`
	// Describes scale levels and its tile matrices
	TileMatrices map[TMID]TileMatrix `validate:"required,min=1" json:"-"`
}

func (tms *TileMatrixSet) UnmarshalJSON(data []byte) error {
	err := defaults.Set(tms)
	if err != nil {
		return err
	}

	specials, err := marshmallow.Unmarshal(data, tms, marshmallow.WithExcludeKnownFieldsFromMap(true))
	if err != nil {
		return err
	}

	rawCrs, ok := specials["crs"]
	if !ok {
		return fmt.Errorf(`missing key "crs"`)
	}
	err = tms.CRS.UnmarshalJSONFromMap(rawCrs)
	if err != nil {
		return err
	}

	rawTileMatrices, ok := specials["tileMatrices"]
	if !ok {
		return fmt.Errorf(`missing key "tileMatrices"`)
	}
	tms.TileMatrices, err = unmarshalTileMatrices(rawTileMatrices)
	if err != nil {
		return err
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	return validate.Struct(tms)
}

func unmarshalTileMatrices(rawTileMatrices interface{}) (map[TMID]TileMatrix, error) {
	rawTileMatricesList, ok := rawTileMatrices.([]interface{})
	if !ok {
		return nil, fmt.Errorf(`"tileMatrices" should be an array`)
	}
	tileMatrices := make(map[TMID]TileMatrix, len(rawTileMatricesList))
	for _, rawTileMatrix := range rawTileMatricesList {
		rawTileMatrixMap, ok := rawTileMatrix.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf(`"tileMatrices" should be objects`)
		}
		var tileMatrix TileMatrix
		err := tileMatrix.UnmarshalJSONFromMap(rawTileMatrixMap)
		if err != nil {
			return nil, err
		}
		tileMatrixID, err := strconv.ParseInt(tileMatrix.ID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("only integer-like ids are supported for tile matrices: %w", err)
		}
		tileMatrices[TMID(tileMatrixID)] = tileMatrix
	}
	return tileMatrices, nil
}

var (
	crsURIRegexURL = regexp.MustCompile("https?://.+/def/crs/(?P<authority>[^/]+)/[^/]+/(?P<code>[^/]+)$")
	crsURIRegexURN = regexp.MustCompile("^urn:ogc:def:crs:(?P<authority>[^:]+)::(?P<code>[^:]+)$")
)

// URICRS is a coordinate reference system given by reference, either as a plain string or as {"uri": ...}
type URICRS struct {
	uri           string
	authorityName string
	authorityCode string
}

func (crs *URICRS) UnmarshalJSONFromMap(data interface{}) error {
	var dataMap map[string]interface{}
	switch d := data.(type) {
	case string:
		dataMap = map[string]interface{}{"uri": d}
	case map[string]interface{}:
		dataMap = d
	default:
		return fmt.Errorf(`wrong type for crs: %T`, data)
	}

	if rawDescription, ok := dataMap["description"]; ok {
		if _, ok = rawDescription.(string); !ok {
			return fmt.Errorf(`description property is not a string but a %T`, rawDescription)
		}
	}

	rawURI, ok := dataMap["uri"]
	if !ok {
		return fmt.Errorf(`uri property not found`)
	}
	crs.uri, ok = rawURI.(string)
	if !ok {
		return fmt.Errorf(`uri property is not a string but a %T`, rawURI)
	}

	uriParts := crsURIRegexURL.FindStringSubmatch(crs.uri)
	if uriParts == nil {
		uriParts = crsURIRegexURN.FindStringSubmatch(crs.uri)
	}
	if uriParts == nil {
		return fmt.Errorf(`could not parse crs uri "%v"`, crs.uri)
	}
	crs.authorityName = uriParts[1]
	crs.authorityCode = uriParts[2]
	return nil
}

func (crs *URICRS) URI() string {
	return crs.uri
}

func (crs *URICRS) AuthorityName() string {
	return crs.authorityName
}

func (crs *URICRS) AuthorityCode() string {
	return crs.authorityCode
}

// A 2D Point in the CRS indicated elsewhere
type TwoDPoint [2]float64

func (p TwoDPoint) XY() [2]float64 {
	return p
}

// A tile matrix, usually corresponding to a particular zoom level of a TileMatrixSet.
type TileMatrix struct {
	// Identifier selecting one of the scales defined in the TileMatrixSet
	ID string `validate:"required" json:"id"`
	// Scale denominator of this tile matrix
	ScaleDenominator float64 `validate:"required,gt=0" json:"scaleDenominator"`
	// Cell size of this tile matrix
	CellSize float64 `validate:"required,gt=0" json:"cellSize"`
	// The corner of the tile matrix (_topLeft_ or _bottomLeft_) used as the origin for numbering tile rows and columns.
	CornerOfOrigin CornerOfOrigin `default:"topLeft" validate:"oneof=topLeft bottomLeft" json:"cornerOfOrigin,omitempty"`
	// Precise position in CRS coordinates of the corner of origin for this tile matrix.
	PointOfOrigin TwoDPoint `json:"pointOfOrigin"`
	// Width of each tile of this tile matrix in pixels
	TileWidth uint `validate:"required,min=1" json:"tileWidth"`
	// Height of each tile of this tile matrix in pixels
	TileHeight uint `validate:"required,min=1" json:"tileHeight"`
	// Width of the matrix (number of tiles in width)
	MatrixWidth uint `validate:"required,min=1" json:"matrixWidth"`
	// Height of the matrix (number of tiles in height)
	MatrixHeight uint `validate:"required,min=1" json:"matrixHeight"`
}

func (tm *TileMatrix) UnmarshalJSONFromMap(data map[string]interface{}) error {
	err := defaults.Set(tm)
	if err != nil {
		return err
	}

	_, err = marshmallow.UnmarshalFromJSONMap(data, tm, marshmallow.WithExcludeKnownFieldsFromMap(true))
	if err != nil {
		return err
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	return validate.Struct(tm)
}

type CornerOfOrigin string

const (
	TopLeft    CornerOfOrigin = "topLeft"
	BottomLeft CornerOfOrigin = "bottomLeft"
)

// SRID returns the numeric code of the CRS, e.g. 3857 for EPSG:3857
func (tms *TileMatrixSet) SRID() (uint, error) {
	code, err := strconv.ParseUint(tms.CRS.AuthorityCode(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf(`could not parse uri authority code: %w`, err)
	}
	return uint(code), nil
}

func (tms *TileMatrixSet) TileMatrix(tmID TMID) (TileMatrix, error) {
	tm, ok := tms.TileMatrices[tmID]
	if !ok {
		return tm, fmt.Errorf("tile matrix %d not found in tile matrix set %s", tmID, tms.ID)
	}
	return tm, nil
}

// TileExtent returns the extent of a single tile
func (tms *TileMatrixSet) TileExtent(tile *slippy.Tile) (geom.Extent, error) {
	tm, err := tms.TileMatrix(TMID(tile.Z))
	if err != nil {
		return geom.Extent{}, err
	}
	if tile.X >= tm.MatrixWidth || tile.Y >= tm.MatrixHeight {
		return geom.Extent{}, fmt.Errorf("tile %d/%d/%d is outside of tile matrix %s", tile.Z, tile.X, tile.Y, tm.ID)
	}

	tileSizeX := float64(tm.TileWidth) * tm.CellSize
	tileSizeY := float64(tm.TileHeight) * tm.CellSize
	minX := tm.PointOfOrigin.XY()[0] + float64(tile.X)*tileSizeX
	var minY float64
	switch tm.CornerOfOrigin {
	case BottomLeft:
		minY = tm.PointOfOrigin.XY()[1] + float64(tile.Y)*tileSizeY
	default:
		minY = tm.PointOfOrigin.XY()[1] - float64(tile.Y+1)*tileSizeY
	}
	return geom.Extent{minX, minY, minX + tileSizeX, minY + tileSizeY}, nil
}

// QuantizationFrame returns the extent of a tile and the tolerance that makes one grid cell
// cover displayScale pixels of the tile
func (tms *TileMatrixSet) QuantizationFrame(tile *slippy.Tile, displayScale float64) (geom.Extent, float64, error) {
	extent, err := tms.TileExtent(tile)
	if err != nil {
		return extent, 0, err
	}
	tm, err := tms.TileMatrix(TMID(tile.Z))
	if err != nil {
		return extent, 0, err
	}
	return extent, tm.CellSize * displayScale, nil
}

// ParseTile parses a tile in the z/x/y notation
func ParseTile(s string) (*slippy.Tile, error) {
	var z, x, y uint
	n, err := fmt.Sscanf(s, "%d/%d/%d", &z, &x, &y)
	if err != nil || n != 3 {
		return nil, fmt.Errorf(`could not parse tile "%s", expected z/x/y`, s)
	}
	return slippy.NewTile(z, x, y), nil
}
