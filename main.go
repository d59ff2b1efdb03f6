package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/carlmjohnson/versioninfo"
	"github.com/iancoleman/strcase"
	"github.com/urfave/cli/v2"

	"github.com/pdok/quantizer/esri"
	"github.com/pdok/quantizer/fileio"
	"github.com/pdok/quantizer/geomhelp"
	"github.com/pdok/quantizer/gpkg"
	"github.com/pdok/quantizer/processing"
	"github.com/pdok/quantizer/quantize"
	"github.com/pdok/quantizer/tms20"
)

const SOURCE string = `source`
const TARGET string = `target`
const OVERWRITE string = `overwrite`
const EXTENT string = `extent`
const TILEMATRIXSET string = `tilematrixset`
const TILE string = `tile`
const TOLERANCE string = `tolerance`
const VIEWPORT string = `viewport`
const SCALE string = `scale`
const REMOVECOLLINEAR string = `removeCollinear`
const WORKERS string = `workers`
const MAXLEN string = `maxlen`

//nolint:funlen
func main() {
	app := cli.NewApp()
	app.Name = "quantizer"
	app.Usage = "A Golang geometry quantization application"
	app.Version = versioninfo.Short()

	sourceFlag := &cli.StringFlag{
		Name:     SOURCE,
		Aliases:  []string{"s"},
		Usage:    "Source file: Esri JSON (.json), GeoJSON (.geojson) or GeoPackage (.gpkg)",
		Required: true,
		EnvVars:  []string{strcase.ToScreamingSnake(SOURCE)},
	}
	targetFlag := &cli.StringFlag{
		Name:     TARGET,
		Aliases:  []string{"t"},
		Usage:    "Target Esri JSON file. With multiple source layers the layer name is added as a suffix. E.g. target_buildings.json",
		Required: true,
		EnvVars:  []string{strcase.ToScreamingSnake(TARGET)},
	}
	overwriteFlag := &cli.BoolFlag{
		Name:     OVERWRITE,
		Aliases:  []string{"o"},
		Usage:    "Overwrite a target file if it exists",
		Required: false,
		EnvVars:  []string{strcase.ToScreamingSnake(OVERWRITE)},
	}
	workersFlag := &cli.IntFlag{
		Name:     WORKERS,
		Aliases:  []string{"w"},
		Usage:    "Number of layers processed concurrently",
		Value:    1,
		Required: false,
		EnvVars:  []string{strcase.ToScreamingSnake(WORKERS)},
	}

	app.Commands = []*cli.Command{
		{
			Name:  "quantize",
			Usage: "Quantize the layers of a source file onto an integer grid",
			Flags: []cli.Flag{
				sourceFlag,
				targetFlag,
				overwriteFlag,
				&cli.StringFlag{
					Name:     EXTENT,
					Aliases:  []string{"e"},
					Usage:    `Extent whose upper left corner is the grid origin. JSON array: [xmin,ymin,xmax,ymax]`,
					Required: false,
					EnvVars:  []string{strcase.ToScreamingSnake(EXTENT)},
				},
				&cli.StringFlag{
					Name:     TILEMATRIXSET,
					Aliases:  []string{"tms"},
					Usage:    `ID of a (built-in) tile matrix set or path to a tile matrix set JSON file. Used with --tile instead of --extent`,
					Value:    "WebMercatorQuad",
					Required: false,
					EnvVars:  []string{strcase.ToScreamingSnake(TILEMATRIXSET)},
				},
				&cli.StringFlag{
					Name:     TILE,
					Usage:    `Tile (z/x/y) whose extent and cell size determine the grid. E.g.: 12/2100/1350`,
					Required: false,
					EnvVars:  []string{strcase.ToScreamingSnake(TILE)},
				},
				&cli.Float64Flag{
					Name:     TOLERANCE,
					Usage:    "World units per grid cell. Derived from the extent and viewport when not given",
					Required: false,
					EnvVars:  []string{strcase.ToScreamingSnake(TOLERANCE)},
				},
				&cli.UintFlag{
					Name:     VIEWPORT,
					Usage:    "Viewport width in pixels, used to derive the tolerance from the extent",
					Value:    512,
					Required: false,
					EnvVars:  []string{strcase.ToScreamingSnake(VIEWPORT)},
				},
				&cli.Float64Flag{
					Name:     SCALE,
					Usage:    "Display scale, pixels per grid cell",
					Value:    1,
					Required: false,
					EnvVars:  []string{strcase.ToScreamingSnake(SCALE)},
				},
				&cli.BoolFlag{
					Name:     REMOVECOLLINEAR,
					Aliases:  []string{"c"},
					Usage:    "Merge consecutive horizontal or vertical steps of polygon rings",
					Required: false,
					EnvVars:  []string{strcase.ToScreamingSnake(REMOVECOLLINEAR)},
				},
				workersFlag,
			},
			Action: func(c *cli.Context) error {
				params, err := quantizeParameters(quantizeOptionsFromFlags(c))
				if err != nil {
					return err
				}
				log.Printf("tolerance: %v, extent: [%v,%v,%v,%v]", params.Tolerance,
					params.Extent.XMin, params.Extent.YMin, params.Extent.XMax, params.Extent.YMax)
				return run(c, "quantizing", processing.QuantizeLayers(params))
			},
		},
		{
			Name:  "cleanup",
			Usage: "Remove collinear vertices from already quantized Esri JSON",
			Flags: []cli.Flag{sourceFlag, targetFlag, overwriteFlag, workersFlag},
			Action: func(c *cli.Context) error {
				return run(c, "cleaning up", processing.CleanupLayers)
			},
		},
		{
			Name:  "decode",
			Usage: "Print quantized Esri JSON as WKT in world coordinates",
			Flags: []cli.Flag{
				sourceFlag,
				&cli.UintFlag{
					Name:     MAXLEN,
					Usage:    "Truncate WKT longer than this (0 is no limit)",
					Value:    0,
					Required: false,
					EnvVars:  []string{strcase.ToScreamingSnake(MAXLEN)},
				},
			},
			Action: decode,
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context, what string, f processing.ProcessLayerFunc) error {
	source, single, closeSource, err := openSource(c.String(SOURCE))
	if err != nil {
		return err
	}
	defer closeSource()

	target := fileio.JSONTarget{
		Path:            c.String(TARGET),
		InjectLayerName: !single,
		Overwrite:       c.Bool(OVERWRITE),
	}

	log.Printf("=== start %s ===", what)
	summary, err := processing.ProcessLayers(source, target, c.Int(WORKERS), f)
	if err != nil {
		return err
	}
	log.Printf("=== done %s: %d layers, %d skipped ===", what, summary.Layers, summary.Failed)
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d layers failed", summary.Failed, summary.Layers)
	}
	return nil
}

// openSource picks a source by file extension. single reports whether the source always yields exactly one layer.
func openSource(p string) (source processing.Source, single bool, closeSource func(), err error) {
	if _, err = os.Stat(p); err != nil {
		return nil, false, nil, fmt.Errorf("error opening source: %w", err)
	}
	switch strings.ToLower(filepath.Ext(p)) {
	case ".gpkg":
		s, err := gpkg.Open(p)
		if err != nil {
			return nil, false, nil, err
		}
		return s, false, func() { s.Close() }, nil
	case ".geojson":
		return fileio.GeoJSONSource{Path: p}, false, func() {}, nil
	default:
		return fileio.EsriJSONSource{Path: p}, true, func() {}, nil
	}
}

// quantizeOptions are the command line settings that determine the quantization grid.
// Extent and Tile are empty and Tolerance is nil when not given.
type quantizeOptions struct {
	Extent          string
	TileMatrixSet   string
	Tile            string
	Tolerance       *float64
	Viewport        uint
	Scale           float64
	RemoveCollinear bool
}

func quantizeOptionsFromFlags(c *cli.Context) quantizeOptions {
	opts := quantizeOptions{
		Extent:          c.String(EXTENT),
		TileMatrixSet:   c.String(TILEMATRIXSET),
		Tile:            c.String(TILE),
		Viewport:        c.Uint(VIEWPORT),
		Scale:           c.Float64(SCALE),
		RemoveCollinear: c.Bool(REMOVECOLLINEAR),
	}
	if c.IsSet(TOLERANCE) {
		tolerance := c.Float64(TOLERANCE)
		opts.Tolerance = &tolerance
	}
	return opts
}

func quantizeParameters(opts quantizeOptions) (quantize.Parameters, error) {
	if opts.Tile != "" {
		if opts.Extent != "" {
			return quantize.Parameters{}, errors.New("use either --extent or --tile, not both")
		}
		return tileParameters(opts)
	}

	if opts.Extent == "" {
		return quantize.Parameters{}, errors.New("either --extent or --tile is required")
	}
	var bbox [4]float64
	if err := json.Unmarshal([]byte(opts.Extent), &bbox); err != nil {
		return quantize.Parameters{}, fmt.Errorf("invalid extent: %w", err)
	}
	extent := esri.Extent{XMin: bbox[0], YMin: bbox[1], XMax: bbox[2], YMax: bbox[3]}
	if opts.Tolerance != nil {
		params := quantize.Parameters{
			Tolerance:               *opts.Tolerance,
			Extent:                  extent,
			RemoveCollinearVertices: opts.RemoveCollinear,
		}
		return params, params.Validate()
	}
	return quantize.ViewParameters{
		Extent:                  extent,
		ViewportSize:            opts.Viewport,
		DisplayScale:            opts.Scale,
		RemoveCollinearVertices: opts.RemoveCollinear,
	}.Parameters()
}

// tileParameters uses the tile's extent as frame and its cell size (times the display scale) as tolerance.
// The extent carries the tile matrix set's CRS when it has a numeric code.
func tileParameters(opts quantizeOptions) (quantize.Parameters, error) {
	tms, err := loadTileMatrixSet(opts.TileMatrixSet)
	if err != nil {
		return quantize.Parameters{}, err
	}
	tile, err := tms20.ParseTile(opts.Tile)
	if err != nil {
		return quantize.Parameters{}, err
	}
	geomExtent, tolerance, err := tms.QuantizationFrame(tile, opts.Scale)
	if err != nil {
		return quantize.Parameters{}, err
	}
	if opts.Tolerance != nil {
		tolerance = *opts.Tolerance
	}
	extent := esri.FromGeomExtent(geomExtent)
	if srid, err := tms.SRID(); err == nil {
		extent.SpatialReference = &esri.SpatialReference{WKID: int(srid)}
	} else {
		log.Printf("no spatial reference for tile matrix set %s: %v", tms.ID, err)
	}
	params := quantize.Parameters{
		Tolerance:               tolerance,
		Extent:                  extent,
		RemoveCollinearVertices: opts.RemoveCollinear,
	}
	return params, params.Validate()
}

func loadTileMatrixSet(idOrPath string) (tms20.TileMatrixSet, error) {
	if strings.HasSuffix(strings.ToLower(idOrPath), ".json") {
		return tms20.LoadJSONTileMatrixSet(idOrPath)
	}
	return tms20.LoadEmbeddedTileMatrixSet(idOrPath)
}

func decode(c *cli.Context) error {
	layer, err := fileio.EsriJSONSource{Path: c.String(SOURCE)}.ReadLayer()
	if err != nil {
		return err
	}
	if layer.Encoded == nil {
		return fmt.Errorf("%s has no transform, it is not quantized", c.String(SOURCE))
	}
	fs, err := quantize.Decode(layer.Encoded)
	if err != nil {
		return err
	}
	maxLen := c.Uint(MAXLEN)
	for _, f := range fs.Features {
		if f.Geometry == nil {
			fmt.Println("EMPTY")
			continue
		}
		fmt.Println(geomhelp.WktMustEncode(f.Geometry.ToGeom(), maxLen))
	}
	return nil
}
