// Package gpkg reads the feature tables of a GeoPackage as Esri feature sets.
package gpkg

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-spatial/geom"
	"github.com/go-spatial/geom/encoding/gpkg"

	"github.com/pdok/quantizer/esri"
	"github.com/pdok/quantizer/mapslicehelp"
	"github.com/pdok/quantizer/processing"
)

type column struct {
	cid       int
	name      string
	ctype     string
	notnull   int
	dfltValue *string
	pk        int
}

type table struct {
	name    string
	columns []column
	gcolumn string
	gtype   gpkg.GeometryType
	srs     gpkg.SpatialReferenceSystem
}

// geometryTypeFromString returns the numeric value of a geometry string
func geometryTypeFromString(geometrytype string) gpkg.GeometryType {
	switch strings.ToUpper(geometrytype) {
	case "POINT":
		return gpkg.Point
	case "LINESTRING":
		return gpkg.Linestring
	case "POLYGON":
		return gpkg.Polygon
	case "MULTIPOINT":
		return gpkg.MultiPoint
	case "MULTILINESTRING":
		return gpkg.MultiLinestring
	case "MULTIPOLYGON":
		return gpkg.MultiPolygon
	case "GEOMETRYCOLLECTION":
		return gpkg.GeometryCollection
	default:
		return gpkg.Geometry
	}
}

// esriGeometryType returns the Esri geometry type a table's features end up in, or false for mixed tables
func esriGeometryType(t gpkg.GeometryType) (esri.GeometryType, bool) {
	switch t {
	case gpkg.Point, gpkg.MultiPoint:
		return esri.GeometryPoint, true
	case gpkg.Linestring, gpkg.MultiLinestring:
		return esri.GeometryPolyline, true
	case gpkg.Polygon, gpkg.MultiPolygon:
		return esri.GeometryPolygon, true
	default:
		return "", false
	}
}

// Source reads all feature tables of a GeoPackage
type Source struct {
	handle *gpkg.Handle
}

func Open(file string) (*Source, error) {
	handle, err := gpkg.Open(file)
	if err != nil {
		return nil, fmt.Errorf("error opening GeoPackage %s: %w", file, err)
	}
	return &Source{handle: handle}, nil
}

func (source *Source) Close() error {
	return source.handle.Close()
}

// ReadLayers sends one layer per feature table, or per geometry type for tables of the generic GEOMETRY type
func (source *Source) ReadLayers(layers chan<- processing.Layer) error {
	tables, err := source.tables()
	if err != nil {
		return err
	}
	for _, t := range tables {
		sets, err := source.readTable(t)
		if err != nil {
			return fmt.Errorf("error reading table %s: %w", t.name, err)
		}
		for _, gt := range []esri.GeometryType{esri.GeometryPoint, esri.GeometryPolyline, esri.GeometryPolygon} {
			fs, ok := sets[gt]
			if !ok {
				continue
			}
			name := t.name
			if len(sets) > 1 {
				name = t.name + "_" + layerSuffix(gt)
			}
			layers <- processing.Layer{Name: name, Raw: fs}
		}
	}
	return nil
}

func layerSuffix(gt esri.GeometryType) string {
	return strings.ToLower(strings.TrimPrefix(string(gt), "esriGeometry"))
}

func (source *Source) readTable(t table) (map[esri.GeometryType]*esri.FeatureSet, error) {
	sets := make(map[esri.GeometryType]*esri.FeatureSet)
	set := func(gt esri.GeometryType) *esri.FeatureSet {
		fs, ok := sets[gt]
		if !ok {
			fs = &esri.FeatureSet{GeometryType: gt, SpatialReference: spatialReference(t.srs)}
			sets[gt] = fs
		}
		return fs
	}
	declared, single := esriGeometryType(t.gtype)
	if single {
		set(declared)
	}

	rows, err := source.handle.Query(t.selectSQL())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("error reading the columns: %w", err)
	}

	for rows.Next() {
		vals := make([]interface{}, len(cols))
		valPtrs := make([]interface{}, len(cols))
		for i := 0; i < len(cols); i++ {
			valPtrs[i] = &vals[i]
		}
		if err = rows.Scan(valPtrs...); err != nil {
			return nil, fmt.Errorf("err reading row values: %w", err)
		}

		attributes := esri.NewAttributes()
		var geometries []esri.Geometry
		for i, colName := range cols {
			if colName == t.gcolumn {
				if vals[i] == nil {
					continue
				}
				b, ok := vals[i].([]byte)
				if !ok {
					return nil, fmt.Errorf("unexpected type for geometry column %s: %T", colName, vals[i])
				}
				sb, err := gpkg.DecodeGeometry(b)
				if err != nil {
					return nil, fmt.Errorf("error decoding the geometry: %w", err)
				}
				if geometries, err = toEsri(sb.Geometry); err != nil {
					return nil, err
				}
				continue
			}
			v, err := attributeValue(vals[i])
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", colName, err)
			}
			attributes.Set(colName, v)
		}

		if len(geometries) == 0 {
			if !single {
				log.Printf("  skipping feature without geometry in table %s", t.name)
				continue
			}
			fs := set(declared)
			fs.Features = append(fs.Features, esri.Feature{Attributes: attributes})
			continue
		}
		for i, g := range geometries {
			a := attributes
			if i > 0 {
				a = mapslicehelp.CopyOrderedMap(attributes)
			}
			fs := set(g.GeometryType())
			fs.Features = append(fs.Features, esri.Feature{Attributes: a, Geometry: g})
		}
	}
	return sets, rows.Err()
}

func attributeValue(v interface{}) (any, error) {
	switch v := v.(type) {
	case []uint8:
		return string(v), nil
	case int64, float64, string, bool, nil:
		return v, nil
	case time.Time:
		return v.UnixMilli(), nil
	default:
		return nil, fmt.Errorf("unexpected type for sqlite column data: %T", v)
	}
}

// toEsri converts a geometry to Esri geometries.
// A multi point becomes one point per member, other multi geometries are merged into a single polygon or polyline.
func toEsri(g geom.Geometry) ([]esri.Geometry, error) {
	switch g := g.(type) {
	case nil:
		return nil, nil
	case geom.Point:
		return []esri.Geometry{esri.Point{X: g[0], Y: g[1]}}, nil
	case geom.MultiPoint:
		points := make([]esri.Geometry, len(g))
		for i, p := range g {
			points[i] = esri.Point{X: p[0], Y: p[1]}
		}
		return points, nil
	case geom.LineString:
		return []esri.Geometry{esri.Polyline{Paths: [][][2]float64{g}}}, nil
	case geom.MultiLineString:
		return []esri.Geometry{esri.Polyline{Paths: g}}, nil
	case geom.Polygon:
		return []esri.Geometry{esri.Polygon{Rings: g}}, nil
	case geom.MultiPolygon:
		var rings [][][2]float64
		for _, p := range g {
			rings = append(rings, p...)
		}
		return []esri.Geometry{esri.Polygon{Rings: rings}}, nil
	case geom.Collection:
		var geometries []esri.Geometry
		for _, member := range g {
			converted, err := toEsri(member)
			if err != nil {
				return nil, err
			}
			geometries = append(geometries, converted...)
		}
		return geometries, nil
	default:
		return nil, fmt.Errorf("unsupported geometry type %T", g)
	}
}

func spatialReference(srs gpkg.SpatialReferenceSystem) *esri.SpatialReference {
	if strings.EqualFold(srs.Organization, "EPSG") && srs.OrganizationCoordsysID > 0 {
		return &esri.SpatialReference{WKID: srs.OrganizationCoordsysID}
	}
	if srs.Definition != "" && srs.Definition != "undefined" {
		return &esri.SpatialReference{WKT: srs.Definition}
	}
	return nil
}

func (source *Source) tables() ([]table, error) {
	query := `SELECT table_name, column_name, geometry_type_name, srs_id FROM gpkg_geometry_columns;`
	rows, err := source.handle.Query(query)
	if err != nil {
		return nil, fmt.Errorf("error during query %v: %w", query, err)
	}
	defer rows.Close()

	var tables []table
	for rows.Next() {
		var t table
		var gtype string
		var srsID int
		if err := rows.Scan(&t.name, &t.gcolumn, &gtype, &srsID); err != nil {
			return nil, fmt.Errorf("error reading the source table information: %w", err)
		}
		t.gtype = geometryTypeFromString(gtype)
		t.srs.ID = srsID
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range tables {
		if tables[i].columns, err = source.tableColumns(tables[i].name); err != nil {
			return nil, err
		}
		if tables[i].srs, err = source.spatialReferenceSystem(tables[i].srs.ID); err != nil {
			return nil, err
		}
	}
	return tables, nil
}

// selectSQL build a SELECT statement based on the table and columns
func (t table) selectSQL() string {
	var csql []string
	for _, c := range t.columns {
		csql = append(csql, `"`+c.name+`"`)
	}
	return `SELECT ` + strings.Join(csql, `,`) + ` FROM "` + t.name + `";`
}

func (source *Source) spatialReferenceSystem(id int) (gpkg.SpatialReferenceSystem, error) {
	var srs gpkg.SpatialReferenceSystem
	query := `SELECT srs_name, srs_id, organization, organization_coordsys_id, definition, description FROM gpkg_spatial_ref_sys WHERE srs_id = ?;`

	var description *string
	err := source.handle.QueryRow(query, id).Scan(&srs.Name, &srs.ID, &srs.Organization, &srs.OrganizationCoordsysID, &srs.Definition, &description)
	if err != nil {
		return srs, fmt.Errorf("error reading spatial reference system %d: %w", id, err)
	}
	if description != nil {
		srs.Description = *description
	}
	return srs, nil
}

// tableColumns collects the column information of a given table
func (source *Source) tableColumns(name string) ([]column, error) {
	rows, err := source.handle.Query(fmt.Sprintf(`PRAGMA table_info('%v');`, name))
	if err != nil {
		return nil, fmt.Errorf("error reading columns of %s: %w", name, err)
	}
	defer rows.Close()

	var columns []column
	for rows.Next() {
		var c column
		if err := rows.Scan(&c.cid, &c.name, &c.ctype, &c.notnull, &c.dfltValue, &c.pk); err != nil {
			return nil, fmt.Errorf("error getting the column information: %w", err)
		}
		columns = append(columns, c)
	}
	return columns, rows.Err()
}
