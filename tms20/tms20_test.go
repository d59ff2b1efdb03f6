package tms20

import (
	"encoding/json"
	"path"
	"path/filepath"
	"testing"

	"github.com/go-spatial/geom"
	"github.com/go-spatial/geom/slippy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const webMercatorHalf = 20037508.3427892

func TestLoadEmbeddedTileMatrixSet(t *testing.T) {
	got, err := LoadEmbeddedTileMatrixSet("WebMercatorQuad")
	require.NoErrorf(t, err, "LoadEmbeddedTileMatrixSet() error = %v", err)

	srid, err := got.SRID()
	require.NoError(t, err)
	require.Equal(t, uint(3857), srid)
	require.Len(t, got.TileMatrices, 25)
	assert.Equal(t, "WebMercatorQuad", got.ID)

	_, err = LoadEmbeddedTileMatrixSet("DoesNotExist")
	require.Error(t, err)
}

func TestLoadJSONTileMatrixSet(t *testing.T) {
	jsonFilePath, err := filepath.Abs(path.Join("testdata", "SmallBottomLeft.json"))
	require.NoError(t, err)
	got, err := LoadJSONTileMatrixSet(jsonFilePath)
	require.NoErrorf(t, err, "LoadJSONTileMatrixSet() error = %v", err)

	srid, err := got.SRID()
	require.NoError(t, err)
	require.Equal(t, uint(28992), srid)
	require.Equal(t, "EPSG", got.CRS.AuthorityName())
	require.Len(t, got.TileMatrices, 2)
	assert.Equal(t, BottomLeft, got.TileMatrices[1].CornerOfOrigin)

	_, err = LoadJSONTileMatrixSet(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestTileMatrixSet_UnmarshalJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "missing crs", data: `{"id": "x", "tileMatrices": []}`},
		{name: "unparsable crs", data: `{"id": "x", "crs": "EPSG:28992", "tileMatrices": []}`},
		{name: "no tile matrices", data: `{"id": "x", "crs": "http://www.opengis.net/def/crs/EPSG/0/28992", "tileMatrices": []}`},
		{name: "invalid tile matrix", data: `{"id": "x", "crs": "http://www.opengis.net/def/crs/EPSG/0/28992", "tileMatrices": [{"id": "0", "cellSize": -1}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tms TileMatrixSet
			assert.Error(t, json.Unmarshal([]byte(tt.data), &tms))
		})
	}
}

func TestTileMatrixSet_SRID(t *testing.T) {
	var tms TileMatrixSet
	require.NoError(t, json.Unmarshal([]byte(`{
	  "id": "x",
	  "crs": {"uri": "http://www.opengis.net/def/crs/OGC/1.3/CRS84", "description": "lon/lat"},
	  "tileMatrices": [{"id": "0", "scaleDenominator": 1, "cellSize": 1, "pointOfOrigin": [0, 0],
	    "tileWidth": 1, "tileHeight": 1, "matrixWidth": 1, "matrixHeight": 1}]
	}`), &tms))
	assert.Equal(t, "OGC", tms.CRS.AuthorityName())
	_, err := tms.SRID()
	assert.Error(t, err)
}

func TestTileMatrixSet_TileExtent(t *testing.T) {
	bottomLeft, err := LoadJSONTileMatrixSet(path.Join("testdata", "SmallBottomLeft.json"))
	require.NoError(t, err)
	webMercator, err := LoadEmbeddedTileMatrixSet("WebMercatorQuad")
	require.NoError(t, err)

	got, err := bottomLeft.TileExtent(slippy.NewTile(1, 1, 0))
	require.NoError(t, err)
	assert.Equal(t, geom.Extent{512, 0, 1024, 512}, got)

	got, err = webMercator.TileExtent(slippy.NewTile(1, 0, 0))
	require.NoError(t, err)
	assert.InDelta(t, -webMercatorHalf, got.MinX(), 1e-3)
	assert.InDelta(t, 0, got.MinY(), 1e-3)
	assert.InDelta(t, 0, got.MaxX(), 1e-3)
	assert.InDelta(t, webMercatorHalf, got.MaxY(), 1e-3)

	_, err = bottomLeft.TileExtent(slippy.NewTile(1, 2, 0))
	assert.Error(t, err)
}

func TestTileMatrixSet_QuantizationFrame(t *testing.T) {
	bottomLeft, err := LoadJSONTileMatrixSet(path.Join("testdata", "SmallBottomLeft.json"))
	require.NoError(t, err)

	extent, tolerance, err := bottomLeft.QuantizationFrame(slippy.NewTile(0, 0, 0), 2)
	require.NoError(t, err)
	assert.Equal(t, geom.Extent{0, 0, 1024, 1024}, extent)
	assert.Equal(t, 8.0, tolerance)
}

func TestParseTile(t *testing.T) {
	tile, err := ParseTile("3/2/1")
	require.NoError(t, err)
	assert.Equal(t, slippy.NewTile(3, 2, 1), tile)

	_, err = ParseTile("3/2")
	assert.Error(t, err)
	_, err = ParseTile("a/b/c")
	assert.Error(t, err)
}
